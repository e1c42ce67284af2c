package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"skoleadmin/backend/internal/dto"
	"skoleadmin/backend/internal/model"
	"skoleadmin/backend/internal/repository"
	"skoleadmin/backend/pkg/modulperiode"
)

// ── 教学班模块业务错误 ──

var (
	ErrHoldNotFound    = errors.New("holdet findes ikke")
	ErrHoldDateInvalid = errors.New("slutdato skal ligge på eller efter startdato")
)

// HoldService 教学班业务接口
type HoldService interface {
	Create(ctx context.Context, req *dto.CreateHoldRequest) (*dto.HoldResponse, error)
	GetByID(ctx context.Context, id string) (*dto.HoldResponse, error)
	List(ctx context.Context, req *dto.HoldListRequest) ([]dto.HoldResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateHoldRequest) (*dto.HoldResponse, error)
	Delete(ctx context.Context, id string) error
}

type holdService struct {
	repo   *repository.Repository
	engine modulperiode.Engine
	clock  Clock
	logger *zap.Logger
}

// NewHoldService 创建 HoldService 实例
func NewHoldService(repo *repository.Repository, engine modulperiode.Engine, clock Clock, logger *zap.Logger) HoldService {
	return &holdService{repo: repo, engine: engine, clock: clock, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *holdService) Create(ctx context.Context, req *dto.CreateHoldRequest) (*dto.HoldResponse, error) {
	if err := s.checkOpen(req.Modulperiode); err != nil {
		return nil, err
	}

	start, end, err := modulperiode.DateRange(req.Modulperiode)
	if err != nil {
		return nil, invalidModulperiode(err)
	}
	if start, err = parseOptionalDate(req.Startdato, start); err != nil {
		return nil, err
	}
	if end, err = parseOptionalDate(req.Slutdato, end); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrHoldDateInvalid
	}

	navn := req.Navn
	if navn == "" {
		navn = defaultHoldName(req.Modulperiode, req.Fag, req.Laerer)
	}

	hold := &model.Hold{
		Navn:         navn,
		Afdeling:     req.Afdeling,
		Laerer:       req.Laerer,
		Fag:          req.Fag,
		Modulperiode: req.Modulperiode,
		Startdato:    start,
		Slutdato:     end,
	}

	if err := s.repo.Hold.Create(ctx, hold); err != nil {
		s.logger.Error("创建教学班失败", zap.String("modulperiode", req.Modulperiode), zap.Error(err))
		return nil, err
	}

	s.logger.Info("教学班已创建",
		zap.String("hold_id", hold.HoldID),
		zap.String("modulperiode", hold.Modulperiode),
	)
	return s.toHoldResponse(hold), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *holdService) GetByID(ctx context.Context, id string) (*dto.HoldResponse, error) {
	hold, err := findHold(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	return s.toHoldResponse(hold), nil
}

// ────────────────────── List ──────────────────────

// List 状态不落库，按当天日期推导后在内存中过滤
func (s *holdService) List(ctx context.Context, req *dto.HoldListRequest) ([]dto.HoldResponse, error) {
	holds, err := s.repo.Hold.List(ctx, repository.HoldFilter{
		Afdeling:     req.Afdeling,
		Modulperiode: req.Modulperiode,
	})
	if err != nil {
		s.logger.Error("列出教学班失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.HoldResponse, 0, len(holds))
	for i := range holds {
		resp := s.toHoldResponse(&holds[i])
		if req.Status != "" && resp.Status != req.Status {
			continue
		}
		result = append(result, *resp)
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *holdService) Update(ctx context.Context, id string, req *dto.UpdateHoldRequest) (*dto.HoldResponse, error) {
	hold, err := findHold(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}

	if req.Modulperiode != nil && *req.Modulperiode != hold.Modulperiode {
		if err := s.checkOpen(*req.Modulperiode); err != nil {
			return nil, err
		}
		// 换模块期时日期跟随新模块期，除非请求同时指定了日期
		start, end, err := modulperiode.DateRange(*req.Modulperiode)
		if err != nil {
			return nil, invalidModulperiode(err)
		}
		hold.Modulperiode = *req.Modulperiode
		hold.Startdato, hold.Slutdato = start, end
	}

	if req.Navn != nil {
		hold.Navn = *req.Navn
	}
	if req.Afdeling != nil {
		hold.Afdeling = *req.Afdeling
	}
	if req.Laerer != nil {
		hold.Laerer = *req.Laerer
	}
	if req.Fag != nil {
		hold.Fag = *req.Fag
	}
	if req.Startdato != nil {
		if hold.Startdato, err = parseOptionalDate(*req.Startdato, hold.Startdato); err != nil {
			return nil, err
		}
	}
	if req.Slutdato != nil {
		if hold.Slutdato, err = parseOptionalDate(*req.Slutdato, hold.Slutdato); err != nil {
			return nil, err
		}
	}
	if hold.Slutdato.Before(hold.Startdato) {
		return nil, ErrHoldDateInvalid
	}

	if err := s.repo.Hold.Update(ctx, hold); err != nil {
		s.logger.Error("更新教学班失败", zap.String("hold_id", id), zap.Error(err))
		return nil, err
	}
	return s.toHoldResponse(hold), nil
}

// ────────────────────── Delete ──────────────────────

func (s *holdService) Delete(ctx context.Context, id string) error {
	if _, err := findHold(ctx, s.repo, s.logger, id); err != nil {
		return err
	}
	if err := s.repo.Hold.Delete(ctx, id); err != nil {
		s.logger.Error("删除教学班失败", zap.String("hold_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助 ──

// checkOpen 只允许为未结束的模块期建班
func (s *holdService) checkOpen(id string) error {
	if _, _, err := modulperiode.DateRange(id); err != nil {
		return invalidModulperiode(err)
	}
	v := s.engine.CanCreateClassFor(id, s.clock.Now())
	if !v.Valid {
		return &ModulperiodeClosedError{ID: id, Reason: v.Reason}
	}
	return nil
}

// findHold 按 ID 查询教学班，不存在时返回 ErrHoldNotFound
func findHold(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Hold, error) {
	hold, err := repo.Hold.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHoldNotFound
		}
		logger.Error("查询教学班失败", zap.String("hold_id", id), zap.Error(err))
		return nil, err
	}
	return hold, nil
}

func (s *holdService) toHoldResponse(h *model.Hold) *dto.HoldResponse {
	now := s.clock.Now()
	resp := &dto.HoldResponse{
		ID:           h.HoldID,
		Navn:         h.Navn,
		Afdeling:     h.Afdeling,
		Laerer:       h.Laerer,
		Fag:          h.Fag,
		Modulperiode: h.Modulperiode,
		Startdato:    h.Startdato.Format("2006-01-02"),
		Slutdato:     h.Slutdato.Format("2006-01-02"),
		CreatedAt:    h.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    h.UpdatedAt.Format(time.RFC3339),
	}
	// 库中数据已受 CHECK 约束，解析失败时仅留空展示字段
	if info, err := s.engine.Parse(h.Modulperiode, now); err == nil {
		resp.Status = string(info.Status())
		resp.ModulperiodeDisplayName, _ = s.engine.DisplayName(h.Modulperiode, now)
	}
	return resp
}

func defaultHoldName(mp, fag, laerer string) string {
	return fmt.Sprintf("%s-%s-%s", mp, fag, laerer)
}

// parseOptionalDate 解析 YYYY-MM-DD；空串返回 fallback
func parseOptionalDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrHoldDateInvalid
	}
	return t, nil
}
