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
	"skoleadmin/backend/pkg/isoweek"
	"skoleadmin/backend/pkg/modulperiode"
)

// ── 周计划模块业务错误 ──

var (
	ErrUgeplanNotFound = errors.New("ugeplanen findes ikke")
	ErrUgeplanNotDraft = errors.New("kun kladder kan duplikeres")
	ErrWeekInvalid     = errors.New("ugyldig uge")
	ErrPlanDaysInvalid = errors.New("hver ugedag må kun optræde én gang")
	ErrCopyWeekEmpty   = errors.New("der er ingen ugeplaner i kildeugen")
)

// PlanningService 周计划业务接口
//
// 周次一律使用 ISO 8601 周（周一为一周第一天，含 1 月 4 日的周为第 1 周）。
type PlanningService interface {
	// Week 周导航；ref 为 nil 时取本周
	Week(ctx context.Context, ref *isoweek.WeekYear) (*dto.WeekResponse, error)
	List(ctx context.Context, req *dto.UgeplanListRequest) ([]dto.UgeplanResponse, error)
	ListDrafts(ctx context.Context, holdID string) ([]dto.UgeplanResponse, error)
	Create(ctx context.Context, req *dto.CreateUgeplanRequest) (*dto.UgeplanResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateUgeplanRequest) (*dto.UgeplanResponse, error)
	Delete(ctx context.Context, id string) error
	// DuplicateDraft 以草稿为模板在目标周生成正式周计划，草稿本身保留
	DuplicateDraft(ctx context.Context, id string, req *dto.DuplicateKladdeRequest) (*dto.UgeplanResponse, error)
	// CopyToWeek 将单个周计划复制到 offset 周之后，草稿状态保持不变
	CopyToWeek(ctx context.Context, id string, offset int) (*dto.UgeplanResponse, error)
	// CopyWeek 将一周的正式周计划整体复制到 offset 周之后
	CopyWeek(ctx context.Context, req *dto.CopyWeekRequest) ([]dto.UgeplanResponse, error)
}

type planningService struct {
	repo   *repository.Repository
	engine modulperiode.Engine
	clock  Clock
	logger *zap.Logger
}

// NewPlanningService 创建 PlanningService 实例
func NewPlanningService(repo *repository.Repository, engine modulperiode.Engine, clock Clock, logger *zap.Logger) PlanningService {
	return &planningService{repo: repo, engine: engine, clock: clock, logger: logger}
}

// ────────────────────── Week ──────────────────────

func (s *planningService) Week(_ context.Context, ref *isoweek.WeekYear) (*dto.WeekResponse, error) {
	wy := isoweek.Of(s.clock.Now())
	if ref != nil {
		if err := checkWeek(ref.Week, ref.Year); err != nil {
			return nil, err
		}
		wy = *ref
	}

	monday, sunday := isoweek.Range(wy.Week, wy.Year)
	prev, next := wy.Previous(), wy.Next()

	return &dto.WeekResponse{
		Week:          wy.Week,
		Year:          wy.Year,
		Label:         fmt.Sprintf("Uge %d, %d", wy.Week, wy.Year),
		Monday:        monday.Format("2006-01-02"),
		Sunday:        sunday.Format("2006-01-02"),
		Previous:      dto.WeekRef{Week: prev.Week, Year: prev.Year},
		Next:          dto.WeekRef{Week: next.Week, Year: next.Year},
		Modulperioder: s.engine.Of(monday),
	}, nil
}

// ────────────────────── List ──────────────────────

func (s *planningService) List(ctx context.Context, req *dto.UgeplanListRequest) ([]dto.UgeplanResponse, error) {
	if err := checkWeek(req.Uge, req.Aar); err != nil {
		return nil, err
	}
	if _, err := findHold(ctx, s.repo, s.logger, req.HoldID); err != nil {
		return nil, err
	}

	plans, err := s.repo.Ugeplan.ListByWeek(ctx, req.HoldID, req.Uge, req.Aar)
	if err != nil {
		s.logger.Error("查询周计划失败", zap.String("hold_id", req.HoldID), zap.Error(err))
		return nil, err
	}
	return toUgeplanResponses(plans), nil
}

// ────────────────────── ListDrafts ──────────────────────

func (s *planningService) ListDrafts(ctx context.Context, holdID string) ([]dto.UgeplanResponse, error) {
	if _, err := findHold(ctx, s.repo, s.logger, holdID); err != nil {
		return nil, err
	}

	plans, err := s.repo.Ugeplan.ListDrafts(ctx, holdID)
	if err != nil {
		s.logger.Error("查询草稿失败", zap.String("hold_id", holdID), zap.Error(err))
		return nil, err
	}
	return toUgeplanResponses(plans), nil
}

// ────────────────────── Create ──────────────────────

func (s *planningService) Create(ctx context.Context, req *dto.CreateUgeplanRequest) (*dto.UgeplanResponse, error) {
	if err := checkWeek(req.Uge, req.Aar); err != nil {
		return nil, err
	}
	if _, err := findHold(ctx, s.repo, s.logger, req.HoldID); err != nil {
		return nil, err
	}
	days, err := normalizePlanDays(req.Dage)
	if err != nil {
		return nil, err
	}

	plan := &model.Ugeplan{
		HoldID:   req.HoldID,
		Uge:      req.Uge,
		Aar:      req.Aar,
		Navn:     req.Navn,
		ErKladde: req.ErKladde,
		Dage:     days,
	}
	if err := s.repo.Ugeplan.Create(ctx, plan); err != nil {
		s.logger.Error("创建周计划失败", zap.String("hold_id", req.HoldID), zap.Error(err))
		return nil, err
	}
	return toUgeplanResponse(plan), nil
}

// ────────────────────── Update ──────────────────────

func (s *planningService) Update(ctx context.Context, id string, req *dto.UpdateUgeplanRequest) (*dto.UgeplanResponse, error) {
	plan, err := s.getUgeplan(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Version = req.Version

	if req.Uge != nil {
		plan.Uge = *req.Uge
	}
	if req.Aar != nil {
		plan.Aar = *req.Aar
	}
	if err := checkWeek(plan.Uge, plan.Aar); err != nil {
		return nil, err
	}
	if req.Navn != nil {
		plan.Navn = *req.Navn
	}
	if req.ErKladde != nil {
		plan.ErKladde = *req.ErKladde
	}
	if req.Dage != nil {
		days, err := normalizePlanDays(*req.Dage)
		if err != nil {
			return nil, err
		}
		plan.Dage = days
	}

	// 版本不一致时由 Repository 返回 ErrOptimisticLock
	if err := s.repo.Ugeplan.Update(ctx, plan); err != nil {
		s.logger.Warn("更新周计划失败", zap.String("ugeplan_id", id), zap.Error(err))
		return nil, err
	}
	return toUgeplanResponse(plan), nil
}

// ────────────────────── Delete ──────────────────────

func (s *planningService) Delete(ctx context.Context, id string) error {
	if _, err := s.getUgeplan(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Ugeplan.Delete(ctx, id); err != nil {
		s.logger.Error("删除周计划失败", zap.String("ugeplan_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── DuplicateDraft ──────────────────────

func (s *planningService) DuplicateDraft(ctx context.Context, id string, req *dto.DuplicateKladdeRequest) (*dto.UgeplanResponse, error) {
	draft, err := s.getUgeplan(ctx, id)
	if err != nil {
		return nil, err
	}
	if !draft.ErKladde {
		return nil, ErrUgeplanNotDraft
	}

	target := isoweek.Of(s.clock.Now())
	switch {
	case req.Uge != nil && req.Aar != nil:
		target = isoweek.WeekYear{Week: *req.Uge, Year: *req.Aar}
	case req.Uge != nil || req.Aar != nil:
		return nil, fmt.Errorf("%w: uge og år skal angives sammen", ErrWeekInvalid)
	}
	if err := checkWeek(target.Week, target.Year); err != nil {
		return nil, err
	}

	plan := &model.Ugeplan{
		HoldID:   draft.HoldID,
		Uge:      target.Week,
		Aar:      target.Year,
		Navn:     draft.Navn,
		ErKladde: false,
		Dage:     append(model.PlanDays(nil), draft.Dage...),
	}
	if err := s.repo.Ugeplan.Create(ctx, plan); err != nil {
		s.logger.Error("由草稿生成周计划失败", zap.String("ugeplan_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("草稿已复制为周计划",
		zap.String("kladde_id", id),
		zap.String("ugeplan_id", plan.UgeplanID),
		zap.Stringer("uge", target),
	)
	return toUgeplanResponse(plan), nil
}

// ────────────────────── CopyToWeek ──────────────────────

func (s *planningService) CopyToWeek(ctx context.Context, id string, offset int) (*dto.UgeplanResponse, error) {
	source, err := s.getUgeplan(ctx, id)
	if err != nil {
		return nil, err
	}

	target := isoweek.Offset(source.Uge, source.Aar, offset)
	plan := &model.Ugeplan{
		HoldID:   source.HoldID,
		Uge:      target.Week,
		Aar:      target.Year,
		Navn:     source.Navn,
		ErKladde: source.ErKladde,
		Dage:     append(model.PlanDays(nil), source.Dage...),
	}
	if err := s.repo.Ugeplan.Create(ctx, plan); err != nil {
		s.logger.Error("复制周计划失败", zap.String("ugeplan_id", id), zap.Error(err))
		return nil, err
	}
	return toUgeplanResponse(plan), nil
}

// ────────────────────── CopyWeek ──────────────────────

func (s *planningService) CopyWeek(ctx context.Context, req *dto.CopyWeekRequest) ([]dto.UgeplanResponse, error) {
	if err := checkWeek(req.Uge, req.Aar); err != nil {
		return nil, err
	}
	if _, err := findHold(ctx, s.repo, s.logger, req.HoldID); err != nil {
		return nil, err
	}

	source, err := s.repo.Ugeplan.ListByWeek(ctx, req.HoldID, req.Uge, req.Aar)
	if err != nil {
		s.logger.Error("查询源周计划失败", zap.String("hold_id", req.HoldID), zap.Error(err))
		return nil, err
	}
	if len(source) == 0 {
		return nil, ErrCopyWeekEmpty
	}

	target := isoweek.Offset(req.Uge, req.Aar, req.Offset)
	copies := make([]model.Ugeplan, 0, len(source))

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for i := range source {
			plan := model.Ugeplan{
				HoldID: req.HoldID,
				Uge:    target.Week,
				Aar:    target.Year,
				Navn:   source[i].Navn,
				Dage:   append(model.PlanDays(nil), source[i].Dage...),
			}
			if err := tx.Ugeplan.Create(ctx, &plan); err != nil {
				return err
			}
			copies = append(copies, plan)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("复制周计划失败",
			zap.String("hold_id", req.HoldID),
			zap.Stringer("target", target),
			zap.Error(err),
		)
		return nil, err
	}

	return toUgeplanResponses(copies), nil
}

// ── 内部辅助 ──

func (s *planningService) getUgeplan(ctx context.Context, id string) (*model.Ugeplan, error) {
	plan, err := s.repo.Ugeplan.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUgeplanNotFound
		}
		s.logger.Error("查询周计划失败", zap.String("ugeplan_id", id), zap.Error(err))
		return nil, err
	}
	return plan, nil
}

// checkWeek 周次必须落在该年实际存在的 ISO 周内（52 或 53）
func checkWeek(uge, aar int) error {
	wy := isoweek.WeekYear{Week: uge, Year: aar}
	if !wy.Valid() {
		return fmt.Errorf("%w: %d har %d uger, fik uge %d", ErrWeekInvalid, aar, isoweek.WeeksInYear(aar), uge)
	}
	return nil
}

// normalizePlanDays 按周一至周五排序；空列表补齐五个空白日
func normalizePlanDays(in []dto.PlanDayDTO) (model.PlanDays, error) {
	days := make(model.PlanDays, 0, len(model.Weekdays))
	if len(in) == 0 {
		for _, wd := range model.Weekdays {
			days = append(days, model.PlanDay{Dag: wd})
		}
		return days, nil
	}

	byDay := make(map[model.Weekday]dto.PlanDayDTO, len(in))
	for _, d := range in {
		day := model.Weekday(d.Dag)
		if _, dup := byDay[day]; dup || !day.Valid() {
			return nil, ErrPlanDaysInvalid
		}
		byDay[day] = d
	}

	for _, wd := range model.Weekdays {
		d, ok := byDay[wd]
		if !ok {
			continue
		}
		days = append(days, model.PlanDay{
			Dag:          wd,
			Formaal:      d.Formaal,
			Laeringsmaal: d.Laeringsmaal,
			Indhold:      d.Indhold,
			Materialer:   d.Materialer,
		})
	}
	return days, nil
}

func toUgeplanResponse(p *model.Ugeplan) *dto.UgeplanResponse {
	days := make([]dto.PlanDayDTO, 0, len(p.Dage))
	for _, d := range p.Dage {
		days = append(days, dto.PlanDayDTO{
			Dag:          string(d.Dag),
			Formaal:      d.Formaal,
			Laeringsmaal: d.Laeringsmaal,
			Indhold:      d.Indhold,
			Materialer:   d.Materialer,
		})
	}
	return &dto.UgeplanResponse{
		ID:        p.UgeplanID,
		HoldID:    p.HoldID,
		Uge:       p.Uge,
		Aar:       p.Aar,
		Navn:      p.Navn,
		ErKladde:  p.ErKladde,
		Dage:      days,
		Version:   p.Version,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func toUgeplanResponses(plans []model.Ugeplan) []dto.UgeplanResponse {
	result := make([]dto.UgeplanResponse, 0, len(plans))
	for i := range plans {
		result = append(result, *toUgeplanResponse(&plans[i]))
	}
	return result
}
