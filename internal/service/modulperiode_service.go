package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"skoleadmin/backend/config"
	"skoleadmin/backend/internal/dto"
	"skoleadmin/backend/pkg/modulperiode"
	"skoleadmin/backend/pkg/redis"
)

// ── 模块期模块业务错误 ──

var (
	ErrModulperiodeInvalid = errors.New("ugyldig modulperiode")
	ErrModulperiodeClosed  = errors.New("modulperioden er afsluttet")
)

// ModulperiodeClosedError 模块期已结束，Reason 为可直接展示给用户的丹麦语说明
type ModulperiodeClosedError struct {
	ID     string
	Reason string
}

func (e *ModulperiodeClosedError) Error() string { return e.Reason }

func (e *ModulperiodeClosedError) Is(target error) bool { return target == ErrModulperiodeClosed }

// invalidModulperiode 包装解析错误，保留 *modulperiode.ParseError 供 errors.As 取原因
func invalidModulperiode(err error) error {
	return fmt.Errorf("%w: %w", ErrModulperiodeInvalid, err)
}

// Cache 模块期列表缓存；*redis.Client 满足该接口
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

const optionsCacheTTL = time.Hour

// ModulperiodeService 模块期业务接口
type ModulperiodeService interface {
	List(ctx context.Context, req *dto.ModulperiodeListRequest) ([]dto.ModulperiodeResponse, error)
	Options(ctx context.Context) ([]dto.ModulperiodeResponse, error)
	Current(ctx context.Context) ([]dto.ModulperiodeResponse, error)
	Describe(ctx context.Context, id string) (*dto.ModulperiodeResponse, error)
	Validate(ctx context.Context, id string) (*dto.ModulperiodeValidationResponse, error)
	Calendar(ctx context.Context, yearsAhead *int) ([]byte, error)
}

type modulperiodeService struct {
	cfg    *config.CalendarConfig
	engine modulperiode.Engine
	cache  Cache
	clock  Clock
	logger *zap.Logger
}

// NewModulperiodeService 创建 ModulperiodeService 实例；cache 可为 nil
func NewModulperiodeService(
	cfg *config.CalendarConfig,
	engine modulperiode.Engine,
	cache Cache,
	clock Clock,
	logger *zap.Logger,
) ModulperiodeService {
	return &modulperiodeService{cfg: cfg, engine: engine, cache: cache, clock: clock, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *modulperiodeService) List(_ context.Context, req *dto.ModulperiodeListRequest) ([]dto.ModulperiodeResponse, error) {
	now := s.clock.Now()

	yearsAhead := s.cfg.YearsAhead
	if req.YearsAhead != nil {
		yearsAhead = *req.YearsAhead
	}

	ids := s.engine.Generate(yearsAhead, now)
	if req.OnlyValid {
		valid, err := s.engine.FilterValid(ids, now)
		if err != nil {
			return nil, invalidModulperiode(err)
		}
		ids = valid
	}

	sorted, err := modulperiode.Sort(ids, req.Descending)
	if err != nil {
		return nil, invalidModulperiode(err)
	}
	return s.describeAll(sorted, now)
}

// ────────────────────── Options ──────────────────────

// Options 建班下拉框的可选模块期，按天缓存
func (s *modulperiodeService) Options(ctx context.Context) ([]dto.ModulperiodeResponse, error) {
	now := s.clock.Now()
	key := fmt.Sprintf("modulperiode:options:%s:%s:%d:%d",
		modulperiode.DateOf(now).Format("2006-01-02"), s.engine.Policy, s.cfg.YearsAhead, s.cfg.SelectableLimit)

	if s.cache != nil {
		var cached []dto.ModulperiodeResponse
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !isCacheMiss(err) {
			s.logger.Warn("读取模块期缓存失败", zap.String("key", key), zap.Error(err))
		}
	}

	ids := s.engine.Selectable(now, s.cfg.YearsAhead, s.cfg.SelectableLimit)
	result, err := s.describeAll(ids, now)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, result, optionsCacheTTL); err != nil {
			s.logger.Warn("写入模块期缓存失败", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}

// ────────────────────── Current ──────────────────────

func (s *modulperiodeService) Current(_ context.Context) ([]dto.ModulperiodeResponse, error) {
	now := s.clock.Now()
	return s.describeAll(s.engine.Of(now), now)
}

// ────────────────────── Describe ──────────────────────

func (s *modulperiodeService) Describe(_ context.Context, id string) (*dto.ModulperiodeResponse, error) {
	now := s.clock.Now()
	info, err := s.engine.Parse(id, now)
	if err != nil {
		return nil, invalidModulperiode(err)
	}
	return s.toResponse(info, now), nil
}

// ────────────────────── Validate ──────────────────────

func (s *modulperiodeService) Validate(_ context.Context, id string) (*dto.ModulperiodeValidationResponse, error) {
	v := s.engine.CanCreateClassFor(id, s.clock.Now())
	return &dto.ModulperiodeValidationResponse{ID: id, Valid: v.Valid, Reason: v.Reason}, nil
}

// ────────────────────── Calendar ──────────────────────

// calendarNamespace 事件 UID 的命名空间，同一模块期在每次导出中 UID 不变
var calendarNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("skoleadmin/modulperioder"))

// Calendar 以 iCalendar 格式导出模块期，每个模块期一个全天事件
func (s *modulperiodeService) Calendar(_ context.Context, yearsAhead *int) ([]byte, error) {
	now := s.clock.Now()

	years := s.cfg.YearsAhead
	if yearsAhead != nil {
		years = *yearsAhead
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//skoleadmin//modulperioder//DA")
	cal.SetXWRCalName("Modulperioder")
	cal.SetXWRTimezone(s.cfg.Timezone)

	for _, id := range s.engine.Generate(years, now) {
		info, err := s.engine.Parse(id, now)
		if err != nil {
			return nil, invalidModulperiode(err)
		}

		event := cal.AddEvent(uuid.NewSHA1(calendarNamespace, []byte(id)).String() + "@skoleadmin")
		event.SetDtStampTime(now.UTC())
		event.SetSummary(fmt.Sprintf("%s - %s %d, Modul %d", id, info.Half.Name(), info.Year, info.Module))
		event.SetDescription(fmt.Sprintf("Modulperiode %s (%s)", id, info.Status()))
		event.SetAllDayStartAt(info.StartDate)
		// DTEND 为不含当天的结束日
		event.SetAllDayEndAt(info.EndDate.AddDate(0, 0, 1))
	}

	return []byte(cal.Serialize()), nil
}

// ── 内部辅助 ──

func (s *modulperiodeService) describeAll(ids []string, now time.Time) ([]dto.ModulperiodeResponse, error) {
	result := make([]dto.ModulperiodeResponse, 0, len(ids))
	for _, id := range ids {
		info, err := s.engine.Parse(id, now)
		if err != nil {
			return nil, invalidModulperiode(err)
		}
		result = append(result, *s.toResponse(info, now))
	}
	return result, nil
}

func (s *modulperiodeService) toResponse(info *modulperiode.Info, now time.Time) *dto.ModulperiodeResponse {
	name, _ := s.engine.DisplayName(info.Raw, now)
	return &dto.ModulperiodeResponse{
		ID:          info.Raw,
		DisplayName: name,
		Year:        info.Year,
		Half:        int(info.Half),
		Season:      info.Half.Name(),
		Module:      info.Module,
		StartDate:   info.StartDate.Format("2006-01-02"),
		EndDate:     info.EndDate.Format("2006-01-02"),
		Status:      string(info.Status()),
		IsPast:      info.IsPast,
		IsCurrent:   info.IsCurrent,
		IsFuture:    info.IsFuture,
	}
}

func isCacheMiss(err error) bool {
	return errors.Is(err, redis.ErrCacheMiss)
}
