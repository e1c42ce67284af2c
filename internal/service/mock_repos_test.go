package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"skoleadmin/backend/internal/model"
	"skoleadmin/backend/internal/repository"
	pkgerrors "skoleadmin/backend/pkg/errors"
	"skoleadmin/backend/pkg/redis"
)

// ── 固定时钟 ──

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func clockAt(y int, m time.Month, d int) fixedClock {
	return fixedClock{now: time.Date(y, m, d, 10, 0, 0, 0, time.UTC)}
}

// ── Mock HoldRepository ──

type mockHoldRepo struct {
	holds map[string]*model.Hold
	seq   int
}

func newMockHoldRepo() *mockHoldRepo {
	return &mockHoldRepo{holds: make(map[string]*model.Hold)}
}

func (m *mockHoldRepo) Create(_ context.Context, hold *model.Hold) error {
	if hold.HoldID == "" {
		m.seq++
		hold.HoldID = fmt.Sprintf("hold-%d", m.seq)
	}
	cp := *hold
	m.holds[hold.HoldID] = &cp
	return nil
}

func (m *mockHoldRepo) GetByID(_ context.Context, id string) (*model.Hold, error) {
	if h, ok := m.holds[id]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHoldRepo) List(_ context.Context, filter repository.HoldFilter) ([]model.Hold, error) {
	var result []model.Hold
	for _, h := range m.holds {
		if filter.Afdeling != "" && h.Afdeling != filter.Afdeling {
			continue
		}
		if filter.Modulperiode != "" && h.Modulperiode != filter.Modulperiode {
			continue
		}
		result = append(result, *h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].HoldID < result[j].HoldID })
	return result, nil
}

func (m *mockHoldRepo) Update(_ context.Context, hold *model.Hold) error {
	cp := *hold
	m.holds[hold.HoldID] = &cp
	return nil
}

func (m *mockHoldRepo) Delete(_ context.Context, id string) error {
	delete(m.holds, id)
	return nil
}

// ── Mock UgeplanRepository ──

type mockUgeplanRepo struct {
	plans map[string]*model.Ugeplan
	seq   int
	// failCreateAfter 大于 0 时，第 n 次之后的 Create 返回错误，用于验证事务
	failCreateAfter int
	creates         int
}

func newMockUgeplanRepo() *mockUgeplanRepo {
	return &mockUgeplanRepo{plans: make(map[string]*model.Ugeplan)}
}

func (m *mockUgeplanRepo) Create(_ context.Context, plan *model.Ugeplan) error {
	m.creates++
	if m.failCreateAfter > 0 && m.creates > m.failCreateAfter {
		return fmt.Errorf("mock: create failed")
	}
	if plan.UgeplanID == "" {
		m.seq++
		plan.UgeplanID = fmt.Sprintf("plan-%d", m.seq)
	}
	if plan.Version == 0 {
		plan.Version = 1
	}
	cp := *plan
	m.plans[plan.UgeplanID] = &cp
	return nil
}

func (m *mockUgeplanRepo) GetByID(_ context.Context, id string) (*model.Ugeplan, error) {
	if p, ok := m.plans[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUgeplanRepo) ListByWeek(_ context.Context, holdID string, uge, aar int) ([]model.Ugeplan, error) {
	return m.filter(func(p *model.Ugeplan) bool {
		return p.HoldID == holdID && p.Uge == uge && p.Aar == aar && !p.ErKladde
	}), nil
}

func (m *mockUgeplanRepo) ListDrafts(_ context.Context, holdID string) ([]model.Ugeplan, error) {
	return m.filter(func(p *model.Ugeplan) bool {
		return p.HoldID == holdID && p.ErKladde
	}), nil
}

func (m *mockUgeplanRepo) ListByHoldAndWeekRange(_ context.Context, holdID string, fromAar, fromUge, toAar, toUge int) ([]model.Ugeplan, error) {
	from, to := fromAar*100+fromUge, toAar*100+toUge
	result := m.filter(func(p *model.Ugeplan) bool {
		key := p.Aar*100 + p.Uge
		return p.HoldID == holdID && !p.ErKladde && key >= from && key <= to
	})
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Aar*100+result[i].Uge < result[j].Aar*100+result[j].Uge
	})
	return result, nil
}

func (m *mockUgeplanRepo) Update(_ context.Context, plan *model.Ugeplan) error {
	stored, ok := m.plans[plan.UgeplanID]
	if !ok || stored.Version != plan.Version {
		return pkgerrors.ErrOptimisticLock
	}
	plan.Version++
	cp := *plan
	m.plans[plan.UgeplanID] = &cp
	return nil
}

func (m *mockUgeplanRepo) Delete(_ context.Context, id string) error {
	delete(m.plans, id)
	return nil
}

func (m *mockUgeplanRepo) filter(keep func(p *model.Ugeplan) bool) []model.Ugeplan {
	var ids []string
	for id, p := range m.plans {
		if keep(p) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	result := make([]model.Ugeplan, 0, len(ids))
	for _, id := range ids {
		result = append(result, *m.plans[id])
	}
	return result
}

// ── Mock Cache ──

type mockCache struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (m *mockCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	m.gets++
	raw, ok := m.entries[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(raw, dst)
}

func (m *mockCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

// ── 组装 ──

func newTestRepository() (*repository.Repository, *mockHoldRepo, *mockUgeplanRepo) {
	holdRepo := newMockHoldRepo()
	ugeplanRepo := newMockUgeplanRepo()
	return &repository.Repository{Hold: holdRepo, Ugeplan: ugeplanRepo}, holdRepo, ugeplanRepo
}
