package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"skoleadmin/backend/config"
	"skoleadmin/backend/internal/dto"
	"skoleadmin/backend/pkg/modulperiode"
)

// ── 测试辅助 ──

func setupTestModulperiodeService(cache Cache, clock Clock) ModulperiodeService {
	cfg := &config.CalendarConfig{
		Timezone:        "Europe/Copenhagen",
		YearsAhead:      2,
		SelectableLimit: 3,
		BoundaryPolicy:  "inclusive",
	}
	return NewModulperiodeService(cfg, cfg.Engine(), cache, clock, zap.NewNop())
}

func ids(list []dto.ModulperiodeResponse) []string {
	out := make([]string, 0, len(list))
	for _, mp := range list {
		out = append(out, mp.ID)
	}
	return out
}

// ── Options 测试 ──

func TestModulperiodeService_Options_Cached(t *testing.T) {
	cache := newMockCache()
	svc := setupTestModulperiodeService(cache, clockAt(2026, time.June, 1))

	first, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options 应成功: %v", err)
	}
	got := strings.Join(ids(first), ",")
	if got != "26-1-M3,26-2-M1,26-2-M2" {
		t.Errorf("期望 26-1-M3,26-2-M1,26-2-M2，实际=%s", got)
	}
	if first[0].Status != "Igangværende" || !first[0].IsCurrent {
		t.Errorf("26-1-M3 应为进行中，实际=%+v", first[0])
	}

	second, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("第二次 Options 应成功: %v", err)
	}
	if len(second) != 3 || cache.sets != 1 || cache.gets != 2 {
		t.Errorf("第二次调用应命中缓存: sets=%d gets=%d len=%d", cache.sets, cache.gets, len(second))
	}
}

func TestModulperiodeService_Options_NoCache(t *testing.T) {
	svc := setupTestModulperiodeService(nil, clockAt(2026, time.June, 1))

	result, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("无缓存时 Options 应成功: %v", err)
	}
	if len(result) != 3 {
		t.Errorf("期望 3 个可选模块期，实际=%d", len(result))
	}
}

// ── List 测试 ──

func TestModulperiodeService_List(t *testing.T) {
	svc := setupTestModulperiodeService(nil, clockAt(2026, time.June, 1))

	all, err := svc.List(context.Background(), &dto.ModulperiodeListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(all) != 24 || all[0].ID != "25-1-M1" {
		t.Errorf("默认应返回 2025-2028 共 24 个且升序，实际 len=%d first=%s", len(all), all[0].ID)
	}

	valid, err := svc.List(context.Background(), &dto.ModulperiodeListRequest{OnlyValid: true, Descending: true})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(valid) != 16 || valid[0].ID != "28-2-M3" {
		t.Errorf("期望 16 个且以 28-2-M3 开头，实际 len=%d first=%s", len(valid), valid[0].ID)
	}
	for _, mp := range valid {
		if mp.IsPast {
			t.Errorf("only_valid 不应包含已结束的 %s", mp.ID)
		}
	}

	zero := 0
	narrow, err := svc.List(context.Background(), &dto.ModulperiodeListRequest{YearsAhead: &zero})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(narrow) != 12 {
		t.Errorf("years_ahead=0 应返回 12 个，实际=%d", len(narrow))
	}
}

// ── Current / Describe / Validate 测试 ──

func TestModulperiodeService_Current_SharedBoundary(t *testing.T) {
	svc := setupTestModulperiodeService(nil, clockAt(2025, time.September, 22))

	result, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("Current 应成功: %v", err)
	}
	if got := strings.Join(ids(result), ","); got != "25-2-M1,25-2-M2" {
		t.Errorf("边界日应返回两个模块期，实际=%s", got)
	}
}

func TestModulperiodeService_Describe(t *testing.T) {
	svc := setupTestModulperiodeService(nil, clockAt(2026, time.June, 1))

	mp, err := svc.Describe(context.Background(), "25-2-M3")
	if err != nil {
		t.Fatalf("Describe 应成功: %v", err)
	}
	if mp.StartDate != "2025-11-17" || mp.EndDate != "2026-01-19" {
		t.Errorf("日期不正确: %s ~ %s", mp.StartDate, mp.EndDate)
	}
	if mp.Season != "Efterår" || mp.Status != "Afsluttet" {
		t.Errorf("期望 Efterår/Afsluttet，实际 %s/%s", mp.Season, mp.Status)
	}
	if mp.DisplayName != "25-2-M3 - Efterår 2025, Modul 3 (Afsluttet)" {
		t.Errorf("展示名不正确: %s", mp.DisplayName)
	}
}

func TestModulperiodeService_Describe_Invalid(t *testing.T) {
	svc := setupTestModulperiodeService(nil, clockAt(2026, time.June, 1))

	_, err := svc.Describe(context.Background(), "26-3-M1")
	if !errors.Is(err, ErrModulperiodeInvalid) {
		t.Fatalf("期望 ErrModulperiodeInvalid，实际: %v", err)
	}
	var perr *modulperiode.ParseError
	if !errors.As(err, &perr) || perr.Reason == "" {
		t.Errorf("应能取到解析原因，实际: %v", err)
	}
}

func TestModulperiodeService_Validate(t *testing.T) {
	svc := setupTestModulperiodeService(nil, clockAt(2026, time.June, 1))

	closed, err := svc.Validate(context.Background(), "25-2-M3")
	if err != nil {
		t.Fatalf("Validate 应成功: %v", err)
	}
	if closed.Valid || !strings.Contains(closed.Reason, "afsluttet") {
		t.Errorf("已结束模块期应不可建班，实际=%+v", closed)
	}

	open, _ := svc.Validate(context.Background(), "26-1-M3")
	if !open.Valid {
		t.Errorf("进行中的模块期应可建班，实际=%+v", open)
	}

	malformed, _ := svc.Validate(context.Background(), "M1")
	if malformed.Valid || malformed.Reason == "" {
		t.Errorf("格式错误应返回不可建班及原因，实际=%+v", malformed)
	}
}

// ── Calendar 测试 ──

func TestModulperiodeService_Calendar(t *testing.T) {
	svc := setupTestModulperiodeService(nil, clockAt(2026, time.June, 1))

	one := 1
	raw, err := svc.Calendar(context.Background(), &one)
	if err != nil {
		t.Fatalf("Calendar 应成功: %v", err)
	}
	body := string(raw)

	if !strings.HasPrefix(body, "BEGIN:VCALENDAR") {
		t.Errorf("应以 BEGIN:VCALENDAR 开头")
	}
	if n := strings.Count(body, "BEGIN:VEVENT"); n != 18 {
		t.Errorf("期望 18 个事件，实际=%d", n)
	}
	if !strings.Contains(body, "DTSTART;VALUE=DATE:20260119") {
		t.Error("26-1-M1 应从 2026-01-19 开始")
	}
	if !strings.Contains(body, "DTEND;VALUE=DATE:20260317") {
		t.Error("26-1-M1 的 DTEND 应为结束日的次日")
	}

	again, _ := svc.Calendar(context.Background(), &one)
	if strings.Count(string(again), "UID:") != 18 || !sameUIDs(body, string(again)) {
		t.Error("同一模块期的 UID 应保持不变")
	}
}

func sameUIDs(a, b string) bool {
	collect := func(s string) []string {
		var out []string
		for _, line := range strings.Split(s, "\n") {
			line = strings.TrimRight(line, "\r")
			if strings.HasPrefix(line, "UID:") {
				out = append(out, line)
			}
		}
		return out
	}
	return strings.Join(collect(a), "|") == strings.Join(collect(b), "|")
}
