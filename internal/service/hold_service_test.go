package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"skoleadmin/backend/internal/dto"
	"skoleadmin/backend/internal/model"
	"skoleadmin/backend/pkg/modulperiode"
)

// ── 测试辅助 ──

func setupTestHoldService() (HoldService, *mockHoldRepo) {
	repo, holdRepo, _ := newTestRepository()
	svc := NewHoldService(repo, modulperiode.Default, clockAt(2026, time.June, 1), zap.NewNop())
	return svc, holdRepo
}

func newHoldRequest(mp string) *dto.CreateHoldRequest {
	return &dto.CreateHoldRequest{
		Afdeling:     "Datateknik",
		Laerer:       "LESI",
		Fag:          "Programmering",
		Modulperiode: mp,
	}
}

// ── Create 测试 ──

func TestHoldService_Create_Defaults(t *testing.T) {
	svc, _ := setupTestHoldService()

	result, err := svc.Create(context.Background(), newHoldRequest("26-2-M1"))
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Navn != "26-2-M1-Programmering-LESI" {
		t.Errorf("默认名称不正确: %s", result.Navn)
	}
	if result.Startdato != "2026-08-11" || result.Slutdato != "2026-09-22" {
		t.Errorf("默认日期应取模块期区间，实际 %s ~ %s", result.Startdato, result.Slutdato)
	}
	if result.Status != "Fremtidig" {
		t.Errorf("期望 Status=Fremtidig，实际=%s", result.Status)
	}
	if !strings.HasPrefix(result.ModulperiodeDisplayName, "26-2-M1 - Efterår 2026") {
		t.Errorf("展示名不正确: %s", result.ModulperiodeDisplayName)
	}
}

func TestHoldService_Create_CurrentPeriodAllowed(t *testing.T) {
	svc, _ := setupTestHoldService()

	req := newHoldRequest("26-1-M3")
	req.Navn = "Forårshold"
	req.Startdato = "2026-05-18"

	result, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("进行中的模块期应允许建班: %v", err)
	}
	if result.Navn != "Forårshold" || result.Startdato != "2026-05-18" || result.Slutdato != "2026-06-30" {
		t.Errorf("显式字段应覆盖默认值，实际=%+v", result)
	}
	if result.Status != "Igangværende" {
		t.Errorf("期望 Status=Igangværende，实际=%s", result.Status)
	}
}

func TestHoldService_Create_PastPeriod(t *testing.T) {
	svc, holdRepo := setupTestHoldService()

	_, err := svc.Create(context.Background(), newHoldRequest("25-2-M3"))
	if !errors.Is(err, ErrModulperiodeClosed) {
		t.Fatalf("期望 ErrModulperiodeClosed，实际: %v", err)
	}
	var closed *ModulperiodeClosedError
	if !errors.As(err, &closed) || !strings.Contains(closed.Reason, "25-2-M3 er afsluttet") {
		t.Errorf("应携带丹麦语原因，实际: %v", err)
	}
	if len(holdRepo.holds) != 0 {
		t.Error("被拒绝的请求不应落库")
	}
}

func TestHoldService_Create_MalformedPeriod(t *testing.T) {
	svc, _ := setupTestHoldService()

	_, err := svc.Create(context.Background(), newHoldRequest("26-1-M7"))
	if !errors.Is(err, ErrModulperiodeInvalid) {
		t.Errorf("期望 ErrModulperiodeInvalid，实际: %v", err)
	}
}

func TestHoldService_Create_InvalidDates(t *testing.T) {
	svc, _ := setupTestHoldService()

	req := newHoldRequest("26-2-M1")
	req.Startdato = "2026-09-01"
	req.Slutdato = "2026-08-20"
	if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrHoldDateInvalid) {
		t.Errorf("结束早于开始应返回 ErrHoldDateInvalid，实际: %v", err)
	}

	req = newHoldRequest("26-2-M1")
	req.Startdato = "11/08/2026"
	if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrHoldDateInvalid) {
		t.Errorf("日期格式错误应返回 ErrHoldDateInvalid，实际: %v", err)
	}
}

// ── List 测试 ──

func TestHoldService_List_StatusFilter(t *testing.T) {
	svc, holdRepo := setupTestHoldService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, newHoldRequest("26-1-M3")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, newHoldRequest("26-2-M1")); err != nil {
		t.Fatal(err)
	}
	// 历史数据：模块期已结束的教学班
	start, end, _ := modulperiode.DateRange("25-2-M3")
	_ = holdRepo.Create(ctx, &model.Hold{
		Navn: "gammelt", Afdeling: "Økonomi", Laerer: "ANNI", Fag: "Regnskab",
		Modulperiode: "25-2-M3", Startdato: start, Slutdato: end,
	})

	all, err := svc.List(ctx, &dto.HoldListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("期望 3 个教学班，实际=%d", len(all))
	}

	past, _ := svc.List(ctx, &dto.HoldListRequest{Status: "Afsluttet"})
	if len(past) != 1 || past[0].Modulperiode != "25-2-M3" {
		t.Errorf("Afsluttet 过滤结果不正确: %+v", past)
	}

	future, _ := svc.List(ctx, &dto.HoldListRequest{Status: "Fremtidig", Afdeling: "Datateknik"})
	if len(future) != 1 || future[0].Modulperiode != "26-2-M1" {
		t.Errorf("Fremtidig 过滤结果不正确: %+v", future)
	}
}

// ── Update 测试 ──

func TestHoldService_Update_ModulperiodeMovesDates(t *testing.T) {
	svc, _ := setupTestHoldService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, newHoldRequest("26-2-M1"))

	mp := "26-2-M2"
	updated, err := svc.Update(ctx, created.ID, &dto.UpdateHoldRequest{Modulperiode: &mp})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Startdato != "2026-09-22" || updated.Slutdato != "2026-11-17" {
		t.Errorf("换模块期后日期应跟随，实际 %s ~ %s", updated.Startdato, updated.Slutdato)
	}
	if updated.Navn != created.Navn {
		t.Errorf("未指定名称时不应改名，实际=%s", updated.Navn)
	}

	past := "25-2-M1"
	if _, err := svc.Update(ctx, created.ID, &dto.UpdateHoldRequest{Modulperiode: &past}); !errors.Is(err, ErrModulperiodeClosed) {
		t.Errorf("改到已结束的模块期应被拒绝，实际: %v", err)
	}
}

func TestHoldService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestHoldService()

	navn := "x"
	_, err := svc.Update(context.Background(), "missing", &dto.UpdateHoldRequest{Navn: &navn})
	if !errors.Is(err, ErrHoldNotFound) {
		t.Errorf("期望 ErrHoldNotFound，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestHoldService_Delete(t *testing.T) {
	svc, holdRepo := setupTestHoldService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, newHoldRequest("26-2-M1"))
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if len(holdRepo.holds) != 0 {
		t.Error("删除后仓库应为空")
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrHoldNotFound) {
		t.Errorf("重复删除应返回 ErrHoldNotFound，实际: %v", err)
	}
}
