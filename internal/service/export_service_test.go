package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"skoleadmin/backend/internal/dto"
	"skoleadmin/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestExportService(t *testing.T) (ExportService, *mockUgeplanRepo) {
	t.Helper()
	repo, holdRepo, ugeplanRepo := newTestRepository()
	seedHold(holdRepo)
	return NewExportService(repo, zap.NewNop()), ugeplanRepo
}

func addPlan(t *testing.T, repo *mockUgeplanRepo, uge, aar int, navn string, kladde bool) {
	t.Helper()
	err := repo.Create(context.Background(), &model.Ugeplan{
		HoldID: "hold-1", Uge: uge, Aar: aar, Navn: navn, ErKladde: kladde,
		Dage: model.PlanDays{
			{Dag: model.Mandag, Formaal: "Intro", Indhold: "Git init"},
			{Dag: model.Onsdag, Indhold: "Branches", Materialer: "Slides"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func intPtr(v int) *int { return &v }

// ── ExportUgeplaner 测试 ──

func TestExportService_ExportUgeplaner_NoPlans(t *testing.T) {
	svc, repo := setupTestExportService(t)
	addPlan(t, repo, 5, 2026, "kun kladde", true)

	_, _, err := svc.ExportUgeplaner(context.Background(), &dto.ExportUgeplanRequest{
		HoldID: "hold-1", Uge: intPtr(5), Aar: intPtr(2026),
	})
	if !errors.Is(err, ErrExportNoPlans) {
		t.Errorf("草稿不导出，期望 ErrExportNoPlans，实际: %v", err)
	}
}

func TestExportService_ExportUgeplaner_HoldNotFound(t *testing.T) {
	svc, _ := setupTestExportService(t)

	_, _, err := svc.ExportUgeplaner(context.Background(), &dto.ExportUgeplanRequest{HoldID: "missing"})
	if !errors.Is(err, ErrHoldNotFound) {
		t.Errorf("期望 ErrHoldNotFound，实际: %v", err)
	}
}

func TestExportService_ExportUgeplaner_PartialWeek(t *testing.T) {
	svc, _ := setupTestExportService(t)

	_, _, err := svc.ExportUgeplaner(context.Background(), &dto.ExportUgeplanRequest{HoldID: "hold-1", Uge: intPtr(5)})
	if !errors.Is(err, ErrWeekInvalid) {
		t.Errorf("只给 uge 应返回 ErrWeekInvalid，实际: %v", err)
	}
}

func TestExportService_ExportUgeplaner_SingleWeek(t *testing.T) {
	svc, repo := setupTestExportService(t)
	addPlan(t, repo, 5, 2026, "Git-ugen", false)

	buf, filename, err := svc.ExportUgeplaner(context.Background(), &dto.ExportUgeplanRequest{
		HoldID: "hold-1", Uge: intPtr(5), Aar: intPtr(2026),
	})
	if err != nil {
		t.Fatalf("ExportUgeplaner 应成功: %v", err)
	}
	if filename != "Ugeplan_26-1-M1-Programmering-LESI_2026-W05.xlsx" {
		t.Errorf("文件名不正确: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("生成的文件应能被 excelize 打开: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Uge 05 2026" {
		t.Fatalf("期望单个 Sheet \"Uge 05 2026\"，实际=%v", sheets)
	}

	checks := map[string]string{
		"A3": "Git-ugen",
		"A4": "Dag",
		"A5": "Mandag",
		"B5": "26.01.2026",
		"E5": "Git init",
		"A6": "Onsdag",
		"B6": "28.01.2026",
		"F6": "Slides",
	}
	for ref, want := range checks {
		got, _ := f.GetCellValue("Uge 05 2026", ref)
		if got != want {
			t.Errorf("%s: 期望 %q，实际 %q", ref, want, got)
		}
	}
	title, _ := f.GetCellValue("Uge 05 2026", "A1")
	if !strings.Contains(title, "Uge 5, 2026") {
		t.Errorf("标题应包含周次，实际=%s", title)
	}
}

func TestExportService_ExportUgeplaner_WholeModulperiode(t *testing.T) {
	svc, repo := setupTestExportService(t)
	addPlan(t, repo, 7, 2026, "Uge 7", false)
	addPlan(t, repo, 5, 2026, "Uge 5", false)
	// 模块期之外
	addPlan(t, repo, 20, 2026, "Senere", false)

	buf, filename, err := svc.ExportUgeplaner(context.Background(), &dto.ExportUgeplanRequest{HoldID: "hold-1"})
	if err != nil {
		t.Fatalf("ExportUgeplaner 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, "_2026-W04_2026-W12.xlsx") {
		t.Errorf("文件名应包含周次范围，实际=%s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if strings.Join(sheets, ",") != "Uge 05 2026,Uge 07 2026" {
		t.Errorf("期望按周升序两个 Sheet，实际=%v", sheets)
	}
}
