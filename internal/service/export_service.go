package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"skoleadmin/backend/internal/dto"
	"skoleadmin/backend/internal/model"
	"skoleadmin/backend/internal/repository"
	"skoleadmin/backend/pkg/isoweek"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoPlans      = errors.New("der er ingen ugeplaner at eksportere")
	ErrExportGenerateFail = errors.New("kunne ikke generere Excel-filen")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出为 Excel (.xlsx)，以 bytes.Buffer 返回，由 Handler 层设置响应头
//   - 指定 uge/aar 时只导出该周；否则导出教学班起止日期覆盖的全部 ISO 周
//   - 每周一个 Sheet，草稿不导出
type ExportService interface {
	ExportUgeplaner(ctx context.Context, req *dto.ExportUgeplanRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var exportHeaders = []string{"Dag", "Dato", "Formål", "Læringsmål", "Indhold", "Materialer"}

// ═══════════════════════════════════════════════════════════
// ExportUgeplaner 导出周计划为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Uge 05 2026"（按 ISO 周分）
//   - 第 1 行：教学班名称与周次
//   - 每个周计划一个区块：计划名称行 + 表头 + 周一至周五
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportUgeplaner(ctx context.Context, req *dto.ExportUgeplanRequest) (*bytes.Buffer, string, error) {
	// 1. 教学班
	hold, err := findHold(ctx, s.repo, s.logger, req.HoldID)
	if err != nil {
		return nil, "", err
	}

	// 2. 周次范围
	var from, to isoweek.WeekYear
	switch {
	case req.Uge != nil && req.Aar != nil:
		if err := checkWeek(*req.Uge, *req.Aar); err != nil {
			return nil, "", err
		}
		from = isoweek.WeekYear{Week: *req.Uge, Year: *req.Aar}
		to = from
	case req.Uge != nil || req.Aar != nil:
		return nil, "", fmt.Errorf("%w: uge og år skal angives sammen", ErrWeekInvalid)
	default:
		from, to = isoweek.Of(hold.Startdato), isoweek.Of(hold.Slutdato)
	}

	// 3. 周计划
	plans, err := s.repo.Ugeplan.ListByHoldAndWeekRange(ctx, hold.HoldID, from.Year, from.Week, to.Year, to.Week)
	if err != nil {
		s.logger.Error("查询导出周计划失败", zap.String("hold_id", hold.HoldID), zap.Error(err))
		return nil, "", err
	}
	if len(plans) == 0 {
		return nil, "", ErrExportNoPlans
	}

	// 4. 按周分组，保持 (aar, uge) 升序
	var weeks []isoweek.WeekYear
	byWeek := make(map[isoweek.WeekYear][]model.Ugeplan)
	for _, p := range plans {
		wy := isoweek.WeekYear{Week: p.Uge, Year: p.Aar}
		if _, ok := byWeek[wy]; !ok {
			weeks = append(weeks, wy)
		}
		byWeek[wy] = append(byWeek[wy], p)
	}

	// 5. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	planStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Italic: true},
	})
	bodyStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})

	for i, wy := range weeks {
		sheet := fmt.Sprintf("Uge %02d %d", wy.Week, wy.Year)
		idx, err := f.NewSheet(sheet)
		if err != nil {
			s.logger.Error("创建 Sheet 失败", zap.String("sheet", sheet), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		f.SetColWidth(sheet, "A", "A", 10)
		f.SetColWidth(sheet, "B", "B", 12)
		f.SetColWidth(sheet, "C", "F", 36)

		monday, sunday := isoweek.Range(wy.Week, wy.Year)
		f.SetCellValue(sheet, "A1", fmt.Sprintf("%s · Uge %d, %d (%s - %s)",
			hold.Navn, wy.Week, wy.Year, monday.Format("02.01"), sunday.Format("02.01.2006")))
		f.MergeCell(sheet, "A1", cell(colName(len(exportHeaders)-1), 1))
		f.SetCellStyle(sheet, "A1", "A1", titleStyle)

		row := 3
		for _, plan := range byWeek[wy] {
			f.SetCellValue(sheet, cell("A", row), plan.Navn)
			f.SetCellStyle(sheet, cell("A", row), cell("A", row), planStyle)
			row++

			for c, h := range exportHeaders {
				f.SetCellValue(sheet, cell(colName(c), row), h)
			}
			f.SetCellStyle(sheet, cell("A", row), cell(colName(len(exportHeaders)-1), row), headerStyle)
			row++

			for _, d := range plan.Dage {
				date := monday.AddDate(0, 0, weekdayOffset(d.Dag))
				f.SetCellValue(sheet, cell("A", row), d.Dag.Name())
				f.SetCellValue(sheet, cell("B", row), date.Format("02.01.2006"))
				f.SetCellValue(sheet, cell("C", row), d.Formaal)
				f.SetCellValue(sheet, cell("D", row), d.Laeringsmaal)
				f.SetCellValue(sheet, cell("E", row), d.Indhold)
				f.SetCellValue(sheet, cell("F", row), d.Materialer)
				f.SetCellStyle(sheet, cell("A", row), cell("F", row), bodyStyle)
				row++
			}
			row++
		}
	}
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 6. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	label := from.String()
	if to != from {
		label += "_" + to.String()
	}
	filename := fmt.Sprintf("Ugeplan_%s_%s.xlsx", sanitizeFilename(hold.Navn), label)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func weekdayOffset(d model.Weekday) int {
	for i, wd := range model.Weekdays {
		if wd == d {
			return i
		}
	}
	return 0
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
