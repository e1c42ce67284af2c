// Package isoweek ISO 8601 周次计算：周一为一周之始，
// 第 1 周为包含当年第一个周四的那一周。
package isoweek

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidWeek 周次字符串格式错误或周次越界
var ErrInvalidWeek = errors.New("ugyldig uge")

const day = 24 * time.Hour

// WeekYear ISO 周次与 ISO 年
type WeekYear struct {
	Week int `json:"week"`
	Year int `json:"year"`
}

// String 形如 "2026-W05"
func (w WeekYear) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}

// Of 计算日期所在的 ISO 周。
// 取日期在其自身时区中的日历日，平移到本周周四，周四所在年即 ISO 年。
func Of(date time.Time) WeekYear {
	y, m, d := date.Date()
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	isoDay := int(t.Weekday())
	if isoDay == 0 {
		isoDay = 7 // 周日
	}
	thursday := t.AddDate(0, 0, 4-isoDay)

	jan1 := time.Date(thursday.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := float64(thursday.Sub(jan1)/day) + 1
	week := int(math.Ceil(days / 7))

	return WeekYear{Week: week, Year: thursday.Year()}
}

// Monday 返回 ISO 年第 week 周的周一（UTC 零点）。
// week 可越界（如 0 或 54），结果顺延到相邻年份。
func Monday(week, year int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	week1Monday := jan4.AddDate(0, 0, -(weekday - 1))
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

// Range 返回该周的周一与周日
func Range(week, year int) (monday, sunday time.Time) {
	monday = Monday(week, year)
	return monday, monday.AddDate(0, 0, 6)
}

// Offset 从 (week, year) 偏移 n 周。
// 先定位目标周的周一再重新推导，跨年时周次与年份随之滚动。
func Offset(week, year, n int) WeekYear {
	return Of(Monday(week+n, year))
}

// Next / Previous 规划视图的"下一周/上一周"
func (w WeekYear) Next() WeekYear     { return Offset(w.Week, w.Year, 1) }
func (w WeekYear) Previous() WeekYear { return Offset(w.Week, w.Year, -1) }

// WeeksInYear ISO 年的周数（52 或 53）。12 月 28 日总在最后一周。
func WeeksInYear(year int) int {
	return Of(time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC)).Week
}

// Valid 周次是否在该 ISO 年范围内
func (w WeekYear) Valid() bool {
	return w.Week >= 1 && w.Week <= WeeksInYear(w.Year)
}

// Parse 解析 "2026-W05" 或 "2026-05"
func Parse(s string) (WeekYear, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return WeekYear{}, fmt.Errorf("%w: %q (forventet ÅÅÅÅ-Wuu)", ErrInvalidWeek, s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return WeekYear{}, fmt.Errorf("%w: ugyldigt år %q", ErrInvalidWeek, parts[0])
	}

	weekStr := strings.TrimPrefix(strings.ToUpper(parts[1]), "W")
	week, err := strconv.Atoi(weekStr)
	if err != nil {
		return WeekYear{}, fmt.Errorf("%w: ugyldigt ugenummer %q", ErrInvalidWeek, parts[1])
	}

	w := WeekYear{Week: week, Year: year}
	if !w.Valid() {
		return WeekYear{}, fmt.Errorf("%w: uge %d findes ikke i %d", ErrInvalidWeek, week, year)
	}
	return w, nil
}
