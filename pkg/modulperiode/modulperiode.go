// Package modulperiode 实现模块期（modulperiode）日历：
// 标识解析、日期区间推导、相对参考日的时间分类，以及列表级操作。
//
// 标识格式为 "YY-H-MN"，例如 "26-1-M1"：
//   - YY 两位年份，按 2000+YY 解释
//   - H  半年：1=春季（Forår），2=秋季（Efterår）
//   - MN 模块号：M1 / M2 / M3
//
// 所有需要"今天"的操作都显式接收参考时间 ref，包内不读取系统时钟。
package modulperiode

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Half 半年
type Half int

const (
	Spring Half = 1 // Forår
	Autumn Half = 2 // Efterår
)

// Name 返回丹麦语季节名
func (h Half) Name() string {
	if h == Spring {
		return "Forår"
	}
	return "Efterår"
}

// Status 相对参考日的时间状态
type Status string

const (
	StatusPast    Status = "Afsluttet"
	StatusCurrent Status = "Igangværende"
	StatusFuture  Status = "Fremtidig"
)

// Info 解析后的模块期信息。
// StartDate / EndDate 均为 UTC 零点的纯日期，闭区间。
type Info struct {
	Raw       string
	Year      int
	Half      Half
	Module    int
	IsSpring  bool
	IsAutumn  bool
	StartDate time.Time
	EndDate   time.Time
	IsPast    bool
	IsCurrent bool
	IsFuture  bool

	policy BoundaryPolicy
}

// Status 返回三种状态之一
func (i *Info) Status() Status {
	switch {
	case i.IsPast:
		return StatusPast
	case i.IsCurrent:
		return StatusCurrent
	default:
		return StatusFuture
	}
}

// Contains 判断某天是否落在该模块期内（按解析时的边界策略）
func (i *Info) Contains(day time.Time) bool {
	return i.policy.contains(i.StartDate, i.EndDate, DateOf(day))
}

var identifierPattern = regexp.MustCompile(`^(\d{2})-(\d)-M(\d)$`)

// period 仅含标识组成部分，不依赖参考日
type period struct {
	raw    string
	year   int
	half   Half
	module int
}

func parseIdentifier(id string) (period, error) {
	m := identifierPattern.FindStringSubmatch(id)
	if m == nil {
		return period{}, &ParseError{Identifier: id, Reason: "forventet formatet ÅÅ-H-M# (fx 26-1-M1)"}
	}

	yy, _ := strconv.Atoi(m[1])
	half, _ := strconv.Atoi(m[2])
	module, _ := strconv.Atoi(m[3])

	if half != int(Spring) && half != int(Autumn) {
		return period{}, &ParseError{Identifier: id, Reason: fmt.Sprintf("halvår skal være 1 eller 2, fik %d", half)}
	}
	if module < 1 || module > 3 {
		return period{}, &ParseError{Identifier: id, Reason: fmt.Sprintf("modul skal være 1, 2 eller 3, fik %d", module)}
	}

	return period{raw: id, year: 2000 + yy, half: Half(half), module: module}, nil
}

// Format 按组成部分生成标识，年份取末两位
func Format(year int, half Half, module int) string {
	return fmt.Sprintf("%02d-%d-M%d", year%100, int(half), module)
}

// DateOf 取 t 在其自身时区中的日历日期，返回 UTC 零点
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
