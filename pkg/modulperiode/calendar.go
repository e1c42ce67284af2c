package modulperiode

import "time"

// ── 学年日历 ──
//
// 相邻模块共享边界日：前一模块的结束日即后一模块的开始日。
// 秋季 M3 跨年，结束于次年 1 月 19 日。

type dayMonth struct {
	month time.Month
	day   int
}

type moduleSpan struct {
	start, end  dayMonth
	endNextYear bool
}

var academicCalendar = map[Half][3]moduleSpan{
	Autumn: {
		{start: dayMonth{time.August, 11}, end: dayMonth{time.September, 22}},
		{start: dayMonth{time.September, 22}, end: dayMonth{time.November, 17}},
		{start: dayMonth{time.November, 17}, end: dayMonth{time.January, 19}, endNextYear: true},
	},
	Spring: {
		{start: dayMonth{time.January, 19}, end: dayMonth{time.March, 16}},
		{start: dayMonth{time.March, 16}, end: dayMonth{time.May, 11}},
		{start: dayMonth{time.May, 11}, end: dayMonth{time.June, 30}},
	},
}

func (p period) dates() (start, end time.Time) {
	span := academicCalendar[p.half][p.module-1]
	endYear := p.year
	if span.endNextYear {
		endYear++
	}
	start = time.Date(p.year, span.start.month, span.start.day, 0, 0, 0, 0, time.UTC)
	end = time.Date(endYear, span.end.month, span.end.day, 0, 0, 0, 0, time.UTC)
	return start, end
}

// BoundaryPolicy 决定共享边界日归属
type BoundaryPolicy int

const (
	// BoundaryInclusive 起止日均包含；边界日同时属于相邻两个模块期
	BoundaryInclusive BoundaryPolicy = iota
	// BoundaryEndExclusive 结束日不包含；边界日只属于后一个模块期
	BoundaryEndExclusive
)

// ParseBoundaryPolicy 解析配置值 inclusive | end_exclusive
func ParseBoundaryPolicy(s string) (BoundaryPolicy, bool) {
	switch s {
	case "", "inclusive":
		return BoundaryInclusive, true
	case "end_exclusive":
		return BoundaryEndExclusive, true
	}
	return BoundaryInclusive, false
}

func (b BoundaryPolicy) String() string {
	if b == BoundaryEndExclusive {
		return "end_exclusive"
	}
	return "inclusive"
}

func (b BoundaryPolicy) contains(start, end, day time.Time) bool {
	if day.Before(start) {
		return false
	}
	if b == BoundaryEndExclusive {
		return day.Before(end)
	}
	return !day.After(end)
}

func (b BoundaryPolicy) isPast(end, day time.Time) bool {
	if b == BoundaryEndExclusive {
		return !end.After(day)
	}
	return end.Before(day)
}
