package modulperiode

import (
	"fmt"
	"sort"
	"time"
)

// Engine 带边界策略的模块期计算器。零值即 BoundaryInclusive。
type Engine struct {
	Policy BoundaryPolicy
}

// Default 包级函数使用的默认计算器
var Default = Engine{Policy: BoundaryInclusive}

// Validation 建班校验结果；不可建班时 Reason 给出可直接展示的原因
type Validation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// ────────────────────── 解析与分类 ──────────────────────

// Parse 解析标识并相对 ref 所在日期分类
func (e Engine) Parse(id string, ref time.Time) (*Info, error) {
	p, err := parseIdentifier(id)
	if err != nil {
		return nil, err
	}
	start, end := p.dates()
	today := DateOf(ref)

	return &Info{
		Raw:       p.raw,
		Year:      p.year,
		Half:      p.half,
		Module:    p.module,
		IsSpring:  p.half == Spring,
		IsAutumn:  p.half == Autumn,
		StartDate: start,
		EndDate:   end,
		IsPast:    e.Policy.isPast(end, today),
		IsCurrent: e.Policy.contains(start, end, today),
		IsFuture:  start.After(today),
		policy:    e.Policy,
	}, nil
}

func (e Engine) IsPast(id string, ref time.Time) (bool, error) {
	info, err := e.Parse(id, ref)
	if err != nil {
		return false, err
	}
	return info.IsPast, nil
}

func (e Engine) IsCurrent(id string, ref time.Time) (bool, error) {
	info, err := e.Parse(id, ref)
	if err != nil {
		return false, err
	}
	return info.IsCurrent, nil
}

func (e Engine) IsFuture(id string, ref time.Time) (bool, error) {
	info, err := e.Parse(id, ref)
	if err != nil {
		return false, err
	}
	return info.IsFuture, nil
}

// ────────────────────── 列表操作 ──────────────────────

// FilterValid 保留进行中与未来的模块期，保持原顺序，不去重
func (e Engine) FilterValid(ids []string, ref time.Time) ([]string, error) {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		info, err := e.Parse(id, ref)
		if err != nil {
			return nil, err
		}
		if info.IsCurrent || info.IsFuture {
			result = append(result, id)
		}
	}
	return result, nil
}

// Generate 生成 ref 所在年份前一年至其后 yearsAhead 年的全部标识。
// 每年固定顺序：春季 M1-M3，然后秋季 M1-M3。
func (e Engine) Generate(yearsAhead int, ref time.Time) []string {
	current := ref.Year()
	var ids []string
	for year := current - 1; year <= current+yearsAhead; year++ {
		for _, half := range []Half{Spring, Autumn} {
			for module := 1; module <= 3; module++ {
				ids = append(ids, Format(year, half, module))
			}
		}
	}
	return ids
}

// Selectable 建班表单可选的模块期：有效的、按开始日升序的前 limit 个
func (e Engine) Selectable(ref time.Time, yearsAhead, limit int) []string {
	// Generate 产出的标识必然合法
	valid, _ := e.FilterValid(e.Generate(yearsAhead, ref), ref)
	sorted, _ := Sort(valid, false)
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Of 返回包含 day 的所有模块期。BoundaryInclusive 下边界日会返回两个。
func (e Engine) Of(day time.Time) []string {
	var ids []string
	for _, id := range e.Generate(1, day) {
		info, _ := e.Parse(id, day)
		if info.IsCurrent {
			ids = append(ids, id)
		}
	}
	return ids
}

// ────────────────────── 展示与校验 ──────────────────────

// DisplayName 形如 "26-1-M1 - Forår 2026, Modul 1 (Igangværende)"
func (e Engine) DisplayName(id string, ref time.Time) (string, error) {
	info, err := e.Parse(id, ref)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s - %s %d, Modul %d (%s)", id, info.Half.Name(), info.Year, info.Module, info.Status()), nil
}

// CanCreateClassFor 已结束的模块期不能再建班。始终返回结果而非错误。
func (e Engine) CanCreateClassFor(id string, ref time.Time) Validation {
	info, err := e.Parse(id, ref)
	if err != nil {
		return Validation{Valid: false, Reason: err.Error()}
	}
	if info.IsPast {
		return Validation{
			Valid:  false,
			Reason: fmt.Sprintf("Modulperioden %s er afsluttet. Du kan ikke oprette hold for modulperioder i fortiden.", id),
		}
	}
	return Validation{Valid: true}
}

// ── 与参考日无关的操作 ──

// DateRange 仅返回日期区间
func DateRange(id string) (start, end time.Time, err error) {
	p, err := parseIdentifier(id)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, end = p.dates()
	return start, end, nil
}

// Sort 按开始日稳定排序，返回新切片，不修改入参。descending=true 时最新在前。
func Sort(ids []string, descending bool) ([]string, error) {
	type keyed struct {
		id    string
		start time.Time
	}
	items := make([]keyed, 0, len(ids))
	for _, id := range ids {
		start, _, err := DateRange(id)
		if err != nil {
			return nil, err
		}
		items = append(items, keyed{id: id, start: start})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if descending {
			return items[i].start.After(items[j].start)
		}
		return items[i].start.Before(items[j].start)
	})

	result := make([]string, len(items))
	for i, it := range items {
		result[i] = it.id
	}
	return result, nil
}

// ── 包级便捷函数（默认策略） ──

func Parse(id string, ref time.Time) (*Info, error) { return Default.Parse(id, ref) }

func IsPast(id string, ref time.Time) (bool, error) { return Default.IsPast(id, ref) }

func IsCurrent(id string, ref time.Time) (bool, error) { return Default.IsCurrent(id, ref) }

func IsFuture(id string, ref time.Time) (bool, error) { return Default.IsFuture(id, ref) }

func FilterValid(ids []string, ref time.Time) ([]string, error) { return Default.FilterValid(ids, ref) }

func Generate(yearsAhead int, ref time.Time) []string { return Default.Generate(yearsAhead, ref) }

func DisplayName(id string, ref time.Time) (string, error) { return Default.DisplayName(id, ref) }

func CanCreateClassFor(id string, ref time.Time) Validation { return Default.CanCreateClassFor(id, ref) }
