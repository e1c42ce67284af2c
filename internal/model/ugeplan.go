package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Weekday 周计划覆盖的工作日
type Weekday string

const (
	Mandag  Weekday = "mandag"
	Tirsdag Weekday = "tirsdag"
	Onsdag  Weekday = "onsdag"
	Torsdag Weekday = "torsdag"
	Fredag  Weekday = "fredag"
)

// Weekdays 周一至周五，顺序固定
var Weekdays = []Weekday{Mandag, Tirsdag, Onsdag, Torsdag, Fredag}

// Valid 是否为周一至周五之一
func (d Weekday) Valid() bool {
	for _, wd := range Weekdays {
		if wd == d {
			return true
		}
	}
	return false
}

// Name 丹麦语展示名，首字母大写
func (d Weekday) Name() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// PlanDay 单日教学安排
type PlanDay struct {
	Dag          Weekday `json:"dag"`
	Formaal      string  `json:"formaal"`
	Laeringsmaal string  `json:"laeringsmaal"`
	Indhold      string  `json:"indhold"`
	Materialer   string  `json:"materialer"`
}

// PlanDays 对应 PostgreSQL JSONB 列，实现 GORM Scanner/Valuer 接口。
type PlanDays []PlanDay

// Scan 将 JSONB 文本解析为 []PlanDay
func (d *PlanDays) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("PlanDays.Scan: unsupported type %T", src)
	}
	var days []PlanDay
	if err := json.Unmarshal(raw, &days); err != nil {
		return fmt.Errorf("PlanDays.Scan: %w", err)
	}
	*d = days
	return nil
}

// Value 序列化为 JSON；nil 写为空数组
func (d PlanDays) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]PlanDay(d))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Ugeplan 周计划 — 对应 ugeplan
// ErKladde=true 为草稿，草稿的 Uge/Aar 仅表示创建时所在周。
type Ugeplan struct {
	UgeplanID string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"ugeplan_id"`
	HoldID    string   `gorm:"type:uuid;not null;index"                       json:"hold_id"`
	Uge       int      `gorm:"not null"                                       json:"uge"`
	Aar       int      `gorm:"not null"                                       json:"aar"`
	Navn      string   `gorm:"type:varchar(200);not null"                     json:"navn"`
	ErKladde  bool     `gorm:"not null;default:false"                         json:"er_kladde"`
	Dage      PlanDays `gorm:"type:jsonb;not null"                            json:"dage"`
	Hold      *Hold    `gorm:"foreignKey:HoldID;references:HoldID"            json:"hold,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Ugeplan) TableName() string { return "ugeplan" }
