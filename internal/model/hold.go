package model

import "time"

// Hold 教学班 — 对应 hold
// 状态（Afsluttet/Igangværende/Fremtidig）由模块期与当天日期实时推导，不落库。
type Hold struct {
	HoldID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"hold_id"`
	Navn         string    `gorm:"type:varchar(200);not null"                     json:"navn"`
	Afdeling     string    `gorm:"type:varchar(100);not null"                     json:"afdeling"`
	Laerer       string    `gorm:"type:varchar(20);not null"                      json:"laerer"` // 教师缩写，如 LESI
	Fag          string    `gorm:"type:varchar(100);not null"                     json:"fag"`
	Modulperiode string    `gorm:"type:varchar(7);not null;index"                 json:"modulperiode"`
	Startdato    time.Time `gorm:"type:date;not null"                             json:"startdato"`
	Slutdato     time.Time `gorm:"type:date;not null"                             json:"slutdato"`
	SoftDeleteModel
}

// TableName 指定表名
func (Hold) TableName() string { return "hold" }
