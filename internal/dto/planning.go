package dto

// ── 周计划模块 DTO ──

// WeekQuery 周次查询参数，形如 2026-W05；为空表示本周
type WeekQuery struct {
	Week string `form:"week"`
}

// WeekRef 周次引用
type WeekRef struct {
	Week int `json:"week"`
	Year int `json:"year"`
}

// WeekResponse 规划视图的周导航信息
type WeekResponse struct {
	Week     int     `json:"week"`
	Year     int     `json:"year"`
	Label    string  `json:"label"`
	Monday   string  `json:"monday"`
	Sunday   string  `json:"sunday"`
	Previous WeekRef `json:"previous"`
	Next     WeekRef `json:"next"`
	// 本周周一所在的模块期（边界日可能有两个）
	Modulperioder []string `json:"modulperioder"`
}

// PlanDayDTO 单日安排
type PlanDayDTO struct {
	Dag          string `json:"dag"          binding:"required,oneof=mandag tirsdag onsdag torsdag fredag"`
	Formaal      string `json:"formaal"      binding:"max=2000"`
	Laeringsmaal string `json:"laeringsmaal" binding:"max=2000"`
	Indhold      string `json:"indhold"      binding:"max=4000"`
	Materialer   string `json:"materialer"   binding:"max=2000"`
}

// UgeplanListRequest 周计划查询
type UgeplanListRequest struct {
	HoldID string `form:"class_id" binding:"required,uuid"`
	Uge    int    `form:"uge"      binding:"required,min=1,max=53"`
	Aar    int    `form:"aar"      binding:"required,min=2000,max=2099"`
}

// KladdeListRequest 草稿查询
type KladdeListRequest struct {
	HoldID string `form:"class_id" binding:"required,uuid"`
}

// CreateUgeplanRequest 创建周计划请求
type CreateUgeplanRequest struct {
	HoldID   string       `json:"class_id"  binding:"required,uuid"`
	Uge      int          `json:"uge"       binding:"required,min=1,max=53"`
	Aar      int          `json:"aar"       binding:"required,min=2000,max=2099"`
	Navn     string       `json:"navn"      binding:"required,min=1,max=200"`
	ErKladde bool         `json:"er_kladde"`
	Dage     []PlanDayDTO `json:"dage"      binding:"omitempty,max=5,dive"`
}

// UpdateUgeplanRequest 更新周计划请求；Version 用于乐观锁
type UpdateUgeplanRequest struct {
	Version  int           `json:"version"   binding:"required,min=1"`
	Uge      *int          `json:"uge"       binding:"omitempty,min=1,max=53"`
	Aar      *int          `json:"aar"       binding:"omitempty,min=2000,max=2099"`
	Navn     *string       `json:"navn"      binding:"omitempty,min=1,max=200"`
	ErKladde *bool         `json:"er_kladde"`
	Dage     *[]PlanDayDTO `json:"dage"      binding:"omitempty,max=5,dive"`
}

// DuplicateKladdeRequest 由草稿生成正式周计划；目标周为空时取本周
type DuplicateKladdeRequest struct {
	Uge *int `json:"uge" binding:"omitempty,min=1,max=53"`
	Aar *int `json:"aar" binding:"omitempty,min=2000,max=2099"`
}

// CopyUgeplanRequest 将单个周计划复制到 offset 周之后（可为负）
type CopyUgeplanRequest struct {
	Offset int `json:"offset" binding:"required,min=-104,max=104"`
}

// CopyWeekRequest 将一周的全部周计划复制到 offset 周之后（可为负）
type CopyWeekRequest struct {
	HoldID string `json:"class_id" binding:"required,uuid"`
	Uge    int    `json:"uge"      binding:"required,min=1,max=53"`
	Aar    int    `json:"aar"      binding:"required,min=2000,max=2099"`
	Offset int    `json:"offset"   binding:"required,min=-104,max=104"`
}

// UgeplanResponse 周计划响应
type UgeplanResponse struct {
	ID        string       `json:"id"`
	HoldID    string       `json:"class_id"`
	Uge       int          `json:"uge"`
	Aar       int          `json:"aar"`
	Navn      string       `json:"navn"`
	ErKladde  bool         `json:"er_kladde"`
	Dage      []PlanDayDTO `json:"dage"`
	Version   int          `json:"version"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

// ExportUgeplanRequest 导出参数；uge/aar 为空时导出教学班整个模块期
type ExportUgeplanRequest struct {
	HoldID string `form:"class_id" binding:"required,uuid"`
	Uge    *int   `form:"uge"      binding:"omitempty,min=1,max=53"`
	Aar    *int   `form:"aar"      binding:"omitempty,min=2000,max=2099"`
}
