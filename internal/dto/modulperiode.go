package dto

// ── 模块期模块 DTO ──

// ModulperiodeListRequest 模块期列表查询参数
type ModulperiodeListRequest struct {
	YearsAhead *int `form:"years_ahead" binding:"omitempty,min=0,max=10"`
	OnlyValid  bool `form:"only_valid"`
	Descending bool `form:"descending"`
}

// ModulperiodeResponse 模块期信息
type ModulperiodeResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Year        int    `json:"year"`
	Half        int    `json:"half"`
	Season      string `json:"season"`
	Module      int    `json:"module"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
	IsPast      bool   `json:"is_past"`
	IsCurrent   bool   `json:"is_current"`
	IsFuture    bool   `json:"is_future"`
}

// ModulperiodeValidationResponse 建班可行性
type ModulperiodeValidationResponse struct {
	ID     string `json:"id"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}
