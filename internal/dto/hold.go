package dto

// ── 教学班（hold）模块 DTO ──

// CreateHoldRequest 创建教学班请求
// Navn 为空时按 "{modulperiode}-{fag}-{laerer}" 生成；日期为空时取模块期区间。
type CreateHoldRequest struct {
	Navn         string `json:"navn"         binding:"omitempty,max=200"`
	Afdeling     string `json:"afdeling"     binding:"required,min=2,max=100"`
	Laerer       string `json:"laerer"       binding:"required,min=2,max=20"`
	Fag          string `json:"fag"          binding:"required,min=1,max=100"`
	Modulperiode string `json:"modulperiode" binding:"required,modulperiode"`
	Startdato    string `json:"startdato"    binding:"omitempty,datetime=2006-01-02"`
	Slutdato     string `json:"slutdato"     binding:"omitempty,datetime=2006-01-02"`
}

// UpdateHoldRequest 更新教学班请求
type UpdateHoldRequest struct {
	Navn         *string `json:"navn"         binding:"omitempty,min=1,max=200"`
	Afdeling     *string `json:"afdeling"     binding:"omitempty,min=2,max=100"`
	Laerer       *string `json:"laerer"       binding:"omitempty,min=2,max=20"`
	Fag          *string `json:"fag"          binding:"omitempty,min=1,max=100"`
	Modulperiode *string `json:"modulperiode" binding:"omitempty,modulperiode"`
	Startdato    *string `json:"startdato"    binding:"omitempty,datetime=2006-01-02"`
	Slutdato     *string `json:"slutdato"     binding:"omitempty,datetime=2006-01-02"`
}

// HoldListRequest 教学班列表过滤
type HoldListRequest struct {
	Status       string `form:"status"       binding:"omitempty,oneof=Afsluttet Igangværende Fremtidig"`
	Afdeling     string `form:"afdeling"`
	Modulperiode string `form:"modulperiode" binding:"omitempty,modulperiode"`
}

// HoldResponse 教学班信息响应；Status 按当天实时推导
type HoldResponse struct {
	ID                      string `json:"id"`
	Navn                    string `json:"navn"`
	Afdeling                string `json:"afdeling"`
	Laerer                  string `json:"laerer"`
	Fag                     string `json:"fag"`
	Modulperiode            string `json:"modulperiode"`
	ModulperiodeDisplayName string `json:"modulperiode_display_name"`
	Startdato               string `json:"startdato"`
	Slutdato                string `json:"slutdato"`
	Status                  string `json:"status"`
	CreatedAt               string `json:"created_at"`
	UpdatedAt               string `json:"updated_at"`
}
