package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skoleadmin/backend/internal/dto"
	"skoleadmin/backend/internal/service"
	"skoleadmin/backend/pkg/response"
)

// ModulperiodeHandler 模块期模块 HTTP 处理器
type ModulperiodeHandler struct {
	modulperiodeSvc service.ModulperiodeService
}

// NewModulperiodeHandler 创建 ModulperiodeHandler
func NewModulperiodeHandler(modulperiodeSvc service.ModulperiodeService) *ModulperiodeHandler {
	return &ModulperiodeHandler{modulperiodeSvc: modulperiodeSvc}
}

// ListModulperioder 模块期列表
// GET /api/v1/modulperioder?years_ahead=2&only_valid=true&descending=true
func (h *ModulperiodeHandler) ListModulperioder(c *gin.Context) {
	var req dto.ModulperiodeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.modulperiodeSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleModulperiodeError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// GetOptions 建班下拉框的可选模块期
// GET /api/v1/modulperioder/options
func (h *ModulperiodeHandler) GetOptions(c *gin.Context) {
	list, err := h.modulperiodeSvc.Options(c.Request.Context())
	if err != nil {
		h.handleModulperiodeError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// GetCurrent 今天所在的模块期（边界日可能有两个）
// GET /api/v1/modulperioder/current
func (h *ModulperiodeHandler) GetCurrent(c *gin.Context) {
	list, err := h.modulperiodeSvc.Current(c.Request.Context())
	if err != nil {
		h.handleModulperiodeError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// GetModulperiode 模块期详情
// GET /api/v1/modulperioder/:id
func (h *ModulperiodeHandler) GetModulperiode(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	mp, err := h.modulperiodeSvc.Describe(c.Request.Context(), id)
	if err != nil {
		h.handleModulperiodeError(c, err)
		return
	}

	response.OK(c, mp)
}

// ValidateModulperiode 能否为该模块期建班
// GET /api/v1/modulperioder/:id/validate
func (h *ModulperiodeHandler) ValidateModulperiode(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	result, err := h.modulperiodeSvc.Validate(c.Request.Context(), id)
	if err != nil {
		h.handleModulperiodeError(c, err)
		return
	}

	response.OK(c, result)
}

// ExportCalendar 以 iCalendar 格式下载模块期
// GET /api/v1/modulperioder/calendar.ics?years_ahead=2
func (h *ModulperiodeHandler) ExportCalendar(c *gin.Context) {
	var req dto.ModulperiodeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	body, err := h.modulperiodeSvc.Calendar(c.Request.Context(), req.YearsAhead)
	if err != nil {
		h.handleModulperiodeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="modulperioder.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}

// handleModulperiodeError 统一处理模块期模块业务错误
func (h *ModulperiodeHandler) handleModulperiodeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrModulperiodeInvalid):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "Ugyldig modulperiode", parseReason(err))
	default:
		response.InternalError(c)
	}
}
