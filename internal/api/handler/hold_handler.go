package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skoleadmin/backend/internal/dto"
	"skoleadmin/backend/internal/service"
	"skoleadmin/backend/pkg/response"
)

// HoldHandler 教学班模块 HTTP 处理器
type HoldHandler struct {
	holdSvc service.HoldService
}

// NewHoldHandler 创建 HoldHandler
func NewHoldHandler(holdSvc service.HoldService) *HoldHandler {
	return &HoldHandler{holdSvc: holdSvc}
}

// ListHold 教学班列表
// GET /api/v1/classes?status=Igangværende&afdeling=Datateknik&modulperiode=26-1-M1
func (h *HoldHandler) ListHold(c *gin.Context) {
	var req dto.HoldListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.holdSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleHoldError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// GetHold 教学班详情
// GET /api/v1/classes/:id
func (h *HoldHandler) GetHold(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	hold, err := h.holdSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleHoldError(c, err)
		return
	}

	response.OK(c, hold)
}

// CreateHold 创建教学班
// POST /api/v1/classes
func (h *HoldHandler) CreateHold(c *gin.Context) {
	var req dto.CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	hold, err := h.holdSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleHoldError(c, err)
		return
	}

	response.Created(c, hold)
}

// UpdateHold 更新教学班
// PUT /api/v1/classes/:id
func (h *HoldHandler) UpdateHold(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	hold, err := h.holdSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleHoldError(c, err)
		return
	}

	response.OK(c, hold)
}

// DeleteHold 删除教学班（软删除）
// DELETE /api/v1/classes/:id
func (h *HoldHandler) DeleteHold(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	if err := h.holdSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleHoldError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleHoldError 统一处理教学班模块业务错误
func (h *HoldHandler) handleHoldError(c *gin.Context, err error) {
	var closed *service.ModulperiodeClosedError
	switch {
	case errors.Is(err, service.ErrHoldNotFound):
		response.NotFound(c, 21001, "Holdet findes ikke")
	case errors.Is(err, service.ErrModulperiodeInvalid):
		response.ErrorWithDetails(c, http.StatusBadRequest, 21002, "Ugyldig modulperiode", parseReason(err))
	case errors.As(err, &closed):
		response.Unprocessable(c, 21003, "Modulperioden er afsluttet", closed.Reason)
	case errors.Is(err, service.ErrHoldDateInvalid):
		response.BadRequest(c, 21004, "Ugyldige datoer")
	default:
		response.InternalError(c)
	}
}
