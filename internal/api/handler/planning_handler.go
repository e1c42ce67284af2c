package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skoleadmin/backend/internal/dto"
	"skoleadmin/backend/internal/service"
	pkgerrors "skoleadmin/backend/pkg/errors"
	"skoleadmin/backend/pkg/isoweek"
	"skoleadmin/backend/pkg/response"
)

// PlanningHandler 周计划模块 HTTP 处理器
type PlanningHandler struct {
	planningSvc service.PlanningService
}

// NewPlanningHandler 创建 PlanningHandler
func NewPlanningHandler(planningSvc service.PlanningService) *PlanningHandler {
	return &PlanningHandler{planningSvc: planningSvc}
}

// GetWeek 周导航
// GET /api/v1/planning/weeks?week=2026-W05
func (h *PlanningHandler) GetWeek(c *gin.Context) {
	var req dto.WeekQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	var ref *isoweek.WeekYear
	if req.Week != "" {
		wy, err := isoweek.Parse(req.Week)
		if err != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, 22003, "Ugyldig uge", err.Error())
			return
		}
		ref = &wy
	}

	week, err := h.planningSvc.Week(c.Request.Context(), ref)
	if err != nil {
		h.handlePlanningError(c, err)
		return
	}

	response.OK(c, week)
}

// ListUgeplaner 某周已发布的周计划
// GET /api/v1/planning/ugeplaner?class_id=xxx&uge=5&aar=2026
func (h *PlanningHandler) ListUgeplaner(c *gin.Context) {
	var req dto.UgeplanListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.planningSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handlePlanningError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// ListKladder 教学班的草稿
// GET /api/v1/planning/kladder?class_id=xxx
func (h *PlanningHandler) ListKladder(c *gin.Context) {
	var req dto.KladdeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.planningSvc.ListDrafts(c.Request.Context(), req.HoldID)
	if err != nil {
		h.handlePlanningError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// CreateUgeplan 创建周计划或草稿
// POST /api/v1/planning/ugeplaner
func (h *PlanningHandler) CreateUgeplan(c *gin.Context) {
	var req dto.CreateUgeplanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	plan, err := h.planningSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handlePlanningError(c, err)
		return
	}

	response.Created(c, plan)
}

// UpdateUgeplan 更新周计划（乐观锁）
// PUT /api/v1/planning/ugeplaner/:id
func (h *PlanningHandler) UpdateUgeplan(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateUgeplanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	plan, err := h.planningSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handlePlanningError(c, err)
		return
	}

	response.OK(c, plan)
}

// DeleteUgeplan 删除周计划
// DELETE /api/v1/planning/ugeplaner/:id
func (h *PlanningHandler) DeleteUgeplan(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	if err := h.planningSvc.Delete(c.Request.Context(), id); err != nil {
		h.handlePlanningError(c, err)
		return
	}

	response.OK(c, nil)
}

// DuplicateKladde 由草稿生成正式周计划，请求体可为空（取本周）
// POST /api/v1/planning/ugeplaner/:id/duplicate
func (h *PlanningHandler) DuplicateKladde(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	var req dto.DuplicateKladdeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		bindFailed(c, err)
		return
	}

	plan, err := h.planningSvc.DuplicateDraft(c.Request.Context(), id, &req)
	if err != nil {
		h.handlePlanningError(c, err)
		return
	}

	response.Created(c, plan)
}

// CopyUgeplan 将单个周计划复制到 offset 周之后
// POST /api/v1/planning/ugeplaner/:id/copy
func (h *PlanningHandler) CopyUgeplan(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	var req dto.CopyUgeplanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	plan, err := h.planningSvc.CopyToWeek(c.Request.Context(), id, req.Offset)
	if err != nil {
		h.handlePlanningError(c, err)
		return
	}

	response.Created(c, plan)
}

// CopyWeek 将一周的全部周计划复制到 offset 周之后
// POST /api/v1/planning/weeks/copy
func (h *PlanningHandler) CopyWeek(c *gin.Context) {
	var req dto.CopyWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.planningSvc.CopyWeek(c.Request.Context(), &req)
	if err != nil {
		h.handlePlanningError(c, err)
		return
	}

	response.Created(c, response.ListData{List: list, Total: len(list)})
}

// handlePlanningError 统一处理周计划模块业务错误
func (h *PlanningHandler) handlePlanningError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUgeplanNotFound):
		response.NotFound(c, 22001, "Ugeplanen findes ikke")
	case errors.Is(err, service.ErrHoldNotFound):
		response.NotFound(c, 22002, "Holdet findes ikke")
	case errors.Is(err, service.ErrWeekInvalid):
		response.ErrorWithDetails(c, http.StatusBadRequest, 22003, "Ugyldig uge", err.Error())
	case errors.Is(err, service.ErrUgeplanNotDraft):
		response.BadRequest(c, 22004, "Kun kladder kan duplikeres")
	case errors.Is(err, service.ErrPlanDaysInvalid):
		response.BadRequest(c, 22005, "Hver ugedag må kun optræde én gang")
	case errors.Is(err, service.ErrCopyWeekEmpty):
		response.NotFound(c, 22006, "Der er ingen ugeplaner i kildeugen")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 22007, "Ugeplanen er ændret af en anden. Genindlæs og prøv igen.")
	default:
		response.InternalError(c)
	}
}
