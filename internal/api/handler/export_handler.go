package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"skoleadmin/backend/internal/dto"
	"skoleadmin/backend/internal/service"
	"skoleadmin/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportUgeplan 导出周计划
// GET /api/v1/export/ugeplan?class_id=xxx&uge=5&aar=2026
func (h *ExportHandler) ExportUgeplan(c *gin.Context) {
	var req dto.ExportUgeplanRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportUgeplaner(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoPlans):
		response.NotFound(c, 23001, "Der er ingen ugeplaner at eksportere")
	case errors.Is(err, service.ErrHoldNotFound):
		response.NotFound(c, 23002, "Holdet findes ikke")
	case errors.Is(err, service.ErrWeekInvalid):
		response.ErrorWithDetails(c, http.StatusBadRequest, 23003, "Ugyldig uge", err.Error())
	default:
		response.InternalError(c)
	}
}
