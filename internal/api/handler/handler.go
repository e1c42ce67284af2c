package handler

import "skoleadmin/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Modulperiode *ModulperiodeHandler
	Hold         *HoldHandler
	Planning     *PlanningHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Modulperiode: NewModulperiodeHandler(svc.Modulperiode),
		Hold:         NewHoldHandler(svc.Hold),
		Planning:     NewPlanningHandler(svc.Planning),
		Export:       NewExportHandler(svc.Export),
	}
}
