package service

import (
	"go.uber.org/zap"

	"skoleadmin/backend/config"
	"skoleadmin/backend/internal/repository"
	"skoleadmin/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Modulperiode ModulperiodeService
	Hold         HoldService
	Planning     PlanningService
	Export       ExportService
}

// NewService 创建 Service 聚合
// rdb 可为 nil：此时模块期可选列表不走缓存
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	clock Clock,
	logger *zap.Logger,
) *Service {
	engine := cfg.Calendar.Engine()

	var cache Cache
	if rdb != nil {
		cache = rdb
	}

	return &Service{
		Modulperiode: NewModulperiodeService(&cfg.Calendar, engine, cache, clock, logger),
		Hold:         NewHoldService(repo, engine, clock, logger),
		Planning:     NewPlanningService(repo, engine, clock, logger),
		Export:       NewExportService(repo, logger),
	}
}
