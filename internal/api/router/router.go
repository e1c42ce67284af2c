package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skoleadmin/backend/config"
	"skoleadmin/backend/internal/api/handler"
	"skoleadmin/backend/internal/api/middleware"
	"skoleadmin/backend/internal/api/validation"
	"skoleadmin/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时不启用限流
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	if err := validation.Register(); err != nil {
		return nil, err
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	var limiter middleware.RateLimiter
	if rdb != nil {
		limiter = rdb
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger))
	{
		// 模块期模块
		modulperioder := v1.Group("/modulperioder")
		{
			modulperioder.GET("", h.Modulperiode.ListModulperioder)
			modulperioder.GET("/options", h.Modulperiode.GetOptions)
			modulperioder.GET("/current", h.Modulperiode.GetCurrent)
			modulperioder.GET("/calendar.ics", h.Modulperiode.ExportCalendar)
			modulperioder.GET("/:id", h.Modulperiode.GetModulperiode)
			modulperioder.GET("/:id/validate", h.Modulperiode.ValidateModulperiode)
		}

		// 教学班模块
		classes := v1.Group("/classes")
		{
			classes.GET("", h.Hold.ListHold)
			classes.GET("/:id", h.Hold.GetHold)
			classes.POST("", h.Hold.CreateHold)
			classes.PUT("/:id", h.Hold.UpdateHold)
			classes.DELETE("/:id", h.Hold.DeleteHold)
		}

		// 周计划模块
		planning := v1.Group("/planning")
		{
			planning.GET("/weeks", h.Planning.GetWeek)
			planning.POST("/weeks/copy", h.Planning.CopyWeek)
			planning.GET("/kladder", h.Planning.ListKladder)
			planning.GET("/ugeplaner", h.Planning.ListUgeplaner)
			planning.POST("/ugeplaner", h.Planning.CreateUgeplan)
			planning.PUT("/ugeplaner/:id", h.Planning.UpdateUgeplan)
			planning.DELETE("/ugeplaner/:id", h.Planning.DeleteUgeplan)
			planning.POST("/ugeplaner/:id/duplicate", h.Planning.DuplicateKladde)
			planning.POST("/ugeplaner/:id/copy", h.Planning.CopyUgeplan)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/ugeplan", h.Export.ExportUgeplan)
		}
	}

	return r, nil
}
