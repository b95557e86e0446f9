package routes

import (
	"github.com/gin-gonic/gin"

	"audio-scribe/internal/api/v1/handlers"
	"audio-scribe/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	JobService    services.JobService
	EngineService services.EngineService
	LedgerService services.LedgerService
	ExportService services.ExportService
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	// Job routes
	jobHandler := handlers.NewJobHandler(container.JobService)
	router.POST("/runsync", jobHandler.RunSync)
	router.POST("/run", jobHandler.Run)
	router.GET("/status/:id", jobHandler.Status)
	router.POST("/cancel/:id", jobHandler.Cancel)
	router.POST("/queue/purge", jobHandler.Purge)

	// Engine routes
	engineHandler := handlers.NewEngineHandler(container.EngineService)
	engines := router.Group("/engines")
	{
		engines.GET("", engineHandler.List)
		engines.GET("/:id", engineHandler.Get)
		engines.GET("/:id/health", engineHandler.Health)
	}

	// Ledger routes, present only when a ledger is configured
	if container.LedgerService != nil {
		ledgerHandler := handlers.NewLedgerHandler(container.LedgerService, container.ExportService)
		jobs := router.Group("/jobs")
		{
			jobs.GET("", ledgerHandler.List)
			jobs.GET("/stats", ledgerHandler.Stats)
		}
		if container.ExportService != nil {
			router.GET("/export", ledgerHandler.Export)
		}
	}
}
