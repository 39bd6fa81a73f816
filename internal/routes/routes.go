package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/jperezr21/trendito/internal/handlers"
	"github.com/jperezr21/trendito/internal/metrics"
)

type Handlers struct {
	Admin  *handlers.AdminHandler
	Search *handlers.SearchHandler
	Health *handlers.HealthHandler
}

func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.GET("/ping", h.Health.Ping)
	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/search", h.Search.Search)
		api.POST("/admin/index-store", h.Admin.IndexStore)
	}
}
