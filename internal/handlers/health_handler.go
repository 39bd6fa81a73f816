package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	catalog Pinger
	logger  *zap.Logger
}

func NewHealthHandler(catalog Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{catalog: catalog, logger: logger}
}

func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Health reporta si el catálogo responde
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.catalog.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("catalog health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
