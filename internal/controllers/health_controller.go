package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// Pinger is anything whose availability /health reports
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	storage Pinger
	logger  *slog.Logger
}

func NewHealthController(storage Pinger, logger *slog.Logger) *HealthController {
	return &HealthController{
		storage: storage,
		logger:  logger,
	}
}

// Health handles GET /health
func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := hc.storage.Ping(ctx); err != nil {
		hc.logger.Warn("health check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
