package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the health endpoint; set via -ldflags.
var Version = "dev"

const healthCheckTimeout = 2 * time.Second

// Pinger checks an optional backing service.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	redis  Pinger
	logger *zap.Logger
}

// NewHealthHandler: redis may be nil when rate limiting is not configured.
func NewHealthHandler(redis Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{redis: redis, logger: logger}
}

// HealthCheck возвращает статус здоровья сервиса.
// Недоступный Redis не делает сервис нерабочим: лимитер пропускает запросы.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status, redisStatus := "healthy", "disabled"
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.redis.HealthCheck(ctx); err != nil {
			h.logger.Warn("Health check: Redis unreachable", zap.Error(err))
			status, redisStatus = "degraded", "down"
		} else {
			redisStatus = "up"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"service": "currency-convertor-api",
		"version": Version,
		"redis":   redisStatus,
	})
}
