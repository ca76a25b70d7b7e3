package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vasishthabirari72/currency-convertor/internal/config"
	"github.com/vasishthabirari72/currency-convertor/internal/model"
)

// WindowCounter counts requests per key in fixed windows.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimitMiddleware limits each client IP to cfg.Requests per cfg.Period.
// Counter errors let the request through.
func RateLimitMiddleware(counter WindowCounter, cfg config.RateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || !cfg.Enabled() {
			c.Next()
			return
		}

		count, err := counter.IncrWindow(c.Request.Context(), c.ClientIP(), cfg.Period)
		if err != nil {
			logger.Warn("Rate limiter unavailable, letting request through",
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			c.Next()
			return
		}

		remaining := int64(cfg.Requests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(cfg.Requests) {
			logger.Info("Rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.Int64("count", count),
				zap.Int("limit", cfg.Requests),
			)
			c.Header("Retry-After", strconv.Itoa(int(cfg.Period.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				Error:   "Too many requests",
				Kind:    model.RateLimited.String(),
				Message: model.RateLimited.DisplayMessage(),
			})
			return
		}
		c.Next()
	}
}
