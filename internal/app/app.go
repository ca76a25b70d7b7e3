package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vasishthabirari72/currency-convertor/internal/config"
	"github.com/vasishthabirari72/currency-convertor/internal/handler"
	"github.com/vasishthabirari72/currency-convertor/internal/middleware"
	"github.com/vasishthabirari72/currency-convertor/internal/service"
	"github.com/vasishthabirari72/currency-convertor/pkg/cache"
)

const shutdownTimeout = 5 * time.Second

type Application struct {
	config *config.Config
	router *gin.Engine
	logger *zap.Logger
	redis  *cache.RedisClient
	server *http.Server

	limiter gin.HandlerFunc
}

// New wires the API. Redis is optional: without it requests are not rate limited.
func New(cfg *config.Config, logger *zap.Logger) *Application {
	var (
		limiter middleware.WindowCounter
		pinger  handler.Pinger
	)
	redisClient, err := cache.NewRedisClient(cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		redisClient = nil
	} else {
		limiter = redisClient
		pinger = redisClient
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	if !cfg.API.HasCredential() {
		logger.Error("API key not found, conversions will fail",
			zap.String("hint", "set FX_API_KEY in the environment or .env file"),
		)
	}

	converter := service.NewFxRatesClient(cfg.API, logger)
	a := &Application{
		config: cfg,
		router: gin.New(),
		logger: logger,
		redis:  redisClient,
	}
	a.setupMiddleware(limiter)
	a.setupRouter(
		handler.NewCurrencyHandler(converter, logger),
		handler.NewHealthHandler(pinger, logger),
	)

	logger.Info("Application initialized",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.Bool("redis_connected", redisClient != nil),
		zap.String("api_key", cfg.API.MaskedKey()),
	)
	return a
}

// Handler exposes the router, mainly for tests.
func (a *Application) Handler() http.Handler {
	return a.router
}

func (a *Application) setupMiddleware(limiter middleware.WindowCounter) {
	a.router.Use(middleware.LoggingMiddleware(a.logger))
	a.router.Use(middleware.RecoveryMiddleware(a.logger))
	a.router.Use(middleware.CORSMiddleware())
	a.logger.Debug("Middleware configured")

	// the limiter is attached to the API group only; health checks are never limited
	a.limiter = middleware.RateLimitMiddleware(limiter, a.config.RateLimit, a.logger)
}

func (a *Application) setupRouter(currencyHandler *handler.CurrencyHandler, healthHandler *handler.HealthHandler) {
	a.router.GET("/health", healthHandler.HealthCheck)

	apiV1 := a.router.Group("/api/v1", a.limiter)
	apiV1.GET("/convert", currencyHandler.Convert)
	apiV1.GET("/currencies", currencyHandler.Currencies)

	if dir := a.config.Server.StaticDir; dir != "" {
		a.router.Static("/ui", dir)
	}
	a.logger.Debug("Routes configured",
		zap.String("health", "GET /health"),
		zap.String("convert", "GET /api/v1/convert"),
		zap.String("currencies", "GET /api/v1/currencies"),
		zap.String("static", a.config.Server.StaticDir),
	)
}

// Run serves until ctx is cancelled, SIGINT/SIGTERM arrives, or the listener fails.
func (a *Application) Run(ctx context.Context) error {
	a.server = &http.Server{
		Addr:         a.config.Server.Addr(),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Server starting",
			zap.String("address", a.server.Addr),
			zap.String("mode", a.config.Server.Mode),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.close()
	if err != nil {
		return err
	}
	a.logger.Info("Server stopped gracefully")
	return nil
}

func (a *Application) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	_ = a.logger.Sync()
}
