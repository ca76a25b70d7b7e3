package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/vasishthabirari72/currency-convertor/internal/app"
	"github.com/vasishthabirari72/currency-convertor/internal/config"
	"github.com/vasishthabirari72/currency-convertor/internal/logger"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	application := app.New(cfg, zl)

	zl.Info("Starting Currency Converter API",
		zap.String("api", "http://localhost:"+cfg.Server.Port+"/api/v1"),
	)
	if cfg.Server.StaticDir != "" {
		zl.Info("Widget UI available", zap.String("url", "http://localhost:"+cfg.Server.Port+"/ui"))
	}

	if err := application.Run(context.Background()); err != nil {
		zl.Fatal("Server failed", zap.Error(err))
	}
}
