package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vasishthabirari72/currency-convertor/internal/config"
)

const keyPrefix = "ratelimit:"

// RedisClient keeps fixed-window request counters in Redis.
type RedisClient struct {
	client *redis.Client
	config config.RedisConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewRedisClient создает новый Redis клиент
func NewRedisClient(cfg config.RedisConfig, logger *zap.Logger) (*RedisClient, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is not configured")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
	)

	return &RedisClient{
		client: client,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}, nil
}

func windowKey(key string, window time.Duration, now time.Time) string {
	slot := now.UnixNano() / int64(window)
	return keyPrefix + key + ":" + strconv.FormatInt(slot, 10)
}

// IncrWindow increments the counter of key for the current window and
// returns the new count. The counter expires together with the window.
func (r *RedisClient) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("window must be positive, got %v", window)
	}
	k := windowKey(key, window, r.now())

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, window)
		return nil
	})
	if err != nil {
		r.logger.Error("Redis INCR error",
			zap.String("key", k),
			zap.Error(err))
		return 0, fmt.Errorf("increment counter: %w", err)
	}
	return incr.Val(), nil
}

// HealthCheck проверяет доступность Redis
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	err := r.client.Ping(ctx).Err()
	if err != nil {
		r.logger.Warn("Redis health check failed",
			zap.Error(err),
		)
		return fmt.Errorf("redis health check failed: %w", err)
	}

	return nil
}

// Close закрывает подключение к Redis
func (r *RedisClient) Close() {
	if r == nil || r.client == nil {
		return
	}
	_ = r.client.Close()
}
