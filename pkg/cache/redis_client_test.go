package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vasishthabirari72/currency-convertor/internal/config"
)

func newTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client, mr
}

func TestNewRedisClient_Errors(t *testing.T) {
	_, err := NewRedisClient(config.RedisConfig{}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewRedisClient(config.RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())
	assert.Error(t, err)
}

func TestIncrWindow_CountsAndExpires(t *testing.T) {
	client, mr := newTestRedis(t)
	fixed := time.Unix(1_700_000_000, 0)
	client.now = func() time.Time { return fixed }
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := client.IncrWindow(ctx, "10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	key := windowKey("10.0.0.1", time.Minute, fixed)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	other, err := client.IncrWindow(ctx, "10.0.0.2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), other, "clients are counted separately")
}

func TestIncrWindow_NewWindowStartsOver(t *testing.T) {
	client, _ := newTestRedis(t)
	now := time.Unix(1_700_000_000, 0)
	client.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := client.IncrWindow(ctx, "c", time.Minute)
	require.NoError(t, err)
	_, err = client.IncrWindow(ctx, "c", time.Minute)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	got, err := client.IncrWindow(ctx, "c", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestIncrWindow_InvalidWindow(t *testing.T) {
	client, _ := newTestRedis(t)
	_, err := client.IncrWindow(context.Background(), "c", 0)
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	client, mr := newTestRedis(t)
	assert.NoError(t, client.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, client.HealthCheck(context.Background()))
}

func TestClose_Nil(t *testing.T) {
	var client *RedisClient
	assert.NotPanics(t, client.Close)
}
