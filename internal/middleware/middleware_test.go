package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vasishthabirari72/currency-convertor/internal/config"
	"github.com/vasishthabirari72/currency-convertor/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(router *gin.Engine, method, url string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// fakeCounter считает запросы в памяти
type fakeCounter struct {
	counts map[string]int64
	err    error
	window time.Duration
}

func (f *fakeCounter) IncrWindow(_ context.Context, key string, window time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.window = window
	f.counts[key]++
	return f.counts[key], nil
}

func rateLimitedRouter(counter WindowCounter, cfg config.RateLimitConfig) *gin.Engine {
	r := gin.New()
	r.Use(RateLimitMiddleware(counter, cfg, zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	counter := &fakeCounter{counts: map[string]int64{}}
	router := rateLimitedRouter(counter, config.RateLimitConfig{Requests: 2, Period: time.Minute})

	for i := 0; i < 2; i++ {
		w := perform(router, http.MethodGet, "/ping", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, time.Minute, counter.window)

	w := perform(router, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "RateLimited", body.Kind)
	assert.Equal(t, "Rate limit exceeded. Please wait a moment.", body.Message)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	router := rateLimitedRouter(&fakeCounter{err: errors.New("redis down")}, config.RateLimitConfig{Requests: 1, Period: time.Minute})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/ping", nil).Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	router := rateLimitedRouter(nil, config.RateLimitConfig{Requests: 1, Period: time.Minute})
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/ping", nil).Code)
	}

	counter := &fakeCounter{counts: map[string]int64{}}
	router = rateLimitedRouter(counter, config.RateLimitConfig{Requests: 0, Period: time.Minute})
	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/ping", nil).Code)
	assert.Empty(t, counter.counts)
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(LoggingMiddleware(zap.New(core)))
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = RequestID(c)
		c.String(http.StatusOK, "pong")
	})

	w := perform(r, http.MethodGet, "/ping", nil)
	id := w.Header().Get("X-Request-ID")
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, seen)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ContextMap()["request_id"])
	assert.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])

	incoming := uuid.New().String()
	w = perform(r, http.MethodGet, "/ping", map[string]string{"X-Request-ID": incoming})
	assert.Equal(t, incoming, w.Header().Get("X-Request-ID"))

	w = perform(r, http.MethodGet, "/ping", map[string]string{"X-Request-ID": "not-a-uuid"})
	assert.NotEqual(t, "not-a-uuid", w.Header().Get("X-Request-ID"))
}

func TestRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(LoggingMiddleware(zap.NewNop()), RecoveryMiddleware(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { panic(errors.New("kaboom")) })

	w := perform(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body.Error)

	entries := logs.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kaboom", entries[0].ContextMap()["panic"])
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := perform(r, http.MethodOptions, "/ping", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Request-ID")
}
