package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vasishthabirari72/currency-convertor/internal/model"
)

type MockConverter struct {
	// Конфигурация возвращаемых значений
	MockRate  float64
	MockError error

	// Для отслеживания вызовов
	Called    bool
	LastReq   model.ConversionRequest
	CallCount int
}

func (m *MockConverter) HasCredential() bool { return true }

func (m *MockConverter) Convert(ctx context.Context, req model.ConversionRequest) (*model.ConversionResult, error) {
	m.Called = true
	m.CallCount++
	m.LastReq = req
	if m.MockError != nil {
		return nil, m.MockError
	}
	return model.NewConversionResult(req, req.Amount*m.MockRate), nil
}

// setupTestRouter создаёт тестовый роутер с хендлером
func setupTestRouter(conv *MockConverter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewCurrencyHandler(conv, zap.NewNop())
	router.GET("/convert", handler.Convert)
	router.GET("/currencies", handler.Currencies)
	router.GET("/health", NewHealthHandler(nil, zap.NewNop()).HealthCheck)

	return router
}

// performRequest выполняет тестовый запрос
func performRequest(router *gin.Engine, method, url string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCurrencyHandler_Convert_Success(t *testing.T) {
	conv := &MockConverter{MockRate: 0.8523}
	router := setupTestRouter(conv)

	w := performRequest(router, "GET", "/convert?from=usd&to=EUR&amount=100")
	assert.Equal(t, http.StatusOK, w.Code)

	var response model.ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "USD", response.From)
	assert.Equal(t, "EUR", response.To)
	assert.Equal(t, 100.0, response.Amount)
	assert.Equal(t, 85.23, response.Result)
	assert.Equal(t, "85.23", response.Formatted)
	assert.Equal(t, "100 USD = 85.23 EUR", response.Message)

	assert.True(t, conv.Called)
	assert.Equal(t, model.ConversionRequest{Source: "USD", Target: "EUR", Amount: 100}, conv.LastReq)
}

func TestCurrencyHandler_Convert_FailureStatus(t *testing.T) {
	tests := []struct {
		kind   model.FailureKind
		status int
	}{
		{model.MissingCredential, http.StatusServiceUnavailable},
		{model.InvalidInput, http.StatusBadRequest},
		{model.RateLimited, http.StatusTooManyRequests},
		{model.Unauthorized, http.StatusBadGateway},
		{model.NetworkUnreachable, http.StatusGatewayTimeout},
		{model.MalformedResponse, http.StatusBadGateway},
		{model.Unknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			router := setupTestRouter(&MockConverter{MockError: model.NewFailure(tt.kind, nil)})

			w := performRequest(router, "GET", "/convert?from=USD&to=INR&amount=5")
			assert.Equal(t, tt.status, w.Code)

			body := decodeError(t, w)
			assert.Equal(t, "Conversion failed", body.Error)
			assert.Equal(t, tt.kind.String(), body.Kind)
			assert.Equal(t, tt.kind.DisplayMessage(), body.Message)
		})
	}
}

func TestCurrencyHandler_Convert_ForeignError(t *testing.T) {
	router := setupTestRouter(&MockConverter{MockError: assert.AnError})

	w := performRequest(router, "GET", "/convert?from=USD&to=INR&amount=5")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "Unknown", body.Kind)
	assert.Contains(t, body.Details, "assert.AnError")
}

func TestCurrencyHandler_Convert_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		url     string
		details string
	}{
		{"MissingFrom", "/convert?to=EUR&amount=100", "required"},
		{"MissingTo", "/convert?from=USD&amount=100", "required"},
		{"MissingAmount", "/convert?from=USD&to=EUR", "required"},
		{"AllMissing", "/convert", "required"},
		{"CurrencyLength", "/convert?from=US&to=EUR&amount=100", "len"},
		{"NegativeAmount", "/convert?from=USD&to=EUR&amount=-100", "gt"},
		{"ZeroAmount", "/convert?from=USD&to=EUR&amount=0", "required"},
		{"InvalidNumberFormat", "/convert?from=USD&to=EUR&amount=abc", "parsing"},
		{"UnknownCurrency", "/convert?from=ZZZ&to=EUR&amount=1", "unsupported currency: ZZZ"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conv := &MockConverter{}
			router := setupTestRouter(conv)

			w := performRequest(router, "GET", tc.url)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, "Invalid request", body.Error)
			assert.Equal(t, "InvalidInput", body.Kind)
			assert.Contains(t, body.Details, tc.details)

			// Сервис не должен вызываться
			assert.False(t, conv.Called)
		})
	}
}

func TestCurrencyHandler_Currencies(t *testing.T) {
	router := setupTestRouter(&MockConverter{})

	w := performRequest(router, "GET", "/currencies")
	require.Equal(t, http.StatusOK, w.Code)

	var list []model.CurrencyInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.NotEmpty(t, list)

	var inr *model.CurrencyInfo
	for i := range list {
		if list[i].Code == "INR" {
			inr = &list[i]
		}
	}
	require.NotNil(t, inr)
	assert.Equal(t, "IN", inr.Region)
	assert.Equal(t, "https://flagsapi.com/IN/flat/64.png", inr.FlagURL)
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(&MockConverter{})

	w := performRequest(router, "GET", "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"redis":"disabled"`)
}

type stubPinger struct{ err error }

func (p stubPinger) HealthCheck(ctx context.Context) error { return p.err }

func TestHealthCheck_Redis(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus string
		wantRedis  string
	}{
		{"up", nil, "healthy", "up"},
		{"down", errors.New("connection refused"), "degraded", "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.GET("/health", NewHealthHandler(stubPinger{err: tt.err}, zap.NewNop()).HealthCheck)

			w := performRequest(router, "GET", "/health")
			require.Equal(t, http.StatusOK, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
			assert.Equal(t, tt.wantRedis, body["redis"])
		})
	}
}
