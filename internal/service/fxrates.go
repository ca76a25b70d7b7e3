package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vasishthabirari72/currency-convertor/internal/config"
	"github.com/vasishthabirari72/currency-convertor/internal/model"

	"go.uber.org/zap"
)

// maxBodyBytes caps how much of an upstream body is read.
const maxBodyBytes = 1 << 20

// Converter - интерфейс для тестирования
type Converter interface {
	Convert(ctx context.Context, req model.ConversionRequest) (*model.ConversionResult, error)
	HasCredential() bool
}

// FxRatesClient talks to the fxratesapi.com /convert endpoint.
type FxRatesClient struct {
	config     config.APIConfig
	logger     *zap.Logger
	httpClient *http.Client
}

func NewFxRatesClient(cfg config.APIConfig, logger *zap.Logger) *FxRatesClient {
	client := &http.Client{
		Timeout: cfg.Timeout,
	}
	return &FxRatesClient{
		config:     cfg,
		logger:     logger,
		httpClient: client,
	}
}

// fxConvertResponse is the accepted shape of a /convert body.
type fxConvertResponse struct {
	Success *bool           `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    any    `json:"code"`
		Type    string `json:"type"`
		Info    string `json:"info"`
		Message string `json:"message"`
	} `json:"error"`
}

// converted extracts the numeric result; the API returns it either as a
// bare number or nested as {"result": {"result": N}}.
func (r fxConvertResponse) converted() (float64, bool) {
	if len(r.Result) == 0 {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(r.Result, &n); err == nil {
		return n, true
	}
	var nested struct {
		Result *float64 `json:"result"`
	}
	if err := json.Unmarshal(r.Result, &nested); err == nil && nested.Result != nil {
		return *nested.Result, true
	}
	return 0, false
}

func (c *FxRatesClient) HasCredential() bool {
	return c.config.HasCredential()
}

func (c *FxRatesClient) endpoint(req model.ConversionRequest) string {
	q := url.Values{}
	q.Set("from", req.Source)
	q.Set("to", req.Target)
	q.Set("amount", strconv.FormatFloat(req.Amount, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("access_key", c.config.AccessKey)
	return strings.TrimRight(c.config.BaseURL, "/") + "/convert?" + q.Encode()
}

// Convert issues exactly one upstream request. Every error it returns is a *model.Failure.
func (c *FxRatesClient) Convert(ctx context.Context, req model.ConversionRequest) (*model.ConversionResult, error) {
	if !c.HasCredential() {
		return nil, model.NewFailure(model.MissingCredential, nil)
	}
	if !req.ValidAmount() {
		return nil, model.NewFailure(model.InvalidInput, fmt.Errorf("amount must be positive, got: %v", req.Amount))
	}

	apiURL := c.endpoint(req)
	maskedURL := strings.Replace(apiURL, url.QueryEscape(c.config.AccessKey), "***", 1)

	c.logger.Debug("Fetching conversion from fxratesapi",
		zap.String("from", req.Source),
		zap.String("to", req.Target),
		zap.Float64("amount", req.Amount),
		zap.String("url", maskedURL),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		c.logger.Error("Failed to create HTTP request",
			zap.String("from", req.Source),
			zap.String("to", req.Target),
			zap.Error(err),
		)
		return nil, model.NewFailure(model.Unknown, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		kind := classifyTransportError(ctx, err)
		c.logger.Error("API request failed",
			zap.String("from", req.Source),
			zap.String("to", req.Target),
			zap.String("kind", kind.String()),
			zap.Duration("timeout", c.config.Timeout),
			zap.String("error", scrub(err.Error(), c.config.AccessKey)),
		)
		return nil, model.NewFailure(kind, errors.New(scrub(err.Error(), c.config.AccessKey)))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.logger.Error("Failed to read API response",
			zap.String("from", req.Source),
			zap.String("to", req.Target),
			zap.Error(err),
		)
		return nil, model.NewFailure(model.NetworkUnreachable, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := classifyStatus(resp.StatusCode)
		c.logger.Error("API returned error status",
			zap.String("from", req.Source),
			zap.String("to", req.Target),
			zap.Int("status_code", resp.StatusCode),
			zap.String("kind", kind.String()),
			zap.String("response", string(data)),
		)
		return nil, model.NewFailure(kind, fmt.Errorf("API returned status %d", resp.StatusCode))
	}

	var body fxConvertResponse
	if err := json.Unmarshal(data, &body); err != nil {
		c.logger.Error("Invalid JSON from fxratesapi",
			zap.String("from", req.Source),
			zap.String("to", req.Target),
			zap.String("response", string(data)),
			zap.Error(err),
		)
		return nil, model.NewFailure(model.MalformedResponse, fmt.Errorf("invalid JSON response: %w", err))
	}

	if body.Success != nil && !*body.Success {
		info := ""
		if body.Error != nil {
			info = body.Error.Info + body.Error.Message
		}
		c.logger.Error("fxratesapi reported failure",
			zap.String("from", req.Source),
			zap.String("to", req.Target),
			zap.String("info", info),
		)
		return nil, model.NewFailure(model.MalformedResponse, fmt.Errorf("API reported failure: %s", info))
	}

	converted, ok := body.converted()
	if !ok {
		c.logger.Error("Result missing in fxratesapi response",
			zap.String("from", req.Source),
			zap.String("to", req.Target),
			zap.String("response", string(data)),
		)
		return nil, model.NewFailure(model.MalformedResponse, errors.New("invalid API response"))
	}

	result := model.NewConversionResult(req, converted)

	c.logger.Info("Currency conversion completed",
		zap.String("from", req.Source),
		zap.String("to", req.Target),
		zap.Float64("amount", req.Amount),
		zap.String("result", result.Formatted()),
	)

	return result, nil
}

// classifyStatus maps a non-2xx upstream status to a failure kind.
func classifyStatus(code int) model.FailureKind {
	switch code {
	case http.StatusTooManyRequests:
		return model.RateLimited
	case http.StatusUnauthorized:
		return model.Unauthorized
	default:
		return model.Unknown
	}
}

// classifyTransportError: the request went out but nothing came back.
func classifyTransportError(ctx context.Context, err error) model.FailureKind {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return model.NetworkUnreachable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return model.NetworkUnreachable
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return model.NetworkUnreachable
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return model.NetworkUnreachable
	}
	return model.Unknown
}

func scrub(s, secret string) string {
	if secret == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(secret), "***")
	return strings.ReplaceAll(s, secret, "***")
}

var _ Converter = (*FxRatesClient)(nil)
