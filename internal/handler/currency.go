package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vasishthabirari72/currency-convertor/internal/currency"
	"github.com/vasishthabirari72/currency-convertor/internal/model"
	"github.com/vasishthabirari72/currency-convertor/internal/service"
)

type CurrencyHandler struct {
	converter service.Converter
	logger    *zap.Logger
}

func NewCurrencyHandler(converter service.Converter, logger *zap.Logger) *CurrencyHandler {
	return &CurrencyHandler{
		converter: converter,
		logger:    logger,
	}
}

// statusFor maps a failure kind to the HTTP status returned to API callers.
func statusFor(kind model.FailureKind) int {
	switch kind {
	case model.MissingCredential:
		return http.StatusServiceUnavailable
	case model.InvalidInput:
		return http.StatusBadRequest
	case model.RateLimited:
		return http.StatusTooManyRequests
	case model.Unauthorized, model.MalformedResponse:
		return http.StatusBadGateway
	case model.NetworkUnreachable:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func invalidRequest(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Error:   "Invalid request",
		Kind:    model.InvalidInput.String(),
		Message: model.InvalidInput.DisplayMessage(),
		Details: details,
	})
}

func (h *CurrencyHandler) Convert(c *gin.Context) {
	var query model.ConvertQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		invalidRequest(c, err.Error())
		return
	}
	req := model.ConversionRequest{
		Source: currency.Normalize(query.From),
		Target: currency.Normalize(query.To),
		Amount: query.Amount,
	}
	if !currency.Valid(req.Source) {
		invalidRequest(c, "unsupported currency: "+req.Source)
		return
	}
	if !currency.Valid(req.Target) {
		invalidRequest(c, "unsupported currency: "+req.Target)
		return
	}

	result, err := h.converter.Convert(c.Request.Context(), req)
	if err != nil {
		f := model.AsFailure(err)
		_ = c.Error(err)
		h.logger.Warn("Conversion failed",
			zap.String("from", req.Source),
			zap.String("to", req.Target),
			zap.String("kind", f.Kind.String()),
		)
		details := ""
		if cause := errors.Unwrap(f); cause != nil {
			details = cause.Error()
		}
		c.JSON(statusFor(f.Kind), model.ErrorResponse{
			Error:   "Conversion failed",
			Kind:    f.Kind.String(),
			Message: f.Message,
			Details: details,
		})
		return
	}

	converted, _ := result.ConvertedAmount.Float64()
	c.JSON(http.StatusOK, model.ConvertResponse{
		From:      result.Source,
		To:        result.Target,
		Amount:    result.Amount,
		Result:    converted,
		Formatted: result.Formatted(),
		Message:   result.Message(),
	})
}

// Currencies returns the currency table with flag images.
func (h *CurrencyHandler) Currencies(c *gin.Context) {
	codes := currency.Codes()
	out := make([]model.CurrencyInfo, 0, len(codes))
	for _, code := range codes {
		region, _ := currency.Lookup(code)
		out = append(out, model.CurrencyInfo{
			Code:    code,
			Region:  region,
			FlagURL: currency.FlagURL(region),
		})
	}
	c.JSON(http.StatusOK, out)
}
