package model

import (
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// ConversionRequest asks for Amount of Source expressed in Target.
type ConversionRequest struct {
	Source string
	Target string
	Amount float64
}

// ValidAmount reports whether the amount is a finite positive number.
func (r ConversionRequest) ValidAmount() bool {
	return r.Amount > 0 && !math.IsInf(r.Amount, 0) && !math.IsNaN(r.Amount)
}

// ConversionResult is produced only for a successful upstream response.
type ConversionResult struct {
	Amount          float64
	Source          string
	Target          string
	ConvertedAmount decimal.Decimal
}

// NewConversionResult rounds the converted value to cents.
func NewConversionResult(req ConversionRequest, converted float64) *ConversionResult {
	return &ConversionResult{
		Amount:          req.Amount,
		Source:          req.Source,
		Target:          req.Target,
		ConvertedAmount: roundCents(converted),
	}
}

// roundCents rounds the exact binary value of v, not its shortest decimal
// text: 1.005 is stored as 1.00499999... and becomes 1.00.
func roundCents(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	exact := new(big.Float).SetFloat64(v).Text('f', 1100)
	d, err := decimal.NewFromString(exact)
	if err != nil {
		return decimal.NewFromFloat(v).Round(2)
	}
	return d.Round(2)
}

// Formatted returns the converted amount with exactly two decimals.
func (r *ConversionResult) Formatted() string {
	return r.ConvertedAmount.StringFixed(2)
}

// Message renders "{amount} {source} = {converted} {target}".
func (r *ConversionResult) Message() string {
	return FormatAmount(r.Amount) + " " + r.Source + " = " + r.Formatted() + " " + r.Target
}

// FormatAmount prints the user amount the shortest way, 100 not 100.00.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
