package pricing

import (
	"log/slog"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/sindri/internal/domain"
	"github.com/dukerupert/sindri/internal/tenant"
)

// Symbol placement differs per currency: EUR is prefixed, KM is suffixed.
const (
	eurSymbol = "€"
	kmSymbol  = "KM"
)

// Formatter renders prices for a tenant's currency with fixed 2-decimal
// rounding. Tenant context is always passed in explicitly; the formatter
// never reads ambient route state.
type Formatter struct {
	logger *slog.Logger
}

// NewFormatter creates a price formatter.
func NewFormatter(logger *slog.Logger) *Formatter {
	return &Formatter{logger: logger}
}

// Format renders an amount in the tenant's currency, e.g. "€12.34" for EUR
// and "12.34 KM" for KM.
func (f *Formatter) Format(amount decimal.Decimal, t tenant.Tenant) string {
	fixed := amount.StringFixed(2)
	switch t.Currency {
	case domain.CurrencyKM:
		return fixed + " " + kmSymbol
	default:
		return eurSymbol + fixed
	}
}

// FormatString parses a numeric string and renders it like Format.
// Unparseable input renders as a zero-valued display rather than failing.
func (f *Formatter) FormatString(amount string, t tenant.Tenant) string {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		f.logger.Warn("unparseable price amount, formatting as zero",
			"amount", amount, "currency", t.Currency)
		d = decimal.Zero
	}
	return f.Format(d, t)
}

// Parse recovers the numeric value from a formatted price display,
// tolerating either symbol placement.
func (f *Formatter) Parse(display string) (decimal.Decimal, error) {
	s := strings.TrimSpace(display)
	s = strings.TrimPrefix(s, eurSymbol)
	s = strings.TrimSuffix(s, kmSymbol)
	return decimal.NewFromString(strings.TrimSpace(s))
}

// Total returns unitPrice * quantity.
func (f *Formatter) Total(unitPrice decimal.Decimal, quantity int32) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt32(quantity))
}

// TotalFloat computes a line total from a float unit price. NaN and Inf
// inputs are treated as zero and logged, so a bad price can never corrupt a
// running total.
func (f *Formatter) TotalFloat(unitPrice float64, quantity int32) decimal.Decimal {
	if math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) {
		f.logger.Warn("non-finite unit price, treating as zero", "unit_price", unitPrice)
		return decimal.Zero
	}
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt32(quantity))
}
