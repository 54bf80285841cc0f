package domain

// Currency identifies a tenant's pricing currency.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyKM  Currency = "KM"
)

// Valid reports whether the currency is one we price in.
func (c Currency) Valid() bool {
	return c == CurrencyEUR || c == CurrencyKM
}
