package tenant

import "github.com/dukerupert/sindri/internal/domain"

// Tenant describes the active customer segment for a request: the currency
// all prices are shown in and the role scope of the current surface.
type Tenant struct {
	Currency domain.Currency
	IsAdmin  bool
	IsShop   bool
}
