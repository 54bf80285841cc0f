package tenant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukerupert/sindri/internal/domain"
	"github.com/dukerupert/sindri/internal/tenant"
)

// Test_PathResolver_Resolve validates the resolution order: admin prefix,
// shop prefix, user currency, default.
func Test_PathResolver_Resolve(t *testing.T) {
	r := tenant.NewPathResolver("/admin", "/shop", domain.CurrencyEUR)
	kmUser := &domain.User{Email: "buyer@example.com", Currency: domain.CurrencyKM}

	tests := []struct {
		name string
		path string
		user *domain.User
		want tenant.Tenant
	}{
		{
			name: "admin path wins regardless of user",
			path: "/admin/orders",
			user: kmUser,
			want: tenant.Tenant{Currency: domain.CurrencyEUR, IsAdmin: true},
		},
		{
			name: "bare admin path",
			path: "/admin",
			want: tenant.Tenant{Currency: domain.CurrencyEUR, IsAdmin: true},
		},
		{
			name: "shop path carries its own currency",
			path: "/shop/km/products",
			user: nil,
			want: tenant.Tenant{Currency: domain.CurrencyKM, IsShop: true},
		},
		{
			name: "shop path with unknown currency falls back to default",
			path: "/shop/usd/products",
			want: tenant.Tenant{Currency: domain.CurrencyEUR, IsShop: true},
		},
		{
			name: "bare shop path uses default currency",
			path: "/shop",
			want: tenant.Tenant{Currency: domain.CurrencyEUR, IsShop: true},
		},
		{
			name: "neutral path uses the user's currency",
			path: "/account",
			user: kmUser,
			want: tenant.Tenant{Currency: domain.CurrencyKM, IsShop: true},
		},
		{
			name: "neutral path without user falls back to default",
			path: "/account",
			user: nil,
			want: tenant.Tenant{Currency: domain.CurrencyEUR, IsShop: true},
		},
		{
			name: "prefix must match on a segment boundary",
			path: "/shopping/list",
			user: kmUser,
			want: tenant.Tenant{Currency: domain.CurrencyKM, IsShop: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.path, tt.user))
		})
	}
}

// Test_PathResolver_UserArrivesLater validates that re-resolving the same
// path after identity loads picks up the user's currency.
func Test_PathResolver_UserArrivesLater(t *testing.T) {
	r := tenant.NewPathResolver("/admin", "/shop", domain.CurrencyEUR)

	before := r.Resolve("/account", nil)
	assert.Equal(t, domain.CurrencyEUR, before.Currency)

	after := r.Resolve("/account", &domain.User{Currency: domain.CurrencyKM})
	assert.Equal(t, domain.CurrencyKM, after.Currency)
}

// Test_NewPathResolver_InvalidDefault validates that an invalid configured
// default currency falls back to EUR.
func Test_NewPathResolver_InvalidDefault(t *testing.T) {
	r := tenant.NewPathResolver("/admin", "/shop", domain.Currency("XXX"))
	got := r.Resolve("/account", nil)
	assert.Equal(t, domain.CurrencyEUR, got.Currency)
}
