package tenant

import (
	"strings"

	"github.com/dukerupert/sindri/internal/domain"
)

// Resolver determines the active tenant from navigation state and the
// authenticated user. Pure: it never triggers navigation or mutates state,
// and must be re-invoked whenever the path changes or the user identity
// becomes available.
type Resolver interface {
	// Resolve returns the tenant descriptor for the given navigation path
	// and user. The user may be nil while identity is still loading.
	Resolve(path string, user *domain.User) Tenant
}

// PathResolver implements Resolver using path prefixes and the user's
// assigned currency. Resolution order: admin prefix, shop prefix, user's
// tenant, default currency.
type PathResolver struct {
	adminPrefix     string
	shopPrefix      string
	defaultCurrency domain.Currency
}

// NewPathResolver creates a path-based tenant resolver.
func NewPathResolver(adminPrefix, shopPrefix string, defaultCurrency domain.Currency) *PathResolver {
	if !defaultCurrency.Valid() {
		defaultCurrency = domain.CurrencyEUR
	}
	return &PathResolver{
		adminPrefix:     adminPrefix,
		shopPrefix:      shopPrefix,
		defaultCurrency: defaultCurrency,
	}
}

// Resolve returns the tenant descriptor for the given path and user.
func (r *PathResolver) Resolve(path string, user *domain.User) Tenant {
	if r.matches(path, r.adminPrefix) {
		return Tenant{Currency: r.defaultCurrency, IsAdmin: true}
	}

	if r.matches(path, r.shopPrefix) {
		return Tenant{Currency: r.shopCurrency(path), IsShop: true}
	}

	if user != nil && user.Currency.Valid() {
		return Tenant{Currency: user.Currency, IsShop: true}
	}

	return Tenant{Currency: r.defaultCurrency, IsShop: true}
}

// matches reports whether path equals the prefix or descends into it.
// Bare prefix matching would make "/shopping" resolve as the shop surface.
func (r *PathResolver) matches(path, prefix string) bool {
	if prefix == "" {
		return false
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// shopCurrency extracts the currency segment after the shop prefix,
// e.g. /shop/km/products -> KM. Falls back to the default currency.
func (r *PathResolver) shopCurrency(path string) domain.Currency {
	rest := strings.TrimPrefix(path, r.shopPrefix)
	rest = strings.TrimPrefix(rest, "/")
	if seg, _, _ := strings.Cut(rest, "/"); seg != "" {
		c := domain.Currency(strings.ToUpper(seg))
		if c.Valid() {
			return c
		}
	}
	return r.defaultCurrency
}

// Compile-time check that PathResolver implements Resolver.
var _ Resolver = (*PathResolver)(nil)
