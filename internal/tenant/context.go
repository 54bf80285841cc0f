package tenant

import "context"

type contextKey string

const tenantContextKey contextKey = "tenant"

// NewContext returns a new context with the tenant attached.
func NewContext(ctx context.Context, t Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey, t)
}

// FromContext extracts the tenant from the context.
// The second return value is false if no tenant is present.
func FromContext(ctx context.Context) (Tenant, bool) {
	t, ok := ctx.Value(tenantContextKey).(Tenant)
	return t, ok
}
