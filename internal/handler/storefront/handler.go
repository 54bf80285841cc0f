// Package storefront exposes the cached storefront state over JSON for UI
// consumers: read selectors plus the optimistic mutation operations.
package storefront

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/sindri/internal/api"
	"github.com/dukerupert/sindri/internal/cart"
	"github.com/dukerupert/sindri/internal/checkout"
	"github.com/dukerupert/sindri/internal/domain"
	"github.com/dukerupert/sindri/internal/middleware"
	"github.com/dukerupert/sindri/internal/pricing"
	"github.com/dukerupert/sindri/internal/router"
	"github.com/dukerupert/sindri/internal/session"
	"github.com/dukerupert/sindri/internal/tenant"
)

// ClientPathHeader carries the UI's navigation path so tenant resolution can
// follow the page the user is on, not the API route being called.
const ClientPathHeader = "X-Client-Path"

// Handler serves the storefront state endpoints.
type Handler struct {
	carts     cart.Service
	checkouts checkout.Service
	resolver  tenant.Resolver
	sessions  session.Provider
	formatter *pricing.Formatter
	client    *api.Client
	logger    *slog.Logger
}

// NewHandler creates the storefront handler.
func NewHandler(
	carts cart.Service,
	checkouts checkout.Service,
	resolver tenant.Resolver,
	sessions session.Provider,
	formatter *pricing.Formatter,
	client *api.Client,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		carts:     carts,
		checkouts: checkouts,
		resolver:  resolver,
		sessions:  sessions,
		formatter: formatter,
		client:    client,
		logger:    logger,
	}
}

// Routes registers the storefront endpoints.
func (h *Handler) Routes(r *router.Router) {
	r.Get("/cart", h.GetCart, h.withTenant)
	r.Patch("/cart/items/{id}", h.UpdateQuantity, h.withTenant)
	r.Delete("/cart/items/{id}", h.RemoveItem, h.withTenant)
	r.Delete("/cart", h.ClearCart, h.withTenant)
	r.Post("/checkout", h.PlaceOrder, h.withTenant)
	r.Get("/orders", h.ListOrders, h.withTenant)
	r.Get("/wallet", h.GetWallet, h.withTenant)
	r.Get("/alerts", h.ListAlerts, h.withTenant)
}

// withTenant resolves the active tenant once per request, from the UI's
// navigation path and the current session user, and stores it in the context.
func (h *Handler) withTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.Header.Get(ClientPathHeader)
		if path == "" {
			path = r.URL.Path
		}
		t := h.resolver.Resolve(path, h.sessions.Current().User)
		next.ServeHTTP(w, r.WithContext(tenant.NewContext(r.Context(), t)))
	})
}

// resolveTenant returns the tenant resolved by withTenant, falling back to
// resolving from the request directly when the middleware is not in place.
func (h *Handler) resolveTenant(r *http.Request) tenant.Tenant {
	if t, ok := tenant.FromContext(r.Context()); ok {
		return t
	}
	path := r.Header.Get(ClientPathHeader)
	if path == "" {
		path = r.URL.Path
	}
	return h.resolver.Resolve(path, h.sessions.Current().User)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// respondError maps domain and upstream errors to HTTP statuses. Nothing in
// the mutation layer is fatal; this only reports the already-handled outcome.
func respondError(w http.ResponseWriter, err error) {
	if apiErr := api.StatusError(err); apiErr != nil {
		message := apiErr.Message
		if message == "" {
			message = "Upstream request failed"
		}
		respond(w, apiErr.Status, map[string]string{"message": message})
		return
	}

	status := http.StatusInternalServerError
	switch domain.ErrorCode(err) {
	case domain.EINVALID:
		status = http.StatusBadRequest
	case domain.ENOTFOUND:
		status = http.StatusNotFound
	case domain.EUNAUTHORIZED:
		status = http.StatusUnauthorized
	case domain.EFORBIDDEN:
		status = http.StatusForbidden
	case domain.EPAYMENT:
		status = http.StatusPaymentRequired
	case domain.ERATELIMIT:
		status = http.StatusTooManyRequests
	case domain.EUNAVAILABLE:
		status = http.StatusBadGateway
	}

	respond(w, status, map[string]string{"message": domain.ErrorMessage(err)})
}

func logger(r *http.Request, fallback *slog.Logger) *slog.Logger {
	return middleware.GetLogger(r.Context(), fallback)
}
