package storefront

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/sindri/internal/domain"
	"github.com/dukerupert/sindri/internal/mutation"
	"github.com/dukerupert/sindri/internal/tenant"
)

type cartLineResponse struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int32  `json:"quantity"`
	Stock          int32  `json:"stock"`
	LineTotal      string `json:"line_total"`
	FormattedTotal string `json:"formatted_total"`
}

type cartResponse struct {
	Items             []cartLineResponse `json:"items"`
	ItemCount         int                `json:"item_count"`
	Subtotal          string             `json:"subtotal"`
	FormattedSubtotal string             `json:"formatted_subtotal"`
	Currency          string             `json:"currency"`
}

func (h *Handler) cartResponse(t tenant.Tenant) cartResponse {
	lines := h.carts.Lines(t)
	items := make([]cartLineResponse, len(lines))
	for i, line := range lines {
		items[i] = cartLineResponse{
			ID:             line.Item.ID.String(),
			ProductID:      line.Item.ProductID.String(),
			ProductName:    line.Item.ProductName,
			Quantity:       line.Item.Quantity,
			Stock:          line.Item.Stock,
			LineTotal:      line.LineTotal.StringFixed(2),
			FormattedTotal: line.FormattedTotal,
		}
	}

	return cartResponse{
		Items:             items,
		ItemCount:         h.carts.ItemCount(),
		Subtotal:          h.carts.Subtotal(t).StringFixed(2),
		FormattedSubtotal: h.carts.FormattedSubtotal(t),
		Currency:          string(t.Currency),
	}
}

// GetCart returns the cached cart with totals in the tenant's currency,
// refreshing from upstream when the cache is empty.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTenant(r)

	if h.carts.Cart().IsEmpty() {
		if err := h.carts.Refresh(r.Context()); err != nil {
			logger(r, h.logger).Warn("cart refresh failed, serving cached value", "error", err)
		}
	}

	respond(w, http.StatusOK, h.cartResponse(t))
}

type updateQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

// UpdateQuantity applies an optimistic quantity change.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, domain.Errorf(domain.EINVALID, "cart.update_quantity", "invalid item ID"))
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.Errorf(domain.EINVALID, "cart.update_quantity", "invalid request body"))
		return
	}

	state, err := h.carts.UpdateQuantity(r.Context(), itemID, req.Quantity)
	h.respondMutation(w, r, state, err)
}

// RemoveItem applies an optimistic item removal.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, domain.Errorf(domain.EINVALID, "cart.remove_item", "invalid item ID"))
		return
	}

	state, err := h.carts.RemoveItem(r.Context(), itemID)
	h.respondMutation(w, r, state, err)
}

// ClearCart applies an optimistic cart clear.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	state, err := h.carts.ClearCart(r.Context())
	h.respondMutation(w, r, state, err)
}

// respondMutation reports a mutation outcome along with the resulting cart.
func (h *Handler) respondMutation(w http.ResponseWriter, r *http.Request, state mutation.State, err error) {
	t := h.resolveTenant(r)

	if err != nil {
		logger(r, h.logger).Debug("cart mutation failed", "state", state, "error", err)
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, struct {
		State string       `json:"state"`
		Cart  cartResponse `json:"cart"`
	}{
		State: string(state),
		Cart:  h.cartResponse(t),
	})
}
