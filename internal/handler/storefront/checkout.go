package storefront

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/sindri/internal/checkout"
	"github.com/dukerupert/sindri/internal/domain"
)

type orderResponse struct {
	ID            string `json:"id"`
	OrderNumber   string `json:"order_number"`
	Status        string `json:"status"`
	Currency      string `json:"currency"`
	Subtotal      string `json:"subtotal"`
	Tax           string `json:"tax"`
	Total         string `json:"total"`
	PaymentMethod string `json:"payment_method"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:            o.ID.String(),
		OrderNumber:   o.OrderNumber,
		Status:        string(o.Status),
		Currency:      string(o.Currency),
		Subtotal:      o.Subtotal.StringFixed(2),
		Tax:           o.Tax.StringFixed(2),
		Total:         o.Total.StringFixed(2),
		PaymentMethod: string(o.PaymentMethod),
	}
}

// PlaceOrder runs checkout against the current cart snapshot.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, domain.Errorf(domain.EINVALID, "checkout.place_order", "invalid request body"))
		return
	}

	t := h.resolveTenant(r)

	order, state, err := h.checkouts.PlaceOrder(r.Context(), t, form)
	if err != nil {
		logger(r, h.logger).Debug("checkout failed", "state", state, "error", err)
		respondError(w, err)
		return
	}

	respond(w, http.StatusCreated, struct {
		State string        `json:"state"`
		Order orderResponse `json:"order"`
	}{
		State: string(state),
		Order: toOrderResponse(order),
	})
}

// ListOrders returns the cached order history, refreshing when empty.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if len(h.checkouts.Orders().Orders) == 0 {
		if err := h.checkouts.RefreshOrders(r.Context()); err != nil {
			logger(r, h.logger).Warn("orders refresh failed, serving cached value", "error", err)
		}
	}

	list := h.checkouts.Orders()
	out := make([]orderResponse, len(list.Orders))
	for i, o := range list.Orders {
		out[i] = toOrderResponse(o)
	}
	respond(w, http.StatusOK, map[string]interface{}{"orders": out})
}

// GetWallet returns the wallet balance with all derived fields recomputed.
func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	if err := h.checkouts.RefreshWallet(r.Context()); err != nil {
		logger(r, h.logger).Warn("wallet refresh failed, serving cached value", "error", err)
	}

	wallet := h.checkouts.Wallet()
	respond(w, http.StatusOK, map[string]interface{}{
		"deposit_balance":  wallet.DepositBalance.StringFixed(2),
		"credit_limit":     wallet.CreditLimit.StringFixed(2),
		"credit_used":      wallet.CreditUsed.StringFixed(2),
		"available_credit": wallet.AvailableCredit().StringFixed(2),
		"total_available":  wallet.TotalAvailable().StringFixed(2),
		"is_overlimit":     wallet.Overlimit(),
	})
}
