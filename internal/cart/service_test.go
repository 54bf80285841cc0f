package cart_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/sindri/internal/api"
	"github.com/dukerupert/sindri/internal/cache"
	"github.com/dukerupert/sindri/internal/cart"
	"github.com/dukerupert/sindri/internal/domain"
	"github.com/dukerupert/sindri/internal/mutation"
	"github.com/dukerupert/sindri/internal/notify"
	"github.com/dukerupert/sindri/internal/pricing"
	"github.com/dukerupert/sindri/internal/session"
	"github.com/dukerupert/sindri/internal/tenant"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type harness struct {
	service  cart.Service
	col      *cache.Collection[domain.Cart]
	recorder *notify.Recorder
	requests *atomic.Int64
}

// newHarness wires a cart service against a stub upstream server.
func newHarness(t *testing.T, upstream http.HandlerFunc) *harness {
	t.Helper()

	requests := &atomic.Int64{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		upstream(w, r)
	}))
	t.Cleanup(server.Close)

	logger := testLogger()
	recorder := notify.NewRecorder()
	col := cache.New[domain.Cart]("cart", logger)
	coord := mutation.NewCoordinator(recorder, session.NewMemory(), nil, "/login", nil, logger)
	client := api.NewClient(server.URL, 0, logger)

	return &harness{
		service:  cart.NewService(col, coord, client, pricing.NewFormatter(logger), logger),
		col:      col,
		recorder: recorder,
		requests: requests,
	}
}

func cartItem(name string, eur string, qty int32) domain.CartItem {
	return domain.CartItem{
		ID:          uuid.New(),
		ProductName: name,
		PriceEUR:    decimal.NullDecimal{Decimal: decimal.RequireFromString(eur), Valid: true},
		Stock:       10,
		Quantity:    qty,
	}
}

// Test_Service_UpdateQuantity_RollsBackOnServerError validates the failed
// quantity update scenario: the optimistic value is rolled back to the
// pre-mutation quantity and exactly one error notification is emitted.
func Test_Service_UpdateQuantity_RollsBackOnServerError(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "database unavailable"})
	})

	item := cartItem("Widget", "10.00", 3)
	h.col.Seed(domain.Cart{Items: []domain.CartItem{item}})

	state, err := h.service.UpdateQuantity(context.Background(), item.ID, 2)

	require.Error(t, err)
	assert.Equal(t, mutation.StateRolledBack, state)

	got, ok := h.service.Cart().Find(item.ID)
	require.True(t, ok)
	assert.Equal(t, int32(3), got.Quantity, "quantity restored after rollback")

	notifications := h.recorder.All()
	require.Len(t, notifications, 1, "exactly one notification for the failed mutation")
	assert.Equal(t, notify.VariantError, notifications[0].Variant)
	assert.Equal(t, "database unavailable", notifications[0].Description)
}

// Test_Service_UpdateQuantity_CommitsServerCart validates that the server's
// returned cart replaces the optimistic one on success.
func Test_Service_UpdateQuantity_CommitsServerCart(t *testing.T) {
	item := cartItem("Widget", "10.00", 3)

	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/cart/items/"+item.ID.String(), r.URL.Path)

		var body map[string]int32
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int32(5), body["quantity"])

		// The server returns the authoritative cart.
		json.NewEncoder(w).Encode(api.CartPayload{Items: []api.CartItemPayload{{
			ID:          item.ID,
			ProductName: item.ProductName,
			Quantity:    5,
		}}})
	})
	h.col.Seed(domain.Cart{Items: []domain.CartItem{item}})

	state, err := h.service.UpdateQuantity(context.Background(), item.ID, 5)

	require.NoError(t, err)
	assert.Equal(t, mutation.StateCommitted, state)

	got, ok := h.service.Cart().Find(item.ID)
	require.True(t, ok)
	assert.Equal(t, int32(5), got.Quantity)

	notifications := h.recorder.All()
	require.Len(t, notifications, 1)
	assert.Equal(t, "Quantity updated", notifications[0].Title)
}

// Test_Service_UpdateQuantity_ZeroRemoves validates that quantity 0 is routed
// through item removal rather than storing a zero-quantity line.
func Test_Service_UpdateQuantity_ZeroRemoves(t *testing.T) {
	item := cartItem("Widget", "10.00", 3)

	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/cart/items/"+item.ID.String(), r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	h.col.Seed(domain.Cart{Items: []domain.CartItem{item}})

	state, err := h.service.UpdateQuantity(context.Background(), item.ID, 0)

	require.NoError(t, err)
	assert.Equal(t, mutation.StateCommitted, state)
	assert.True(t, h.service.Cart().IsEmpty())

	notifications := h.recorder.All()
	require.Len(t, notifications, 1)
	assert.Equal(t, "Item removed", notifications[0].Title)
}

// Test_Service_UpdateQuantity_NegativeRejectedLocally validates local
// validation: no request leaves the process.
func Test_Service_UpdateQuantity_NegativeRejectedLocally(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a locally rejected mutation")
	})

	item := cartItem("Widget", "10.00", 3)
	h.col.Seed(domain.Cart{Items: []domain.CartItem{item}})

	state, err := h.service.UpdateQuantity(context.Background(), item.ID, -1)

	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, mutation.StateIdle, state)
	assert.Equal(t, int64(0), h.requests.Load())

	got, _ := h.service.Cart().Find(item.ID)
	assert.Equal(t, int32(3), got.Quantity, "cart untouched by rejection")
}

// Test_Service_ClearThenUpdateIsNoop validates that an update against an
// item removed by a cleared cart is rejected locally and cannot resurrect
// the cleared data.
func Test_Service_ClearThenUpdateIsNoop(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		// Only the clear request is expected.
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/cart", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	item := cartItem("Widget", "10.00", 2)
	h.col.Seed(domain.Cart{Items: []domain.CartItem{item}})

	state, err := h.service.ClearCart(context.Background())
	require.NoError(t, err)
	require.Equal(t, mutation.StateCommitted, state)
	require.True(t, h.service.Cart().IsEmpty())

	state, err = h.service.UpdateQuantity(context.Background(), item.ID, 5)

	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
	assert.Equal(t, mutation.StateIdle, state)
	assert.True(t, h.service.Cart().IsEmpty(), "stale item ID cannot resurrect cleared data")
	assert.Equal(t, int64(1), h.requests.Load(), "only the clear reached the server")

	notifications := h.recorder.All()
	require.Len(t, notifications, 2)
	assert.Equal(t, "Cart cleared", notifications[0].Title)
	assert.Equal(t, "Cannot complete request", notifications[1].Title)
}

// Test_Service_Refresh validates fetching and caching the upstream cart.
func Test_Service_Refresh(t *testing.T) {
	item := cartItem("Widget", "10.00", 2)

	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart", r.URL.Path)
		p := decimal.RequireFromString("10.00")
		json.NewEncoder(w).Encode(api.CartPayload{Items: []api.CartItemPayload{{
			ID:          item.ID,
			ProductName: "Widget",
			PriceEUR:    &p,
			Quantity:    2,
		}}})
	})

	require.NoError(t, h.service.Refresh(context.Background()))
	assert.Equal(t, 2, h.service.ItemCount())

	eur := tenant.Tenant{Currency: domain.CurrencyEUR}
	assert.Equal(t, "€20.00", h.service.FormattedSubtotal(eur))

	lines := h.service.Lines(eur)
	require.Len(t, lines, 1)
	assert.Equal(t, "€20.00", lines[0].FormattedTotal)
}
