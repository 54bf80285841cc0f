package cart

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/sindri/internal/api"
	"github.com/dukerupert/sindri/internal/cache"
	"github.com/dukerupert/sindri/internal/domain"
	"github.com/dukerupert/sindri/internal/mutation"
	"github.com/dukerupert/sindri/internal/notify"
	"github.com/dukerupert/sindri/internal/pricing"
	"github.com/dukerupert/sindri/internal/tenant"
)

// Service provides the cart mutation operations and read selectors.
// All writes go through the mutation coordinator; the cached cart is the
// single shared state and is never written directly.
type Service interface {
	// Refresh fetches the authoritative cart from the upstream API.
	Refresh(ctx context.Context) error

	// UpdateQuantity sets an item's quantity optimistically. Quantity 0
	// removes the item; an unknown item ID is rejected locally without a
	// request, so stale IDs can never resurrect removed data.
	UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int32) (mutation.State, error)

	// RemoveItem removes an item optimistically.
	RemoveItem(ctx context.Context, itemID uuid.UUID) (mutation.State, error)

	// ClearCart removes all items optimistically.
	ClearCart(ctx context.Context) (mutation.State, error)

	// Cart returns the current cached cart.
	Cart() domain.Cart

	// ItemCount returns the total quantity across all items.
	ItemCount() int

	// Subtotal returns the cart subtotal in the tenant's currency.
	Subtotal(t tenant.Tenant) decimal.Decimal

	// FormattedSubtotal returns the display string for the subtotal.
	FormattedSubtotal(t tenant.Tenant) string

	// Lines returns per-item line totals for display.
	Lines(t tenant.Tenant) []Line

	// Subscribe registers fn for cart change notifications.
	Subscribe(fn func(domain.Cart)) func()
}

// Line is one cart row with its computed and formatted total.
type Line struct {
	Item           domain.CartItem
	LineTotal      decimal.Decimal
	FormattedTotal string
}

type service struct {
	col       *cache.Collection[domain.Cart]
	coord     *mutation.Coordinator
	client    *api.Client
	formatter *pricing.Formatter
	logger    *slog.Logger
}

// NewService creates a cart service over the given cached collection.
func NewService(
	col *cache.Collection[domain.Cart],
	coord *mutation.Coordinator,
	client *api.Client,
	formatter *pricing.Formatter,
	logger *slog.Logger,
) Service {
	return &service{
		col:       col,
		coord:     coord,
		client:    client,
		formatter: formatter,
		logger:    logger,
	}
}

// Refresh fetches the authoritative cart from the upstream API.
func (s *service) Refresh(ctx context.Context) error {
	_, err := s.col.Refresh(ctx, func(ctx context.Context) (domain.Cart, error) {
		var payload api.CartPayload
		if err := s.client.Get(ctx, "/cart", &payload); err != nil {
			return domain.Cart{}, fmt.Errorf("failed to fetch cart: %w", err)
		}
		return payload.ToDomain(), nil
	})
	return err
}

// UpdateQuantity sets an item's quantity optimistically.
func (s *service) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int32) (mutation.State, error) {
	if quantity == 0 {
		return s.RemoveItem(ctx, itemID)
	}

	return mutation.Run(ctx, s.coord, s.col, mutation.Mutation[domain.Cart]{
		Name: "cart.update_quantity",
		Precheck: func() error {
			if quantity < 0 {
				return domain.ErrInvalidQuantity
			}
			if _, ok := s.col.Get().Find(itemID); !ok {
				return domain.ErrCartItemNotFound
			}
			return nil
		},
		Apply: func(c domain.Cart) domain.Cart {
			return c.WithQuantity(itemID, quantity)
		},
		Call: func(ctx context.Context) (domain.Cart, bool, error) {
			var payload api.CartPayload
			err := s.client.Patch(ctx, "/cart/items/"+itemID.String(),
				map[string]int32{"quantity": quantity}, &payload)
			if err != nil {
				return domain.Cart{}, false, err
			}
			if payload.Items == nil {
				return domain.Cart{}, false, nil
			}
			return payload.ToDomain(), true, nil
		},
		Success: notify.Notification{
			Title:   "Quantity updated",
			Variant: notify.VariantSuccess,
		},
	})
}

// RemoveItem removes an item optimistically.
func (s *service) RemoveItem(ctx context.Context, itemID uuid.UUID) (mutation.State, error) {
	return mutation.Run(ctx, s.coord, s.col, mutation.Mutation[domain.Cart]{
		Name: "cart.remove_item",
		Precheck: func() error {
			if _, ok := s.col.Get().Find(itemID); !ok {
				return domain.ErrCartItemNotFound
			}
			return nil
		},
		Apply: func(c domain.Cart) domain.Cart {
			return c.WithoutItem(itemID)
		},
		Call: func(ctx context.Context) (domain.Cart, bool, error) {
			var payload api.CartPayload
			err := s.client.Delete(ctx, "/cart/items/"+itemID.String(), &payload)
			if err != nil {
				return domain.Cart{}, false, err
			}
			if payload.Items == nil {
				return domain.Cart{}, false, nil
			}
			return payload.ToDomain(), true, nil
		},
		Success: notify.Notification{
			Title:   "Item removed",
			Variant: notify.VariantSuccess,
		},
	})
}

// ClearCart removes all items optimistically.
func (s *service) ClearCart(ctx context.Context) (mutation.State, error) {
	return mutation.Run(ctx, s.coord, s.col, mutation.Mutation[domain.Cart]{
		Name: "cart.clear",
		Apply: func(c domain.Cart) domain.Cart {
			return c.Cleared()
		},
		Call: func(ctx context.Context) (domain.Cart, bool, error) {
			if err := s.client.Delete(ctx, "/cart", nil); err != nil {
				return domain.Cart{}, false, err
			}
			return domain.Cart{}, true, nil
		},
		Success: notify.Notification{
			Title:   "Cart cleared",
			Variant: notify.VariantSuccess,
		},
	})
}

// Cart returns the current cached cart.
func (s *service) Cart() domain.Cart {
	return s.col.Get()
}

// ItemCount returns the total quantity across all items.
func (s *service) ItemCount() int {
	return s.col.Get().ItemCount()
}

// Subtotal returns the cart subtotal in the tenant's currency.
func (s *service) Subtotal(t tenant.Tenant) decimal.Decimal {
	return s.col.Get().Subtotal(t.Currency)
}

// FormattedSubtotal returns the display string for the subtotal.
func (s *service) FormattedSubtotal(t tenant.Tenant) string {
	return s.formatter.Format(s.Subtotal(t), t)
}

// Lines returns per-item line totals for display.
func (s *service) Lines(t tenant.Tenant) []Line {
	cart := s.col.Get()
	lines := make([]Line, len(cart.Items))
	for i, item := range cart.Items {
		total := item.LineTotal(t.Currency)
		lines[i] = Line{
			Item:           item,
			LineTotal:      total,
			FormattedTotal: s.formatter.Format(total, t),
		}
	}
	return lines
}

// Subscribe registers fn for cart change notifications.
func (s *service) Subscribe(fn func(domain.Cart)) func() {
	return s.col.Subscribe(fn)
}

// Compile-time check that service implements Service.
var _ Service = (*service)(nil)
