package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/sindri/internal/api"
	"github.com/dukerupert/sindri/internal/cache"
	"github.com/dukerupert/sindri/internal/domain"
	"github.com/dukerupert/sindri/internal/mutation"
	"github.com/dukerupert/sindri/internal/notify"
	"github.com/dukerupert/sindri/internal/tenant"
)

// Form carries the checkout fields captured from the billing form.
type Form struct {
	CompanyName   string `json:"company_name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Address       string `json:"address" validate:"required"`
	City          string `json:"city" validate:"required"`
	PostalCode    string `json:"postal_code" validate:"required"`
	Country       string `json:"country" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=wallet card bank_transfer purchase_order"`
}

// Service provides checkout: building a draft order from the cart snapshot
// and placing it optimistically against the upstream API.
type Service interface {
	// PlaceOrder validates the form, gates wallet payments on the
	// last-known balance, then drives the order mutation. The insufficient
	// balance check runs before any optimistic state, so rejection needs
	// no rollback and sends no request.
	PlaceOrder(ctx context.Context, t tenant.Tenant, form Form) (domain.Order, mutation.State, error)

	// RefreshWallet fetches the authoritative wallet balance.
	RefreshWallet(ctx context.Context) error

	// RefreshOrders fetches the authoritative order history.
	RefreshOrders(ctx context.Context) error

	// Orders returns the current cached order list.
	Orders() domain.OrderList

	// Wallet returns the last-known wallet balance.
	Wallet() domain.Wallet
}

type service struct {
	orders   *cache.Collection[domain.OrderList]
	cart     *cache.Collection[domain.Cart]
	wallet   *cache.Collection[domain.Wallet]
	coord    *mutation.Coordinator
	client   *api.Client
	validate *validator.Validate
	taxRate  decimal.Decimal
	logger   *slog.Logger
}

// NewService creates a checkout service. A zero taxRate falls back to the
// default rate.
func NewService(
	orders *cache.Collection[domain.OrderList],
	cart *cache.Collection[domain.Cart],
	wallet *cache.Collection[domain.Wallet],
	coord *mutation.Coordinator,
	client *api.Client,
	taxRate decimal.Decimal,
	logger *slog.Logger,
) Service {
	if taxRate.IsZero() {
		taxRate = domain.DefaultTaxRate
	}
	return &service{
		orders:   orders,
		cart:     cart,
		wallet:   wallet,
		coord:    coord,
		client:   client,
		validate: validator.New(),
		taxRate:  taxRate,
		logger:   logger,
	}
}

// placeOrderRequest is the wire request for creating an order.
type placeOrderRequest struct {
	Items         []api.CartItemPayload `json:"items"`
	Currency      string                `json:"currency"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Tax           decimal.Decimal       `json:"tax"`
	Total         decimal.Decimal       `json:"total"`
	PaymentMethod string                `json:"payment_method"`
	Billing       Form                  `json:"billing"`
	ClientOrderID string                `json:"client_order_id"`
}

// PlaceOrder validates the form and drives the order mutation.
func (s *service) PlaceOrder(ctx context.Context, t tenant.Tenant, form Form) (domain.Order, mutation.State, error) {
	var (
		draft  domain.Order
		placed domain.Order
	)

	state, err := mutation.Run(ctx, s.coord, s.orders, mutation.Mutation[domain.OrderList]{
		Name: "checkout.place_order",
		// Local validation (form, empty cart, wallet balance) runs before
		// any state transition: rejection needs no rollback and sends no
		// request.
		Precheck: func() error {
			d, err := s.buildDraft(t, form)
			if err != nil {
				return err
			}
			draft = d
			return nil
		},
		Apply: func(l domain.OrderList) domain.OrderList {
			return l.WithProvisional(draft)
		},
		Call: func(ctx context.Context) (domain.OrderList, bool, error) {
			var payload api.OrderPayload
			err := s.client.Post(ctx, "/orders", s.toRequest(draft, form), &payload)
			if err != nil {
				return domain.OrderList{}, false, err
			}
			if payload.ID == uuid.Nil {
				// Acknowledged without an order body: keep the provisional
				// submitted entry as final.
				placed = draft
				placed.Status = domain.OrderSubmitted
				return domain.OrderList{}, false, nil
			}

			placed = payload.ToDomain()
			if placed.ID == draft.ID {
				// Server echoes the client order ID; replace the
				// provisional entry with the confirmed order.
				return s.orders.Get().WithResolved(placed), true, nil
			}
			// Server assigned its own ID: drop the provisional entry and
			// prepend the confirmed order.
			current := s.orders.Get()
			confirmed := domain.OrderList{Orders: append([]domain.Order{placed}, current.Orders...)}
			return confirmed.WithoutOrder(draft.ID), true, nil
		},
		Success: notify.Notification{
			Title:       "Order placed",
			Description: "Your order has been submitted successfully.",
			Variant:     notify.VariantSuccess,
		},
	})
	if err != nil {
		return domain.Order{}, state, err
	}

	// The server clears the cart when an order lands; mirror that locally
	// so a stale item ID cannot resurrect cleared data.
	s.cart.Seed(domain.Cart{})

	return placed, state, nil
}

// buildDraft runs all local validation and constructs the draft order.
// Returned errors are domain-coded and become the precheck rejection.
func (s *service) buildDraft(t tenant.Tenant, form Form) (domain.Order, error) {
	if err := s.validate.Struct(form); err != nil {
		return domain.Order{}, domain.WrapError(err, domain.EINVALID, "checkout.place_order",
			"Please fill in all required billing fields")
	}

	method := domain.PaymentMethod(form.PaymentMethod)
	cart := s.cart.Get()

	draft, err := domain.NewDraft(cart, t.Currency, method, domain.BillingInfo{
		CompanyName: form.CompanyName,
		Email:       form.Email,
		Address:     form.Address,
		City:        form.City,
		PostalCode:  form.PostalCode,
		Country:     form.Country,
	}, s.taxRate)
	if err != nil {
		return domain.Order{}, err
	}

	if method == domain.PaymentWallet {
		wallet := s.wallet.Get()
		if wallet.HasInsufficientBalance(draft.Total) {
			s.logger.Debug("wallet balance insufficient for order",
				"total", draft.Total, "available", wallet.TotalAvailable())
			return domain.Order{}, domain.ErrInsufficientBalance
		}
	}

	return draft, nil
}

func (s *service) toRequest(draft domain.Order, form Form) placeOrderRequest {
	items := make([]api.CartItemPayload, len(draft.Items))
	for i, item := range draft.Items {
		items[i] = api.CartItemPayload{
			ID:          item.ID,
			UserID:      item.UserID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Stock:       item.Stock,
			Quantity:    item.Quantity,
		}
		if item.PriceEUR.Valid {
			p := item.PriceEUR.Decimal
			items[i].PriceEUR = &p
		}
		if item.PriceKM.Valid {
			p := item.PriceKM.Decimal
			items[i].PriceKM = &p
		}
	}

	return placeOrderRequest{
		Items:         items,
		Currency:      string(draft.Currency),
		Subtotal:      draft.Subtotal,
		Tax:           draft.Tax,
		Total:         draft.Total,
		PaymentMethod: string(draft.PaymentMethod),
		Billing:       form,
		ClientOrderID: draft.ID.String(),
	}
}

// RefreshWallet fetches the authoritative wallet balance.
func (s *service) RefreshWallet(ctx context.Context) error {
	_, err := s.wallet.Refresh(ctx, func(ctx context.Context) (domain.Wallet, error) {
		var payload api.WalletPayload
		if err := s.client.Get(ctx, "/wallet", &payload); err != nil {
			return domain.Wallet{}, fmt.Errorf("failed to fetch wallet: %w", err)
		}
		return payload.ToDomain(), nil
	})
	return err
}

// RefreshOrders fetches the authoritative order history.
func (s *service) RefreshOrders(ctx context.Context) error {
	_, err := s.orders.Refresh(ctx, func(ctx context.Context) (domain.OrderList, error) {
		var payloads []api.OrderPayload
		if err := s.client.Get(ctx, "/orders", &payloads); err != nil {
			return domain.OrderList{}, fmt.Errorf("failed to fetch orders: %w", err)
		}
		orders := make([]domain.Order, len(payloads))
		for i, p := range payloads {
			orders[i] = p.ToDomain()
		}
		return domain.OrderList{Orders: orders}, nil
	})
	return err
}

// Orders returns the current cached order list.
func (s *service) Orders() domain.OrderList {
	return s.orders.Get()
}

// Wallet returns the last-known wallet balance.
func (s *service) Wallet() domain.Wallet {
	return s.wallet.Get()
}

// Compile-time check that service implements Service.
var _ Service = (*service)(nil)
