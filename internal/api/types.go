package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/sindri/internal/domain"
)

// Wire types for the upstream commerce API. Prices travel as decimal
// strings; absent currency prices are null.

// CartItemPayload is one cart line item on the wire.
type CartItemPayload struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	ProductID   uuid.UUID        `json:"product_id"`
	ProductName string           `json:"product_name"`
	PriceEUR    *decimal.Decimal `json:"price_eur"`
	PriceKM     *decimal.Decimal `json:"price_km"`
	Stock       int32            `json:"stock"`
	Quantity    int32            `json:"quantity"`
}

// CartPayload is the cart collection on the wire.
type CartPayload struct {
	Items []CartItemPayload `json:"items"`
}

// WalletPayload is the wallet balance on the wire. Derived fields are never
// transmitted; they are recomputed locally so they cannot drift.
type WalletPayload struct {
	DepositBalance decimal.Decimal `json:"deposit_balance"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CreditUsed     decimal.Decimal `json:"credit_used"`
}

// OrderPayload is a persisted order on the wire.
type OrderPayload struct {
	ID            uuid.UUID         `json:"id"`
	OrderNumber   string            `json:"order_number"`
	Status        string            `json:"status"`
	Items         []CartItemPayload `json:"items"`
	Currency      string            `json:"currency"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Tax           decimal.Decimal   `json:"tax"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod string            `json:"payment_method"`
	CreatedAt     time.Time         `json:"created_at"`
}

// AlertPayload is an operational alert record on the wire.
type AlertPayload struct {
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Resolved  bool      `json:"resolved"`
	Timestamp time.Time `json:"timestamp"`
}

// ToDomain converts a wire cart item to the domain type.
func (p CartItemPayload) ToDomain() domain.CartItem {
	item := domain.CartItem{
		ID:          p.ID,
		UserID:      p.UserID,
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		Stock:       p.Stock,
		Quantity:    p.Quantity,
	}
	if p.PriceEUR != nil {
		item.PriceEUR = decimal.NewNullDecimal(*p.PriceEUR)
	}
	if p.PriceKM != nil {
		item.PriceKM = decimal.NewNullDecimal(*p.PriceKM)
	}
	return item
}

// ToDomain converts a wire cart to the domain type.
func (p CartPayload) ToDomain() domain.Cart {
	items := make([]domain.CartItem, len(p.Items))
	for i, item := range p.Items {
		items[i] = item.ToDomain()
	}
	return domain.Cart{Items: items}
}

// ToDomain converts a wire wallet to the domain type.
func (p WalletPayload) ToDomain() domain.Wallet {
	return domain.Wallet{
		DepositBalance: p.DepositBalance,
		CreditLimit:    p.CreditLimit,
		CreditUsed:     p.CreditUsed,
	}
}

// ToDomain converts a wire order to the domain type.
func (p OrderPayload) ToDomain() domain.Order {
	items := make([]domain.CartItem, len(p.Items))
	for i, item := range p.Items {
		items[i] = item.ToDomain()
	}
	return domain.Order{
		ID:            p.ID,
		OrderNumber:   p.OrderNumber,
		Status:        domain.OrderStatus(p.Status),
		Items:         items,
		Currency:      domain.Currency(p.Currency),
		Subtotal:      p.Subtotal,
		Tax:           p.Tax,
		Total:         p.Total,
		PaymentMethod: domain.PaymentMethod(p.PaymentMethod),
		CreatedAt:     p.CreatedAt,
	}
}

// ToDomain converts a wire alert to the domain type.
func (p AlertPayload) ToDomain() domain.Alert {
	return domain.Alert{
		Level:     domain.Severity(p.Level),
		Category:  p.Category,
		Message:   p.Message,
		Resolved:  p.Resolved,
		Timestamp: p.Timestamp,
	}
}
