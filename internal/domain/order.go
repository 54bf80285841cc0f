package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCartEmpty            = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrInsufficientBalance  = &Error{Code: EPAYMENT, Message: "Insufficient wallet balance"}
	ErrUnknownPaymentMethod = &Error{Code: EINVALID, Message: "Unknown payment method"}
)

// DefaultTaxRate is applied when the tenant has no override configured.
var DefaultTaxRate = decimal.NewFromFloat(0.21)

// PaymentMethod selects how an order is paid.
type PaymentMethod string

const (
	PaymentWallet        PaymentMethod = "wallet"
	PaymentCard          PaymentMethod = "card"
	PaymentBankTransfer  PaymentMethod = "bank_transfer"
	PaymentPurchaseOrder PaymentMethod = "purchase_order"
)

// Valid reports whether the payment method is supported.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentWallet, PaymentCard, PaymentBankTransfer, PaymentPurchaseOrder:
		return true
	}
	return false
}

// OrderStatus tracks the order lifecycle.
// Draft orders exist only client-side; terminal states are success (order
// number assigned) and failed (no persisted effect).
type OrderStatus string

const (
	OrderDraft     OrderStatus = "draft"
	OrderSubmitted OrderStatus = "submitted"
	OrderSuccess   OrderStatus = "success"
	OrderFailed    OrderStatus = "failed"
)

// BillingInfo carries the billing details captured at checkout.
type BillingInfo struct {
	CompanyName string
	Email       string
	Address     string
	City        string
	PostalCode  string
	Country     string
}

// Order is created from a non-empty cart snapshot at checkout time.
// OrderNumber is assigned by the server on success.
type Order struct {
	ID            uuid.UUID
	OrderNumber   string
	Status        OrderStatus
	Items         []CartItem
	Currency      Currency
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	Billing       BillingInfo
	CreatedAt     time.Time
}

// NewDraft builds a draft order from a cart snapshot, computing
// subtotal, tax (subtotal * rate) and total in the given currency.
func NewDraft(cart Cart, currency Currency, method PaymentMethod, billing BillingInfo, taxRate decimal.Decimal) (Order, error) {
	if cart.IsEmpty() {
		return Order{}, ErrCartEmpty
	}
	if !method.Valid() {
		return Order{}, ErrUnknownPaymentMethod
	}

	items := make([]CartItem, len(cart.Items))
	copy(items, cart.Items)

	subtotal := cart.Subtotal(currency)
	tax := subtotal.Mul(taxRate).Round(2)

	return Order{
		ID:            uuid.New(),
		Status:        OrderDraft,
		Items:         items,
		Currency:      currency,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal.Add(tax),
		PaymentMethod: method,
		Billing:       billing,
		CreatedAt:     time.Now(),
	}, nil
}

// OrderList is the value type cached for the orders collection.
type OrderList struct {
	Orders []Order
}

// WithProvisional returns a copy with the draft order prepended, marked
// submitted. Used for the optimistic overlay while checkout is in flight.
func (l OrderList) WithProvisional(o Order) OrderList {
	o.Status = OrderSubmitted
	orders := make([]Order, 0, len(l.Orders)+1)
	orders = append(orders, o)
	orders = append(orders, l.Orders...)
	return OrderList{Orders: orders}
}

// WithResolved returns a copy with the order of the given ID replaced by the
// server-confirmed version. Unknown IDs leave the list unchanged.
func (l OrderList) WithResolved(resolved Order) OrderList {
	orders := make([]Order, len(l.Orders))
	copy(orders, l.Orders)
	for i := range orders {
		if orders[i].ID == resolved.ID {
			orders[i] = resolved
			break
		}
	}
	return OrderList{Orders: orders}
}

// WithoutOrder returns a copy with the order of the given ID removed.
func (l OrderList) WithoutOrder(id uuid.UUID) OrderList {
	orders := make([]Order, 0, len(l.Orders))
	for _, o := range l.Orders {
		if o.ID != id {
			orders = append(orders, o)
		}
	}
	return OrderList{Orders: orders}
}

// Find returns the order with the given ID, or false when absent.
func (l OrderList) Find(id uuid.UUID) (Order, bool) {
	for _, o := range l.Orders {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}
