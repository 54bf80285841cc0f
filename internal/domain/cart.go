package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
	ErrNoPriceForItem   = &Error{Code: EINVALID, Message: "Product has no price in any currency"}
)

// CartItem is a cart line item with a denormalized product snapshot.
// A product carries at most one price per supported currency; at least one
// must be present.
type CartItem struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	PriceEUR    decimal.NullDecimal
	PriceKM     decimal.NullDecimal
	Stock       int32
	Quantity    int32
}

// UnitPrice returns the item's unit price in the given currency.
// The second return value is false when the product is not priced in it.
func (i CartItem) UnitPrice(c Currency) (decimal.Decimal, bool) {
	switch c {
	case CurrencyEUR:
		if i.PriceEUR.Valid {
			return i.PriceEUR.Decimal, true
		}
	case CurrencyKM:
		if i.PriceKM.Valid {
			return i.PriceKM.Decimal, true
		}
	}
	return decimal.Zero, false
}

// LineTotal returns quantity * unit price in the given currency.
// An item without a price in that currency contributes zero.
func (i CartItem) LineTotal(c Currency) decimal.Decimal {
	unit, ok := i.UnitPrice(c)
	if !ok {
		return decimal.Zero
	}
	return unit.Mul(decimal.NewFromInt32(i.Quantity))
}

// Validate checks the cart item invariants: quantity >= 1 and at least one
// currency price present. An item that would reach quantity 0 must be removed
// from the cart, never stored.
func (i CartItem) Validate() error {
	if i.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if !i.PriceEUR.Valid && !i.PriceKM.Valid {
		return ErrNoPriceForItem
	}
	return nil
}

// Cart is a value-typed collection of cart items. Update helpers copy the
// item slice so a held snapshot never observes later writes.
type Cart struct {
	Items []CartItem
}

// Find returns the item with the given ID, or false when absent.
func (c Cart) Find(itemID uuid.UUID) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return CartItem{}, false
}

// ItemCount returns the sum of all item quantities.
func (c Cart) ItemCount() int {
	var n int
	for _, item := range c.Items {
		n += int(item.Quantity)
	}
	return n
}

// Subtotal returns the sum of line totals in the given currency.
func (c Cart) Subtotal(currency Currency) decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal(currency))
	}
	return total
}

// IsEmpty reports whether the cart holds no items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// WithQuantity returns a copy of the cart with the item's quantity replaced.
// Quantity 0 removes the item. Unknown item IDs leave the cart unchanged.
func (c Cart) WithQuantity(itemID uuid.UUID, quantity int32) Cart {
	if quantity == 0 {
		return c.WithoutItem(itemID)
	}

	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	for idx := range items {
		if items[idx].ID == itemID {
			items[idx].Quantity = quantity
			break
		}
	}
	return Cart{Items: items}
}

// WithoutItem returns a copy of the cart with the item removed.
func (c Cart) WithoutItem(itemID uuid.UUID) Cart {
	items := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	return Cart{Items: items}
}

// Cleared returns an empty cart.
func (c Cart) Cleared() Cart {
	return Cart{}
}
