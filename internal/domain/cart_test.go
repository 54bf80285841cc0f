package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/sindri/internal/domain"
)

func price(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func sampleCart() (domain.Cart, domain.CartItem, domain.CartItem) {
	widget := domain.CartItem{
		ID:          uuid.New(),
		ProductName: "Widget",
		PriceEUR:    price("10.00"),
		PriceKM:     price("19.50"),
		Stock:       10,
		Quantity:    2,
	}
	gadget := domain.CartItem{
		ID:          uuid.New(),
		ProductName: "Gadget",
		PriceEUR:    price("5.25"),
		Stock:       4,
		Quantity:    1,
	}
	return domain.Cart{Items: []domain.CartItem{widget, gadget}}, widget, gadget
}

// Test_CartItem_UnitPrice validates per-currency price lookup, including
// items not priced in the requested currency.
func Test_CartItem_UnitPrice(t *testing.T) {
	_, widget, gadget := sampleCart()

	unit, ok := widget.UnitPrice(domain.CurrencyKM)
	require.True(t, ok)
	assert.True(t, unit.Equal(d("19.50")))

	_, ok = gadget.UnitPrice(domain.CurrencyKM)
	assert.False(t, ok, "gadget has no KM price")

	assert.True(t, gadget.LineTotal(domain.CurrencyKM).IsZero(),
		"unpriced line contributes zero to totals")
}

// Test_CartItem_Validate validates the item invariants.
func Test_CartItem_Validate(t *testing.T) {
	_, widget, _ := sampleCart()
	assert.NoError(t, widget.Validate())

	zeroQty := widget
	zeroQty.Quantity = 0
	assert.ErrorIs(t, zeroQty.Validate(), domain.ErrInvalidQuantity)

	unpriced := widget
	unpriced.PriceEUR = decimal.NullDecimal{}
	unpriced.PriceKM = decimal.NullDecimal{}
	assert.ErrorIs(t, unpriced.Validate(), domain.ErrNoPriceForItem)
}

// Test_Cart_Derivations validates item count and per-currency subtotal.
func Test_Cart_Derivations(t *testing.T) {
	cart, _, _ := sampleCart()

	assert.Equal(t, 3, cart.ItemCount())
	assert.True(t, cart.Subtotal(domain.CurrencyEUR).Equal(d("25.25")), "2*10.00 + 1*5.25")
	assert.True(t, cart.Subtotal(domain.CurrencyKM).Equal(d("39.00")), "unpriced gadget excluded")
	assert.False(t, cart.IsEmpty())
	assert.True(t, domain.Cart{}.IsEmpty())
}

// Test_Cart_WithQuantity validates the copy-on-write quantity update,
// including the zero-removes rule and unknown IDs.
func Test_Cart_WithQuantity(t *testing.T) {
	cart, widget, _ := sampleCart()

	updated := cart.WithQuantity(widget.ID, 5)
	item, ok := updated.Find(widget.ID)
	require.True(t, ok)
	assert.Equal(t, int32(5), item.Quantity)

	original, ok := cart.Find(widget.ID)
	require.True(t, ok)
	assert.Equal(t, int32(2), original.Quantity, "source cart untouched")

	removed := cart.WithQuantity(widget.ID, 0)
	_, ok = removed.Find(widget.ID)
	assert.False(t, ok, "quantity 0 removes the item")
	assert.Len(t, removed.Items, 1)

	unchanged := cart.WithQuantity(uuid.New(), 3)
	assert.Equal(t, cart, unchanged, "unknown ID is a no-op")
}

// Test_Cart_WithoutItem validates item removal and the cleared cart.
func Test_Cart_WithoutItem(t *testing.T) {
	cart, widget, gadget := sampleCart()

	remaining := cart.WithoutItem(gadget.ID)
	assert.Len(t, remaining.Items, 1)
	_, ok := remaining.Find(widget.ID)
	assert.True(t, ok)

	assert.Empty(t, cart.Cleared().Items)
	assert.Len(t, cart.Items, 2, "source cart untouched")
}
