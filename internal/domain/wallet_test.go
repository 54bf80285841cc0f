package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dukerupert/sindri/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Test_Wallet_AvailableCredit validates the derived credit calculation,
// including the clamp at zero when credit is overdrawn.
func Test_Wallet_AvailableCredit(t *testing.T) {
	tests := []struct {
		name  string
		limit string
		used  string
		want  string
	}{
		{"unused credit", "1000.00", "0.00", "1000.00"},
		{"partially used", "1000.00", "250.50", "749.50"},
		{"fully used", "1000.00", "1000.00", "0.00"},
		{"overdrawn clamps to zero", "1000.00", "1200.00", "0.00"},
		{"no credit line", "0.00", "0.00", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := domain.Wallet{CreditLimit: d(tt.limit), CreditUsed: d(tt.used)}
			assert.True(t, w.AvailableCredit().Equal(d(tt.want)),
				"got %s", w.AvailableCredit())
		})
	}
}

// Test_Wallet_TotalAvailable validates that overdrawn credit never reduces
// the deposit balance.
func Test_Wallet_TotalAvailable(t *testing.T) {
	w := domain.Wallet{
		DepositBalance: d("100.00"),
		CreditLimit:    d("500.00"),
		CreditUsed:     d("200.00"),
	}
	assert.True(t, w.TotalAvailable().Equal(d("400.00")))

	overdrawn := domain.Wallet{
		DepositBalance: d("100.00"),
		CreditLimit:    d("500.00"),
		CreditUsed:     d("700.00"),
	}
	assert.True(t, overdrawn.TotalAvailable().Equal(d("100.00")),
		"overdrawn credit contributes zero, not a negative amount")
}

// Test_Wallet_Overlimit validates the boundary: used credit exactly at the
// limit is not overlimit, one cent past it is.
func Test_Wallet_Overlimit(t *testing.T) {
	atLimit := domain.Wallet{CreditLimit: d("500.00"), CreditUsed: d("500.00")}
	assert.False(t, atLimit.Overlimit())

	pastLimit := domain.Wallet{CreditLimit: d("500.00"), CreditUsed: d("500.01")}
	assert.True(t, pastLimit.Overlimit())
}

// Test_Wallet_HasInsufficientBalance validates the checkout affordability
// check at and around the boundary.
func Test_Wallet_HasInsufficientBalance(t *testing.T) {
	w := domain.Wallet{DepositBalance: d("50.00")}

	assert.False(t, w.HasInsufficientBalance(d("50.00")), "exactly covered")
	assert.True(t, w.HasInsufficientBalance(d("50.01")))
	assert.True(t, w.HasInsufficientBalance(d("75.00")))
}
