package domain

import "github.com/shopspring/decimal"

// Wallet is a stored-value/credit account usable as a checkout payment
// method. Only the three raw balances are stored; everything else is derived
// on read so the fields cannot drift apart.
type Wallet struct {
	DepositBalance decimal.Decimal
	CreditLimit    decimal.Decimal
	CreditUsed     decimal.Decimal
}

// AvailableCredit returns max(0, CreditLimit - CreditUsed).
func (w Wallet) AvailableCredit() decimal.Decimal {
	avail := w.CreditLimit.Sub(w.CreditUsed)
	if avail.IsNegative() {
		return decimal.Zero
	}
	return avail
}

// TotalAvailable returns DepositBalance + AvailableCredit.
func (w Wallet) TotalAvailable() decimal.Decimal {
	return w.DepositBalance.Add(w.AvailableCredit())
}

// Overlimit reports whether used credit exceeds the credit limit.
// CreditUsed exactly at the limit is not overlimit.
func (w Wallet) Overlimit() bool {
	return w.CreditUsed.GreaterThan(w.CreditLimit)
}

// HasInsufficientBalance reports whether the wallet cannot cover the total.
func (w Wallet) HasInsufficientBalance(total decimal.Decimal) bool {
	return w.TotalAvailable().LessThan(total)
}
