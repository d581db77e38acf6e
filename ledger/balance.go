package ledger

import (
	"github.com/shopspring/decimal"
)

// AccountBalance is the reconciliation state of one account for one
// fiscal year.
type AccountBalance struct {
	Account string
	Name    string

	Opening  decimal.Decimal // #IB
	Movement decimal.Decimal // sum of #TRANS rows
	Closing  decimal.Decimal // #UB
	Result   decimal.Decimal // #RES

	HasOpening bool
	HasClosing bool
	HasResult  bool

	// Periods holds the movement per month, keyed yyyyMM.
	Periods map[int]decimal.Decimal

	// Rows counts the transaction rows booked on the account.
	Rows int
}

func newAccountBalance(number string) *AccountBalance {
	return &AccountBalance{Account: number, Periods: make(map[int]decimal.Decimal)}
}

// Computed returns the closing balance implied by the opening balance and
// the voucher movements.
func (b *AccountBalance) Computed() decimal.Decimal {
	return b.Opening.Add(b.Movement)
}

// IsBalanceSheet reports whether the account carries opening or closing
// balances, as opposed to a result account.
func (b *AccountBalance) IsBalanceSheet() bool {
	return b.HasOpening || b.HasClosing
}

func (b *AccountBalance) book(period int, amount decimal.Decimal) {
	b.Movement = b.Movement.Add(amount)
	b.Periods[period] = b.Periods[period].Add(amount)
	b.Rows++
}

func withinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
