package ast

import (
	"slices"

	"github.com/shopspring/decimal"
)

// ValueKind identifies the record kind that produced a PeriodValue.
type ValueKind uint8

const (
	OpeningBalance       ValueKind = iota + 1 // #IB
	ClosingBalance                            // #UB
	ObjectOpeningBalance                      // #OIB
	ObjectClosingBalance                      // #OUB
	PeriodBudget                              // #PBUDGET
	PeriodBalance                             // #PSALDO
	Result                                    // #RES
)

var valueKindTags = map[ValueKind]string{
	OpeningBalance:       "#IB",
	ClosingBalance:       "#UB",
	ObjectOpeningBalance: "#OIB",
	ObjectClosingBalance: "#OUB",
	PeriodBudget:         "#PBUDGET",
	PeriodBalance:        "#PSALDO",
	Result:               "#RES",
}

// ValueKinds lists every kind in serialization order.
var ValueKinds = []ValueKind{
	OpeningBalance,
	ClosingBalance,
	ObjectOpeningBalance,
	ObjectClosingBalance,
	PeriodBudget,
	PeriodBalance,
	Result,
}

// Tag returns the record tag of the kind, e.g. "#IB".
func (k ValueKind) Tag() string {
	return valueKindTags[k]
}

func (k ValueKind) String() string {
	if tag, ok := valueKindTags[k]; ok {
		return tag
	}
	return "UNKNOWN"
}

// HasObjects reports whether records of this kind carry an object list.
func (k ValueKind) HasObjects() bool {
	switch k {
	case ObjectOpeningBalance, ObjectClosingBalance, PeriodBudget, PeriodBalance:
		return true
	}
	return false
}

// HasPeriod reports whether records of this kind carry a sub-period.
func (k ValueKind) HasPeriod() bool {
	return k == PeriodBudget || k == PeriodBalance
}

// PeriodValue is a balance, budget or result line for one account.
type PeriodValue struct {
	Kind     ValueKind
	Year     int
	Period   int // yyyyMM, zero when the kind has no sub-period
	Account  string
	Objects  []ObjectRef
	Amount   decimal.Decimal
	Quantity decimal.NullDecimal
	Pos      Position
}

// ToVoucherRow converts the value into a voucher row booking the same amount.
func (pv *PeriodValue) ToVoucherRow() *VoucherRow {
	return &VoucherRow{
		Kind:     Transaction,
		Account:  pv.Account,
		Objects:  slices.Clone(pv.Objects),
		Amount:   pv.Amount,
		Quantity: pv.Quantity,
	}
}

// ToInvertedVoucherRow converts the value into a voucher row booking the
// negated amount and quantity, as used when closing a balance.
func (pv *PeriodValue) ToInvertedVoucherRow() *VoucherRow {
	row := pv.ToVoucherRow()
	row.Amount = pv.Amount.Neg()
	if pv.Quantity.Valid {
		row.Quantity = decimal.NewNullDecimal(pv.Quantity.Decimal.Neg())
	}
	return row
}
