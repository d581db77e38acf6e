package ast

import (
	"time"

	"github.com/shopspring/decimal"
)

// RowKind distinguishes normal, added and removed transaction rows.
type RowKind uint8

const (
	Transaction        RowKind = iota // #TRANS
	AddedTransaction                  // #RTRANS
	RemovedTransaction                // #BTRANS
)

var rowKindTags = [...]string{
	Transaction:        "#TRANS",
	AddedTransaction:   "#RTRANS",
	RemovedTransaction: "#BTRANS",
}

// Tag returns the record tag of the kind, e.g. "#TRANS".
func (k RowKind) Tag() string {
	if int(k) < len(rowKindTags) {
		return rowKindTags[k]
	}
	return "#TRANS"
}

func (k RowKind) String() string {
	return k.Tag()
}

// Voucher is one double-entry transaction (#VER) with its rows.
type Voucher struct {
	Series      string
	Number      string
	Date        time.Time
	Text        string
	CreatedDate time.Time // zero when absent
	CreatedBy   string
	Rows        []*VoucherRow
	Pos         Position
}

// Sum returns the total of all row amounts.
func (v *Voucher) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, row := range v.Rows {
		sum = sum.Add(row.Amount)
	}
	return sum
}

// VoucherRow is a single transaction row of a voucher.
type VoucherRow struct {
	Kind      RowKind
	Account   string
	Objects   []ObjectRef
	Amount    decimal.Decimal
	Date      time.Time
	Text      string
	Quantity  decimal.NullDecimal
	CreatedBy string
}
