package ast

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherOption configures a voucher built with NewVoucher.
type VoucherOption func(*Voucher)

// WithVoucherText sets the voucher description.
func WithVoucherText(text string) VoucherOption {
	return func(v *Voucher) {
		v.Text = text
	}
}

// WithCreated sets the registration date and author of the voucher.
func WithCreated(date time.Time, by string) VoucherOption {
	return func(v *Voucher) {
		v.CreatedDate = date
		v.CreatedBy = by
	}
}

// WithRows appends rows to the voucher. Rows without a date get the
// voucher date.
func WithRows(rows ...*VoucherRow) VoucherOption {
	return func(v *Voucher) {
		v.Rows = append(v.Rows, rows...)
	}
}

// NewVoucher creates a voucher.
//
// Example:
//
//	v := ast.NewVoucher("A", "1", date,
//	    ast.WithVoucherText("Kontantförsäljning"),
//	    ast.WithRows(
//	        ast.NewVoucherRow("1910", decimal.RequireFromString("100.00")),
//	        ast.NewVoucherRow("3010", decimal.RequireFromString("-100.00")),
//	    ),
//	)
func NewVoucher(series, number string, date time.Time, opts ...VoucherOption) *Voucher {
	v := &Voucher{
		Series: series,
		Number: number,
		Date:   date,
	}
	for _, opt := range opts {
		opt(v)
	}
	for _, row := range v.Rows {
		if row.Date.IsZero() {
			row.Date = date
		}
	}
	return v
}

// RowOption configures a voucher row built with NewVoucherRow.
type RowOption func(*VoucherRow)

// WithRowKind sets the row kind.
func WithRowKind(kind RowKind) RowOption {
	return func(r *VoucherRow) {
		r.Kind = kind
	}
}

// WithObjects attaches analysis objects to the row.
func WithObjects(refs ...ObjectRef) RowOption {
	return func(r *VoucherRow) {
		r.Objects = append(r.Objects, refs...)
	}
}

// WithRowText sets the row description.
func WithRowText(text string) RowOption {
	return func(r *VoucherRow) {
		r.Text = text
	}
}

// WithRowDate sets the transaction date.
func WithRowDate(date time.Time) RowOption {
	return func(r *VoucherRow) {
		r.Date = date
	}
}

// WithQuantity sets the quantity.
func WithQuantity(q decimal.Decimal) RowOption {
	return func(r *VoucherRow) {
		r.Quantity = decimal.NewNullDecimal(q)
	}
}

// WithRowCreatedBy sets the author of the row.
func WithRowCreatedBy(sign string) RowOption {
	return func(r *VoucherRow) {
		r.CreatedBy = sign
	}
}

// NewVoucherRow creates a transaction row.
func NewVoucherRow(account string, amount decimal.Decimal, opts ...RowOption) *VoucherRow {
	r := &VoucherRow{
		Kind:    Transaction,
		Account: account,
		Amount:  amount,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewPeriodValue creates a period value of the given kind.
func NewPeriodValue(kind ValueKind, year int, account string, amount decimal.Decimal) *PeriodValue {
	return &PeriodValue{
		Kind:    kind,
		Year:    year,
		Account: account,
		Amount:  amount,
	}
}

// NewObjectRef creates an object reference.
func NewObjectRef(dimension, number string) ObjectRef {
	return ObjectRef{Dimension: dimension, Number: number}
}
