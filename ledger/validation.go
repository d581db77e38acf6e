package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/sie/ast"
)

// Facts are observations made while reading that the document rules depend
// on but that the document itself does not record.
type Facts struct {
	Filename string

	// ChecksumStarted is set when a #KSUMMA record started accumulation.
	ChecksumStarted bool

	// SingleByteCodec is set when the file was decoded with a single-byte codec.
	SingleByteCodec bool

	// PeriodValues counts the closing balances and results read, retained or
	// not. Only these require a value date.
	PeriodValues int
}

// Validate checks the document-level rules once all records are read. Every
// violated rule yields one error; none stops the others.
func Validate(doc *ast.Document, facts Facts) []error {
	var errs []error
	pos := ast.Position{Filename: facts.Filename}
	opts := doc.Options

	if doc.Generated.IsZero() && !opts.AllowMissingGenDate {
		errs = append(errs, &MissingDateError{Pos: pos, Tag: "#GEN"})
	}

	if (doc.Type == 2 || doc.Type == 3) && facts.PeriodValues > 0 &&
		doc.ValueDate.IsZero() && !opts.IgnoreMissingValueDate {
		errs = append(errs, &MissingDateError{Pos: pos, Tag: "#OMFATTN"})
	}

	if facts.SingleByteCodec && facts.ChecksumStarted && doc.Checksum == 0 {
		errs = append(errs, &InvalidChecksumError{Pos: pos})
	}

	for number := range doc.Unresolved.All() {
		errs = append(errs, &UndefinedDimensionError{Pos: pos, Dimension: number})
	}

	return errs
}

// CheckVoucher verifies that the rows of v sum to zero. Rows of a kind the
// options ignore are left out of the sum.
func CheckVoucher(v *ast.Voucher, opts ast.Options) error {
	if opts.AllowUnbalancedVouchers {
		return nil
	}

	sum := decimal.Zero
	for _, row := range v.Rows {
		if row.Kind == ast.RemovedTransaction && opts.IgnoreBTrans {
			continue
		}
		if row.Kind == ast.AddedTransaction && opts.IgnoreRTrans {
			continue
		}
		sum = sum.Add(row.Amount)
	}

	if !sum.IsZero() {
		return &VoucherImbalanceError{
			Pos:     v.Pos,
			Series:  v.Series,
			Number:  v.Number,
			Sum:     sum,
			Voucher: v,
		}
	}
	return nil
}
