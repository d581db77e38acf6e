// Package ledger checks the accounting consistency of a SIE document.
//
// Validate and CheckVoucher implement the rules the parser applies while
// reading: mandatory dates, checksum presence, undefined dimensions and
// balanced vouchers. A Ledger goes one step further and reconciles every
// account: the opening balance plus the booked voucher rows must give the
// reported closing balance, and the booked rows of a result account must
// give its reported result.
//
//	doc, err := parser.Parse(ctx, f)
//	...
//	l := ledger.New()
//	if err := l.Process(ctx, doc); err != nil {
//	    var verr *ledger.ValidationErrors
//	    if errors.As(err, &verr) {
//	        for _, e := range verr.Errors {
//	            fmt.Println(e)
//	        }
//	    }
//	}
package ledger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/exp/maps"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/telemetry"
)

// Ledger holds the per-account reconciliation of one document.
type Ledger struct {
	balances map[string]*AccountBalance
	errors   []error
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		balances: make(map[string]*AccountBalance),
	}
}

// Process reconciles doc for the fiscal year selected by the context
// Config. Closing balances and results are only compared when the
// document holds vouchers.
func (l *Ledger) Process(ctx context.Context, doc *ast.Document) error {
	cfg := ConfigFromContext(ctx)

	timer := telemetry.StartTimer(ctx, "ledger.reconcile")
	defer timer.End()

	for _, pv := range doc.OpeningBalances {
		if pv.Year == cfg.Year {
			b := l.balance(doc, pv.Account)
			b.Opening = b.Opening.Add(pv.Amount)
			b.HasOpening = true
		}
	}
	for _, pv := range doc.ClosingBalances {
		if pv.Year == cfg.Year {
			b := l.balance(doc, pv.Account)
			b.Closing = b.Closing.Add(pv.Amount)
			b.HasClosing = true
		}
	}
	for _, pv := range doc.Results {
		if pv.Year == cfg.Year {
			b := l.balance(doc, pv.Account)
			b.Result = b.Result.Add(pv.Amount)
			b.HasResult = true
		}
	}

	fy, hasYear := doc.FiscalYears[cfg.Year]
	for _, v := range doc.Vouchers {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, row := range v.Rows {
			// Added rows are repeated as plain rows and removed rows are
			// no longer part of the voucher.
			if row.Kind != ast.Transaction {
				continue
			}
			date := row.Date
			if date.IsZero() {
				date = v.Date
			}
			if hasYear && !inYear(fy, v.Date) {
				continue
			}
			period := date.Year()*100 + int(date.Month())
			l.balance(doc, row.Account).book(period, row.Amount)
		}
	}
	timer.Count(len(l.balances), "accounts")

	if len(doc.Vouchers) > 0 {
		l.reconcile(cfg)
	}

	if len(l.errors) > 0 {
		return &ValidationErrors{Errors: l.errors}
	}
	return nil
}

func inYear(fy *ast.FiscalYear, date time.Time) bool {
	if fy.Start.IsZero() || fy.End.IsZero() {
		return true
	}
	return !date.Before(fy.Start) && !date.After(fy.End)
}

func (l *Ledger) reconcile(cfg *Config) {
	for _, number := range l.accountNumbers() {
		b := l.balances[number]
		if b.HasClosing && !withinTolerance(b.Closing, b.Computed(), cfg.Tolerance) {
			l.errors = append(l.errors, &BalanceMismatchError{
				Account:  number,
				Kind:     ast.ClosingBalance,
				Expected: b.Closing,
				Actual:   b.Computed(),
			})
		}
		if b.HasResult && !withinTolerance(b.Result, b.Movement, cfg.Tolerance) {
			l.errors = append(l.errors, &BalanceMismatchError{
				Account:  number,
				Kind:     ast.Result,
				Expected: b.Result,
				Actual:   b.Movement,
			})
		}
	}
}

func (l *Ledger) balance(doc *ast.Document, number string) *AccountBalance {
	b, ok := l.balances[number]
	if !ok {
		b = newAccountBalance(number)
		if acc, found := doc.Account(number); found {
			b.Name = acc.Name
		}
		l.balances[number] = b
	}
	return b
}

func (l *Ledger) accountNumbers() []string {
	numbers := maps.Keys(l.balances)
	slices.Sort(numbers)
	return numbers
}

// Errors returns all collected errors.
func (l *Ledger) Errors() []error {
	return l.errors
}

// Balance returns the reconciliation state of an account.
func (l *Ledger) Balance(number string) (*AccountBalance, bool) {
	b, ok := l.balances[number]
	return b, ok
}

// Balances returns every reconciled account ordered by account number.
func (l *Ledger) Balances() []*AccountBalance {
	numbers := l.accountNumbers()
	out := make([]*AccountBalance, len(numbers))
	for i, number := range numbers {
		out[i] = l.balances[number]
	}
	return out
}

// String summarizes the ledger for debugging.
func (l *Ledger) String() string {
	return fmt.Sprintf("ledger(%d accounts, %d errors)", len(l.balances), len(l.errors))
}
