// Package compare reports the differences between two SIE documents.
//
// Lists that have no meaningful order in SIE (period values, accounts,
// dimensions, vouchers and voucher rows) are compared as sets, in both
// directions, so each side reports what the other is missing.
package compare

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"

	"github.com/robinvdvleuten/sie/ast"
)

// Option configures a comparison.
type Option func(*config)

type config struct {
	skipProgram bool
}

// WithoutProgram leaves the #PROGRAM identity out of the comparison. A
// document written by another program is otherwise reported as different.
func WithoutProgram() Option {
	return func(c *config) {
		c.skipProgram = true
	}
}

const (
	first  = "first"
	second = "second"
)

// Documents compares a and b and returns one message per difference. An
// empty result means the documents are equal.
func Documents(a, b *ast.Document, opts ...Option) []string {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	c := &comparer{}
	c.header(a, b, cfg)
	c.company(a.Company, b.Company)

	c.dimensions(a, b, second)
	c.dimensions(b, a, first)

	for _, kind := range ast.ValueKinds {
		c.values(kind, a.Values(kind), b.Values(kind), second)
		c.values(kind, b.Values(kind), a.Values(kind), first)
	}

	c.accounts(a, b, second)
	c.accounts(b, a, first)

	c.fiscalYears(a, b, second)
	c.fiscalYears(b, a, first)

	c.vouchers(a, b, second)
	c.vouchers(b, a, first)

	return c.diffs
}

type comparer struct {
	diffs []string
}

func (c *comparer) addf(format string, args ...any) {
	c.diffs = append(c.diffs, fmt.Sprintf(format, args...))
}

func (c *comparer) str(name, a, b string) {
	if a != b {
		c.addf("%s differs: %q != %q", name, a, b)
	}
}

func (c *comparer) num(name string, a, b int) {
	if a != b {
		c.addf("%s differs: %d != %d", name, a, b)
	}
}

func (c *comparer) date(name string, a, b time.Time) {
	if !a.Equal(b) {
		c.addf("%s differs: %s != %s", name, formatDate(a), formatDate(b))
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "none"
	}
	return t.Format(ast.DateLayout)
}

func (c *comparer) header(a, b *ast.Document, cfg *config) {
	c.num("#FLAGGA", a.Flag, b.Flag)
	c.str("#FORMAT", a.Format, b.Format)
	if !cfg.skipProgram {
		c.str("#PROGRAM name", a.Program.Name, b.Program.Name)
		c.str("#PROGRAM version", a.Program.Version, b.Program.Version)
	}
	c.date("#GEN date", a.Generated, b.Generated)
	c.str("#GEN sign", a.GeneratedBy, b.GeneratedBy)
	c.num("#SIETYP", a.Type, b.Type)
	c.str("#PROSA", a.Prosa, b.Prosa)
	c.str("#KPTYP", a.AccountPlan, b.AccountPlan)
	c.str("#VALUTA", a.Currency, b.Currency)
	c.num("#TAXAR", a.TaxYear, b.TaxYear)
	c.date("#OMFATTN", a.ValueDate, b.ValueDate)
}

func (c *comparer) company(a, b ast.Company) {
	c.str("#FNR", a.Code, b.Code)
	c.str("#ORGNR", a.OrgNumber, b.OrgNumber)
	c.str("#FNAMN", a.Name, b.Name)
	c.str("#FTYP", a.Type, b.Type)
	c.str("#BKOD", a.Industry, b.Industry)
	c.str("#ADRESS contact", a.Address.Contact, b.Address.Contact)
	c.str("#ADRESS street", a.Address.Street, b.Address.Street)
	c.str("#ADRESS postal city", a.Address.PostalCity, b.Address.PostalCity)
	c.str("#ADRESS phone", a.Address.Phone, b.Address.Phone)
}

// dimensions reports the dimensions and objects of a that b lacks or
// holds differently. Differing values are only reported from the first
// document's side.
func (c *comparer) dimensions(a, b *ast.Document, other string) {
	for number, dimA := range a.Dimensions.All() {
		dimB, ok := b.Dimensions.Get(number)
		if !ok {
			c.addf("dimension %s is missing in %s document", number, other)
			continue
		}
		if other == second {
			c.str(fmt.Sprintf("dimension %s name", number), dimA.Name, dimB.Name)
			c.str(fmt.Sprintf("dimension %s parent", number), dimA.Parent, dimB.Parent)
		}

		for objNumber, objA := range dimA.Objects.All() {
			objB, ok := dimB.Objects.Get(objNumber)
			if !ok {
				c.addf("object %s %q is missing in %s document", number, objNumber, other)
				continue
			}
			if other == second {
				c.str(fmt.Sprintf("object %s %q name", number, objNumber), objA.Name, objB.Name)
			}
		}
	}
}

func (c *comparer) accounts(a, b *ast.Document, other string) {
	for number, accA := range a.Accounts.All() {
		accB, ok := b.Accounts.Get(number)
		if !ok {
			c.addf("account %s is missing in %s document", number, other)
			continue
		}
		if other != second {
			continue
		}
		c.str(fmt.Sprintf("account %s name", number), accA.Name, accB.Name)
		c.str(fmt.Sprintf("account %s unit", number), accA.Unit, accB.Unit)
		c.str(fmt.Sprintf("account %s type", number), accA.Type, accB.Type)
		if !slices.Equal(accA.SRU, accB.SRU) {
			c.addf("account %s SRU codes differ: %v != %v", number, accA.SRU, accB.SRU)
		}
	}
}

func (c *comparer) fiscalYears(a, b *ast.Document, other string) {
	ids := maps.Keys(a.FiscalYears)
	slices.Sort(ids)
	slices.Reverse(ids)

	for _, id := range ids {
		fyA := a.FiscalYears[id]
		fyB, ok := b.FiscalYears[id]
		if !ok {
			c.addf("fiscal year %d is missing in %s document", id, other)
			continue
		}
		if other == second && (!fyA.Start.Equal(fyB.Start) || !fyA.End.Equal(fyB.End)) {
			c.addf("fiscal year %d differs: %s-%s != %s-%s", id,
				formatDate(fyA.Start), formatDate(fyA.End), formatDate(fyB.Start), formatDate(fyB.End))
		}
	}
}

// values reports every value of as without an equal value in bs.
func (c *comparer) values(kind ast.ValueKind, as, bs []*ast.PeriodValue, other string) {
	for _, pa := range as {
		found := slices.ContainsFunc(bs, func(pb *ast.PeriodValue) bool {
			return equalValues(pa, pb)
		})
		if !found {
			c.addf("%s %d %d %s %s is missing in %s document", kind, pa.Year, pa.Period, pa.Account, pa.Amount, other)
		}
	}
}

func (c *comparer) vouchers(a, b *ast.Document, other string) {
	for _, va := range a.Vouchers {
		found := slices.ContainsFunc(b.Vouchers, func(vb *ast.Voucher) bool {
			return equalVouchers(va, vb)
		})
		if !found {
			c.addf("voucher %s %s is missing or differs in %s document", va.Series, va.Number, other)
		}
	}
}

func equalValues(a, b *ast.PeriodValue) bool {
	return a.Kind == b.Kind &&
		a.Year == b.Year &&
		a.Period == b.Period &&
		a.Account == b.Account &&
		a.Amount.Equal(b.Amount) &&
		equalQuantities(a.Quantity, b.Quantity) &&
		equalObjects(a.Objects, b.Objects)
}

// equalVouchers matches vouchers on identity, date and text. Rows are
// compared as a multiset.
func equalVouchers(a, b *ast.Voucher) bool {
	if a.Series != b.Series || a.Number != b.Number || a.Text != b.Text || !a.Date.Equal(b.Date) {
		return false
	}
	if len(a.Rows) != len(b.Rows) {
		return false
	}

	used := make([]bool, len(b.Rows))
	for _, ra := range a.Rows {
		matched := false
		for i, rb := range b.Rows {
			if !used[i] && equalRows(ra, rb) {
				used[i] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func equalRows(a, b *ast.VoucherRow) bool {
	return a.Kind == b.Kind &&
		a.Account == b.Account &&
		a.Amount.Equal(b.Amount) &&
		a.Date.Equal(b.Date) &&
		a.Text == b.Text &&
		a.CreatedBy == b.CreatedBy &&
		equalQuantities(a.Quantity, b.Quantity) &&
		equalObjects(a.Objects, b.Objects)
}

// equalObjects compares object lists in order. A nil list equals an empty
// one.
func equalObjects(a, b []ast.ObjectRef) bool {
	return slices.Equal(a, b)
}

func equalQuantities(a, b decimal.NullDecimal) bool {
	if !a.Valid || !b.Valid {
		return a.Valid == b.Valid
	}
	return a.Decimal.Equal(b.Decimal)
}
