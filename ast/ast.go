// Package ast declares the in-memory model of a SIE document.
//
// A Document is the root aggregate produced by the parser package and
// consumed by the formatter package. It owns the company block, the chart of
// accounts, the analysis dimensions with their objects, the fiscal years,
// every period value list and the vouchers.
//
// Entities reference each other by key: a VoucherRow stores an account
// number and a list of ObjectRef, never a pointer to the Account or Object.
// Lookups go through the Document's tables, so a stub created on first
// reference and completed by a later definition is observed by every holder.
package ast

import (
	"time"
)

// DateLayout is the SIE date format (yyyyMMdd).
const DateLayout = "20060102"

// Program identifies the software that generated a file (#PROGRAM).
type Program struct {
	Name    string
	Version string
}

// Document is a parsed SIE file.
type Document struct {
	Flag     int   // #FLAGGA
	Checksum int64 // #KSUMMA, zero when absent
	Program  Program
	Format   string // #FORMAT
	Type     int    // #SIETYP
	Prosa    string // #PROSA

	Generated   time.Time // #GEN date, zero when absent
	GeneratedBy string    // #GEN sign

	Company     Company
	AccountPlan string    // #KPTYP
	Currency    string    // #VALUTA
	TaxYear     int       // #TAXAR
	ValueDate   time.Time // #OMFATTN, zero when absent

	FiscalYears map[int]*FiscalYear

	// Dimensions holds the defined dimensions and sub-dimensions.
	Dimensions *Table[Dimension]

	// Unresolved holds placeholder dimensions that were referenced before
	// being defined. A later #DIM or #UNDERDIM promotes the placeholder.
	Unresolved *Table[Dimension]

	Accounts *Table[Account]

	OpeningBalances       []*PeriodValue // #IB
	ClosingBalances       []*PeriodValue // #UB
	ObjectOpeningBalances []*PeriodValue // #OIB
	ObjectClosingBalances []*PeriodValue // #OUB
	PeriodBudgets         []*PeriodValue // #PBUDGET
	PeriodBalances        []*PeriodValue // #PSALDO
	Results               []*PeriodValue // #RES

	Vouchers []*Voucher

	// Options records the behavioral flags the document was read with.
	Options Options

	// Errors lists every irregularity detected while reading.
	Errors []error
}

// NewDocument creates an empty document with the reserved dimensions registered.
func NewDocument() *Document {
	d := &Document{
		FiscalYears: make(map[int]*FiscalYear),
		Dimensions:  NewTable[Dimension](),
		Unresolved:  NewTable[Dimension](),
		Accounts:    NewTable[Account](),
		Options:     DefaultOptions(),
	}
	registerDefaultDimensions(d)
	return d
}

// Values returns the period values of the given kind.
func (d *Document) Values(kind ValueKind) []*PeriodValue {
	if list := d.valueList(kind); list != nil {
		return *list
	}
	return nil
}

// AddValue appends a period value to the list matching its kind.
func (d *Document) AddValue(pv *PeriodValue) {
	if list := d.valueList(pv.Kind); list != nil {
		*list = append(*list, pv)
	}
}

// AddVoucher appends a voucher.
func (d *Document) AddVoucher(v *Voucher) {
	d.Vouchers = append(d.Vouchers, v)
}

func (d *Document) valueList(kind ValueKind) *[]*PeriodValue {
	switch kind {
	case OpeningBalance:
		return &d.OpeningBalances
	case ClosingBalance:
		return &d.ClosingBalances
	case ObjectOpeningBalance:
		return &d.ObjectOpeningBalances
	case ObjectClosingBalance:
		return &d.ObjectClosingBalances
	case PeriodBudget:
		return &d.PeriodBudgets
	case PeriodBalance:
		return &d.PeriodBalances
	case Result:
		return &d.Results
	}
	return nil
}

// FiscalYear returns the fiscal year with the given id, creating it if needed.
func (d *Document) FiscalYear(id int) *FiscalYear {
	if d.FiscalYears == nil {
		d.FiscalYears = make(map[int]*FiscalYear)
	}
	fy, ok := d.FiscalYears[id]
	if !ok {
		fy = &FiscalYear{ID: id}
		d.FiscalYears[id] = fy
	}
	return fy
}
