package ast

import (
	"fmt"
	"slices"
	"time"
)

// Account is an entry in the chart of accounts (#KONTO, #ENHET, #KTYP, #SRU).
// The number is a string key and need not be numeric.
type Account struct {
	Number string
	Name   string
	Unit   string
	Type   string
	SRU    []string
}

// AddSRU records a tax-authority code. Duplicates are ignored.
func (a *Account) AddSRU(code string) {
	if slices.Contains(a.SRU, code) {
		return
	}
	a.SRU = append(a.SRU, code)
}

// Dimension is an analysis axis (#DIM, #UNDERDIM).
type Dimension struct {
	Number string
	Name   string

	// Parent is the super-dimension number of a sub-dimension.
	Parent string

	// Default is set for the reserved slots registered by NewDocument and
	// cleared as soon as a definition record overwrites the dimension.
	Default bool

	Objects *Table[Object]
}

// IsSubDimension reports whether the dimension was declared with #UNDERDIM.
func (d *Dimension) IsSubDimension() bool {
	return d.Parent != "" && !d.Default
}

// Object returns the analysis object with the given number.
func (d *Dimension) Object(number string) (*Object, bool) {
	return d.Objects.Get(number)
}

// Object is an analysis object owned by a dimension (#OBJEKT).
type Object struct {
	Dimension string
	Number    string
	Name      string
}

// ObjectRef references an analysis object by dimension and object number.
type ObjectRef struct {
	Dimension string
	Number    string
}

func (r ObjectRef) String() string {
	return fmt.Sprintf("%s %q", r.Dimension, r.Number)
}

// FiscalYear is a booking year (#RAR). Id 0 is the current year, -1 the
// previous one and so on.
type FiscalYear struct {
	ID    int
	Start time.Time
	End   time.Time
}
