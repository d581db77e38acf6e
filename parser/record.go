package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/sie/ast"
)

// zeroDate is the literal SIE writers use for an absent date.
const zeroDate = "00000000"

// Record is one tokenized line: a tag followed by its fields.
type Record struct {
	Kind   Kind
	Tag    string
	Fields []string
	Raw    string
	Pos    ast.Position

	// objectField is the index of the first field opened by an unquoted
	// brace, or -1.
	objectField int
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.Fields)
}

// Field returns field i and whether it is present.
func (r *Record) Field(i int) (string, bool) {
	if i < 0 || i >= len(r.Fields) {
		return "", false
	}
	return r.Fields[i], true
}

// String returns field i, or an empty string when absent.
func (r *Record) String(i int) string {
	s, _ := r.Field(i)
	return s
}

// Int returns field i as an integer, or zero when absent or malformed.
func (r *Record) Int(i int) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.String(i)))
	if err != nil {
		return 0
	}
	return n
}

// Long returns field i as a 64-bit integer, or zero when absent or malformed.
func (r *Record) Long(i int) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(r.String(i)), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Decimal returns field i as a decimal using '.' as separator, or zero when
// absent or malformed.
func (r *Record) Decimal(i int) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(r.String(i)))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// OptionalDecimal returns an invalid NullDecimal when field i is absent or
// empty and behaves like Decimal otherwise.
func (r *Record) OptionalDecimal(i int) decimal.NullDecimal {
	s, ok := r.Field(i)
	if !ok || strings.TrimSpace(s) == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(r.Decimal(i))
}

// Date parses field i with the given layout. An absent, empty or all-zero
// field yields the zero time. Any other unparsable value is a *DateError.
func (r *Record) Date(i int, layout string) (time.Time, error) {
	s := strings.TrimSpace(r.String(i))
	if s == "" || s == zeroDate {
		return time.Time{}, nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, &DateError{Pos: r.Pos, Tag: r.Tag, Value: s, Underlying: err}
	}
	return t, nil
}

// HasObjectList reports whether the record carries a brace-delimited
// object list.
func (r *Record) HasObjectList() bool {
	return r.objectField >= 0
}

// ObjectList returns the raw object-list field including its braces.
func (r *Record) ObjectList() (string, bool) {
	if r.objectField < 0 {
		return "", false
	}
	return r.Fields[r.objectField], true
}

// after returns the index of the first positional field following an
// optional object list expected at slot. Without an object list, the
// following fields move up by one.
func (r *Record) after(slot int) int {
	if r.HasObjectList() {
		return slot + 1
	}
	return slot
}
