package formatter

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// lineCleaner removes the characters a single SIE line cannot carry.
var lineCleaner = strings.NewReplacer("\r\n", " ", "\r", "", "\n", " ")

// quote wraps s in double quotes. Embedded quotes are escaped with a
// backslash, carriage returns are stripped and newlines become spaces.
func quote(s string) string {
	// Quick check if escaping is needed
	needsEscape := false
	for _, c := range s {
		if c == '"' || c == '\r' || c == '\n' {
			needsEscape = true
			break
		}
	}

	if !needsEscape {
		return `"` + s + `"`
	}

	s = lineCleaner.Replace(s)

	var buf strings.Builder
	buf.Grow(len(s) + 10)

	buf.WriteByte('"')
	for _, c := range s {
		if c == '"' {
			buf.WriteString(`\"`)
			continue
		}
		buf.WriteRune(c)
	}
	buf.WriteByte('"')

	return buf.String()
}

// field writes s bare when it is an integer and quoted otherwise.
func field(s string) string {
	if isInteger(s) {
		return s
	}
	return quote(s)
}

func isInteger(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

// optional quotes s, or returns the empty placeholder.
func optional(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return quote(s)
}

// amount renders d with '.' as decimal separator and at least two
// decimals. Values with more precision keep it.
func amount(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}

// quantity renders an optional quantity, or the empty placeholder.
func quantity(d decimal.NullDecimal) string {
	if !d.Valid {
		return placeholder
	}
	return amount(d.Decimal)
}
