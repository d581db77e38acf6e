package parser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		kind        Kind
		tag         string
		fields      []string
		objectField int
	}{
		{
			name:        "plain fields",
			line:        "#KONTO 1910 Kassa",
			kind:        KONTO,
			tag:         "#KONTO",
			fields:      []string{"1910", "Kassa"},
			objectField: -1,
		},
		{
			name:        "quoted field with spaces",
			line:        `#X "A B" C`,
			kind:        UNKNOWN,
			tag:         "#X",
			fields:      []string{"A B", "C"},
			objectField: -1,
		},
		{
			name:        "object list kept verbatim",
			line:        `#TRANS 1910 {1 "x" 2 "y"} 100.00`,
			kind:        TRANS,
			tag:         "#TRANS",
			fields:      []string{"1910", `{1 "x" 2 "y"}`, "100.00"},
			objectField: 1,
		},
		{
			name:        "empty object list",
			line:        "#TRANS 1910 {} 100.00",
			kind:        TRANS,
			tag:         "#TRANS",
			fields:      []string{"1910", "{}", "100.00"},
			objectField: 1,
		},
		{
			name:        "empty quoted field is present",
			line:        `#TRANS 1910 {} 100.00 "" "Text"`,
			kind:        TRANS,
			tag:         "#TRANS",
			fields:      []string{"1910", "{}", "100.00", "", "Text"},
			objectField: 1,
		},
		{
			name:        "escaped quote inside quoted field",
			line:        `#FNAMN "Bolaget \"Ett\" AB"`,
			kind:        FNAMN,
			tag:         "#FNAMN",
			fields:      []string{`Bolaget "Ett" AB`},
			objectField: -1,
		},
		{
			name:        "quoted content is not trimmed",
			line:        `#FNAMN "  padded  "`,
			kind:        FNAMN,
			tag:         "#FNAMN",
			fields:      []string{"  padded  "},
			objectField: -1,
		},
		{
			name:        "tabs separate fields",
			line:        "#IB\t0\t1910\t1000.00",
			kind:        IB,
			tag:         "#IB",
			fields:      []string{"0", "1910", "1000.00"},
			objectField: -1,
		},
		{
			name:        "repeated separators",
			line:        "#IB  0   1910 1000.00  ",
			kind:        IB,
			tag:         "#IB",
			fields:      []string{"0", "1910", "1000.00"},
			objectField: -1,
		},
		{
			name:        "tag only",
			line:        "#KSUMMA",
			kind:        KSUMMA,
			tag:         "#KSUMMA",
			objectField: -1,
		},
		{
			name:        "lower case tag",
			line:        "#konto 1910 Kassa",
			kind:        KONTO,
			tag:         "#konto",
			fields:      []string{"1910", "Kassa"},
			objectField: -1,
		},
		{
			name:        "block start",
			line:        "{",
			kind:        LBRACE,
			tag:         "{",
			objectField: -1,
		},
		{
			name:        "block end with indentation",
			line:        "   }",
			kind:        RBRACE,
			tag:         "}",
			objectField: -1,
		},
		{
			name:        "empty line",
			line:        "",
			kind:        EMPTY,
			tag:         "",
			objectField: -1,
		},
		{
			name:        "brace inside quotes is text",
			line:        `#VER A 1 20240101 "Text {med} klamrar"`,
			kind:        VER,
			tag:         "#VER",
			fields:      []string{"A", "1", "20240101", "Text {med} klamrar"},
			objectField: -1,
		},
		{
			name:        "backslash without quote is literal",
			line:        `#FNAMN C:\Bolag`,
			kind:        FNAMN,
			tag:         "#FNAMN",
			fields:      []string{`C:\Bolag`},
			objectField: -1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := Tokenize(test.line)
			assert.Equal(t, test.kind, r.Kind)
			assert.Equal(t, test.tag, r.Tag)
			assert.Equal(t, test.fields, r.Fields)
			assert.Equal(t, test.objectField, r.objectField)
			assert.Equal(t, test.line, r.Raw)
		})
	}
}

func TestRecordAccessors(t *testing.T) {
	r := Tokenize(`#X 42 abc 12.50 "" 9999999999 -3`)

	assert.Equal(t, 42, r.Int(0))
	assert.Equal(t, 0, r.Int(1))
	assert.Equal(t, 0, r.Int(10))
	assert.Equal(t, int64(9999999999), r.Long(4))
	assert.Equal(t, "12.5", r.Decimal(2).String())
	assert.True(t, r.Decimal(1).IsZero())
	assert.True(t, r.Decimal(10).IsZero())
	assert.Equal(t, -3, r.Int(5))

	assert.False(t, r.OptionalDecimal(3).Valid)
	assert.False(t, r.OptionalDecimal(10).Valid)
	q := r.OptionalDecimal(2)
	assert.True(t, q.Valid)
	assert.Equal(t, "12.5", q.Decimal.String())

	s, ok := r.Field(3)
	assert.True(t, ok)
	assert.Equal(t, "", s)
	_, ok = r.Field(6)
	assert.False(t, ok)
}

func TestRecordDate(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    time.Time
		wantErr bool
	}{
		{"valid", "#GEN 20240131", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), false},
		{"absent", "#GEN", time.Time{}, false},
		{"empty", `#GEN ""`, time.Time{}, false},
		{"all zero", "#GEN 00000000", time.Time{}, false},
		{"invalid", "#GEN 2024-01-31", time.Time{}, true},
		{"impossible day", "#GEN 20240231", time.Time{}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := Tokenize(test.line)
			got, err := r.Date(0, "20060102")
			if test.wantErr {
				var dateErr *DateError
				assert.True(t, errors.As(err, &dateErr))
				assert.Equal(t, "#GEN", dateErr.Tag)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestRecordAfter(t *testing.T) {
	with := Tokenize("#TRANS 1910 {} 100.00")
	assert.Equal(t, 2, with.after(1))
	assert.Equal(t, "100.00", with.String(with.after(1)))

	without := Tokenize("#TRANS 1910 100.00")
	assert.False(t, without.HasObjectList())
	assert.Equal(t, 1, without.after(1))
	assert.Equal(t, "100.00", without.String(without.after(1)))
}

func TestLexerPositionsAndInterning(t *testing.T) {
	src := NewReaderSource(strings.NewReader("#FLAGGA 0\r\n#KONTO 1910 Kassa\r\n#SRU 1910 7281"))
	lexer := NewLexer(src, "a.se")

	records, err := lexer.ScanAll(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 3, len(records))

	assert.Equal(t, 1, records[0].Pos.Line)
	assert.Equal(t, "a.se", records[0].Pos.Filename)
	assert.Equal(t, 3, records[2].Pos.Line)
	assert.Equal(t, []string{"1910", "7281"}, records[2].Fields)

	// "1910" is shared between records.
	assert.Equal(t, 7, lexer.interner.Size())
}

func TestLookupKind(t *testing.T) {
	assert.Equal(t, VER, LookupKind("#VER"))
	assert.Equal(t, VER, LookupKind("#ver"))
	assert.Equal(t, EMPTY, LookupKind(""))
	assert.Equal(t, UNKNOWN, LookupKind("#NOPE"))
	assert.Equal(t, "#PSALDO", PSALDO.String())
	assert.Equal(t, "UNKNOWN", Kind(200).String())
}
