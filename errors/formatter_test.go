package errors

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/ledger"
	"github.com/robinvdvleuten/sie/parser"
)

const source = "#FLAGGA 0\r\n" +
	"#SIETYP 4\r\n" +
	"#GEN 20240105\r\n" +
	"#KONTO 1910 \"Kassa\"\r\n" +
	"#BOGUS 1\r\n" +
	"#KONTO 3010 \"Försäljning\"\r\n"

func imbalanced() *ledger.VoucherImbalanceError {
	v := ast.NewVoucher("A", "1", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		ast.WithVoucherText("Kaffe"),
		ast.WithRows(
			ast.NewVoucherRow("1910", decimal.NewFromInt(-100)),
			ast.NewVoucherRow("4010", decimal.NewFromInt(90)),
		),
	)
	v.Pos = ast.Position{Filename: "a.se", Line: 12}
	return &ledger.VoucherImbalanceError{
		Pos:     v.Pos,
		Series:  v.Series,
		Number:  v.Number,
		Sum:     decimal.NewFromInt(-10),
		Voucher: v,
	}
}

func TestTextFormatterFormat(t *testing.T) {
	unknown := &parser.UnknownTagError{Pos: ast.Position{Filename: "a.se", Line: 5}, Tag: "#BOGUS"}

	tests := []struct {
		name     string
		opts     []TextFormatterOption
		err      error
		expected string
	}{
		{
			name:     "PositionWithoutSource",
			err:      unknown,
			expected: "a.se:5: unimplemented tag #BOGUS",
		},
		{
			name: "SourceContext",
			opts: []TextFormatterOption{WithSource([]byte(source))},
			err:  unknown,
			expected: "a.se:5: unimplemented tag #BOGUS\n\n" +
				"   #GEN 20240105\n" +
				"   #KONTO 1910 \"Kassa\"\n" +
				" > #BOGUS 1\n" +
				"   #KONTO 3010 \"Försäljning\"\n",
		},
		{
			name: "SourceContextFirstLine",
			opts: []TextFormatterOption{WithSource([]byte(source))},
			err:  &parser.InvalidFileError{Pos: ast.Position{Line: 1}, Tag: "#SIETYP"},
			expected: "line 1: not a SIE file: first record is #SIETYP, expected #FLAGGA\n\n" +
				" > #FLAGGA 0\n" +
				"   #SIETYP 4\n",
		},
		{
			name: "SourceContextLastLine",
			opts: []TextFormatterOption{WithSource([]byte(source))},
			err:  &parser.OrphanRowError{Pos: ast.Position{Line: 6}, Tag: "#TRANS"},
			expected: "line 6: #TRANS outside a voucher\n\n" +
				"   #KONTO 1910 \"Kassa\"\n" +
				"   #BOGUS 1\n" +
				" > #KONTO 3010 \"Försäljning\"\n",
		},
		{
			name: "Voucher",
			err:  imbalanced(),
			expected: "a.se:12: voucher A 1 does not balance (residual -10)\n\n" +
				"   #VER \"A\" 1 20240105 \"Kaffe\"\n" +
				"   {\n" +
				"   #TRANS 1910 {} -100.00 20240105\n" +
				"   #TRANS 4010 {} 90.00 20240105\n" +
				"   }\n",
		},
		{
			name: "VoucherWinsOverSource",
			opts: []TextFormatterOption{WithSource([]byte(source))},
			err:  imbalanced(),
			expected: "a.se:12: voucher A 1 does not balance (residual -10)\n\n" +
				"   #VER \"A\" 1 20240105 \"Kaffe\"\n" +
				"   {\n" +
				"   #TRANS 1910 {} -100.00 20240105\n" +
				"   #TRANS 4010 {} 90.00 20240105\n" +
				"   }\n",
		},
		{
			name:     "Plain",
			err:      assertError("boom"),
			expected: "boom",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tf := NewTextFormatter(nil, test.opts...)
			assert.Equal(t, test.expected, tf.Format(test.err))
		})
	}
}

type assertError string

func (e assertError) Error() string { return string(e) }

func TestTextFormatterFormatAll(t *testing.T) {
	tf := NewTextFormatter(nil)

	assert.Equal(t, "", tf.FormatAll(nil))
	assert.Equal(t, "one\n\ntwo", tf.FormatAll([]error{assertError("one"), assertError("two")}))
}

func TestJSONFormatter(t *testing.T) {
	jf := NewJSONFormatter()

	t.Run("Voucher", func(t *testing.T) {
		var got ErrorJSON
		assert.NoError(t, json.Unmarshal([]byte(jf.Format(imbalanced())), &got))
		assert.Equal(t, ErrorJSON{
			Type:     "*ledger.VoucherImbalanceError",
			Message:  "a.se:12: voucher A 1 does not balance (residual -10)",
			Position: &PositionJSON{Filename: "a.se", Line: 12},
			Details:  map[string]string{"series": "A", "number": "1"},
		}, got)
	})

	t.Run("Account", func(t *testing.T) {
		err := &ledger.BalanceMismatchError{
			Pos:      ast.Position{Line: 40},
			Account:  "1910",
			Kind:     ast.ClosingBalance,
			Expected: decimal.NewFromInt(1200),
			Actual:   decimal.NewFromInt(1100),
		}
		errs := jf.FormatAllToSlice([]error{err})
		assert.Equal(t, 1, len(errs))
		assert.Equal(t, "1910", errs[0].Details["account"])
		assert.Equal(t, 40, errs[0].Position.Line)
	})

	t.Run("NoPosition", func(t *testing.T) {
		assert.Equal(t, `{"type":"errors.assertError","message":"boom"}`, jf.Format(assertError("boom")))
	})

	t.Run("FormatAll", func(t *testing.T) {
		var got []ErrorJSON
		assert.NoError(t, json.Unmarshal([]byte(jf.FormatAll([]error{assertError("a"), imbalanced()})), &got))
		assert.Equal(t, 2, len(got))
		assert.Equal(t, "a", got[0].Message)
		assert.Equal(t, "A", got[1].Details["series"])
	})
}
