package compare

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/parser"
)

func sample(t *testing.T) *ast.Document {
	t.Helper()
	data, err := os.ReadFile("../testdata/sie4.se")
	assert.NoError(t, err)
	doc, err := parser.ParseBytes(context.Background(), data)
	assert.NoError(t, err)
	return doc
}

func TestDocumentsEqual(t *testing.T) {
	assert.Equal(t, []string(nil), Documents(sample(t), sample(t)))
}

func TestDocumentsDifferences(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(doc *ast.Document)
		expected []string
	}{
		{
			name:     "CompanyName",
			modify:   func(doc *ast.Document) { doc.Company.Name = "Annat AB" },
			expected: []string{`#FNAMN differs: "Övningsbolaget AB" != "Annat AB"`},
		},
		{
			name:     "Type",
			modify:   func(doc *ast.Document) { doc.Type = 3 },
			expected: []string{"#SIETYP differs: 4 != 3"},
		},
		{
			name:     "GenerationDate",
			modify:   func(doc *ast.Document) { doc.Generated = time.Time{} },
			expected: []string{"#GEN date differs: 20240105 != none"},
		},
		{
			name:     "Program",
			modify:   func(doc *ast.Document) { doc.Program.Version = "4.0" },
			expected: []string{`#PROGRAM version differs: "3.1" != "4.0"`},
		},
		{
			name: "MissingAccount",
			modify: func(doc *ast.Document) {
				doc.Accounts.Delete("2640")
			},
			expected: []string{"account 2640 is missing in second document"},
		},
		{
			name: "ExtraAccount",
			modify: func(doc *ast.Document) {
				doc.EnsureAccount("5010").Name = "Lokalhyra"
			},
			expected: []string{"account 5010 is missing in first document"},
		},
		{
			name:     "AccountName",
			modify:   func(doc *ast.Document) { doc.EnsureAccount("1910").Name = "Bank" },
			expected: []string{`account 1910 name differs: "Kassa" != "Bank"`},
		},
		{
			name:     "SRU",
			modify:   func(doc *ast.Document) { doc.EnsureAccount("1910").AddSRU("7282") },
			expected: []string{"account 1910 SRU codes differ: [7281] != [7281 7282]"},
		},
		{
			name: "Dimension",
			modify: func(doc *ast.Document) {
				doc.DefineDimension("21", "Distrikt", "20")
			},
			expected: []string{"dimension 21 is missing in first document"},
		},
		{
			name: "ObjectName",
			modify: func(doc *ast.Document) {
				doc.ResolveObject("20", "N").Name = "Norrland"
			},
			expected: []string{`object 20 "N" name differs: "Norr" != "Norrland"`},
		},
		{
			name: "FiscalYear",
			modify: func(doc *ast.Document) {
				doc.FiscalYear(-1).End = time.Date(2022, 6, 30, 0, 0, 0, 0, time.UTC)
			},
			expected: []string{"fiscal year -1 differs: 20220101-20221231 != 20220101-20220630"},
		},
		{
			name: "ClosingBalance",
			modify: func(doc *ast.Document) {
				doc.ClosingBalances[0].Amount = decimal.NewFromInt(1300)
			},
			expected: []string{
				"#UB 0 0 1910 1200 is missing in second document",
				"#UB 0 0 1910 1300 is missing in first document",
			},
		},
		{
			name: "VoucherRow",
			modify: func(doc *ast.Document) {
				doc.Vouchers[1].Rows[0].Amount = decimal.NewFromInt(41)
			},
			expected: []string{
				"voucher A 2 is missing or differs in second document",
				"voucher A 2 is missing or differs in first document",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			a, b := sample(t), sample(t)
			test.modify(b)
			assert.Equal(t, test.expected, Documents(a, b))
		})
	}
}

func TestDocumentsWithoutProgram(t *testing.T) {
	a, b := sample(t), sample(t)
	b.Program = ast.Program{Name: "sie", Version: "1.0"}

	assert.Equal(t, 2, len(Documents(a, b)))
	assert.Equal(t, []string(nil), Documents(a, b, WithoutProgram()))
}

func TestVoucherRowsUnordered(t *testing.T) {
	a, b := sample(t), sample(t)
	rows := b.Vouchers[1].Rows
	rows[0], rows[2] = rows[2], rows[0]

	assert.Equal(t, []string(nil), Documents(a, b))
}

func TestEqualObjects(t *testing.T) {
	ref := ast.NewObjectRef("1", "100")

	assert.True(t, equalObjects(nil, []ast.ObjectRef{}))
	assert.True(t, equalObjects([]ast.ObjectRef{ref}, []ast.ObjectRef{ref}))
	assert.False(t, equalObjects([]ast.ObjectRef{ref}, nil))
	assert.False(t, equalObjects([]ast.ObjectRef{ref}, []ast.ObjectRef{ast.NewObjectRef("1", "200")}))
}

func TestEqualQuantities(t *testing.T) {
	four := decimal.NewFromInt(4)
	fourAgain := decimal.RequireFromString("4.00")

	assert.True(t, equalQuantities(decimal.NullDecimal{}, decimal.NullDecimal{}))
	assert.True(t, equalQuantities(decimal.NewNullDecimal(four), decimal.NewNullDecimal(fourAgain)))
	assert.False(t, equalQuantities(decimal.NewNullDecimal(four), decimal.NullDecimal{}))
}
