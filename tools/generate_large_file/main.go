// Large SIE File Generator
//
// This tool generates a large SIE 4 file for performance testing and profiling.
// The vouchers balance and the closing balances match the voucher movements,
// so `sie check` on the output passes.
//
// Usage:
//
//	go run main.go > large.se
//	go run main.go 200000 > large.se  # Specify the number of vouchers
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/formatter"
)

const defaultVoucherCount = 50_000

var (
	balanceAccounts = []struct{ number, name string }{
		{"1910", "Kassa"},
		{"1930", "Företagskonto"},
		{"1510", "Kundfordringar"},
		{"2440", "Leverantörsskulder"},
		{"2640", "Ingående moms"},
		{"2610", "Utgående moms 25%"},
	}

	resultAccounts = []struct{ number, name string }{
		{"3010", "Försäljning varor"},
		{"3040", "Försäljning tjänster"},
		{"4010", "Inköp varor"},
		{"5010", "Lokalhyra"},
		{"5410", "Förbrukningsinventarier"},
		{"6110", "Kontorsmateriel"},
		{"6212", "Mobiltelefon"},
		{"6570", "Bankkostnader"},
	}

	texts = []string{
		"Kontantförsäljning",
		"Faktura kund",
		"Inköp varor",
		"Hyra lokal",
		"Kontorsmaterial",
		"Bankavgift",
		"Telefonräkning",
		"Inbetalning kund",
	}

	regions = []string{"N", "S", "V", "O"}
)

func main() {
	count := defaultVoucherCount
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil && n > 0 {
			count = n
		}
	}

	rng := rand.New(rand.NewSource(42))
	doc := generate(rng, count)

	if err := formatter.New(formatter.WithChecksum(true)).Format(context.Background(), doc, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d vouchers over %d accounts\n", len(doc.Vouchers), doc.Accounts.Len())
}

func generate(rng *rand.Rand, count int) *ast.Document {
	doc := ast.NewDocument()
	doc.Type = 4
	doc.Program = ast.Program{Name: "generate_large_file", Version: "1.0"}
	doc.Generated = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	doc.Company = ast.Company{Name: "Prestandabolaget AB", OrgNumber: "556000-0000"}

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	year := doc.FiscalYear(0)
	year.Start, year.End = start, end

	projects := &ast.Dimension{Number: "6", Name: "Projekt", Objects: ast.NewTable[ast.Object]()}
	for i := 1; i <= 40; i++ {
		number := strconv.Itoa(i)
		projects.Objects.Put(number, &ast.Object{Dimension: "6", Number: number, Name: "Projekt " + number})
	}
	doc.Dimensions.Put("6", projects)

	region := &ast.Dimension{Number: "20", Name: "Region", Objects: ast.NewTable[ast.Object]()}
	for _, r := range regions {
		region.Objects.Put(r, &ast.Object{Dimension: "20", Number: r, Name: "Region " + r})
	}
	doc.Dimensions.Put("20", region)

	for _, a := range balanceAccounts {
		doc.Accounts.Put(a.number, &ast.Account{Number: a.number, Name: a.name, Type: "T"})
	}
	for _, a := range resultAccounts {
		typ := "K"
		if a.number[0] == '3' {
			typ = "I"
		}
		doc.Accounts.Put(a.number, &ast.Account{Number: a.number, Name: a.name, Type: typ})
	}

	opening := make(map[string]decimal.Decimal)
	movement := make(map[string]decimal.Decimal)
	for _, a := range balanceAccounts {
		ib := randAmount(rng, -50_000, 50_000)
		opening[a.number] = ib
		doc.AddValue(ast.NewPeriodValue(ast.OpeningBalance, 0, a.number, ib))
	}

	days := int(end.Sub(start).Hours()/24) + 1
	for i := range count {
		date := start.AddDate(0, 0, i*days/count)
		v := generateVoucher(rng, i+1, date)
		for _, row := range v.Rows {
			movement[row.Account] = movement[row.Account].Add(row.Amount)
		}
		doc.AddVoucher(v)
	}

	for _, a := range balanceAccounts {
		ub := opening[a.number].Add(movement[a.number])
		doc.AddValue(ast.NewPeriodValue(ast.ClosingBalance, 0, a.number, ub))
	}
	for _, a := range resultAccounts {
		doc.AddValue(ast.NewPeriodValue(ast.Result, 0, a.number, movement[a.number]))
	}

	return doc
}

// generateVoucher creates a balanced voucher: a result account row, an
// optional VAT row and the counter entry on a balance account.
func generateVoucher(rng *rand.Rand, number int, date time.Time) *ast.Voucher {
	result := resultAccounts[rng.Intn(len(resultAccounts))]
	counter := balanceAccounts[rng.Intn(2)]

	net := randAmount(rng, 10, 25_000)
	if result.number[0] == '3' {
		net = net.Neg()
	}

	rows := []*ast.VoucherRow{
		ast.NewVoucherRow(result.number, net,
			ast.WithObjects(
				ast.NewObjectRef("6", strconv.Itoa(1+rng.Intn(40))),
				ast.NewObjectRef("20", regions[rng.Intn(len(regions))]),
			),
		),
	}

	total := net
	if rng.Intn(3) > 0 {
		vat := net.Mul(decimal.NewFromFloat(0.25)).Round(2)
		vatAccount := "2640"
		if net.IsNegative() {
			vatAccount = "2610"
		}
		rows = append(rows, ast.NewVoucherRow(vatAccount, vat))
		total = total.Add(vat)
	}
	rows = append(rows, ast.NewVoucherRow(counter.number, total.Neg()))

	return ast.NewVoucher("A", strconv.Itoa(number), date,
		ast.WithVoucherText(texts[rng.Intn(len(texts))]),
		ast.WithRows(rows...),
	)
}

func randAmount(rng *rand.Rand, min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(min + rng.Float64()*(max-min)).Round(2)
}
