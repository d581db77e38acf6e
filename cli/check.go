package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/sie/ledger"
	"github.com/robinvdvleuten/sie/output"
)

type CheckCmd struct {
	File     FileOrStdin `help:"SIE input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Balances bool        `help:"Print the reconciliation of every account."`
	Year     int         `help:"Fiscal year to reconcile: 0 for the current year, -1 for the previous one." default:"0"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.start(ctx, fmt.Sprintf("check %s", cmd.File.Base()))
	if err != nil {
		return err
	}
	defer s.finish()

	source, err := cmd.File.Source(s.ctx, s.loader)
	if err != nil {
		return fmt.Errorf("failed to read file for error context: %w", err)
	}
	renderer := NewErrorRenderer(source)

	doc, err := cmd.File.Load(s.ctx, s.loader)
	var validationErrors *ledger.ValidationErrors
	if err != nil && !errors.As(err, &validationErrors) {
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}

	ledgerCfg, err := s.cfg.LedgerConfig()
	if err != nil {
		return err
	}
	ledgerCfg.Year = cmd.Year

	l := ledger.New()
	_ = l.Process(ledgerCfg.WithContext(s.ctx), doc)

	if cmd.Balances {
		printBalances(ctx.Stdout, l, output.NewStyles(ctx.Stdout))
	}

	errs := append(slices.Clone(doc.Errors), l.Errors()...)
	if len(errs) > 0 {
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(errs))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d error(s) found", len(errs)))
		return NewCommandError(1)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed (SIE %d, %d accounts, %d vouchers)",
		doc.Type, doc.Accounts.Len(), len(doc.Vouchers)))

	return nil
}

// printBalances writes one line per reconciled account. Names are padded
// by display width so Swedish characters keep the columns aligned.
func printBalances(w io.Writer, l *ledger.Ledger, styles *output.Styles) {
	balances := l.Balances()
	if len(balances) == 0 {
		return
	}

	mismatched := make(map[string]bool)
	for _, err := range l.Errors() {
		if e, ok := err.(interface{ GetAccount() string }); ok {
			mismatched[e.GetAccount()] = true
		}
	}

	nameWidth := runewidth.StringWidth("Name")
	for _, b := range balances {
		nameWidth = max(nameWidth, runewidth.StringWidth(b.Name))
	}

	header := fmt.Sprintf("%-8s %s %14s %14s %14s %14s", "Account",
		runewidth.FillRight("Name", nameWidth), "Opening", "Movement", "Closing", "Result")
	_, _ = fmt.Fprintln(w, styles.Keyword(header))

	for _, b := range balances {
		opening, closing, result := "", "", ""
		if b.HasOpening {
			opening = b.Opening.StringFixed(2)
		}
		if b.HasClosing {
			closing = b.Closing.StringFixed(2)
		}
		if b.HasResult {
			result = b.Result.StringFixed(2)
		}

		status := styles.Success(successSymbol)
		if mismatched[b.Account] {
			status = styles.Error(errorSymbol)
		}

		amounts := fmt.Sprintf("%14s %14s %14s %14s", opening, b.Movement.StringFixed(2), closing, result)
		_, _ = fmt.Fprintf(w, "%s %s %s %s\n",
			styles.Account(fmt.Sprintf("%-8s", b.Account)),
			runewidth.FillRight(b.Name, nameWidth),
			styles.Amount(strings.TrimRight(amounts, " ")),
			status)
	}
	_, _ = fmt.Fprintln(w)
}
