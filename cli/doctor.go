package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/sie/ledger"
	"github.com/robinvdvleuten/sie/output"
	"github.com/robinvdvleuten/sie/parser"
)

// DoctorCmd provides doctor utilities for debugging SIE files.
type DoctorCmd struct {
	Lex  LexCmd  `cmd:"" help:"Show the tokenized records of a SIE file."`
	Dump DumpCmd `cmd:"" help:"Print the parsed document."`
}

// LexCmd shows the tokenized records of a SIE file.
type LexCmd struct {
	File FileOrStdin `help:"SIE input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the lex command.
func (cmd *LexCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.start(ctx, fmt.Sprintf("lex %s", cmd.File.Base()))
	if err != nil {
		return err
	}
	defer s.finish()

	content, err := cmd.File.Source(s.ctx, s.loader)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	lexer := parser.NewLexer(parser.NewReaderSource(bytes.NewReader(content)), cmd.File.Filename)
	records, err := lexer.ScanAll(s.ctx)
	if err != nil {
		return fmt.Errorf("failed to lex file: %w", err)
	}

	styles := output.NewStyles(ctx.Stdout)
	width := 0
	for _, r := range records {
		width = max(width, runewidth.StringWidth(r.Tag))
	}

	// Format: line KIND TAG "field" "field" ...
	for _, r := range records {
		if r.Kind == parser.EMPTY {
			continue
		}

		fields := make([]string, len(r.Fields))
		for i, f := range r.Fields {
			fields[i] = fmt.Sprintf("%q", f)
		}

		line := fmt.Sprintf("%5d  %-8s %s %s", r.Pos.Line, r.Kind.String(),
			styles.Tag(runewidth.FillRight(r.Tag, width)), strings.Join(fields, " "))
		_, _ = fmt.Fprintln(ctx.Stdout, strings.TrimRight(line, " "))
	}

	return nil
}

// DumpCmd prints the parsed document.
type DumpCmd struct {
	File FileOrStdin `help:"SIE input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the dump command.
func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.start(ctx, fmt.Sprintf("dump %s", cmd.File.Base()))
	if err != nil {
		return err
	}
	defer s.finish()

	doc, err := cmd.File.Load(s.ctx, s.loader)
	var validationErrors *ledger.ValidationErrors
	if err != nil && !errors.As(err, &validationErrors) {
		return err
	}

	repr.New(ctx.Stdout, repr.Indent("  "), repr.OmitEmpty(true)).Println(doc)
	return nil
}
