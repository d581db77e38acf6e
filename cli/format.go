package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/charset"
	"github.com/robinvdvleuten/sie/formatter"
	"github.com/robinvdvleuten/sie/ledger"
)

type FormatCmd struct {
	File     FileOrStdin `help:"SIE input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Output   string      `help:"Write to this file instead of stdout." short:"o" type:"path"`
	Write    bool        `help:"Rewrite the input file in place." short:"w" xor:"target"`
	Append   bool        `help:"Append only the vouchers to the output file." xor:"target"`
	Force    bool        `help:"Overwrite an existing output file without asking." short:"f"`
	Checksum bool        `help:"Derive and write a #KSUMMA checksum."`
	Encoding string      `help:"Output character encoding (PC8, ISO-8859-1, UTF-8). Defaults to the input encoding."`
	Type     int         `help:"Write the file as this SIE type (1-4). Vouchers are dropped below type 4." default:"0"`
	Stamp    bool        `help:"Replace #PROGRAM with the name and version of this tool."`
}

func (cmd *FormatCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}
	if cmd.Write && cmd.File.IsStdin() {
		return fmt.Errorf("--write needs a file, not stdin")
	}
	if cmd.Append && cmd.Output == "" {
		return fmt.Errorf("--append needs an output file (-o)")
	}
	if cmd.Type < 0 || cmd.Type > 4 {
		return fmt.Errorf("invalid SIE type %d (expected 1-4)", cmd.Type)
	}

	s, err := globals.start(ctx, fmt.Sprintf("format %s", cmd.File.Base()))
	if err != nil {
		return err
	}
	defer s.finish()

	doc, err := cmd.File.Load(s.ctx, s.loader)
	var validationErrors *ledger.ValidationErrors
	if err != nil && !errors.As(err, &validationErrors) {
		source, _ := cmd.File.Source(s.ctx, s.loader)
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(source).Render(err))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}
	if validationErrors != nil {
		printWarning(ctx.Stderr, fmt.Sprintf("%d irregularities while reading %s, run check for details",
			len(validationErrors.Errors), cmd.File.Base()))
	}

	if cmd.Type > 0 {
		convert(doc, cmd.Type)
	}

	f, err := cmd.formatter(s.loader.Codec)
	if err != nil {
		return err
	}

	switch {
	case cmd.Append:
		if err := f.AppendFile(s.ctx, doc, cmd.Output); err != nil {
			return err
		}
		printSuccess(ctx.Stderr, fmt.Sprintf("Appended %d vouchers to %s", len(doc.Vouchers), pathStyle.Render(cmd.Output)))

	case cmd.Write, cmd.Output != "":
		target := cmd.Output
		if cmd.Write {
			target = cmd.File.Filename
		} else if ok, err := cmd.confirmOverwrite(target); err != nil || !ok {
			return err
		}
		if err := f.WriteFile(s.ctx, doc, target); err != nil {
			return err
		}
		printSuccess(ctx.Stderr, fmt.Sprintf("Wrote %s", pathStyle.Render(target)))

	default:
		if err := f.Format(s.ctx, doc, ctx.Stdout); err != nil {
			return err
		}
	}

	return nil
}

func (cmd *FormatCmd) formatter(input charset.Codec) (*formatter.Formatter, error) {
	codec := input
	if cmd.Encoding != "" {
		var err error
		if codec, err = charset.Lookup(cmd.Encoding); err != nil {
			return nil, err
		}
	}

	opts := []formatter.Option{
		formatter.WithCodec(codec),
		formatter.WithChecksum(cmd.Checksum),
	}
	if cmd.Stamp {
		opts = append(opts, formatter.WithProgram("sie", BuildVersion()))
	}
	return formatter.New(opts...), nil
}

// confirmOverwrite asks before replacing an existing file. Without a
// terminal the answer is no.
func (cmd *FormatCmd) confirmOverwrite(target string) (bool, error) {
	if cmd.Force {
		return true, nil
	}
	if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
		return true, nil
	}

	ok, err := promptYesNo(fmt.Sprintf("File %q exists. Overwrite it?", target))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, fmt.Errorf("%s exists, use --force to overwrite", target)
	}
	return true, nil
}

// convert lowers or raises the declared type of doc. Types below 4 carry
// no vouchers.
func convert(doc *ast.Document, typ int) {
	doc.Type = typ
	if typ < 4 {
		doc.Vouchers = nil
	}
}
