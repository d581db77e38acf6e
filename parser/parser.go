// Package parser reads SIE files into an ast.Document.
//
// Reading is line oriented. Each line is tokenized into a Record (see
// Tokenize), fed to the checksum accumulator once a #KSUMMA record has
// started it, and dispatched on its tag to a handler that updates one region
// of the document. References to accounts, dimensions and objects that are
// not yet defined create stubs that later definitions complete in place.
//
// Irregularities are typed errors. Under the default ast.Collect policy they
// are recorded on Document.Errors and reported to the Sink while reading
// continues; under ast.Fail the first one stops the parse. A first record
// other than #FLAGGA and a #SIETYP outside the accepted versions always stop
// the parse.
//
// The simplest entry point decodes a reader with the configured codec:
//
//	doc, err := parser.Parse(ctx, f, parser.WithFilename("bokslut.se"))
//
// Callers that produce lines themselves drive a Parser directly:
//
//	p := parser.New()
//	for line := range lines {
//	    if err := p.Feed(line); err != nil {
//	        break
//	    }
//	}
//	doc, err := p.Finish()
package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/checksum"
	"github.com/robinvdvleuten/sie/ledger"
	"github.com/robinvdvleuten/sie/telemetry"
)

type state uint8

const (
	expectingHeader state = iota
	reading
	insideVoucher
	done
)

// Parser builds one Document from a sequence of lines. It is not safe for
// concurrent use.
type Parser struct {
	cfg   *config
	doc   *ast.Document
	lexer *Lexer
	crc   checksum.Accumulator
	log   zerolog.Logger

	state   state
	voucher *ast.Voucher

	// fatal is the error that stopped the parse, if any.
	fatal    error
	finished bool
	result   error

	lines    int
	vouchers int
	// closing counts #UB, #OUB and #RES values for the value date rule.
	closing int
}

// New creates a parser.
func New(opts ...Option) *Parser {
	cfg := newConfig(opts)

	doc := ast.NewDocument()
	doc.Options = cfg.opts

	log := zerolog.Nop()
	if cfg.logger != nil {
		log = *cfg.logger
	}

	return &Parser{
		cfg:   cfg,
		doc:   doc,
		lexer: NewLexer(nil, cfg.filename),
		log:   log,
	}
}

// Document returns the document being built.
func (p *Parser) Document() *ast.Document {
	return p.doc
}

// Checksum returns the checksum accumulated so far, or zero when no
// #KSUMMA record started accumulation.
func (p *Parser) Checksum() uint32 {
	return p.crc.Sum32()
}

// Feed processes one decoded line. It returns a non-nil error only when the
// parse has stopped: on a structural error, a rejected version, or the
// first recoverable error under the Fail policy. Lines fed after that
// return ErrDone.
func (p *Parser) Feed(line string) error {
	if p.state == done {
		return ErrDone
	}

	r := p.lexer.tokenize(line)
	p.lines++
	p.cfg.sink.Line(line)

	if p.state == expectingHeader {
		if r.Kind == EMPTY {
			return nil
		}
		if r.Kind != FLAGGA {
			return p.abort(&InvalidFileError{Pos: r.Pos, Tag: r.Tag})
		}
		p.state = reading
	}

	if p.crc.Started() && r.Kind != KSUMMA {
		p.feedChecksum(&r)
	}

	handle, ok := handlers[r.Kind]
	if !ok {
		return p.report(&UnknownTagError{Pos: r.Pos, Tag: r.Tag})
	}
	return handle(p, &r)
}

var braceStripper = strings.NewReplacer("{", "", "}", "")

func (p *Parser) feedChecksum(r *Record) {
	var b strings.Builder
	b.WriteString(r.Tag)
	for _, f := range r.Fields {
		b.WriteString(braceStripper.Replace(f))
	}
	_, _ = p.crc.Write(p.cfg.codec.Encode(b.String()))
}

// Finish ends the parse. An open voucher is closed and the document rules
// are checked. Under the Collect policy the document is complete and the
// error is a *ledger.ValidationErrors when irregularities were found.
func (p *Parser) Finish() (*ast.Document, error) {
	if p.finished {
		return p.doc, p.result
	}
	p.finished = true
	p.result = p.finish()
	p.state = done
	return p.doc, p.result
}

func (p *Parser) finish() error {
	if p.fatal != nil {
		return p.fatal
	}
	if p.state == expectingHeader {
		return p.abort(&InvalidFileError{Pos: ast.Position{Filename: p.cfg.filename}})
	}

	if p.voucher != nil {
		v := p.voucher
		if err := p.report(&UnclosedVoucherError{Pos: v.Pos, Series: v.Series, Number: v.Number}); err != nil {
			return err
		}
		if err := p.closeVoucher(); err != nil {
			return err
		}
	}

	facts := ledger.Facts{
		Filename:        p.cfg.filename,
		ChecksumStarted: p.crc.Started(),
		SingleByteCodec: p.cfg.codec.SingleByte,
		PeriodValues:    p.closing,
	}
	for _, err := range ledger.Validate(p.doc, facts) {
		if ferr := p.report(err); ferr != nil {
			return ferr
		}
	}

	if len(p.doc.Errors) > 0 {
		return &ledger.ValidationErrors{Errors: p.doc.Errors}
	}
	return nil
}

// report records a recoverable error. It returns the error when the policy
// stops the parse, nil otherwise.
func (p *Parser) report(err error) error {
	p.doc.Errors = append(p.doc.Errors, err)
	p.cfg.sink.Error(err)
	p.log.Debug().Err(err).Msg("recoverable error")

	if p.cfg.opts.Policy == ast.Fail {
		p.state = done
		p.fatal = err
		return err
	}
	return nil
}

// abort records an error that stops the parse under every policy.
func (p *Parser) abort(err error) error {
	p.doc.Errors = append(p.doc.Errors, err)
	p.cfg.sink.Error(err)
	p.log.Debug().Err(err).Msg("parse aborted")

	p.state = done
	p.fatal = err
	return err
}

// Run feeds every line of src and finishes the parse.
func (p *Parser) Run(ctx context.Context, src LineSource) (*ast.Document, error) {
	for {
		line, err := src.NextLine(ctx)
		if err != nil {
			if isEOF(err) {
				break
			}
			return p.doc, fmt.Errorf("reading line %d: %w", p.lines+1, err)
		}
		if err := p.Feed(line); err != nil {
			break
		}
	}
	return p.Finish()
}

func (p *Parser) parse(ctx context.Context, src LineSource) (*ast.Document, error) {
	if p.cfg.logger == nil {
		p.log = *zerolog.Ctx(ctx)
	}

	name := "parser.parse"
	if p.cfg.filename != "" {
		name += " " + p.cfg.filename
	}
	timer := telemetry.StartTimer(ctx, name)
	defer timer.End()

	p.log.Debug().Str("file", p.cfg.filename).Str("codec", p.cfg.codec.Name).Msg("parse started")

	doc, err := p.Run(ctx, src)

	timer.Count(p.lines, "lines")
	timer.Count(p.vouchers, "vouchers")
	p.log.Debug().
		Str("file", p.cfg.filename).
		Int("lines", p.lines).
		Int("vouchers", p.vouchers).
		Int("errors", len(doc.Errors)).
		Msg("parse finished")

	return doc, err
}

// Parse decodes r with the configured codec and parses it.
func Parse(ctx context.Context, r io.Reader, opts ...Option) (*ast.Document, error) {
	p := New(opts...)
	return p.parse(ctx, NewReaderSource(p.cfg.codec.NewReader(r)))
}

// ParseBytes decodes b with the configured codec and parses it.
func ParseBytes(ctx context.Context, b []byte, opts ...Option) (*ast.Document, error) {
	return Parse(ctx, bytes.NewReader(b), opts...)
}

// ParseString parses already decoded text.
func ParseString(ctx context.Context, s string, opts ...Option) (*ast.Document, error) {
	return ParseSource(ctx, NewReaderSource(strings.NewReader(s)), opts...)
}

// ParseSource parses the lines produced by src.
func ParseSource(ctx context.Context, src LineSource, opts ...Option) (*ast.Document, error) {
	return New(opts...).parse(ctx, src)
}
