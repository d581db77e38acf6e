// Package formatter writes ast.Documents as SIE files.
//
// Records are emitted in a fixed section order: header, company, fiscal
// years, dimensions, accounts, balances and vouchers. Every line is
// trimmed, terminated with CRLF and encoded with the configured codec.
//
// With WithChecksum the document is first rendered to memory and read back
// to compute the #KSUMMA value a reader will verify, then written with the
// checksum populated.
package formatter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/maps"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/charset"
	"github.com/robinvdvleuten/sie/ledger"
	"github.com/robinvdvleuten/sie/parser"
	"github.com/robinvdvleuten/sie/telemetry"
)

const (
	// lineBreak terminates every written line.
	lineBreak = "\r\n"

	// placeholder stands in for an absent optional field.
	placeholder = `""`

	// zeroDate is written for a mandatory date that is not set.
	zeroDate = "00000000"

	// appendMinType is the first SIE type vouchers can be appended to.
	appendMinType = 4
)

// ErrNilWriter is returned when no writer is given.
var ErrNilWriter = errors.New("formatter: writer is nil")

// UnsupportedOperationError is returned for a write the document or the
// formatter configuration does not allow.
type UnsupportedOperationError struct {
	Operation string
	Reason    string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Reason)
}

// Formatter handles writing of SIE documents.
type Formatter struct {
	// Codec encodes the written text. Defaults to PC8.
	Codec charset.Codec

	// Checksum derives and writes #KSUMMA records.
	Checksum bool

	// Program overrides the #PROGRAM identity of the document when set.
	Program ast.Program

	// DateLayout is the time layout dates are written with.
	DateLayout string
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithCodec sets the text codec.
func WithCodec(codec charset.Codec) Option {
	return func(f *Formatter) {
		f.Codec = codec
	}
}

// WithChecksum enables checksum derivation.
func WithChecksum(enabled bool) Option {
	return func(f *Formatter) {
		f.Checksum = enabled
	}
}

// WithProgram sets the program written in #PROGRAM.
func WithProgram(name, version string) Option {
	return func(f *Formatter) {
		f.Program = ast.Program{Name: name, Version: version}
	}
}

// WithDateLayout sets the time layout dates are written with.
func WithDateLayout(layout string) Option {
	return func(f *Formatter) {
		f.DateLayout = layout
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		Codec:      charset.Default(),
		DateLayout: ast.DateLayout,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Format writes doc to w. With checksum derivation enabled, doc.Checksum
// is updated to the derived value.
func (f *Formatter) Format(ctx context.Context, doc *ast.Document, w io.Writer) error {
	if w == nil {
		return ErrNilWriter
	}

	timer := telemetry.StartTimer(ctx, "formatter.format")
	defer timer.End()

	if f.Checksum {
		sum, err := f.deriveChecksum(ctx, doc)
		if err != nil {
			return err
		}
		doc.Checksum = int64(sum)
	}

	var buf strings.Builder
	lines := f.render(doc, &buf)
	timer.Count(lines, "lines")

	return f.write(w, buf.String())
}

// AppendVouchers writes only the vouchers of doc, for appending to an
// existing SIE 4 file. Checksum derivation cannot be combined with it.
func (f *Formatter) AppendVouchers(ctx context.Context, doc *ast.Document, w io.Writer) error {
	if w == nil {
		return ErrNilWriter
	}
	if doc.Type < appendMinType {
		return &UnsupportedOperationError{
			Operation: "append vouchers",
			Reason:    fmt.Sprintf("requires SIE type %d, document is type %d", appendMinType, doc.Type),
		}
	}
	if f.Checksum {
		return &UnsupportedOperationError{
			Operation: "append vouchers",
			Reason:    "checksum derivation is not supported",
		}
	}

	timer := telemetry.StartTimer(ctx, "formatter.append")
	defer timer.End()

	var buf strings.Builder
	e := f.emitter(doc, &buf)
	e.vouchers()
	timer.Count(e.lines, "lines")

	return f.write(w, buf.String())
}

// FormatVoucher writes a single voucher as undecoded text with LF line
// endings, for showing a voucher next to a message.
func (f *Formatter) FormatVoucher(v *ast.Voucher, w io.Writer) error {
	if w == nil {
		return ErrNilWriter
	}

	var buf strings.Builder
	f.emitter(&ast.Document{Type: appendMinType}, &buf).voucher(v)
	_, err := io.WriteString(w, strings.ReplaceAll(buf.String(), lineBreak, "\n"))
	return err
}

// WriteFile writes doc to the named file, replacing its contents.
func (f *Formatter) WriteFile(ctx context.Context, doc *ast.Document, filename string) error {
	var buf bytes.Buffer
	if err := f.Format(ctx, doc, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}

// AppendFile appends the vouchers of doc to the named file.
func (f *Formatter) AppendFile(ctx context.Context, doc *ast.Document, filename string) error {
	var buf bytes.Buffer
	if err := f.AppendVouchers(ctx, doc, &buf); err != nil {
		return err
	}

	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filename, err)
	}
	if _, err := file.Write(buf.Bytes()); err != nil {
		_ = file.Close()
		return fmt.Errorf("appending to %s: %w", filename, err)
	}
	return file.Close()
}

// deriveChecksum renders doc in memory and reads it back, returning the
// checksum the reader accumulated.
func (f *Formatter) deriveChecksum(ctx context.Context, doc *ast.Document) (uint32, error) {
	timer := telemetry.StartTimer(ctx, "formatter.checksum")
	defer timer.End()

	var buf strings.Builder
	f.render(doc, &buf)
	encoded := f.Codec.Encode(buf.String())

	p := parser.New(
		parser.WithCodec(f.Codec),
		parser.WithOptions(ast.Options{
			Policy:                  ast.Collect,
			IgnoreMissingValueDate:  true,
			AllowMissingGenDate:     true,
			AllowUnbalancedVouchers: true,
			AllowUnderDimensions:    true,
			StreamValues:            true,
			AcceptedVersions:        ast.AllVersions,
			DateLayout:              f.DateLayout,
		}),
	)
	src := parser.NewReaderSource(f.Codec.NewReader(bytes.NewReader(encoded)))
	if _, err := p.Run(ctx, src); err != nil {
		var verrs *ledger.ValidationErrors
		if !errors.As(err, &verrs) {
			return 0, fmt.Errorf("deriving checksum: %w", err)
		}
	}

	timer.Count(len(encoded), "bytes")
	return p.Checksum(), nil
}

func (f *Formatter) write(w io.Writer, text string) error {
	cw := f.Codec.NewWriter(w)
	if _, err := io.WriteString(cw, text); err != nil {
		return err
	}
	return cw.Close()
}

// render writes all sections of doc to buf and returns the line count.
func (f *Formatter) render(doc *ast.Document, buf *strings.Builder) int {
	e := f.emitter(doc, buf)

	e.header()
	e.company()
	e.fiscalYears()
	e.dimensions()
	e.accounts()

	e.values(doc.OpeningBalances)
	e.values(doc.ClosingBalances)
	if doc.Type >= 3 {
		e.values(doc.ObjectOpeningBalances)
		e.values(doc.ObjectClosingBalances)
	}
	if doc.Type > 1 {
		e.values(doc.PeriodBudgets)
		e.values(doc.PeriodBalances)
	}
	e.values(doc.Results)

	e.vouchers()

	if f.Checksum {
		e.line("#KSUMMA", strconv.FormatUint(uint64(uint32(doc.Checksum)), 10))
	}

	return e.lines
}

func (f *Formatter) emitter(doc *ast.Document, buf *strings.Builder) *emitter {
	return &emitter{f: f, doc: doc, buf: buf}
}

// emitter renders the records of one document.
type emitter struct {
	f     *Formatter
	doc   *ast.Document
	buf   *strings.Builder
	lines int
}

// line writes tag and fields as one line. Trailing placeholders are
// dropped.
func (e *emitter) line(tag string, fields ...string) {
	for len(fields) > 0 && fields[len(fields)-1] == placeholder {
		fields = fields[:len(fields)-1]
	}

	var b strings.Builder
	b.WriteString(tag)
	for _, fld := range fields {
		b.WriteByte(' ')
		b.WriteString(fld)
	}

	e.buf.WriteString(strings.TrimSpace(b.String()))
	e.buf.WriteString(lineBreak)
	e.lines++
}

// date renders a mandatory date.
func (e *emitter) date(t time.Time) string {
	if t.IsZero() {
		return zeroDate
	}
	return t.Format(e.f.DateLayout)
}

// optionalDate renders an optional date, or the empty placeholder.
func (e *emitter) optionalDate(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return t.Format(e.f.DateLayout)
}

// objects renders an object list. Declared types 1 and 2 carry no objects
// and get an empty list; a document without #SIETYP keeps its objects.
func (e *emitter) objects(refs []ast.ObjectRef) string {
	if (e.doc.Type >= 1 && e.doc.Type < 3) || len(refs) == 0 {
		return "{}"
	}

	parts := make([]string, 0, len(refs))
	for _, ref := range refs {
		parts = append(parts, field(ref.Dimension)+" "+field(ref.Number))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func (e *emitter) header() {
	doc := e.doc

	e.line("#FLAGGA", strconv.Itoa(doc.Flag))
	if e.f.Checksum {
		e.line("#KSUMMA")
	}

	program := e.f.Program
	if program == (ast.Program{}) {
		program = doc.Program
	}
	e.line("#PROGRAM", quote(program.Name), optional(program.Version))

	e.line("#FORMAT", field(e.f.Codec.FormatTag()))
	e.line("#GEN", e.date(doc.Generated), optional(doc.GeneratedBy))
	if doc.Type > 0 {
		e.line("#SIETYP", strconv.Itoa(doc.Type))
	}
	if doc.Prosa != "" {
		e.line("#PROSA", quote(doc.Prosa))
	}
}

func (e *emitter) company() {
	doc := e.doc
	c := doc.Company

	if c.Code != "" {
		e.line("#FNR", quote(c.Code))
	}
	if c.OrgNumber != "" {
		e.line("#ORGNR", field(c.OrgNumber))
	}
	e.line("#FNAMN", quote(c.Name))
	if !c.Address.IsZero() {
		a := c.Address
		e.line("#ADRESS", quote(a.Contact), quote(a.Street), quote(a.PostalCity), quote(a.Phone))
	}
	if c.Type != "" {
		e.line("#FTYP", field(c.Type))
	}
	if c.Industry != "" {
		e.line("#BKOD", field(c.Industry))
	}

	if doc.AccountPlan != "" {
		e.line("#KPTYP", field(doc.AccountPlan))
	}
	if doc.Currency != "" {
		e.line("#VALUTA", field(doc.Currency))
	}
	if doc.TaxYear > 0 {
		e.line("#TAXAR", strconv.Itoa(doc.TaxYear))
	}
	if !doc.ValueDate.IsZero() {
		e.line("#OMFATTN", e.date(doc.ValueDate))
	}
}

// fiscalYears writes #RAR records, current year first.
func (e *emitter) fiscalYears() {
	ids := maps.Keys(e.doc.FiscalYears)
	slices.Sort(ids)
	slices.Reverse(ids)

	for _, id := range ids {
		fy := e.doc.FiscalYears[id]
		e.line("#RAR", strconv.Itoa(id), e.date(fy.Start), e.date(fy.End))
	}
}

// dimensions writes each dimension that is not a reserved default,
// followed by its objects. Objects of placeholders are kept as well.
func (e *emitter) dimensions() {
	write := func(dim *ast.Dimension, defined bool) {
		if defined && !dim.Default {
			if dim.IsSubDimension() {
				e.line("#UNDERDIM", field(dim.Number), quote(dim.Name), field(dim.Parent))
			} else {
				e.line("#DIM", field(dim.Number), quote(dim.Name))
			}
		}
		for _, obj := range dim.Objects.Values() {
			e.line("#OBJEKT", field(dim.Number), field(obj.Number), quote(obj.Name))
		}
	}

	for _, dim := range e.doc.Dimensions.Values() {
		write(dim, true)
	}
	for _, dim := range e.doc.Unresolved.Values() {
		write(dim, false)
	}
}

func (e *emitter) accounts() {
	accounts := e.doc.Accounts.Values()

	for _, a := range accounts {
		e.line("#KONTO", field(a.Number), quote(a.Name))
		if strings.TrimSpace(a.Unit) != "" {
			e.line("#ENHET", field(a.Number), quote(a.Unit))
		}
		if strings.TrimSpace(a.Type) != "" {
			e.line("#KTYP", field(a.Number), field(a.Type))
		}
	}
	for _, a := range accounts {
		for _, code := range a.SRU {
			e.line("#SRU", field(a.Number), field(code))
		}
	}
}

func (e *emitter) values(list []*ast.PeriodValue) {
	for _, pv := range list {
		year := strconv.Itoa(pv.Year)
		switch {
		case pv.Kind.HasPeriod():
			e.line(pv.Kind.Tag(), year, strconv.Itoa(pv.Period), field(pv.Account),
				e.objects(pv.Objects), amount(pv.Amount), quantity(pv.Quantity))
		case pv.Kind.HasObjects():
			e.line(pv.Kind.Tag(), year, field(pv.Account),
				e.objects(pv.Objects), amount(pv.Amount), quantity(pv.Quantity))
		default:
			e.line(pv.Kind.Tag(), year, field(pv.Account), amount(pv.Amount), quantity(pv.Quantity))
		}
	}
}

func (e *emitter) vouchers() {
	for _, v := range e.doc.Vouchers {
		e.voucher(v)
	}
}

func (e *emitter) voucher(v *ast.Voucher) {
	e.line("#VER", field(v.Series), field(v.Number), e.date(v.Date),
		optional(v.Text), e.optionalDate(v.CreatedDate), optional(v.CreatedBy))
	e.line("{")
	for _, row := range v.Rows {
		e.line(row.Kind.Tag(), field(row.Account), e.objects(row.Objects), amount(row.Amount),
			e.optionalDate(row.Date), optional(row.Text), quantity(row.Quantity), optional(row.CreatedBy))
	}
	e.line("}")
}
