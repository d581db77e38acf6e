package parser

import (
	"strings"
	"time"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/ledger"
)

// handler applies one record to the document. It returns a non-nil error
// only when the parse must stop.
type handler func(p *Parser, r *Record) error

var handlers = map[Kind]handler{
	EMPTY:  func(*Parser, *Record) error { return nil },
	LBRACE: func(*Parser, *Record) error { return nil },
	RBRACE: (*Parser).handleBlockEnd,

	FLAGGA:  func(p *Parser, r *Record) error { p.doc.Flag = r.Int(0); return nil },
	KSUMMA:  (*Parser).handleChecksum,
	PROGRAM: (*Parser).handleProgram,
	FORMAT:  func(p *Parser, r *Record) error { p.doc.Format = r.String(0); return nil },
	GEN:     (*Parser).handleGenerated,
	SIETYP:  (*Parser).handleType,
	PROSA:   func(p *Parser, r *Record) error { p.doc.Prosa = strings.Join(r.Fields, " "); return nil },

	FNR:    func(p *Parser, r *Record) error { p.doc.Company.Code = r.String(0); return nil },
	ORGNR:  func(p *Parser, r *Record) error { p.doc.Company.OrgNumber = r.String(0); return nil },
	FNAMN:  func(p *Parser, r *Record) error { p.doc.Company.Name = r.String(0); return nil },
	ADRESS: (*Parser).handleAddress,
	FTYP:   func(p *Parser, r *Record) error { p.doc.Company.Type = r.String(0); return nil },
	BKOD:   func(p *Parser, r *Record) error { p.doc.Company.Industry = r.String(0); return nil },

	KPTYP:   func(p *Parser, r *Record) error { p.doc.AccountPlan = r.String(0); return nil },
	VALUTA:  func(p *Parser, r *Record) error { p.doc.Currency = r.String(0); return nil },
	TAXAR:   func(p *Parser, r *Record) error { p.doc.TaxYear = r.Int(0); return nil },
	OMFATTN: (*Parser).handleValueDate,
	RAR:     (*Parser).handleFiscalYear,

	DIM:      (*Parser).handleDimension,
	UNDERDIM: (*Parser).handleSubDimension,
	OBJEKT:   (*Parser).handleObject,

	KONTO: func(p *Parser, r *Record) error { p.doc.EnsureAccount(r.String(0)).Name = r.String(1); return nil },
	ENHET: func(p *Parser, r *Record) error { p.doc.EnsureAccount(r.String(0)).Unit = r.String(1); return nil },
	KTYP:  func(p *Parser, r *Record) error { p.doc.EnsureAccount(r.String(0)).Type = r.String(1); return nil },
	SRU:   func(p *Parser, r *Record) error { p.doc.EnsureAccount(r.String(0)).AddSRU(r.String(1)); return nil },

	IB:      balanceHandler(ast.OpeningBalance),
	UB:      balanceHandler(ast.ClosingBalance),
	RES:     balanceHandler(ast.Result),
	OIB:     objectBalanceHandler(ast.ObjectOpeningBalance),
	OUB:     objectBalanceHandler(ast.ObjectClosingBalance),
	PBUDGET: periodHandler(ast.PeriodBudget),
	PSALDO:  periodHandler(ast.PeriodBalance),

	VER:    (*Parser).handleVoucher,
	TRANS:  rowHandler(ast.Transaction),
	RTRANS: rowHandler(ast.AddedTransaction),
	BTRANS: rowHandler(ast.RemovedTransaction),
}

// date parses field i. A malformed date is reported and yields the zero
// time; the error is only returned when the parse must stop.
func (p *Parser) date(r *Record, i int) (time.Time, error) {
	t, err := r.Date(i, p.cfg.opts.DateLayout)
	if err != nil {
		return time.Time{}, p.report(err)
	}
	return t, nil
}

func (p *Parser) handleChecksum(r *Record) error {
	if !p.crc.Started() {
		p.crc.Start()
		return nil
	}
	p.doc.Checksum = r.Long(0)
	if !p.crc.Matches(p.doc.Checksum) {
		return p.report(&ChecksumMismatchError{Pos: r.Pos, Stored: p.doc.Checksum, Computed: p.crc.Sum32()})
	}
	return nil
}

func (p *Parser) handleProgram(r *Record) error {
	p.doc.Program = ast.Program{Name: r.String(0), Version: r.String(1)}
	return nil
}

func (p *Parser) handleGenerated(r *Record) error {
	date, err := p.date(r, 0)
	if err != nil {
		return err
	}
	p.doc.Generated = date
	p.doc.GeneratedBy = r.String(1)
	return nil
}

func (p *Parser) handleType(r *Record) error {
	p.doc.Type = r.Int(0)
	if !p.cfg.opts.AcceptedVersions.Accepts(p.doc.Type) {
		return p.abort(&UnsupportedVersionError{Pos: r.Pos, Type: p.doc.Type})
	}
	return nil
}

func (p *Parser) handleAddress(r *Record) error {
	p.doc.Company.Address = ast.Address{
		Contact:    r.String(0),
		Street:     r.String(1),
		PostalCity: r.String(2),
		Phone:      r.String(3),
	}
	return nil
}

func (p *Parser) handleValueDate(r *Record) error {
	date, err := p.date(r, 0)
	if err != nil {
		return err
	}
	p.doc.ValueDate = date
	return nil
}

func (p *Parser) handleFiscalYear(r *Record) error {
	fy := p.doc.FiscalYear(r.Int(0))
	start, err := p.date(r, 1)
	if err != nil {
		return err
	}
	end, err := p.date(r, 2)
	if err != nil {
		return err
	}
	fy.Start, fy.End = start, end
	return nil
}

func (p *Parser) handleDimension(r *Record) error {
	p.doc.DefineDimension(r.String(0), r.String(1), "")
	return nil
}

func (p *Parser) handleSubDimension(r *Record) error {
	if !p.cfg.opts.AllowUnderDimensions {
		return p.report(&InvalidFeatureError{Pos: r.Pos, Tag: r.Tag, Reason: "is not enabled"})
	}
	parent := r.String(2)
	p.doc.ResolveDimension(parent)
	p.doc.DefineDimension(r.String(0), r.String(1), parent)
	return nil
}

func (p *Parser) handleObject(r *Record) error {
	p.doc.ResolveObject(r.String(0), r.String(1)).Name = r.String(2)
	return nil
}

// addValue delivers a period value and keeps it unless values are streamed.
func (p *Parser) addValue(pv *ast.PeriodValue) {
	p.doc.EnsureAccount(pv.Account)
	switch pv.Kind {
	case ast.ClosingBalance, ast.ObjectClosingBalance, ast.Result:
		p.closing++
	}
	deliverValue(p.cfg.sink, pv)
	if !p.cfg.opts.StreamValues {
		p.doc.AddValue(pv)
	}
}

// balanceHandler reads "year account amount [quantity]".
func balanceHandler(kind ast.ValueKind) handler {
	return func(p *Parser, r *Record) error {
		p.addValue(&ast.PeriodValue{
			Kind:     kind,
			Year:     r.Int(0),
			Account:  r.String(1),
			Amount:   r.Decimal(2),
			Quantity: r.OptionalDecimal(3),
			Pos:      r.Pos,
		})
		return nil
	}
}

// objectBalanceHandler reads "year account {objects} amount [quantity]".
func objectBalanceHandler(kind ast.ValueKind) handler {
	return func(p *Parser, r *Record) error {
		if p.doc.Type < 3 {
			if err := p.report(&InvalidFeatureError{Pos: r.Pos, Tag: r.Tag, Reason: "requires SIE type 3 or later"}); err != nil {
				return err
			}
		}
		objects, err := p.objects(r)
		if err != nil {
			return err
		}
		i := r.after(2)
		p.addValue(&ast.PeriodValue{
			Kind:     kind,
			Year:     r.Int(0),
			Account:  r.String(1),
			Objects:  objects,
			Amount:   r.Decimal(i),
			Quantity: r.OptionalDecimal(i + 1),
			Pos:      r.Pos,
		})
		return nil
	}
}

// periodHandler reads "year period account {objects} amount [quantity]".
// SIE 2 readers skip records with a non-empty object list.
func periodHandler(kind ast.ValueKind) handler {
	return func(p *Parser, r *Record) error {
		account := r.String(2)
		p.doc.EnsureAccount(account)

		if p.doc.Type < 2 {
			if err := p.report(&InvalidFeatureError{Pos: r.Pos, Tag: r.Tag, Reason: "requires SIE type 2 or later"}); err != nil {
				return err
			}
		}
		if p.doc.Type == 2 {
			if list, ok := r.ObjectList(); ok && strings.TrimSpace(strings.Trim(list, "{}")) != "" {
				return nil
			}
		}

		objects, err := p.objects(r)
		if err != nil {
			return err
		}
		i := r.after(3)
		p.addValue(&ast.PeriodValue{
			Kind:     kind,
			Year:     r.Int(0),
			Period:   r.Int(1),
			Account:  account,
			Objects:  objects,
			Amount:   r.Decimal(i),
			Quantity: r.OptionalDecimal(i + 1),
			Pos:      r.Pos,
		})
		return nil
	}
}

func (p *Parser) handleVoucher(r *Record) error {
	if p.voucher != nil {
		open := p.voucher
		if err := p.report(&UnclosedVoucherError{Pos: open.Pos, Series: open.Series, Number: open.Number}); err != nil {
			return err
		}
		if err := p.closeVoucher(); err != nil {
			return err
		}
	}

	date, err := r.Date(2, p.cfg.opts.DateLayout)
	switch {
	case err != nil:
		if ferr := p.report(err); ferr != nil {
			return ferr
		}
	case date.IsZero():
		if ferr := p.report(&MissingFieldError{Pos: r.Pos, Tag: r.Tag, Field: "voucher date"}); ferr != nil {
			return ferr
		}
	}

	created, err := p.date(r, 4)
	if err != nil {
		return err
	}

	p.voucher = &ast.Voucher{
		Series:      r.String(0),
		Number:      r.String(1),
		Date:        date,
		Text:        r.String(3),
		CreatedDate: created,
		CreatedBy:   r.String(5),
		Pos:         r.Pos,
	}
	p.state = insideVoucher
	return nil
}

// rowHandler reads "account {objects} amount [date] [text] [quantity] [sign]".
func rowHandler(kind ast.RowKind) handler {
	return func(p *Parser, r *Record) error {
		opts := p.cfg.opts
		if (kind == ast.RemovedTransaction && opts.IgnoreBTrans) || (kind == ast.AddedTransaction && opts.IgnoreRTrans) {
			return nil
		}
		if p.voucher == nil {
			return p.report(&OrphanRowError{Pos: r.Pos, Tag: r.Tag})
		}

		account := r.String(0)
		p.doc.EnsureAccount(account)

		objects, err := p.objects(r)
		if err != nil {
			return err
		}
		i := r.after(1)

		date, err := p.date(r, i+1)
		if err != nil {
			return err
		}
		if date.IsZero() {
			date = p.voucher.Date
		}

		p.voucher.Rows = append(p.voucher.Rows, &ast.VoucherRow{
			Kind:      kind,
			Account:   account,
			Objects:   objects,
			Amount:    r.Decimal(i),
			Date:      date,
			Text:      r.String(i + 2),
			Quantity:  r.OptionalDecimal(i + 3),
			CreatedBy: r.String(i + 4),
		})
		return nil
	}
}

func (p *Parser) handleBlockEnd(r *Record) error {
	if p.voucher == nil {
		return p.report(&OrphanRowError{Pos: r.Pos, Tag: r.Tag})
	}
	return p.closeVoucher()
}

// closeVoucher checks the balance of the open voucher, delivers it and
// keeps it unless values are streamed.
func (p *Parser) closeVoucher() error {
	v := p.voucher
	p.voucher = nil
	p.state = reading
	p.vouchers++

	if err := ledger.CheckVoucher(v, p.cfg.opts); err != nil {
		if ferr := p.report(err); ferr != nil {
			return ferr
		}
	}

	p.cfg.sink.Voucher(v)
	if !p.cfg.opts.StreamValues {
		p.doc.AddVoucher(v)
	}
	return nil
}
