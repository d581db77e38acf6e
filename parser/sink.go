package parser

import "github.com/robinvdvleuten/sie/ast"

// Sink receives parse events in document order. Each completed entity is
// delivered exactly once, whether or not the document retains it.
type Sink interface {
	Line(line string)
	Error(err error)
	OpeningBalance(pv *ast.PeriodValue)
	ClosingBalance(pv *ast.PeriodValue)
	ObjectOpeningBalance(pv *ast.PeriodValue)
	ObjectClosingBalance(pv *ast.PeriodValue)
	PeriodBudget(pv *ast.PeriodValue)
	PeriodBalance(pv *ast.PeriodValue)
	Result(pv *ast.PeriodValue)
	Voucher(v *ast.Voucher)
}

// NopSink ignores every event. Embed it to implement only the events of
// interest.
type NopSink struct{}

func (NopSink) Line(string)                           {}
func (NopSink) Error(error)                           {}
func (NopSink) OpeningBalance(*ast.PeriodValue)       {}
func (NopSink) ClosingBalance(*ast.PeriodValue)       {}
func (NopSink) ObjectOpeningBalance(*ast.PeriodValue) {}
func (NopSink) ObjectClosingBalance(*ast.PeriodValue) {}
func (NopSink) PeriodBudget(*ast.PeriodValue)         {}
func (NopSink) PeriodBalance(*ast.PeriodValue)        {}
func (NopSink) Result(*ast.PeriodValue)               {}
func (NopSink) Voucher(*ast.Voucher)                  {}

// deliverValue routes a period value to the sink method of its kind.
func deliverValue(s Sink, pv *ast.PeriodValue) {
	switch pv.Kind {
	case ast.OpeningBalance:
		s.OpeningBalance(pv)
	case ast.ClosingBalance:
		s.ClosingBalance(pv)
	case ast.ObjectOpeningBalance:
		s.ObjectOpeningBalance(pv)
	case ast.ObjectClosingBalance:
		s.ObjectClosingBalance(pv)
	case ast.PeriodBudget:
		s.PeriodBudget(pv)
	case ast.PeriodBalance:
		s.PeriodBalance(pv)
	case ast.Result:
		s.Result(pv)
	}
}
