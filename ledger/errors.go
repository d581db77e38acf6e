package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/sie/ast"
)

// ValidationErrors wraps multiple validation errors
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

func location(pos ast.Position) string {
	switch {
	case pos.Filename != "" && pos.Line > 0:
		return fmt.Sprintf("%s:%d: ", pos.Filename, pos.Line)
	case pos.Filename != "":
		return pos.Filename + ": "
	case pos.Line > 0:
		return fmt.Sprintf("line %d: ", pos.Line)
	}
	return ""
}

// VoucherImbalanceError is returned when the rows of a voucher do not sum to zero.
type VoucherImbalanceError struct {
	Pos     ast.Position
	Series  string
	Number  string
	Sum     decimal.Decimal
	Voucher *ast.Voucher
}

func (e *VoucherImbalanceError) Error() string {
	return fmt.Sprintf("%svoucher %s %s does not balance (residual %s)", location(e.Pos), e.Series, e.Number, e.Sum.String())
}

func (e *VoucherImbalanceError) GetPosition() ast.Position {
	return e.Pos
}

func (e *VoucherImbalanceError) GetVoucher() *ast.Voucher {
	return e.Voucher
}

// MissingDateError is returned when a mandatory document date is absent.
type MissingDateError struct {
	Pos ast.Position
	Tag string
}

func (e *MissingDateError) Error() string {
	return fmt.Sprintf("%smandatory date %s is missing", location(e.Pos), e.Tag)
}

func (e *MissingDateError) GetPosition() ast.Position {
	return e.Pos
}

// InvalidChecksumError is returned when checksum accumulation was started
// but the file never supplied a non-zero #KSUMMA value.
type InvalidChecksumError struct {
	Pos ast.Position
}

func (e *InvalidChecksumError) Error() string {
	return fmt.Sprintf("%s#KSUMMA was started but no checksum value was given", location(e.Pos))
}

func (e *InvalidChecksumError) GetPosition() ast.Position {
	return e.Pos
}

// UndefinedDimensionError is returned for a dimension that was referenced
// but never defined with #DIM or #UNDERDIM.
type UndefinedDimensionError struct {
	Pos       ast.Position
	Dimension string
}

func (e *UndefinedDimensionError) Error() string {
	return fmt.Sprintf("%sdimension %s is referenced but never defined", location(e.Pos), e.Dimension)
}

func (e *UndefinedDimensionError) GetPosition() ast.Position {
	return e.Pos
}

// BalanceMismatchError is returned when an account's opening balance plus
// its voucher movements does not match the reported closing balance or result.
type BalanceMismatchError struct {
	Pos      ast.Position
	Account  string
	Kind     ast.ValueKind
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *BalanceMismatchError) Error() string {
	return fmt.Sprintf("%saccount %s: %s is %s but vouchers give %s",
		location(e.Pos), e.Account, e.Kind, e.Expected.StringFixed(2), e.Actual.StringFixed(2))
}

func (e *BalanceMismatchError) GetPosition() ast.Position {
	return e.Pos
}

func (e *BalanceMismatchError) GetAccount() string {
	return e.Account
}
