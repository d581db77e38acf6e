package parser

import (
	"errors"
	"fmt"

	"github.com/robinvdvleuten/sie/ast"
)

// ErrDone is returned when lines are fed to a parser that has stopped.
var ErrDone = errors.New("parser is done")

func location(pos ast.Position) string {
	if pos.Filename == "" {
		return fmt.Sprintf("line %d", pos.Line)
	}
	return fmt.Sprintf("%s:%d", pos.Filename, pos.Line)
}

// InvalidFileError is returned when the input does not start with #FLAGGA.
// Parsing stops regardless of the error policy.
type InvalidFileError struct {
	Pos ast.Position
	Tag string
}

func (e *InvalidFileError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("%s: not a SIE file: no #FLAGGA record", location(e.Pos))
	}
	return fmt.Sprintf("%s: not a SIE file: first record is %s, expected #FLAGGA", location(e.Pos), e.Tag)
}

func (e *InvalidFileError) GetPosition() ast.Position {
	return e.Pos
}

// UnsupportedVersionError is returned when #SIETYP declares a type outside
// the accepted versions. Parsing stops regardless of the error policy.
type UnsupportedVersionError struct {
	Pos  ast.Position
	Type int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("%s: SIE type %d is not accepted", location(e.Pos), e.Type)
}

func (e *UnsupportedVersionError) GetPosition() ast.Position {
	return e.Pos
}

// DateError reports a date field that does not match the date layout.
type DateError struct {
	Pos        ast.Position
	Tag        string
	Value      string
	Underlying error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: invalid date %q in %s", location(e.Pos), e.Value, e.Tag)
}

func (e *DateError) GetPosition() ast.Position {
	return e.Pos
}

func (e *DateError) Unwrap() error {
	return e.Underlying
}

// MissingFieldError reports a mandatory field that is absent.
type MissingFieldError struct {
	Pos   ast.Position
	Tag   string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s is missing %s", location(e.Pos), e.Tag, e.Field)
}

func (e *MissingFieldError) GetPosition() ast.Position {
	return e.Pos
}

// InvalidFeatureError reports a record used outside its valid SIE types or
// without the option that enables it.
type InvalidFeatureError struct {
	Pos    ast.Position
	Tag    string
	Reason string
}

func (e *InvalidFeatureError) Error() string {
	return fmt.Sprintf("%s: %s %s", location(e.Pos), e.Tag, e.Reason)
}

func (e *InvalidFeatureError) GetPosition() ast.Position {
	return e.Pos
}

// UnknownTagError reports a record tag the parser does not implement.
type UnknownTagError struct {
	Pos ast.Position
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("%s: unimplemented tag %s", location(e.Pos), e.Tag)
}

func (e *UnknownTagError) GetPosition() ast.Position {
	return e.Pos
}

// MissingObjectError reports a record without the object list its kind
// requires, or an object list with a dimension lacking its object.
type MissingObjectError struct {
	Pos       ast.Position
	Tag       string
	Dimension string // set when only the object is missing
}

func (e *MissingObjectError) Error() string {
	if e.Dimension != "" {
		return fmt.Sprintf("%s: %s object list has dimension %s without an object", location(e.Pos), e.Tag, e.Dimension)
	}
	return fmt.Sprintf("%s: %s has no object list", location(e.Pos), e.Tag)
}

func (e *MissingObjectError) GetPosition() ast.Position {
	return e.Pos
}

// ChecksumMismatchError reports a #KSUMMA value that differs from the
// checksum computed over the preceding records.
type ChecksumMismatchError struct {
	Pos      ast.Position
	Stored   int64
	Computed uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("%s: checksum mismatch: file has %d, computed %d", location(e.Pos), e.Stored, e.Computed)
}

func (e *ChecksumMismatchError) GetPosition() ast.Position {
	return e.Pos
}

// OrphanRowError reports a transaction row or block end outside a voucher.
type OrphanRowError struct {
	Pos ast.Position
	Tag string
}

func (e *OrphanRowError) Error() string {
	return fmt.Sprintf("%s: %s outside a voucher", location(e.Pos), e.Tag)
}

func (e *OrphanRowError) GetPosition() ast.Position {
	return e.Pos
}

// UnclosedVoucherError reports a voucher whose block was never closed.
type UnclosedVoucherError struct {
	Pos    ast.Position
	Series string
	Number string
}

func (e *UnclosedVoucherError) Error() string {
	return fmt.Sprintf("%s: voucher %s %s is not closed", location(e.Pos), e.Series, e.Number)
}

func (e *UnclosedVoucherError) GetPosition() ast.Position {
	return e.Pos
}
