// Package errors renders parse and validation errors of SIE documents.
// It keeps presentation apart from the packages that define the errors, so
// the same error can be shown on a terminal or served to the inspector.
//
// The package defines a Formatter interface and provides two implementations:
//   - TextFormatter: plain text with the offending source lines or voucher
//   - JSONFormatter: structured JSON for the web inspector
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/formatter"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

const indent = "   "

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	formatter     *formatter.Formatter
	sourceContent []byte // decoded source text, optional
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the decoded source text used for line context.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sourceContent = source
	}
}

// NewTextFormatter creates a new text formatter. A nil formatter renders
// vouchers with the default settings.
func NewTextFormatter(f *formatter.Formatter, opts ...TextFormatterOption) *TextFormatter {
	if f == nil {
		f = formatter.New()
	}
	tf := &TextFormatter{formatter: f}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error. Errors carrying a voucher show it below
// the message; other positioned errors show the surrounding source lines
// when a source was given.
func (tf *TextFormatter) Format(err error) string {
	if e, ok := err.(interface {
		GetVoucher() *ast.Voucher
		Error() string
	}); ok && e.GetVoucher() != nil {
		return tf.formatWithVoucher(e.Error(), e.GetVoucher())
	}

	if e, ok := err.(interface {
		GetPosition() ast.Position
		Error() string
	}); ok && tf.sourceContent != nil {
		return tf.formatWithSourceContext(e.GetPosition(), e.Error(), tf.sourceContent)
	}

	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}
	return buf.String()
}

// formatWithSourceContext writes the message followed by the two lines
// before the error line, the line itself and the line after it.
func (tf *TextFormatter) formatWithSourceContext(pos ast.Position, message string, source []byte) string {
	if pos.Line <= 0 {
		return message
	}

	var buf bytes.Buffer
	buf.WriteString(message)
	buf.WriteString("\n\n")

	lines := strings.Split(strings.TrimRight(string(source), "\r\n"), "\n")
	start := max(pos.Line-3, 0)
	end := min(pos.Line, len(lines)-1)

	for i := start; i <= end; i++ {
		marker := indent
		if i == pos.Line-1 {
			marker = " > "
		}
		buf.WriteString(marker)
		buf.WriteString(strings.TrimRight(lines[i], "\r"))
		buf.WriteByte('\n')
	}

	return buf.String()
}

func (tf *TextFormatter) formatWithVoucher(message string, v *ast.Voucher) string {
	var voucher bytes.Buffer
	if err := tf.formatter.FormatVoucher(v, &voucher); err != nil {
		return message
	}

	var buf bytes.Buffer
	buf.WriteString(message)
	buf.WriteString("\n\n")
	for _, line := range strings.Split(strings.TrimRight(voucher.String(), "\n"), "\n") {
		buf.WriteString(indent)
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string            `json:"type"`
	Message  string            `json:"message"`
	Position *PositionJSON     `json:"position,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Details: make(map[string]string),
	}

	if e, ok := err.(interface{ GetPosition() ast.Position }); ok {
		pos := e.GetPosition()
		errJSON.Position = &PositionJSON{
			Filename: pos.Filename,
			Line:     pos.Line,
		}
	}

	if e, ok := err.(interface{ GetAccount() string }); ok {
		errJSON.Details["account"] = e.GetAccount()
	}
	if e, ok := err.(interface{ GetVoucher() *ast.Voucher }); ok {
		if v := e.GetVoucher(); v != nil {
			errJSON.Details["series"] = v.Series
			errJSON.Details["number"] = v.Number
		}
	}

	return errJSON
}
