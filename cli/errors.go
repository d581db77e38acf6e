package cli

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/formatter"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	source []byte
}

// NewErrorRenderer creates a renderer with decoded source content for context.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	if e, ok := err.(interface {
		GetVoucher() *ast.Voucher
		Error() string
	}); ok && e.GetVoucher() != nil {
		return r.renderWithVoucher(e.Error(), e.GetVoucher())
	}

	if e, ok := err.(interface {
		GetPosition() ast.Position
		Error() string
	}); ok && r.source != nil {
		return r.renderWithSourceContext(e.GetPosition(), e.Error())
	}

	return errorStyle.Render(err.Error())
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

func (r *ErrorRenderer) renderWithSourceContext(pos ast.Position, message string) string {
	if pos.Line <= 0 {
		return errorStyle.Render(message)
	}

	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	sourceLines := strings.Split(strings.TrimRight(string(r.source), "\r\n"), "\n")

	startLine := max(pos.Line-3, 0)
	endLine := min(pos.Line, len(sourceLines)-1)

	for i := startLine; i <= endLine; i++ {
		line := strings.TrimRight(sourceLines[i], "\r")
		if i == pos.Line-1 {
			buf.WriteString(errCaretStyle.Render(" > "))
			buf.WriteString(line)
		} else {
			buf.WriteString("   ")
			buf.WriteString(errContextStyle.Render(line))
		}
		buf.WriteByte('\n')
	}

	return buf.String()
}

func (r *ErrorRenderer) renderWithVoucher(message string, v *ast.Voucher) string {
	var voucher bytes.Buffer
	if err := formatter.New().FormatVoucher(v, &voucher); err != nil {
		return errorStyle.Render(message)
	}

	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	for _, line := range strings.Split(strings.TrimRight(voucher.String(), "\n"), "\n") {
		buf.WriteString("   ")
		buf.WriteString(errContextStyle.Render(line))
		buf.WriteByte('\n')
	}

	return buf.String()
}
