// Package output provides styling helpers for terminal output.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// Styles renders text with ANSI styling when the writer supports it.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates styles for w. Styling is dropped automatically when w
// is not a terminal.
func NewStyles(w io.Writer) *Styles {
	return &Styles{output: termenv.NewOutput(w)}
}

func (s *Styles) color(text, c string, bold bool) string {
	str := s.output.String(text).Foreground(s.output.Color(c))
	if bold {
		str = str.Bold()
	}
	return str.String()
}

// Success is green and bold.
func (s *Styles) Success(text string) string { return s.color(text, "2", true) }

// Error is red and bold.
func (s *Styles) Error(text string) string { return s.color(text, "1", true) }

// Warning is yellow and bold.
func (s *Styles) Warning(text string) string { return s.color(text, "3", true) }

// FilePath is cyan.
func (s *Styles) FilePath(text string) string { return s.color(text, "6", false) }

// Account renders an account number or object reference in yellow.
func (s *Styles) Account(text string) string { return s.color(text, "3", false) }

// Amount is magenta.
func (s *Styles) Amount(text string) string { return s.color(text, "5", false) }

// Tag renders a record tag such as #VER in blue.
func (s *Styles) Tag(text string) string { return s.color(text, "4", false) }

// Keyword is bold.
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).Bold().String()
}

// Dim is faint, for secondary information.
func (s *Styles) Dim(text string) string {
	return s.output.String(text).Faint().String()
}

// Timing dims fast timings and colors slow ones red.
func (s *Styles) Timing(text string, slow bool) string {
	if slow {
		return s.color(text, "1", false)
	}
	return s.Dim(text)
}

// Output returns the underlying termenv output.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
