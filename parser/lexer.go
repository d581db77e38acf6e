package parser

// The lexer turns decoded lines into Records.
//
// Field rules:
// - The tag is everything before the first space or tab.
// - Fields are separated by spaces or tabs outside quotes and braces.
// - A double quote toggles a quoted field and is not part of the value.
//   A quoted field of zero length is still a field.
// - A backslash directly before a double quote yields a literal quote.
// - A brace block is kept verbatim as one field, braces and quotes
//   included, until the closing brace.

import (
	"context"
	"strings"

	"github.com/robinvdvleuten/sie/ast"
)

// maxInternLength bounds the fields that are interned. Account numbers,
// dates, object numbers and series repeat; free texts rarely do.
const maxInternLength = 16

// Tokenize splits a single line into a Record.
func Tokenize(line string) Record {
	r := Record{Raw: line, objectField: -1}

	trimmed := strings.TrimSpace(line)
	i := strings.IndexAny(trimmed, " \t")
	if i < 0 {
		r.Tag = trimmed
	} else {
		r.Tag = trimmed[:i]
		r.Fields, r.objectField = splitFields(trimmed[i+1:])
	}
	r.Kind = LookupKind(r.Tag)

	return r
}

// splitFields scans s into fields and returns the index of the first field
// opened by a brace, or -1.
func splitFields(s string) ([]string, int) {
	var (
		fields  []string
		buf     strings.Builder
		inQuote bool
		inBrace bool
		quoted  bool
		braced  bool
	)
	objectField := -1

	flush := func() {
		if buf.Len() > 0 || quoted {
			if braced && objectField < 0 {
				objectField = len(fields)
			}
			fields = append(fields, buf.String())
		}
		buf.Reset()
		quoted = false
		braced = false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inBrace:
			buf.WriteByte(c)
			if c == '}' {
				inBrace = false
			}
		case c == '\\' && i+1 < len(s) && s[i+1] == '"':
			buf.WriteByte('"')
			i++
		case c == '"':
			inQuote = !inQuote
			quoted = true
		case inQuote:
			buf.WriteByte(c)
		case c == '{':
			if buf.Len() == 0 && !quoted {
				braced = true
			}
			inBrace = true
			buf.WriteByte(c)
		case c == ' ' || c == '\t':
			flush()
		default:
			buf.WriteByte(c)
		}
	}
	flush()

	return fields, objectField
}

// Lexer reads lines from a LineSource and tokenizes them, tracking line
// numbers and interning short repeated fields.
type Lexer struct {
	src      LineSource
	filename string
	line     int
	interner *Interner
}

// NewLexer creates a lexer over src.
func NewLexer(src LineSource, filename string) *Lexer {
	return &Lexer{
		src:      src,
		filename: filename,
		interner: NewInterner(2000),
	}
}

// Next returns the next record. It returns io.EOF when the source is
// exhausted.
func (l *Lexer) Next(ctx context.Context) (Record, error) {
	line, err := l.src.NextLine(ctx)
	if err != nil {
		return Record{}, err
	}
	return l.tokenize(line), nil
}

// tokenize tokenizes a line and assigns it the next line number.
func (l *Lexer) tokenize(line string) Record {
	l.line++
	r := Tokenize(line)
	r.Pos = ast.Position{Filename: l.filename, Line: l.line}
	r.Tag = l.interner.Intern(r.Tag)
	for i, f := range r.Fields {
		if len(f) <= maxInternLength {
			r.Fields[i] = l.interner.Intern(f)
		}
	}
	return r
}

// ScanAll tokenizes every remaining line.
func (l *Lexer) ScanAll(ctx context.Context) ([]Record, error) {
	var records []Record
	for {
		r, err := l.Next(ctx)
		if err != nil {
			if isEOF(err) {
				return records, nil
			}
			return records, err
		}
		records = append(records, r)
	}
}
