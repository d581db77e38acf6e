// Package charset provides the text codecs SIE files are read and written with.
//
// SIE files are traditionally encoded in IBM code page 437, which the format
// calls PC8. Latin-1 and UTF-8 are supported for files produced by software
// that ignores the convention.
package charset

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Codec is a text encoding together with its single-byte property.
type Codec struct {
	Name       string
	Encoding   encoding.Encoding
	SingleByte bool
}

var (
	// PC8 is IBM code page 437, the native SIE encoding.
	PC8 = Codec{Name: "PC8", Encoding: charmap.CodePage437, SingleByte: true}

	// Latin1 is ISO 8859-1.
	Latin1 = Codec{Name: "ISO-8859-1", Encoding: charmap.ISO8859_1, SingleByte: true}

	// UTF8 is UTF-8. A leading byte order mark is dropped when reading and
	// never written.
	UTF8 = Codec{Name: "UTF-8", Encoding: unicode.UTF8, SingleByte: false}
)

var aliases = map[string]Codec{
	"pc8":        PC8,
	"cp437":      PC8,
	"ibm437":     PC8,
	"437":        PC8,
	"latin1":     Latin1,
	"iso-8859-1": Latin1,
	"iso8859-1":  Latin1,
	"28591":      Latin1,
	"utf-8":      UTF8,
	"utf8":       UTF8,
}

// Default returns the PC8 codec, or Latin-1 when code page 437 is not
// available from the registry.
func Default() Codec {
	if c, err := Lookup("IBM437"); err == nil {
		return c
	}
	return Latin1
}

// Lookup resolves a codec by name. Besides the SIE names it accepts any
// IANA registered charset.
func Lookup(name string) (Codec, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if c, ok := aliases[key]; ok {
		return c, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return Codec{}, fmt.Errorf("unsupported encoding %q", name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}
	_, single := enc.(*charmap.Charmap)
	return Codec{Name: canonical, Encoding: enc, SingleByte: single}, nil
}

// FormatTag returns the value written in the #FORMAT record.
func (c Codec) FormatTag() string {
	if c.Encoding == charmap.CodePage437 {
		return "PC8"
	}
	return c.Name
}

// NewReader decodes r into UTF-8.
func (c Codec) NewReader(r io.Reader) io.Reader {
	return transform.NewReader(r, c.decoder())
}

// NewWriter encodes UTF-8 text written to the returned writer into w.
// Characters the codec cannot represent are replaced. Close must be
// called to flush buffered output.
func (c Codec) NewWriter(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, encoding.ReplaceUnsupported(c.encoding().NewEncoder()))
}

// Encode converts s into the codec's bytes, replacing characters the codec
// cannot represent.
func (c Codec) Encode(s string) []byte {
	out, err := encoding.ReplaceUnsupported(c.encoding().NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}

func (c Codec) decoder() *encoding.Decoder {
	if c.Encoding == unicode.UTF8 {
		return unicode.UTF8BOM.NewDecoder()
	}
	return c.encoding().NewDecoder()
}

func (c Codec) encoding() encoding.Encoding {
	if c.Encoding == nil {
		return PC8.Encoding
	}
	return c.Encoding
}
