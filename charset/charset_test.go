package charset

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       string
		singleByte bool
	}{
		{"PC8", "PC8", "PC8", true},
		{"CodePageNumber", "437", "PC8", true},
		{"Latin1", "latin1", "ISO-8859-1", true},
		{"UTF8", "UTF-8", "UTF-8", false},
		{"IANAName", "windows-1252", "windows-1252", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Lookup(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, c.Name)
			assert.Equal(t, tt.singleByte, c.SingleByte)
		})
	}

	_, err := Lookup("no-such-charset")
	assert.Error(t, err)
}

func TestDefaultIsPC8(t *testing.T) {
	c := Default()
	assert.Equal(t, "PC8", c.FormatTag())
	assert.True(t, c.SingleByte)
}

func TestEncodePC8(t *testing.T) {
	assert.Equal(t, []byte{'K', 0x86, 0x84, 0x94}, PC8.Encode("Kåäö"))
	assert.Equal(t, []byte{'K', 0xe5, 0xe4, 0xf6}, Latin1.Encode("Kåäö"))
}

func TestReaderWriterRoundTrip(t *testing.T) {
	text := "#FNAMN \"Övningsbolaget AB\"\n"

	var buf bytes.Buffer
	w := PC8.NewWriter(&buf)
	_, err := io.WriteString(w, text)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.Equal(t, byte(0x99), buf.Bytes()[8])

	decoded, err := io.ReadAll(PC8.NewReader(&buf))
	assert.NoError(t, err)
	assert.Equal(t, text, string(decoded))
}

func TestFormatTag(t *testing.T) {
	assert.Equal(t, "PC8", PC8.FormatTag())
	assert.True(t, strings.EqualFold("utf-8", UTF8.FormatTag()))
}

func TestUTF8ReaderDropsByteOrderMark(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "WithBOM", input: "\ufeff#FLAGGA 0\n"},
		{name: "WithoutBOM", input: "#FLAGGA 0\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, err := io.ReadAll(UTF8.NewReader(strings.NewReader(test.input)))
			assert.NoError(t, err)
			assert.Equal(t, "#FLAGGA 0\n", string(out))
		})
	}

	assert.Equal(t, []byte("#FLAGGA 0"), UTF8.Encode("#FLAGGA 0"))
}
