package loader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/charset"
	"github.com/robinvdvleuten/sie/ledger"
	"github.com/robinvdvleuten/sie/parser"
)

func readSample(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../testdata/sie4.se")
	assert.NoError(t, err)
	return data
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	return buf.Bytes()
}

func zstded(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	assert.NoError(t, err)
	_, err = w.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad(t *testing.T) {
	sample := readSample(t)

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{name: "Plain", file: "export.se", data: sample},
		{name: "Gzip", file: "export.se.gz", data: gzipped(t, sample)},
		{name: "Zstd", file: "export.se.zst", data: zstded(t, sample)},
		{name: "GzipWithoutExtension", file: "export.se", data: gzipped(t, sample)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeFile(t, test.file, test.data)

			doc, err := New().Load(context.Background(), path)
			assert.NoError(t, err)
			assert.Equal(t, "Övningsbolaget AB", doc.Company.Name)
			assert.Equal(t, 2, len(doc.Vouchers))
			assert.Equal(t, path, doc.Vouchers[0].Pos.Filename)
		})
	}
}

func TestLoadParserOptions(t *testing.T) {
	src := "#FLAGGA 0\r\n#SIETYP 4\r\n#FNAMN \"Bolaget\"\r\n"
	path := writeFile(t, "bare.se", []byte(src))

	t.Run("Collect", func(t *testing.T) {
		doc, err := New().Load(context.Background(), path)
		var verrs *ledger.ValidationErrors
		assert.True(t, errors.As(err, &verrs))
		assert.Equal(t, "Bolaget", doc.Company.Name)
	})

	t.Run("AllowMissingGenDate", func(t *testing.T) {
		ldr := New(WithParserOptions(parser.WithAllowMissingGenDate(true)))
		doc, err := ldr.Load(context.Background(), path)
		assert.NoError(t, err)
		assert.True(t, doc.Options.AllowMissingGenDate)
	})
}

func TestLoadCodec(t *testing.T) {
	src := "#FLAGGA 0\n#GEN 20240101\n#FNAMN \"Räksmörgås AB\"\n"

	t.Run("UTF8", func(t *testing.T) {
		path := writeFile(t, "utf8.se", []byte(src))
		doc, err := New(WithCodec(charset.UTF8)).Load(context.Background(), path)
		assert.NoError(t, err)
		assert.Equal(t, "Räksmörgås AB", doc.Company.Name)
	})

	t.Run("UTF8WithBOM", func(t *testing.T) {
		path := writeFile(t, "bom.se", append([]byte("\ufeff"), src...))
		doc, err := New(WithCodec(charset.UTF8)).Load(context.Background(), path)
		assert.NoError(t, err)
		assert.Equal(t, "Räksmörgås AB", doc.Company.Name)
	})

	t.Run("Latin1", func(t *testing.T) {
		path := writeFile(t, "latin1.se", charset.Latin1.Encode(src))
		doc, err := New(WithCodec(charset.Latin1)).Load(context.Background(), path)
		assert.NoError(t, err)
		assert.Equal(t, "Räksmörgås AB", doc.Company.Name)
	})
}

func TestLoadErrors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "missing.se"))
		assert.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("NotSIE", func(t *testing.T) {
		path := writeFile(t, "notes.txt", []byte("hello\nworld\n"))
		_, err := New().Load(context.Background(), path)
		var invalid *parser.InvalidFileError
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("CorruptGzip", func(t *testing.T) {
		path := writeFile(t, "broken.se.gz", []byte{0x1f, 0x8b, 0x00})
		_, err := New().Load(context.Background(), path)
		assert.Error(t, err)
	})
}

func TestLoadAll(t *testing.T) {
	sample := readSample(t)
	plain := writeFile(t, "a.se", sample)
	packed := writeFile(t, "b.se.zst", zstded(t, sample))
	bare := writeFile(t, "c.se", []byte("#FLAGGA 0\r\n#SIETYP 4\r\n"))

	docs, err := New().LoadAll(context.Background(), plain, packed, bare)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(docs))
	assert.Equal(t, plain, docs[0].Vouchers[0].Pos.Filename)
	assert.Equal(t, packed, docs[1].Vouchers[0].Pos.Filename)
	assert.Equal(t, 1, len(docs[2].Errors))

	t.Run("Failure", func(t *testing.T) {
		_, err := New().LoadAll(context.Background(), plain, filepath.Join(t.TempDir(), "missing.se"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestProbe(t *testing.T) {
	sample := readSample(t)

	tests := []struct {
		name     string
		data     []byte
		expected int
	}{
		{name: "Plain", data: sample, expected: 4},
		{name: "Gzip", data: gzipped(t, sample), expected: 4},
		{name: "NoType", data: []byte("#FLAGGA 0\r\n#FNAMN x\r\n"), expected: parser.VersionNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeFile(t, "probe.se", test.data)
			version, err := New().Probe(context.Background(), path)
			assert.NoError(t, err)
			assert.Equal(t, test.expected, version)
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		header   []byte
		expected Compression
	}{
		{name: "Gzip", header: []byte{0x1f, 0x8b, 0x08, 0x00}, expected: Gzip},
		{name: "Zstd", header: []byte{0x28, 0xb5, 0x2f, 0xfd}, expected: Zstd},
		{name: "SIE", header: []byte("#FLA"), expected: None},
		{name: "Short", header: []byte{0x1f}, expected: None},
		{name: "Empty", header: nil, expected: None},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Detect(test.header))
		})
	}
}

func TestNew(t *testing.T) {
	ldr := New()
	assert.Equal(t, "PC8", ldr.Codec.FormatTag())
	assert.Equal(t, 0, len(ldr.ParserOptions))

	ldr = New(WithCodec(charset.UTF8), WithParserOptions(parser.WithPolicy(ast.Fail)))
	assert.Equal(t, "UTF-8", ldr.Codec.FormatTag())
	assert.Equal(t, 1, len(ldr.ParserOptions))
}

func TestLoadReader(t *testing.T) {
	sample := readSample(t)

	for name, data := range map[string][]byte{"Plain": sample, "Zstd": zstded(t, sample)} {
		t.Run(name, func(t *testing.T) {
			doc, err := New().LoadReader(context.Background(), "<stdin>", bytes.NewReader(data))
			assert.NoError(t, err)
			assert.Equal(t, "Övningsbolaget AB", doc.Company.Name)
			assert.Equal(t, "<stdin>", doc.Vouchers[0].Pos.Filename)
		})
	}
}

func TestSource(t *testing.T) {
	sample := readSample(t)
	path := writeFile(t, "export.se.gz", gzipped(t, sample))

	source, err := New().Source(context.Background(), path)
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(source, []byte("#FLAGGA 0\r\n#KSUMMA\r\n#PROGRAM \"Bokföring Plus\" 3.1\r\n")))

	fromReader, err := New().SourceReader(bytes.NewReader(sample))
	assert.NoError(t, err)
	assert.Equal(t, string(source), string(fromReader))

	_, err = New().Source(context.Background(), filepath.Join(t.TempDir(), "missing.se"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestProbeReader(t *testing.T) {
	version, err := New().ProbeReader(context.Background(), bytes.NewReader(gzipped(t, readSample(t))))
	assert.NoError(t, err)
	assert.Equal(t, 4, version)
}
