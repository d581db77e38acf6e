// Package loader reads SIE files from disk.
//
// Files are decompressed transparently when they start with a gzip or zstd
// header, decoded with the configured codec and parsed. Archives of SIE
// exports are commonly kept compressed, and a .se.gz or .se.zst file loads
// the same way as the plain file.
//
// Example usage:
//
//	ldr := loader.New(loader.WithParserOptions(parser.WithPolicy(ast.Fail)))
//	doc, err := ldr.Load(ctx, "export.se")
package loader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/charset"
	"github.com/robinvdvleuten/sie/ledger"
	"github.com/robinvdvleuten/sie/parser"
	"github.com/robinvdvleuten/sie/telemetry"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Compression identifies how a file is compressed.
type Compression string

const (
	None Compression = "none"
	Gzip Compression = "gzip"
	Zstd Compression = "zstd"
)

// Loader handles loading and parsing of SIE files.
//
// Configure the loader using functional options passed to New:
//
//	ldr := New(WithCodec(charset.UTF8))
type Loader struct {
	// Codec decodes the file contents. Defaults to PC8.
	Codec charset.Codec

	// ParserOptions are applied to every parse after the codec and filename.
	ParserOptions []parser.Option
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithCodec sets the codec files are decoded with.
func WithCodec(codec charset.Codec) Option {
	return func(l *Loader) {
		l.Codec = codec
	}
}

// WithParserOptions adds options for the parser.
func WithParserOptions(opts ...parser.Option) Option {
	return func(l *Loader) {
		l.ParserOptions = append(l.ParserOptions, opts...)
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		Codec: charset.Default(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load parses the named file. Like parser.Parse, it returns the document
// together with a *ledger.ValidationErrors when irregularities were
// collected.
func (l *Loader) Load(ctx context.Context, filename string) (*ast.Document, error) {
	timer := telemetry.StartTimer(ctx, "loader.load "+filename)
	defer timer.End()

	r, err := l.Open(ctx, filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return l.parse(ctx, filename, r)
}

// LoadReader parses the contents of r, decompressing them when needed.
// The name is used in error positions.
func (l *Loader) LoadReader(ctx context.Context, name string, r io.Reader) (*ast.Document, error) {
	timer := telemetry.StartTimer(ctx, "loader.load "+name)
	defer timer.End()

	rc, _, err := decompress(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", name, err)
	}
	defer rc.Close()

	return l.parse(ctx, name, rc)
}

func (l *Loader) parse(ctx context.Context, name string, r io.Reader) (*ast.Document, error) {
	opts := append([]parser.Option{
		parser.WithCodec(l.Codec),
		parser.WithFilename(name),
	}, l.ParserOptions...)

	return parser.Parse(ctx, r, opts...)
}

// Source returns the decompressed contents of the named file decoded to
// UTF-8, for showing source lines next to errors.
func (l *Loader) Source(ctx context.Context, filename string) ([]byte, error) {
	r, err := l.Open(ctx, filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(l.Codec.NewReader(r))
}

// SourceReader is Source for an already opened stream.
func (l *Loader) SourceReader(r io.Reader) ([]byte, error) {
	rc, _, err := decompress(r)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(l.Codec.NewReader(rc))
}

// LoadAll loads several files concurrently, one parser per file. Collected
// irregularities stay on each document's Errors; only failures that leave
// a document unusable are returned.
func (l *Loader) LoadAll(ctx context.Context, filenames ...string) ([]*ast.Document, error) {
	docs := make([]*ast.Document, len(filenames))

	g, ctx := errgroup.WithContext(ctx)
	for i, filename := range filenames {
		g.Go(func() error {
			doc, err := l.Load(ctx, filename)
			var verrs *ledger.ValidationErrors
			if err != nil && !errors.As(err, &verrs) {
				return err
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Probe returns the SIE type declared in the named file, or
// parser.VersionNotFound.
func (l *Loader) Probe(ctx context.Context, filename string) (int, error) {
	r, err := l.Open(ctx, filename)
	if err != nil {
		return parser.VersionNotFound, err
	}
	defer r.Close()

	return parser.ProbeVersion(ctx, r, l.Codec)
}

// ProbeReader is Probe for an already opened stream.
func (l *Loader) ProbeReader(ctx context.Context, r io.Reader) (int, error) {
	rc, _, err := decompress(r)
	if err != nil {
		return parser.VersionNotFound, err
	}
	defer rc.Close()

	return parser.ProbeVersion(ctx, rc, l.Codec)
}

// Open opens the named file and returns its decompressed, still encoded
// contents.
func (l *Loader) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	r, compression, err := decompress(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to decompress %s: %w", filename, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("file", filename).
		Str("compression", string(compression)).
		Msg("file opened")

	return &readCloser{Reader: r, closers: []func() error{r.Close, f.Close}}, nil
}

// Detect reports the compression of a stream from its first bytes.
func Detect(header []byte) Compression {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return Gzip
	case bytes.HasPrefix(header, zstdMagic):
		return Zstd
	}
	return None
}

func decompress(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, None, err
	}

	switch compression := Detect(header); compression {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, compression, err
		}
		return zr, compression, nil
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, compression, err
		}
		return zr.IOReadCloser(), compression, nil
	default:
		return io.NopCloser(br), compression, nil
	}
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
