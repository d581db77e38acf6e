package parser

import (
	"context"
	"io"

	"github.com/robinvdvleuten/sie/charset"
)

// VersionNotFound is returned by ProbeVersion when no #SIETYP record exists.
const VersionNotFound = -1

// ProbeVersion scans r for the first #SIETYP record and returns the SIE
// type it declares, without building a document.
func ProbeVersion(ctx context.Context, r io.Reader, codec charset.Codec) (int, error) {
	src := NewReaderSource(codec.NewReader(r))
	for {
		line, err := src.NextLine(ctx)
		if err != nil {
			if isEOF(err) {
				return VersionNotFound, nil
			}
			return VersionNotFound, err
		}
		if rec := Tokenize(line); rec.Kind == SIETYP {
			return rec.Int(0), nil
		}
	}
}
