package parser

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// LineSource yields decoded lines one at a time. NextLine returns io.EOF
// once the source is exhausted. The parser pulls lines in a plain loop, so
// an asynchronous producer only needs to block in NextLine.
type LineSource interface {
	NextLine(ctx context.Context) (string, error)
}

// ReaderSource reads lines from already decoded text. Both "\n" and
// "\r\n" line endings are accepted.
type ReaderSource struct {
	r *bufio.Reader
}

// NewReaderSource creates a line source reading from r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: bufio.NewReader(r)}
}

// NextLine implements LineSource.
func (s *ReaderSource) NextLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := s.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ChannelSource yields the lines received from a channel until it is
// closed or the context is cancelled.
type ChannelSource struct {
	lines <-chan string
}

// NewChannelSource creates a line source fed by lines.
func NewChannelSource(lines <-chan string) *ChannelSource {
	return &ChannelSource{lines: lines}
}

// NextLine implements LineSource.
func (s *ChannelSource) NextLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
