package source

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNoMoreRows indicates that the reader has caught up with the file.
// The caller should wait and retry.
var ErrNoMoreRows = io.EOF

// ErrBadRow is returned for a line that cannot be decoded. The line is
// skipped; the next call continues with the following line.
var ErrBadRow = errors.New("source: bad row")

// Format is the line format of a row file.
type Format string

const (
	FormatJSON Format = "json"
	// FormatCSV reads one record per line; quoted fields must not span lines.
	FormatCSV Format = "csv"
)

// ParseFormat converts "json", "ndjson" or "csv" to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "json", "ndjson":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("source: unknown format %q", s)
	}
}

// Row is one decoded line.
type Row struct {
	// Object holds a keyed row (FormatJSON).
	Object map[string]any

	// Values holds a positional row (FormatCSV).
	Values []any

	// Header is set when Values names the fields rather than holding data.
	Header bool

	// LineLen is the number of bytes consumed, including the newline.
	LineLen int
}

// Options configures how lines are decoded.
type Options struct {
	Format Format

	// Header treats the first CSV line as field names.
	Header bool

	// Comma is the CSV delimiter. Default: ','
	Comma rune

	// AcceptPartial decodes a final line that lacks a newline instead of
	// waiting for it to be completed.
	AcceptPartial bool
}

// Reader yields rows from a file.
type Reader interface {
	// Open prepares the reader at offset in path.
	Open(ctx context.Context, path string, offset int64) error

	// Next returns the next row. It returns ErrNoMoreRows when no complete
	// line is available and a wrapped ErrBadRow for undecodable lines.
	Next(ctx context.Context) (Row, error)

	// CurrentPosition returns the path and the offset after the last row.
	CurrentPosition() (string, int64)

	// Close releases the file.
	Close() error
}
