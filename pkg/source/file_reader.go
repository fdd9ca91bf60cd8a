package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	gojson "github.com/goccy/go-json"

	"github.com/bft-labs/framekit/pkg/log"
)

const readBufferSize = 64 * 1024

// FileReader implements Reader over a single append-only file.
//
// Rows are read one line at a time. A CSV field quoted across a line break
// is not joined; each of its lines is decoded as a record of its own.
type FileReader struct {
	opts   Options
	logger log.Logger

	file   *os.File
	reader *bufio.Reader
	path   string
	offset int64

	// header is replayed before the first data row when resuming a CSV
	// file past its header line.
	header *Row
	// headerPending marks the next non-blank CSV line as the header.
	headerPending bool
}

// NewFileReader creates a FileReader.
func NewFileReader(opts Options, logger log.Logger) *FileReader {
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	if opts.Comma == 0 {
		opts.Comma = ','
	}
	return &FileReader{
		opts:   opts,
		logger: log.OrNoop(logger),
	}
}

// Open prepares the reader at offset in path.
func (r *FileReader) Open(ctx context.Context, path string, offset int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w\n\nPlease verify:\n  - The --file flag points to the correct file\n  - You have permission to read it", err)
	}

	if offset < 0 {
		offset = 0
	}
	if st, err := f.Stat(); err == nil && offset > st.Size() {
		// The file was truncated or replaced since the cursor was saved.
		r.logger.Warn("offset beyond end of file, starting over",
			log.String("path", path),
			log.Int64("offset", offset),
			log.Int64("size", st.Size()),
		)
		offset = 0
	}

	r.header = nil
	r.headerPending = r.opts.Format == FormatCSV && r.opts.Header
	if r.headerPending && offset > 0 {
		hdr, end, err := readFirstLine(f)
		if err != nil {
			f.Close()
			return fmt.Errorf("read csv header: %w", err)
		}
		if offset >= end {
			row, err := r.decodeCSV(hdr)
			if err != nil {
				f.Close()
				return fmt.Errorf("decode csv header: %w", err)
			}
			row.Header = true
			row.LineLen = 0
			r.header = &row
			r.headerPending = false
		}
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		f.Close()
		return err
	}

	if r.file != nil {
		r.file.Close()
	}
	r.file = f
	r.reader = bufio.NewReaderSize(f, readBufferSize)
	r.path = path
	r.offset = offset
	return nil
}

// Next returns the next complete row.
func (r *FileReader) Next(ctx context.Context) (Row, error) {
	if r.file == nil {
		return Row{}, errors.New("source: reader not open")
	}

	if r.header != nil {
		row := *r.header
		r.header = nil
		return row, nil
	}

	for {
		select {
		case <-ctx.Done():
			return Row{}, ctx.Err()
		default:
		}

		start := r.offset
		line, err := r.reader.ReadBytes('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return Row{}, err
			}
			if len(line) == 0 {
				return Row{}, ErrNoMoreRows
			}
			if !r.opts.AcceptPartial {
				// Leave the partial line for the next attempt.
				if err := r.rewind(); err != nil {
					return Row{}, err
				}
				return Row{}, ErrNoMoreRows
			}
		}

		r.offset += int64(len(line))
		body := bytes.TrimSpace(line)
		if len(body) == 0 {
			continue
		}

		var row Row
		switch r.opts.Format {
		case FormatCSV:
			row, err = r.decodeCSV(body)
			if err == nil && r.headerPending {
				row.Header = true
			}
			r.headerPending = false
		default:
			row, err = decodeJSON(body)
		}
		if err != nil {
			return Row{LineLen: len(line)}, fmt.Errorf("%w at offset %d: %v", ErrBadRow, start, err)
		}
		row.LineLen = len(line)
		return row, nil
	}
}

// CurrentPosition returns the path and the offset after the last row.
func (r *FileReader) CurrentPosition() (string, int64) {
	return r.path, r.offset
}

// Close releases the file.
func (r *FileReader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.reader = nil
	return err
}

func (r *FileReader) rewind() error {
	if _, err := r.file.Seek(r.offset, io.SeekStart); err != nil {
		return err
	}
	r.reader.Reset(r.file)
	return nil
}

func (r *FileReader) decodeCSV(line []byte) (Row, error) {
	cr := csv.NewReader(bytes.NewReader(line))
	cr.Comma = r.opts.Comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rec, err := cr.Read()
	if err != nil {
		return Row{}, err
	}
	values := make([]any, len(rec))
	for i, s := range rec {
		values[i] = s
	}
	return Row{Values: values}, nil
}

func decodeJSON(line []byte) (Row, error) {
	var obj map[string]any
	if err := gojson.Unmarshal(line, &obj); err != nil {
		return Row{}, err
	}
	if obj == nil {
		return Row{}, errors.New("not a json object")
	}
	return Row{Object: obj}, nil
}

// readFirstLine returns the first non-empty line of f and the offset just
// past it. It leaves f at an unspecified position.
func readFirstLine(f *os.File) ([]byte, int64, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, 0, err
	}
	br := bufio.NewReader(f)
	var end int64
	for {
		line, err := br.ReadBytes('\n')
		end += int64(len(line))
		if body := bytes.TrimSpace(line); len(body) > 0 {
			return body, end, nil
		}
		if err != nil {
			return nil, 0, err
		}
	}
}

// ReadAll reads every row of path, including a final line without a
// trailing newline. Undecodable lines are logged and skipped.
func ReadAll(ctx context.Context, path string, opts Options, logger log.Logger) ([]Row, error) {
	opts.AcceptPartial = true
	r := NewFileReader(opts, logger)
	if err := r.Open(ctx, path, 0); err != nil {
		return nil, err
	}
	defer r.Close()

	var rows []Row
	for {
		row, err := r.Next(ctx)
		switch {
		case err == nil:
			rows = append(rows, row)
		case errors.Is(err, ErrNoMoreRows):
			return rows, nil
		case errors.Is(err, ErrBadRow):
			r.logger.Warn("skipping row", log.String("path", path), log.Err(err))
		default:
			return rows, err
		}
	}
}
