package batch

import "github.com/bft-labs/framekit/pkg/source"

// Batch is a run of rows read from one file.
type Batch struct {
	Rows []source.Row

	// TotalBytes is the sum of the rows' line lengths.
	TotalBytes int
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{Rows: make([]source.Row, 0)}
}

// Add appends a row.
func (b *Batch) Add(row source.Row) {
	b.Rows = append(b.Rows, row)
	b.TotalBytes += row.LineLen
}

// Size returns the number of rows.
func (b *Batch) Size() int {
	return len(b.Rows)
}

// Empty reports whether the batch has no rows.
func (b *Batch) Empty() bool {
	return len(b.Rows) == 0
}

// DataRows returns the number of rows that are not headers.
func (b *Batch) DataRows() int {
	n := 0
	for _, r := range b.Rows {
		if !r.Header {
			n++
		}
	}
	return n
}

// Reset clears the batch for reuse.
func (b *Batch) Reset() {
	clear(b.Rows)
	b.Rows = b.Rows[:0]
	b.TotalBytes = 0
}

// Advance returns how far the read cursor moves once the batch is applied.
func (b *Batch) Advance() int64 {
	return int64(b.TotalBytes)
}
