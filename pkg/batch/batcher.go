package batch

import (
	"time"

	"github.com/bft-labs/framekit/pkg/source"
)

// Batcher accumulates rows until a batch is ready to be flushed.
type Batcher interface {
	// Add appends a row and reports whether the batch is now full.
	Add(row source.Row) bool

	// Full reports whether the batch has reached its row limit.
	Full() bool

	// ShouldFlush reports whether the publish interval has elapsed.
	ShouldFlush() bool

	// ShouldForceFlush reports whether the hard interval has elapsed.
	ShouldForceFlush() bool

	// Batch returns the current batch.
	Batch() *Batch

	// Reset clears the batch and restarts the interval timers.
	Reset()

	// HasPending reports whether rows are waiting to be flushed.
	HasPending() bool
}

// DefaultBatcher is a Batcher bounded by row count and two intervals.
type DefaultBatcher struct {
	batch           *Batch
	maxRows         int
	publishInterval time.Duration
	hardInterval    time.Duration
	lastFlush       time.Time
	now             func() time.Time
}

// NewDefaultBatcher creates a batcher. A maxRows of zero or less means the
// batch is never full by count.
func NewDefaultBatcher(maxRows int, publishInterval, hardInterval time.Duration) *DefaultBatcher {
	return newDefaultBatcher(maxRows, publishInterval, hardInterval, time.Now)
}

func newDefaultBatcher(maxRows int, publishInterval, hardInterval time.Duration, now func() time.Time) *DefaultBatcher {
	if hardInterval < publishInterval {
		hardInterval = publishInterval
	}
	return &DefaultBatcher{
		batch:           NewBatch(),
		maxRows:         maxRows,
		publishInterval: publishInterval,
		hardInterval:    hardInterval,
		lastFlush:       now(),
		now:             now,
	}
}

// Add appends a row and reports whether the batch is now full.
func (b *DefaultBatcher) Add(row source.Row) bool {
	b.batch.Add(row)
	return b.Full()
}

// Full reports whether the batch has reached its row limit.
func (b *DefaultBatcher) Full() bool {
	return b.maxRows > 0 && b.batch.Size() >= b.maxRows
}

// ShouldFlush reports whether rows are pending and the publish interval
// has elapsed.
func (b *DefaultBatcher) ShouldFlush() bool {
	if b.batch.Empty() {
		return false
	}
	return b.now().Sub(b.lastFlush) >= b.publishInterval
}

// ShouldForceFlush reports whether rows are pending and the hard interval
// has elapsed.
func (b *DefaultBatcher) ShouldForceFlush() bool {
	if b.batch.Empty() {
		return false
	}
	return b.now().Sub(b.lastFlush) >= b.hardInterval
}

// Batch returns the current batch.
func (b *DefaultBatcher) Batch() *Batch {
	return b.batch
}

// Reset clears the batch and records the flush time.
func (b *DefaultBatcher) Reset() {
	b.batch.Reset()
	b.lastFlush = b.now()
}

// HasPending reports whether rows are waiting to be flushed.
func (b *DefaultBatcher) HasPending() bool {
	return !b.batch.Empty()
}

// TimeSinceLastFlush returns the time since the last Reset.
func (b *DefaultBatcher) TimeSinceLastFlush() time.Duration {
	return b.now().Sub(b.lastFlush)
}

var _ Batcher = (*DefaultBatcher)(nil)
