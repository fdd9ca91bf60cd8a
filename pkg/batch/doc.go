// Package batch groups source rows before they are applied to a frame.
//
// Rows arrive one at a time from a source.Reader. Applying each row to the
// frame and publishing a snapshot per row would be wasteful, so the agent
// collects rows into a Batch and flushes when the batch is full or an
// interval has elapsed.
//
// # Usage
//
//	b := batch.NewDefaultBatcher(1000, time.Second, 10*time.Second)
//
//	for row := range rows {
//	    if b.Add(row) || b.ShouldForceFlush() {
//	        apply(b.Batch())
//	        b.Reset()
//	    }
//	}
//
// # Configuration
//
//   - MaxRows: rows per batch before a flush is required
//   - PublishInterval: soft interval, checked when the reader is caught up
//   - HardInterval: flush even while rows are still streaming in
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package batch
