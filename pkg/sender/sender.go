package sender

import (
	"context"

	"github.com/bft-labs/framekit/pkg/frame"
)

// Sender publishes frame snapshots.
type Sender interface {
	// Send publishes one snapshot. Implementations do not retry; the
	// caller decides whether to back off.
	Send(ctx context.Context, snapshot frame.DTO, metadata Metadata) error
}

// Func adapts a function to the Sender interface.
type Func func(ctx context.Context, snapshot frame.DTO, metadata Metadata) error

// Send calls f.
func (f Func) Send(ctx context.Context, snapshot frame.DTO, metadata Metadata) error {
	return f(ctx, snapshot, metadata)
}
