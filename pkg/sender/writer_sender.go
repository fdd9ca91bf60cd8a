package sender

import (
	"context"
	"fmt"
	"io"
	"sync"

	gojson "github.com/goccy/go-json"

	"github.com/bft-labs/framekit/pkg/frame"
)

// WriterSender writes each snapshot as one JSON line.
type WriterSender struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSender creates a WriterSender on w.
func NewWriterSender(w io.Writer) *WriterSender {
	return &WriterSender{w: w}
}

// Send encodes the snapshot followed by a newline.
func (s *WriterSender) Send(ctx context.Context, snapshot frame.DTO, _ Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := gojson.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.w.Write(data)
	return err
}

var _ Sender = (*WriterSender)(nil)
