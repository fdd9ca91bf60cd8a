package frame

import (
	"slices"

	"github.com/bft-labs/framekit/pkg/vector"
)

// CircularFrame is a MutableFrame whose fields are all CircularVectors
// sharing one set of options. It holds at most Capacity rows; older rows are
// evicted as new ones arrive.
type CircularFrame struct {
	*MutableFrame
	opts vector.CircularOptions
}

// NewCircularFrame creates a bounded frame, optionally copying source.
// Any WithCreator option is overridden.
func NewCircularFrame(opts vector.CircularOptions, source *Frame, extra ...Option) (*CircularFrame, error) {
	c := &CircularFrame{opts: opts}
	creator := func(buffer []any) vector.Vector[any] {
		return vector.NewCircularVector(c.opts, buffer)
	}
	m, err := NewMutableFrame(source, append(slices.Clone(extra), WithCreator(creator))...)
	if err != nil {
		return nil, err
	}
	c.MutableFrame = m
	return c, nil
}

// Options returns the options applied to new fields.
func (c *CircularFrame) Options() vector.CircularOptions {
	return c.opts
}

// SetCapacity resizes every field, keeping the most recent rows, and applies
// the new capacity to fields added later.
func (c *CircularFrame) SetCapacity(capacity int) {
	c.opts.Capacity = capacity
	for _, f := range c.fields {
		if cv, ok := f.Values.(*vector.CircularVector[any]); ok {
			cv.SetCapacity(capacity)
		}
	}
	c.Validate()
}
