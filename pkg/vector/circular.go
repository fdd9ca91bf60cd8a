package vector

import (
	"fmt"
	"slices"
)

// AppendMode selects which end of a CircularVector receives new values.
type AppendMode string

const (
	// AppendTail adds values at the highest logical index. Index 0 is the oldest value.
	AppendTail AppendMode = "tail"

	// AppendHead adds values at logical index 0. Index 0 is the newest value.
	AppendHead AppendMode = "head"
)

// ParseAppendMode converts "head" or "tail" to an AppendMode.
// The empty string means AppendTail.
func ParseAppendMode(s string) (AppendMode, error) {
	switch AppendMode(s) {
	case "", AppendTail:
		return AppendTail, nil
	case AppendHead:
		return AppendHead, nil
	default:
		return "", fmt.Errorf("vector: unknown append mode %q", s)
	}
}

// CircularOptions configures a CircularVector.
type CircularOptions struct {
	// Capacity is the maximum number of values held. Zero yields a vector
	// that is always empty.
	Capacity int

	// Append selects the insert side. Default: AppendTail
	Append AppendMode
}

// CircularVector is a fixed-capacity Vector. Once Len reaches Capacity each
// Add evicts the oldest value.
type CircularVector[T any] struct {
	buf   []T
	start int // physical slot of logical index 0
	count int
	head  bool
}

// NewCircularVector creates a vector with the given options, seeded with
// buffer in logical order. When buffer is longer than the capacity the most
// recent values win: the last ones in tail mode, the first ones in head mode.
func NewCircularVector[T any](opts CircularOptions, buffer []T) *CircularVector[T] {
	capacity := opts.Capacity
	if capacity < 0 {
		capacity = 0
	}
	v := &CircularVector[T]{
		buf:  make([]T, capacity),
		head: opts.Append == AppendHead,
	}
	v.fill(buffer)
	return v
}

func (v *CircularVector[T]) fill(values []T) {
	if v.head {
		for i := len(values) - 1; i >= 0; i-- {
			v.Add(values[i])
		}
		return
	}
	for _, val := range values {
		v.Add(val)
	}
}

// Len returns the number of live values.
func (v *CircularVector[T]) Len() int {
	return v.count
}

// Capacity returns the maximum number of values.
func (v *CircularVector[T]) Capacity() int {
	return len(v.buf)
}

// AppendMode returns the current insert side.
func (v *CircularVector[T]) AppendMode() AppendMode {
	if v.head {
		return AppendHead
	}
	return AppendTail
}

func (v *CircularVector[T]) slot(i int) int {
	return (v.start + i) % len(v.buf)
}

// Get returns the value at logical index i.
func (v *CircularVector[T]) Get(i int) (T, error) {
	if i < 0 || i >= v.count {
		var zero T
		return zero, outOfRange(i, v.count)
	}
	return v.buf[v.slot(i)], nil
}

// Set overwrites the value at logical index i.
func (v *CircularVector[T]) Set(i int, val T) error {
	if i < 0 || i >= v.count {
		return outOfRange(i, v.count)
	}
	v.buf[v.slot(i)] = val
	return nil
}

// Add inserts val on the configured side, evicting the oldest value when full.
func (v *CircularVector[T]) Add(val T) {
	capacity := len(v.buf)
	if capacity == 0 {
		return
	}
	if v.head {
		v.start = (v.start - 1 + capacity) % capacity
		v.buf[v.start] = val
		if v.count < capacity {
			v.count++
		}
		return
	}
	if v.count < capacity {
		v.buf[v.slot(v.count)] = val
		v.count++
		return
	}
	v.buf[v.start] = val
	v.start = (v.start + 1) % capacity
}

// ToSlice returns a copy of the live values in logical order.
func (v *CircularVector[T]) ToSlice() []T {
	out := make([]T, v.count)
	for i := range out {
		out[i] = v.buf[v.slot(i)]
	}
	return out
}

// Reverse reverses the logical order and flips the append mode, so new
// values keep arriving on the side that holds the newest ones.
func (v *CircularVector[T]) Reverse() {
	values := v.ToSlice()
	slices.Reverse(values)
	v.reset(values)
	v.head = !v.head
}

// SetAppendMode changes the side that receives new values. Existing values
// keep their logical order.
func (v *CircularVector[T]) SetAppendMode(mode AppendMode) {
	v.head = mode == AppendHead
}

// SetCapacity resizes the vector, keeping the most recent values.
func (v *CircularVector[T]) SetCapacity(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	values := v.ToSlice()
	if len(values) > capacity {
		if v.head {
			values = values[:capacity]
		} else {
			values = values[len(values)-capacity:]
		}
	}
	v.buf = make([]T, capacity)
	v.reset(values)
}

// reset lays values out from slot 0 in logical order.
func (v *CircularVector[T]) reset(values []T) {
	var zero T
	for i := range v.buf {
		v.buf[i] = zero
	}
	copy(v.buf, values)
	v.start = 0
	v.count = len(values)
}
