package vector

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned by Get and Set when the index is outside [0, Len()).
var ErrIndexOutOfRange = errors.New("vector: index out of range")

// Vector is an ordered, index-addressable container.
type Vector[T any] interface {
	// Len returns the current logical size.
	Len() int

	// Get returns the value at logical index i.
	Get(i int) (T, error)

	// Set overwrites the value at logical index i. It never changes Len.
	Set(i int, v T) error

	// Add appends v logically.
	Add(v T)

	// ToSlice returns a copy of the values in logical order.
	ToSlice() []T

	// Reverse reverses the logical order in place.
	Reverse()
}

// Values returns a snapshot of v, or nil if v is nil.
func Values[T any](v Vector[T]) []T {
	if v == nil {
		return nil
	}
	return v.ToSlice()
}

func outOfRange(i, length int) error {
	return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, i, length)
}
