package vector

import "slices"

// ArrayVector is a growable, slice-backed Vector.
type ArrayVector[T any] struct {
	buffer []T
}

// NewArrayVector creates a vector that adopts buffer as its storage.
// A nil buffer starts empty.
func NewArrayVector[T any](buffer []T) *ArrayVector[T] {
	return &ArrayVector[T]{buffer: buffer}
}

// Len returns the number of values.
func (v *ArrayVector[T]) Len() int {
	return len(v.buffer)
}

// Get returns the value at index i.
func (v *ArrayVector[T]) Get(i int) (T, error) {
	if i < 0 || i >= len(v.buffer) {
		var zero T
		return zero, outOfRange(i, len(v.buffer))
	}
	return v.buffer[i], nil
}

// Set overwrites the value at index i.
func (v *ArrayVector[T]) Set(i int, val T) error {
	if i < 0 || i >= len(v.buffer) {
		return outOfRange(i, len(v.buffer))
	}
	v.buffer[i] = val
	return nil
}

// Add appends val.
func (v *ArrayVector[T]) Add(val T) {
	v.buffer = append(v.buffer, val)
}

// ToSlice returns a copy of the values.
func (v *ArrayVector[T]) ToSlice() []T {
	out := make([]T, len(v.buffer))
	copy(out, v.buffer)
	return out
}

// Reverse reverses the values in place.
func (v *ArrayVector[T]) Reverse() {
	slices.Reverse(v.buffer)
}
