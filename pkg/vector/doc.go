// Package vector provides the ordered containers that back frame fields.
//
// A [Vector] is an index-addressable sequence with a dynamic length. Two
// implementations are provided:
//
//   - [ArrayVector]: grows without bound as values are added.
//   - [CircularVector]: holds at most Capacity values; once full, every Add
//     evicts the oldest value.
//
// # Usage
//
//	v := vector.NewCircularVector[float64](vector.CircularOptions{Capacity: 3}, nil)
//	for i := 0; i < 5; i++ {
//	    v.Add(float64(i))
//	}
//	v.ToSlice() // [2 3 4]
//
// Vectors are not safe for concurrent use.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package vector
