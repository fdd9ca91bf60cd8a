// Package frame implements the columnar table used to carry query results
// through the visualization pipeline.
//
// A [Frame] is an ordered set of named, typed [Field] values, each backed by
// a [vector.Vector]. All fields of a frame have the same length.
//
// # Building frames
//
// [MutableFrame] owns its fields and keeps them equal length after every
// call. Rows can be appended positionally with AppendRow or by name with Add:
//
//	m, _ := frame.NewMutableFrame(nil)
//	_ = m.AppendRow([]any{1, "a", true})
//	_ = m.Add(map[string]any{"Field 1": 2, "Field 2": "b", "Field 3": false}, false)
//
// [CircularFrame] backs every field with a [vector.CircularVector], so memory
// stays bounded no matter how many rows are ingested.
//
// # Looking up fields
//
// [FieldCache] indexes a frame by field name and [FieldType]. It resolves
// fields still typed [FieldTypeOther] on construction and is not refreshed
// afterwards.
//
// # Snapshots
//
// [DTO] is a plain-data copy of a frame that serializes to JSON.
//
// None of the types in this package are safe for concurrent use.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package frame
