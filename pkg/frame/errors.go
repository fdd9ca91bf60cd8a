package frame

import "errors"

// Frame errors. They are wrapped with context and can be checked with errors.Is.
var (
	// ErrDuplicateField is returned when a field name is already in use.
	ErrDuplicateField = errors.New("frame: duplicate field")

	// ErrOutOfRange is returned by Set when the row index is beyond the frame length.
	ErrOutOfRange = errors.New("frame: row index out of range")

	// ErrLengthMismatch is returned by CheckLengths when fields differ in length.
	ErrLengthMismatch = errors.New("frame: field lengths differ")
)
