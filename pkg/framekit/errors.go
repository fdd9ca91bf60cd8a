package framekit

import "errors"

// Errors returned by the Streamer. Check them with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start is called on a running streamer.
	ErrAlreadyRunning = errors.New("framekit: already running")

	// ErrNotRunning is returned when Stop or Wait is called on a streamer
	// that is not running.
	ErrNotRunning = errors.New("framekit: not running")

	// ErrShutdownTimeout is returned when the agent does not stop in time.
	ErrShutdownTimeout = errors.New("framekit: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("framekit: invalid configuration")
)
