package state

import "context"

// Repository persists the cursor.
type Repository interface {
	// Load retrieves the last saved state. It returns an empty state and
	// nil error if none exists.
	Load(ctx context.Context) (State, error)

	// Save persists the state atomically.
	Save(ctx context.Context, state State) error
}
