package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	gojson "github.com/goccy/go-json"
)

const stateFileName = "cursor.json"

// FileRepository implements Repository with a JSON file in a directory.
type FileRepository struct {
	dir string
}

// NewFileRepository creates a FileRepository rooted at dir.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// Load reads the cursor file.
func (r *FileRepository) Load(ctx context.Context) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}

	data, err := os.ReadFile(r.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, err
	}

	var s State
	if err := gojson.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decode %s: %w", r.Path(), err)
	}
	return s, nil
}

// Save writes the cursor to a temp file and renames it into place.
func (r *FileRepository) Save(ctx context.Context, s State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	data, err := gojson.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	path := r.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Path returns the cursor file path.
func (r *FileRepository) Path() string {
	return filepath.Join(r.dir, stateFileName)
}

// MemoryRepository keeps the cursor in memory. It is used when no state
// directory is configured.
type MemoryRepository struct {
	state State
}

// Load returns the last saved state.
func (m *MemoryRepository) Load(context.Context) (State, error) {
	return m.state, nil
}

// Save stores the state.
func (m *MemoryRepository) Save(_ context.Context, s State) error {
	m.state = s
	return nil
}

var (
	_ Repository = (*FileRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)
