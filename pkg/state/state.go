package state

import (
	"path/filepath"
	"time"
)

// State is the persisted ingest cursor.
type State struct {
	// Path is the file being ingested.
	Path string `json:"path"`

	// Offset is the byte position after the last applied row.
	Offset int64 `json:"offset"`

	// Rows is the number of data rows applied so far.
	Rows uint64 `json:"rows"`

	// LastIngestAt is when rows were last applied to the frame.
	LastIngestAt time.Time `json:"last_ingest_at"`

	// LastPublishAt is when a snapshot was last published successfully.
	LastPublishAt time.Time `json:"last_publish_at,omitempty"`
}

// New returns an empty cursor for path.
func New(path string) State {
	return State{Path: cleanPath(path)}
}

// IsEmpty reports whether the state has not been initialized.
func (s State) IsEmpty() bool {
	return s.Path == ""
}

// Matches reports whether the cursor belongs to path.
func (s State) Matches(path string) bool {
	return !s.IsEmpty() && s.Path == cleanPath(path)
}

// Advance records that a batch of rows was applied.
func (s *State) Advance(bytes int64, rows int) {
	s.Offset += bytes
	if rows > 0 {
		s.Rows += uint64(rows)
	}
	s.LastIngestAt = time.Now()
}

// MarkPublished records a successful publish.
func (s *State) MarkPublished(at time.Time) {
	s.LastPublishAt = at
}

// Rewind resets the cursor to the start of the file, for example after the
// file was truncated.
func (s *State) Rewind() {
	s.Offset = 0
	s.Rows = 0
}

func cleanPath(p string) string {
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
