// Package state persists the ingest cursor so a restarted agent resumes
// where it stopped instead of re-reading the whole file.
//
// # Usage
//
//	repo := state.NewFileRepository("/path/to/state/dir")
//
//	s, err := repo.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	if !s.Matches(path) {
//	    s = state.New(path)
//	}
//
//	// ... apply rows ...
//	s.Advance(b.Advance(), b.DataRows())
//
//	if err := repo.Save(ctx, s); err != nil {
//	    return err
//	}
//
// The cursor file uses snake_case keys.
//
// # Version
//
// Current version: 2.0.0
// Minimum compatible version: 2.0.0
package state
