package lifecycle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/framekit/pkg/frame"
	"github.com/bft-labs/framekit/pkg/sender"
	"github.com/bft-labs/framekit/pkg/source"
	"github.com/bft-labs/framekit/pkg/state"
)

// fakeApplier records applied rows.
type fakeApplier struct {
	mu      sync.Mutex
	batches [][]source.Row
	err     error
}

func (f *fakeApplier) Apply(_ context.Context, rows []source.Row) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.batches = append(f.batches, append([]source.Row(nil), rows...))
	n := 0
	for _, r := range rows {
		if !r.Header {
			n++
		}
	}
	return n, nil
}

func (f *fakeApplier) Snapshot() frame.DTO {
	f.mu.Lock()
	defer f.mu.Unlock()
	var values []any
	for _, b := range f.batches {
		for _, r := range b {
			values = append(values, r.Object["n"])
		}
	}
	return frame.DTO{Fields: []frame.FieldDTO{{Name: "n", Type: frame.FieldTypeNumber, Values: values}}}
}

func (f *fakeApplier) rows() []any {
	return f.Snapshot().Fields[0].Values
}

func (f *fakeApplier) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

// fakeSender records published snapshots and can fail a number of times.
type fakeSender struct {
	mu    sync.Mutex
	sent  []frame.DTO
	mds   []sender.Metadata
	fails int
}

func (s *fakeSender) Send(_ context.Context, snap frame.DTO, md sender.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fails > 0 {
		s.fails--
		return errors.New("service unavailable")
	}
	s.sent = append(s.sent, snap)
	s.mds = append(s.mds, md)
	return nil
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type countingEvents struct {
	mu       sync.Mutex
	success  int
	failures int
}

func (c *countingEvents) OnPublishSuccess(int, int, time.Duration) {
	c.mu.Lock()
	c.success++
	c.mu.Unlock()
}

func (c *countingEvents) OnPublishError(error, int, bool) {
	c.mu.Lock()
	c.failures++
	c.mu.Unlock()
}

func writeRows(t *testing.T, path string, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
}

func testConfig(path string) AgentConfig {
	return AgentConfig{
		Path:            path,
		PollInterval:    10 * time.Millisecond,
		PublishInterval: time.Hour,
		HardInterval:    time.Hour,
		MaxBatchRows:    2,
		BackoffInitial:  time.Millisecond,
		BackoffMax:      time.Millisecond,
		ServiceURL:      "http://collector",
		AuthKey:         "k",
	}
}

func TestAgent_OnceAppliesEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.ndjson")
	writeRows(t, path, "{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n")

	cfg := testConfig(path)
	cfg.Once = true
	app := &fakeApplier{}
	snd := &fakeSender{}
	repo := &state.MemoryRepository{}
	events := &countingEvents{}

	a := NewAgent(cfg, source.NewFileReader(source.Options{}, nil), app, snd, repo, nil, events)
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if app.batchCount() != 2 {
		t.Errorf("batches = %d, want 2 (full batch, then remainder at end)", app.batchCount())
	}
	if got := app.rows(); len(got) != 3 {
		t.Errorf("rows = %v", got)
	}
	if snd.count() != 2 || events.success != 2 {
		t.Errorf("published %d, success events %d; want 2", snd.count(), events.success)
	}
	if md := snd.mds[1]; md.Rows != 3 || md.Source != path || md.ServiceURL != "http://collector" {
		t.Errorf("metadata = %+v", md)
	}

	st, _ := repo.Load(context.Background())
	info, _ := os.Stat(path)
	if st.Offset != info.Size() || st.Rows != 3 {
		t.Errorf("cursor = %+v, want offset %d rows 3", st, info.Size())
	}
	if st.LastPublishAt.IsZero() {
		t.Error("LastPublishAt not recorded")
	}
}

func TestAgent_ResumesFromCursor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.ndjson")
	first := "{\"n\":1}\n"
	writeRows(t, path, first+"{\"n\":2}\n")

	repo := &state.MemoryRepository{}
	st := state.New(path)
	st.Advance(int64(len(first)), 1)
	_ = repo.Save(context.Background(), st)

	cfg := testConfig(path)
	cfg.Once = true
	app := &fakeApplier{}

	a := NewAgent(cfg, source.NewFileReader(source.Options{}, nil), app, nil, repo, nil, nil)
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := app.rows(); len(got) != 1 || got[0] != float64(2) {
		t.Errorf("rows = %v, want [2]", got)
	}
	st, _ = repo.Load(context.Background())
	if st.Rows != 2 {
		t.Errorf("cursor rows = %d, want 2", st.Rows)
	}
}

func TestAgent_CursorForOtherFileIsIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.ndjson")
	writeRows(t, path, "{\"n\":1}\n")

	repo := &state.MemoryRepository{}
	other := state.New(filepath.Join(dir, "other.ndjson"))
	other.Advance(5, 1)
	_ = repo.Save(context.Background(), other)

	cfg := testConfig(path)
	cfg.Once = true
	app := &fakeApplier{}

	a := NewAgent(cfg, source.NewFileReader(source.Options{}, nil), app, nil, repo, nil, nil)
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := app.rows(); len(got) != 1 {
		t.Errorf("rows = %v, want all rows from the start", got)
	}
}

func TestAgent_BadRowAdvancesCursor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.ndjson")
	writeRows(t, path, "{\"n\":1}\ngarbage\n")

	cfg := testConfig(path)
	cfg.Once = true
	repo := &state.MemoryRepository{}
	app := &fakeApplier{}

	a := NewAgent(cfg, source.NewFileReader(source.Options{}, nil), app, nil, repo, nil, nil)
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	st, _ := repo.Load(context.Background())
	info, _ := os.Stat(path)
	if st.Offset != info.Size() {
		t.Errorf("offset = %d, want %d", st.Offset, info.Size())
	}
	if st.Rows != 1 {
		t.Errorf("rows = %d, want 1", st.Rows)
	}
}

func TestAgent_OncePublishFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.ndjson")
	writeRows(t, path, "{\"n\":1}\n")

	cfg := testConfig(path)
	cfg.Once = true
	snd := &fakeSender{fails: 100}
	events := &countingEvents{}

	a := NewAgent(cfg, source.NewFileReader(source.Options{}, nil), &fakeApplier{}, snd, nil, nil, events)
	err := a.Run(context.Background())
	if err == nil {
		t.Fatal("Run should report the failed publish")
	}
	if events.failures == 0 {
		t.Error("no publish error event")
	}
}

func TestAgent_ApplyErrorStops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.ndjson")
	writeRows(t, path, "{\"n\":1}\n")

	cfg := testConfig(path)
	cfg.Once = true
	boom := errors.New("boom")

	a := NewAgent(cfg, source.NewFileReader(source.Options{}, nil), &fakeApplier{err: boom}, nil, nil, nil, nil)
	if err := a.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Run = %v, want boom", err)
	}
}

func TestAgent_FollowsAppendedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.ndjson")
	writeRows(t, path, "")

	cfg := testConfig(path)
	cfg.PublishInterval = 0
	cfg.PollInterval = time.Hour
	app := &fakeApplier{}
	snd := &fakeSender{}
	wake := make(chan struct{}, 1)

	a := NewAgent(cfg, source.NewFileReader(source.Options{}, nil), app, snd, nil, nil, nil)
	a.SetWakeup(wake)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	writeRows(t, path, "{\"n\":1}\n")
	wake <- struct{}{}

	deadline := time.After(2 * time.Second)
	for snd.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("no snapshot published after wakeup")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
}

func TestAgent_DrainsPendingRowsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.ndjson")
	writeRows(t, path, "{\"n\":1}\n")

	cfg := testConfig(path)
	cfg.MaxBatchRows = 100
	repo := &state.MemoryRepository{}
	app := &fakeApplier{}

	a := NewAgent(cfg, source.NewFileReader(source.Options{}, nil), app, nil, repo, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	if app.batchCount() != 0 {
		t.Fatal("rows applied before the publish interval elapsed")
	}
	cancel()
	<-done

	if got := app.rows(); len(got) != 1 {
		t.Errorf("rows after drain = %v", got)
	}
}
