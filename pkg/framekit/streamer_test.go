package framekit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/framekit/pkg/frame"
	"github.com/bft-labs/framekit/pkg/sender"
	"github.com/bft-labs/framekit/pkg/state"
	"github.com/bft-labs/framekit/pkg/vector"
)

func vectorOpts(capacity int) vector.CircularOptions {
	return vector.CircularOptions{Capacity: capacity, Append: vector.AppendTail}
}

type recordingHandler struct {
	mu        sync.Mutex
	states    []StateChangeEvent
	published []PublishSuccessEvent
	failed    []PublishErrorEvent
}

func (h *recordingHandler) OnStateChange(e StateChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.states = append(h.states, e)
}

func (h *recordingHandler) OnPublishSuccess(e PublishSuccessEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.published = append(h.published, e)
}

func (h *recordingHandler) OnPublishError(e PublishErrorEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failed = append(h.failed, e)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(content)
	require.NoError(t, err)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing file", func(c *Config) { c.File = "" }},
		{"bad format", func(c *Config) { c.Format = "xml" }},
		{"bad append", func(c *Config) { c.Append = "middle" }},
		{"negative capacity", func(c *Config) { c.Capacity = -1 }},
		{"header without csv", func(c *Config) { c.Header = true }},
		{"bad compression", func(c *Config) { c.Compression = "lzma" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.File = "rows.ndjson"
			tt.mutate(&cfg)
			_, err := New(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	cfg := Config{File: "x", ServiceURL: "http://svc/"}
	cfg.SetDefaults()
	assert.Equal(t, "http://svc", cfg.ServiceURL)
	assert.Equal(t, DefaultConfig().PollInterval, cfg.PollInterval)
	assert.NoError(t, cfg.Validate())
}

func TestStreamer_OnceBoundedFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.ndjson")
	writeFile(t, path, "{\"time\":\"2024-01-01T00:00:00Z\",\"value\":1}\n"+
		"{\"time\":\"2024-01-01T00:00:01Z\",\"value\":2}\n"+
		"{\"time\":\"2024-01-01T00:00:02Z\",\"value\":3}\n")

	var mu sync.Mutex
	var snaps []frame.DTO
	snd := sender.Func(func(_ context.Context, snap frame.DTO, md sender.Metadata) error {
		mu.Lock()
		defer mu.Unlock()
		snaps = append(snaps, snap)
		return nil
	})
	h := &recordingHandler{}

	cfg := DefaultConfig()
	cfg.File = path
	cfg.Capacity = 2
	cfg.Once = true

	s, err := New(cfg, WithSender(snd), WithEventHandler(h))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Wait())

	assert.Equal(t, StateStopped, s.Status())
	assert.Equal(t, 2, s.Len())

	snap := s.Snapshot()
	assert.Equal(t, "cpu.ndjson", snap.Name)
	require.Len(t, snap.Fields, 2)
	assert.Equal(t, "time", snap.Fields[0].Name)
	assert.Equal(t, frame.FieldTypeTime, snap.Fields[0].Type)
	assert.Equal(t, []any{2.0, 3.0}, snap.Fields[1].Values)

	mu.Lock()
	assert.Len(t, snaps, 1)
	mu.Unlock()

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Len(t, h.published, 1)
	require.NotEmpty(t, h.states)
	assert.Equal(t, StateStopped, h.states[len(h.states)-1].Current)

	cache := s.FieldCache()
	assert.True(t, cache.HasFieldOfType(frame.FieldTypeNumber))
}

func TestStreamer_OnceCSVUnbounded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	writeFile(t, path, "host,value,up\nweb-1,1.5,true\nweb-2,2,0\n")

	cfg := DefaultConfig()
	cfg.File = path
	cfg.Format = "csv"
	cfg.Header = true
	cfg.Capacity = 0
	cfg.Once = true

	s, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Wait())

	rows, err := s.Rows()
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"host": "web-1", "value": 1.5, "up": true},
		{"host": "web-2", "value": 2.0, "up": false},
	}, rows)

	assert.ErrorIs(t, s.SetCapacity(5), ErrInvalidConfig)
}

func TestStreamer_StartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.ndjson")
	writeFile(t, path, "")

	cfg := DefaultConfig()
	cfg.File = path
	cfg.Watch = false
	cfg.PollInterval = 10 * time.Millisecond

	s, err := New(cfg)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Stop(), ErrNotRunning)
	assert.ErrorIs(t, s.Wait(), ErrNotRunning)

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)
	require.NoError(t, s.Stop())
	assert.Equal(t, StateStopped, s.Status())
	assert.NoError(t, s.Wait())
	assert.ErrorIs(t, s.Stop(), ErrNotRunning)
}

func TestStreamer_FollowsAndResumes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rows.ndjson")
	writeFile(t, path, "{\"n\":1}\n")

	cfg := DefaultConfig()
	cfg.File = path
	cfg.StateDir = filepath.Join(dir, "state")
	cfg.PollInterval = 10 * time.Millisecond
	cfg.PublishInterval = 10 * time.Millisecond

	s, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	writeFile(t, path, "{\"n\":2}\n{\"n\":3}\n")
	require.Eventually(t, func() bool { return s.Len() == 3 }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())

	st, err := state.NewFileRepository(cfg.StateDir).Load(context.Background())
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), st.Offset)
	assert.Equal(t, uint64(3), st.Rows)

	// A new streamer continues after the saved cursor.
	writeFile(t, path, "{\"n\":4}\n")
	cfg.Once = true
	s2, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, s2.Start(context.Background()))
	require.NoError(t, s2.Wait())

	rows, err := s2.Rows()
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"n": 4.0}}, rows)
}

func TestStreamer_PublishErrorsAreReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.ndjson")
	writeFile(t, path, "{\"n\":1}\n")

	h := &recordingHandler{}
	snd := sender.Func(func(context.Context, frame.DTO, sender.Metadata) error {
		return errors.New("down")
	})

	cfg := DefaultConfig()
	cfg.File = path
	cfg.Once = true

	s, err := New(cfg, WithSender(snd), WithEventHandler(h), WithStateRepository(&state.MemoryRepository{}))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	err = s.Wait()
	require.Error(t, err)
	assert.Equal(t, StateCrashed, s.Status())

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.NotEmpty(t, h.failed)
}

func TestStreamer_SetCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.ndjson")
	writeFile(t, path, "{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n")

	cfg := DefaultConfig()
	cfg.File = path
	cfg.Capacity = 10
	cfg.Once = true

	s, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Wait())

	require.NoError(t, s.SetCapacity(1))
	rows, err := s.Rows()
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"n": 3.0}}, rows)
	assert.ErrorIs(t, s.SetCapacity(0), ErrInvalidConfig)
}

func TestIsVersionCompatible(t *testing.T) {
	tests := []struct {
		version, min string
		want         bool
	}{
		{"1.0.0", "1.0.0", true},
		{"1.2.0", "1.0.5", true},
		{"1.0.4", "1.0.5", false},
		{"2.0.0", "1.9.9", true},
		{"0.9.0", "1.0.0", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isVersionCompatible(tt.version, tt.min), "%s >= %s", tt.version, tt.min)
	}
	assert.NoError(t, validateModuleVersions())
}
