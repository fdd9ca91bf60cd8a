// Package configwatcher applies config file edits to a running Streamer.
// When enabled, it watches the framekit TOML config file and resizes the
// frame whenever its capacity setting changes.
package configwatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/framekit/pkg/framekit"
	"github.com/bft-labs/framekit/pkg/log"
)

// Plugin implements config watching functionality.
type Plugin struct {
	mu sync.Mutex

	path          string
	debounceDelay time.Duration

	logger   log.Logger
	frame    framekit.FrameControl
	capacity int // last applied, 0 if unknown
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the config watcher plugin.
type Config struct {
	// Path is the TOML file to watch.
	Path string

	// DebounceDelay is the delay to wait after a file change before reloading.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{DebounceDelay: 100 * time.Millisecond}
}

// reloadable lists the settings that take effect without a restart.
type reloadable struct {
	Capacity *int `toml:"capacity"`
}

// New creates a new config watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Plugin{
		path:          filepath.Clean(cfg.Path),
		debounceDelay: cfg.DebounceDelay,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize reads the current settings and starts the watcher.
func (p *Plugin) Initialize(ctx context.Context, cfg framekit.PluginConfig) error {
	p.mu.Lock()
	p.logger = log.OrNoop(cfg.Logger)
	p.frame = cfg.Frame
	p.mu.Unlock()

	if p.path == "." || p.frame == nil {
		p.logger.Warn("config watcher disabled: no config file or frame")
		return nil
	}

	if settings, err := load(p.path); err == nil && settings.Capacity != nil {
		p.capacity = *settings.Capacity
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(p.path), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	p.logger.Info("config watcher plugin initialized", log.String("path", p.path))
	return nil
}

// Shutdown stops the config watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != p.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.debounceReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Warn("config watcher: watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() == nil {
			p.reload()
		}
	})
}

// reload applies a changed capacity. Unreadable or invalid files leave the
// frame as it is.
func (p *Plugin) reload() {
	settings, err := load(p.path)
	if err != nil {
		p.logger.Warn("config watcher: reload failed", log.String("path", p.path), log.Err(err))
		return
	}
	if settings.Capacity == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	n := *settings.Capacity
	if n == p.capacity {
		return
	}
	if err := p.frame.SetCapacity(n); err != nil {
		p.logger.Warn("config watcher: capacity not applied", log.Int("capacity", n), log.Err(err))
		return
	}
	p.logger.Info("config watcher: capacity changed",
		log.Int("from", p.capacity),
		log.Int("to", n),
		log.Int("rows", p.frame.Len()))
	p.capacity = n
}

func load(path string) (reloadable, error) {
	var r reloadable
	b, err := os.ReadFile(path)
	if err != nil {
		return r, err
	}
	if err := toml.Unmarshal(b, &r); err != nil {
		return r, err
	}
	return r, nil
}

// Ensure Plugin implements framekit.Plugin.
var _ framekit.Plugin = (*Plugin)(nil)
