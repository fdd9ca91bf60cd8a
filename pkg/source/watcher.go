package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/framekit/pkg/log"
)

// DefaultDebounce is the quiet period after a change before a notification
// is delivered.
const DefaultDebounce = 50 * time.Millisecond

// Watcher signals when a file is written or (re)created.
//
// The parent directory is watched rather than the file itself so that a
// file created after Run starts, or replaced by rotation, is still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   log.Logger

	notify chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a Watcher for path. A non-positive debounce uses
// DefaultDebounce.
func NewWatcher(path string, debounce time.Duration, logger log.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		logger:   log.OrNoop(logger),
		notify:   make(chan struct{}, 1),
	}
}

// C returns the notification channel. Notifications coalesce: at most one
// is pending at a time.
func (w *Watcher) C() <-chan struct{} {
	return w.notify
}

// Run watches until ctx is done. It returns an error only if the watch
// cannot be established.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Debug("watching file", log.String("path", w.path))

	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.String("path", w.path), log.Err(err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
