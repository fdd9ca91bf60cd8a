package framekit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/bft-labs/framekit/pkg/batch"
	"github.com/bft-labs/framekit/pkg/frame"
	"github.com/bft-labs/framekit/pkg/lifecycle"
	"github.com/bft-labs/framekit/pkg/log"
	"github.com/bft-labs/framekit/pkg/sender"
	"github.com/bft-labs/framekit/pkg/source"
	"github.com/bft-labs/framekit/pkg/state"
	"github.com/bft-labs/framekit/pkg/vector"
)

// Streamer follows a row file and maintains a frame of its contents.
// Use New to create one, then Start to begin streaming.
type Streamer struct {
	config    Config
	logger    log.Logger
	lifecycle *lifecycle.DefaultManager
	emitter   eventEmitter
	sender    sender.Sender
	stateRepo state.Repository
	plugins   []Plugin

	// frameMu guards the frame. The agent holds it while applying a batch.
	frameMu  sync.RWMutex
	frame    *frame.MutableFrame
	circular *frame.CircularFrame

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	runErr error
}

// New creates a Streamer in StateStopped. It returns an error wrapping
// ErrInvalidConfig if cfg is invalid.
func New(cfg Config, opts ...Option) (*Streamer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := log.OrNoop(o.logger)
	emitter := eventEmitter{handler: o.eventHandler}

	name := cfg.Name
	if name == "" {
		name = filepath.Base(cfg.File)
	}

	s := &Streamer{
		config:    cfg,
		logger:    logger,
		lifecycle: lifecycle.NewManager(logger, emitter),
		emitter:   emitter,
		plugins:   o.plugins,
	}

	var err error
	if cfg.Capacity > 0 {
		s.circular, err = frame.NewCircularFrame(
			vector.CircularOptions{Capacity: cfg.Capacity, Append: cfg.Append},
			nil,
			frame.WithLogger(logger),
		)
		if s.circular != nil {
			s.frame = s.circular.MutableFrame
		}
	} else {
		s.frame, err = frame.NewMutableFrame(nil, frame.WithLogger(logger))
	}
	if err != nil {
		return nil, err
	}
	s.frame.Name = name

	switch {
	case o.sender != nil:
		s.sender = o.sender
	case cfg.ServiceURL != "":
		client := o.httpClient
		if client == nil {
			client = &http.Client{Timeout: cfg.HTTPTimeout}
		}
		s.sender = sender.NewHTTPSender(client, logger, sender.WithCompression(cfg.Compression))
	}

	switch {
	case o.stateRepo != nil:
		s.stateRepo = o.stateRepo
	case cfg.StateDir != "":
		s.stateRepo = state.NewFileRepository(cfg.StateDir)
	default:
		s.stateRepo = &state.MemoryRepository{}
	}

	return s, nil
}

// Start begins streaming in the background. The context bounds the
// lifetime of the stream.
func (s *Streamer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.CanStart() {
		return ErrAlreadyRunning
	}
	if err := s.lifecycle.TransitionTo(lifecycle.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.lifecycle.SetCancel(cancel)
	done := make(chan struct{})
	s.done = done
	s.runErr = nil

	if err := s.initPlugins(runCtx); err != nil {
		cancel()
		close(done)
		_ = s.lifecycle.TransitionTo(lifecycle.StateCrashed, "plugin init failed")
		return err
	}

	reader := source.NewFileReader(source.Options{
		Format: s.config.Format,
		Header: s.config.Header,
		Comma:  s.config.Comma,
	}, s.logger)

	agent := lifecycle.NewAgent(lifecycle.AgentConfig{
		Path:            s.config.File,
		PollInterval:    s.config.PollInterval,
		PublishInterval: s.config.PublishInterval,
		HardInterval:    s.config.HardInterval,
		MaxBatchRows:    s.config.MaxBatchRows,
		Once:            s.config.Once,
		Hostname:        hostname(),
		OSArch:          runtime.GOOS + "/" + runtime.GOARCH,
		AuthKey:         s.config.AuthKey,
		ServiceURL:      s.config.ServiceURL,
	}, reader, (*applier)(s), s.sender, s.stateRepo, s.logger, s.emitter)

	if s.config.Watch && !s.config.Once {
		w := source.NewWatcher(s.config.File, 0, s.logger)
		agent.SetWakeup(w.C())
		s.lifecycle.AddWorker()
		go func() {
			defer s.lifecycle.WorkerDone()
			if err := w.Run(runCtx); err != nil {
				s.logger.Warn("file watcher disabled, polling only", log.Err(err))
			}
		}()
	}

	s.lifecycle.AddWorker()
	go func() {
		defer s.lifecycle.WorkerDone()
		defer close(done)
		defer cancel()

		if err := s.lifecycle.TransitionTo(lifecycle.StateRunning, "agent starting"); err != nil {
			s.logger.Error("failed to transition to running", log.Err(err))
			return
		}

		err := agent.Run(runCtx)

		s.mu.Lock()
		if !errors.Is(err, context.Canceled) {
			s.runErr = err
		}
		s.mu.Unlock()

		switch {
		case err == nil:
			// Once mode finished.
			if s.lifecycle.TransitionTo(lifecycle.StateStopping, "caught up") == nil {
				_ = s.lifecycle.TransitionTo(lifecycle.StateStopped, "caught up")
			}
		case errors.Is(err, context.Canceled):
		default:
			s.logger.Error("agent error", log.Err(err))
			_ = s.lifecycle.TransitionTo(lifecycle.StateCrashed, err.Error())
		}
	}()

	return nil
}

// Stop cancels the stream and waits for the agent to apply pending rows
// and save its cursor. It returns ErrShutdownTimeout if that takes longer
// than lifecycle.ShutdownTimeout.
func (s *Streamer) Stop() error {
	s.mu.Lock()
	if !s.lifecycle.CanStop() {
		s.mu.Unlock()
		return ErrNotRunning
	}
	if err := s.lifecycle.TransitionTo(lifecycle.StateStopping, "Stop() called"); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	err := s.lifecycle.WaitWithTimeout(lifecycle.ShutdownTimeout)
	s.shutdownPlugins(s.plugins)
	if err != nil {
		_ = s.lifecycle.TransitionTo(lifecycle.StateCrashed, "shutdown timeout")
		return ErrShutdownTimeout
	}
	_ = s.lifecycle.TransitionTo(lifecycle.StateStopped, "graceful shutdown")
	return nil
}

// Wait blocks until the agent exits and returns its error. Cancellation is
// not an error. It returns ErrNotRunning if Start was never called.
func (s *Streamer) Wait() error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return ErrNotRunning
	}
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runErr
}

// Status returns the current lifecycle state.
func (s *Streamer) Status() State {
	return s.lifecycle.State()
}

// Snapshot returns a detached copy of the frame.
func (s *Streamer) Snapshot() frame.DTO {
	s.frameMu.RLock()
	defer s.frameMu.RUnlock()
	return frame.ToDTO(s.frame.Frame())
}

// Rows returns every row of the frame as a map from field name to value.
func (s *Streamer) Rows() ([]map[string]any, error) {
	s.frameMu.RLock()
	defer s.frameMu.RUnlock()
	return s.frame.ToSlice()
}

// Len returns the number of rows in the frame.
func (s *Streamer) Len() int {
	s.frameMu.RLock()
	defer s.frameMu.RUnlock()
	return s.frame.Len()
}

// FieldCache indexes a snapshot of the frame's fields.
func (s *Streamer) FieldCache() *frame.FieldCache {
	snap := s.Snapshot()
	return frame.NewFieldCache(snap.Frame(), frame.WithCacheLogger(s.logger))
}

// SetCapacity resizes a bounded frame, keeping the most recent rows. It
// returns ErrInvalidConfig for an unbounded frame or a non-positive size.
func (s *Streamer) SetCapacity(capacity int) error {
	if s.circular == nil {
		return fmt.Errorf("%w: frame is unbounded", ErrInvalidConfig)
	}
	if capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidConfig)
	}
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	s.circular.SetCapacity(capacity)
	return nil
}

// applier feeds batches into the streamer's frame.
type applier Streamer

func (a *applier) Apply(_ context.Context, rows []source.Row) (int, error) {
	s := (*Streamer)(a)
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	return ApplyRows(s.frame, rows, s.logger), nil
}

func (a *applier) Snapshot() frame.DTO {
	return (*Streamer)(a).Snapshot()
}

var _ lifecycle.Applier = (*applier)(nil)

func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}

// validateModuleVersions checks that every module version is at least its
// minimum compatible version.
func validateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"vector":    {vector.Version, vector.MinCompatibleVersion},
		"frame":     {frame.Version, frame.MinCompatibleVersion},
		"source":    {source.Version, source.MinCompatibleVersion},
		"batch":     {batch.Version, batch.MinCompatibleVersion},
		"state":     {state.Version, state.MinCompatibleVersion},
		"sender":    {sender.Version, sender.MinCompatibleVersion},
		"lifecycle": {lifecycle.Version, lifecycle.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}
	return nil
}

// isVersionCompatible reports whether version >= minVersion, both in
// "major.minor.patch" form.
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
