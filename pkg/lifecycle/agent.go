package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/framekit/pkg/batch"
	"github.com/bft-labs/framekit/pkg/frame"
	"github.com/bft-labs/framekit/pkg/log"
	"github.com/bft-labs/framekit/pkg/sender"
	"github.com/bft-labs/framekit/pkg/source"
	"github.com/bft-labs/framekit/pkg/state"
)

// AgentConfig configures the ingest loop.
type AgentConfig struct {
	// Path is the file to ingest.
	Path string

	PollInterval    time.Duration
	PublishInterval time.Duration
	HardInterval    time.Duration
	MaxBatchRows    int

	// Once stops the loop after the reader has caught up.
	Once bool

	// BackoffInitial and BackoffMax bound the delay after a failed
	// publish. Defaults: 500ms and 10s.
	BackoffInitial time.Duration
	BackoffMax     time.Duration

	// Metadata for publish operations.
	Hostname   string
	OSArch     string
	AuthKey    string
	ServiceURL string
}

// Applier receives batches of rows and produces snapshots of the result.
type Applier interface {
	// Apply ingests rows and returns how many data rows were applied. An
	// error stops the agent.
	Apply(ctx context.Context, rows []source.Row) (int, error)

	// Snapshot returns a detached copy of the current frame.
	Snapshot() frame.DTO
}

// PublishEventEmitter is called after each publish attempt.
type PublishEventEmitter interface {
	OnPublishSuccess(rows, fields int, duration time.Duration)
	OnPublishError(err error, rows int, retryable bool)
}

// Agent runs the read, apply, publish loop.
type Agent struct {
	config    AgentConfig
	reader    source.Reader
	applier   Applier
	sender    sender.Sender
	stateRepo state.Repository
	logger    log.Logger
	batcher   *batch.DefaultBatcher
	emitter   PublishEventEmitter
	backoff   *Backoff
	wake      <-chan struct{}

	cursor      state.State
	unpublished bool
	lastErr     error
}

// NewAgent creates an agent. snd may be nil, in which case nothing is
// published and only the cursor is persisted. emitter may be nil.
func NewAgent(
	config AgentConfig,
	reader source.Reader,
	applier Applier,
	snd sender.Sender,
	stateRepo state.Repository,
	logger log.Logger,
	emitter PublishEventEmitter,
) *Agent {
	if config.BackoffInitial <= 0 {
		config.BackoffInitial = 500 * time.Millisecond
	}
	if config.BackoffMax < config.BackoffInitial {
		config.BackoffMax = max(10*time.Second, config.BackoffInitial)
	}
	if stateRepo == nil {
		stateRepo = &state.MemoryRepository{}
	}
	return &Agent{
		config:    config,
		reader:    reader,
		applier:   applier,
		sender:    snd,
		stateRepo: stateRepo,
		logger:    log.OrNoop(logger),
		batcher:   batch.NewDefaultBatcher(config.MaxBatchRows, config.PublishInterval, config.HardInterval),
		emitter:   emitter,
		backoff:   NewBackoff(config.BackoffInitial, config.BackoffMax),
	}
}

// SetWakeup sets a channel that ends the idle wait early, typically
// source.Watcher.C(). It must be called before Run.
func (a *Agent) SetWakeup(ch <-chan struct{}) {
	a.wake = ch
}

// Run executes the loop until ctx is canceled, an Applier error occurs,
// or, with Once set, the reader has caught up. Rows still batched when ctx
// is canceled are applied and the cursor is saved before returning.
func (a *Agent) Run(ctx context.Context) error {
	st, err := a.stateRepo.Load(ctx)
	if err != nil {
		a.logger.Error("failed to load state", log.Err(err))
		st = state.State{}
	}
	if !st.Matches(a.config.Path) {
		if !st.IsEmpty() {
			a.logger.Info("cursor belongs to another file, starting over",
				log.String("cursor", st.Path),
				log.String("path", a.config.Path),
			)
		}
		st = state.New(a.config.Path)
	}

	if err := a.reader.Open(ctx, a.config.Path, st.Offset); err != nil {
		return err
	}
	defer a.reader.Close()

	if _, off := a.reader.CurrentPosition(); off != st.Offset {
		st.Rewind()
	}
	a.cursor = st

	a.logger.Info("ingest started",
		log.String("path", a.config.Path),
		log.Int64("offset", st.Offset),
		log.Uint64("rows", st.Rows),
	)

	for {
		select {
		case <-ctx.Done():
			return a.drain(ctx)
		default:
		}

		row, err := a.reader.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, source.ErrNoMoreRows):
				if a.batcher.HasPending() && (a.config.Once || a.batcher.ShouldFlush()) {
					if err := a.flush(ctx); err != nil {
						return err
					}
				} else if a.unpublished {
					a.publish(ctx)
				}

				if a.config.Once {
					if a.unpublished && a.lastErr != nil {
						return fmt.Errorf("publish snapshot: %w", a.lastErr)
					}
					return nil
				}

				if err := a.idle(ctx); err != nil {
					return a.drain(ctx)
				}
				continue

			case errors.Is(err, source.ErrBadRow):
				a.logger.Warn("skipping row", log.Err(err))
				continue

			case ctx.Err() != nil:
				return a.drain(ctx)

			default:
				a.logger.Error("read error", log.Err(err))
				if err := a.idle(ctx); err != nil {
					return a.drain(ctx)
				}
				continue
			}
		}

		if a.batcher.Add(row) || a.batcher.ShouldForceFlush() {
			if err := a.flush(ctx); err != nil {
				return err
			}
		}
	}
}

// flush applies the pending batch, saves the cursor and publishes.
func (a *Agent) flush(ctx context.Context) error {
	if err := a.apply(ctx); err != nil {
		return err
	}
	a.publish(ctx)
	return nil
}

func (a *Agent) apply(ctx context.Context) error {
	b := a.batcher.Batch()
	if b.Empty() {
		return nil
	}

	n, err := a.applier.Apply(ctx, b.Rows)
	if err != nil {
		return fmt.Errorf("apply batch: %w", err)
	}

	_, pos := a.reader.CurrentPosition()
	a.cursor.Advance(pos-a.cursor.Offset, n)
	a.logger.Debug("applied batch",
		log.Int("rows", n),
		log.Int("bytes", b.TotalBytes),
		log.Int64("offset", a.cursor.Offset),
	)
	a.batcher.Reset()
	a.saveState(ctx)

	if a.sender != nil {
		a.unpublished = true
	}
	return nil
}

func (a *Agent) publish(ctx context.Context) {
	if a.sender == nil || !a.unpublished {
		return
	}

	snap := a.applier.Snapshot()
	md := sender.Metadata{
		Source:     a.config.Path,
		Rows:       a.cursor.Rows,
		Hostname:   a.config.Hostname,
		OSArch:     a.config.OSArch,
		AuthKey:    a.config.AuthKey,
		ServiceURL: a.config.ServiceURL,
	}

	start := time.Now()
	err := a.sender.Send(ctx, snap, md)
	duration := time.Since(start)

	if err != nil {
		a.lastErr = err
		a.logger.Error("publish failed",
			log.Err(err),
			log.Int("rows", snap.Len()),
			log.Duration("retry_in", a.backoff.Current()),
		)
		if a.emitter != nil {
			a.emitter.OnPublishError(err, snap.Len(), true)
		}
		_ = a.backoff.Wait(ctx)
		return
	}

	a.unpublished = false
	a.lastErr = nil
	a.backoff.Reset()
	a.cursor.MarkPublished(time.Now())
	a.saveState(ctx)

	a.logger.Info("published snapshot",
		log.Int("rows", snap.Len()),
		log.Int("fields", len(snap.Fields)),
		log.Duration("duration", duration),
	)
	if a.emitter != nil {
		a.emitter.OnPublishSuccess(snap.Len(), len(snap.Fields), duration)
	}
}

// drain applies rows still batched after cancellation and returns the
// context error.
func (a *Agent) drain(ctx context.Context) error {
	if a.batcher.HasPending() {
		if err := a.apply(context.WithoutCancel(ctx)); err != nil {
			a.logger.Error("failed to apply pending rows", log.Err(err))
		}
	}
	return ctx.Err()
}

// idle waits for the poll interval, a wakeup, or cancellation.
func (a *Agent) idle(ctx context.Context) error {
	t := time.NewTimer(a.config.PollInterval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	case <-a.wake:
	}
	return nil
}

func (a *Agent) saveState(ctx context.Context) {
	if err := a.stateRepo.Save(ctx, a.cursor); err != nil {
		a.logger.Error("failed to save state", log.Err(err))
	}
}
