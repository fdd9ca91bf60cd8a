package framekit

import (
	"time"

	"github.com/bft-labs/framekit/pkg/lifecycle"
)

// State is the lifecycle state of a Streamer.
type State = lifecycle.State

const (
	StateStopped  = lifecycle.StateStopped
	StateStarting = lifecycle.StateStarting
	StateRunning  = lifecycle.StateRunning
	StateStopping = lifecycle.StateStopping
	StateCrashed  = lifecycle.StateCrashed
)

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// PublishSuccessEvent describes a published snapshot.
type PublishSuccessEvent struct {
	Rows     int
	Fields   int
	Duration time.Duration
}

// PublishErrorEvent describes a failed publish.
type PublishErrorEvent struct {
	Error     error
	Rows      int
	Retryable bool
}

// EventHandler receives Streamer events.
type EventHandler interface {
	OnStateChange(StateChangeEvent)
	OnPublishSuccess(PublishSuccessEvent)
	OnPublishError(PublishErrorEvent)
}

// eventEmitter adapts an EventHandler to the lifecycle emitter interfaces.
type eventEmitter struct {
	handler EventHandler
}

func (e eventEmitter) OnStateChange(previous, current lifecycle.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{Previous: previous, Current: current, Reason: reason})
}

func (e eventEmitter) OnPublishSuccess(rows, fields int, duration time.Duration) {
	if e.handler == nil {
		return
	}
	e.handler.OnPublishSuccess(PublishSuccessEvent{Rows: rows, Fields: fields, Duration: duration})
}

func (e eventEmitter) OnPublishError(err error, rows int, retryable bool) {
	if e.handler == nil {
		return
	}
	e.handler.OnPublishError(PublishErrorEvent{Error: err, Rows: rows, Retryable: retryable})
}
