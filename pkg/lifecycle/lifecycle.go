package lifecycle

import "time"

// State is the lifecycle state of an agent.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// EventEmitter is called when the state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// Manager is the lifecycle state machine.
type Manager interface {
	State() State
	CanStart() bool
	CanStop() bool

	// TransitionTo moves to newState or returns an error if the transition
	// is not allowed.
	TransitionTo(newState State, reason string) error

	// WaitWithTimeout waits for all workers, returning ErrShutdownTimeout
	// if they do not finish in time.
	WaitWithTimeout(timeout time.Duration) error

	AddWorker()
	WorkerDone()
}
