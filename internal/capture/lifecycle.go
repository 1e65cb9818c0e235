package capture

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/labelrec/internal/ports"
)

// Lifecycle errors.
var (
	ErrNotIdle      = errors.New("capture: recording in progress")
	ErrNotRecording = errors.New("capture: not recording")
	ErrJoinTimeout  = errors.New("capture: worker did not stop in time")
)

// State represents the lifecycle state of a capture session.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateStopping
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRecording:
		return "Recording"
	case StateStopping:
		return "Stopping"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// lifecycle guards the session state machine and tracks the worker
// goroutines of the current recording.
type lifecycle struct {
	mu     sync.RWMutex
	state  State
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger ports.Logger
}

func newLifecycle(logger ports.Logger) *lifecycle {
	return &lifecycle{
		state:  StateIdle,
		logger: logger,
	}
}

// State returns the current lifecycle state.
func (l *lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo attempts to transition to a new state.
// Returns an error if the transition is not valid.
func (l *lifecycle) TransitionTo(newState State, reason string) error {
	l.mu.Lock()
	oldState := l.state

	switch oldState {
	case StateIdle, StateFailed:
		if newState != StateRecording {
			l.mu.Unlock()
			return ErrNotRecording
		}
	case StateRecording:
		if newState != StateStopping && newState != StateFailed {
			l.mu.Unlock()
			return ErrNotIdle
		}
	case StateStopping:
		if newState != StateIdle && newState != StateFailed {
			l.mu.Unlock()
			return ErrNotIdle
		}
	}

	l.state = newState
	l.mu.Unlock()

	l.logger.Debug("capture state transition",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)

	return nil
}

// CanStart returns true if a new recording may begin.
func (l *lifecycle) CanStart() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateIdle || l.state == StateFailed
}

// SetCancel stores the cancel function of the current recording.
func (l *lifecycle) SetCancel(cancel context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancel = cancel
}

// Cancel asks the workers to stop.
func (l *lifecycle) Cancel() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// AddWorker increments the worker count.
func (l *lifecycle) AddWorker() {
	l.wg.Add(1)
}

// WorkerDone decrements the worker count.
func (l *lifecycle) WorkerDone() {
	l.wg.Done()
}

// WaitWithTimeout waits for all workers to finish with a timeout.
func (l *lifecycle) WaitWithTimeout(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		l.logger.Warn("capture worker still reading after stop",
			ports.Duration("timeout", timeout),
		)
		return ErrJoinTimeout
	}
}
