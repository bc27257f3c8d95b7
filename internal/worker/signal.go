// Package worker provides the per-channel click worker, its lifecycle
// signal, and the registry that owns the worker goroutines.
package worker

import (
	"sync"
	"sync/atomic"
	"time"
)

// State is a worker's lifecycle state.
type State uint32

const (
	// Stopped is the created and terminal state.
	Stopped State = iota
	// Running means the worker loop is live and clicking when gated on.
	Running
	// Paused keeps the loop alive but idle.
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Signal is the shared lifecycle state for one worker: an atomic state
// plus a broadcast channel that is closed and replaced on every
// transition so waiters wake without a condition-variable loop.
type Signal struct {
	state atomic.Uint32

	mu      sync.Mutex
	changed chan struct{}
}

// NewSignal returns a signal in the Stopped state.
func NewSignal() *Signal {
	return &Signal{changed: make(chan struct{})}
}

func (s *Signal) setState(st State) {
	s.mu.Lock()
	s.state.Store(uint32(st))
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()
}

// Start transitions to Running and wakes all waiters.
func (s *Signal) Start() { s.setState(Running) }

// Pause transitions to Paused and wakes all waiters.
func (s *Signal) Pause() { s.setState(Paused) }

// Stop transitions to Stopped and wakes all waiters. Stopped is
// terminal for that run of the worker loop.
func (s *Signal) Stop() { s.setState(Stopped) }

// State returns the current lifecycle state.
func (s *Signal) State() State {
	return State(s.state.Load())
}

// IsRunning reports whether the state is Running.
func (s *Signal) IsRunning() bool { return s.State() == Running }

// IsStopped reports whether the state is Stopped.
func (s *Signal) IsStopped() bool { return s.State() == Stopped }

// WaitForRunning returns true immediately if the signal is Running;
// otherwise it blocks for at most timeout and returns whether the
// state observed after waking is Running. The state is deliberately
// re-read once after a single bounded wait rather than looped on: a
// stale read here only costs one extra pass of the caller's loop.
func (s *Signal) WaitForRunning(timeout time.Duration) bool {
	if s.IsRunning() {
		return true
	}

	s.mu.Lock()
	ch := s.changed
	s.mu.Unlock()

	// The state may have flipped between the fast-path check and
	// capturing the channel.
	if s.IsRunning() {
		return true
	}

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-ch:
		return s.IsRunning()
	case <-t.C:
		return false
	}
}
