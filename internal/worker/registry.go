package worker

import (
	"fmt"
	"log"
	"sync"
	"time"

	"rapidclick/internal/timing"
)

// joinTimeout bounds how long Stop waits for a worker loop to exit.
// Loops observe the stop signal at least every iteration, so the bound
// only trips if a loop body is wedged.
const joinTimeout = 5 * time.Second

// ThreadError reports a worker lifecycle failure for one channel.
type ThreadError struct {
	Channel timing.Channel
	Op      string
	Err     error
}

func (e *ThreadError) Error() string {
	return fmt.Sprintf("worker %s: %s: %v", e.Channel, e.Op, e.Err)
}

func (e *ThreadError) Unwrap() error { return e.Err }

// LoopFunc is a worker's loop body. It must return once the worker's
// signal reads Stopped.
type LoopFunc func(w *Worker)

type entry struct {
	worker *Worker
	done   chan struct{}
}

// Registry owns the workers and their goroutines, keyed by channel.
// At most one live loop exists per channel. The registry is guarded by
// a single coarse lock, held across joins; lifecycle calls are
// expected to come from the orchestrating goroutine.
type Registry struct {
	mu      sync.Mutex
	entries map[timing.Channel]*entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[timing.Channel]*entry)}
}

// Register inserts a worker for its channel, replacing any prior
// entry. A previously running loop for that channel is stopped first.
func (r *Registry) Register(w *Worker) error {
	ch := w.Config().Channel
	if err := r.Stop(ch); err != nil {
		return err
	}

	r.mu.Lock()
	r.entries[ch] = &entry{worker: w}
	r.mu.Unlock()
	return nil
}

// Get returns the worker registered for the channel.
func (r *Registry) Get(ch timing.Channel) (*Worker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[ch]
	if !ok {
		return nil, false
	}
	return e.worker, true
}

// Start runs loopFn for the channel's worker on a fresh goroutine.
// Any previous loop for the channel is stopped and joined first, so
// two loops never observe Running for the same channel at once.
func (r *Registry) Start(ch timing.Channel, loopFn LoopFunc) error {
	r.mu.Lock()
	e, ok := r.entries[ch]
	if ok && e.done != nil {
		if err := r.stopLocked(ch); err != nil {
			r.mu.Unlock()
			return err
		}
		e = r.entries[ch]
	}
	if !ok || e == nil {
		r.mu.Unlock()
		return &ThreadError{Channel: ch, Op: "start", Err: fmt.Errorf("no worker registered")}
	}

	done := make(chan struct{})
	e.done = done
	w := e.worker
	r.mu.Unlock()

	go func() {
		defer close(done)
		log.Printf("worker: %s loop started", w.Config().Name)
		loopFn(w)
		log.Printf("worker: %s loop exited", w.Config().Name)
	}()

	return nil
}

// Stop signals stop on the channel's worker and waits for its loop to
// exit. Stopping an unregistered or not-started channel is a no-op.
func (r *Registry) Stop(ch timing.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopLocked(ch)
}

func (r *Registry) stopLocked(ch timing.Channel) error {
	e, ok := r.entries[ch]
	if !ok {
		return nil
	}

	// Stop before joining: the signal wakes any bounded wait inside
	// the loop, so the join cannot deadlock against it.
	e.worker.Signal().Stop()

	if e.done == nil {
		return nil
	}
	done := e.done
	e.done = nil

	select {
	case <-done:
		return nil
	case <-time.After(joinTimeout):
		return &ThreadError{Channel: ch, Op: "join", Err: fmt.Errorf("loop did not exit within %v", joinTimeout)}
	}
}

// StopAll stops every registered channel. Call it on teardown so no
// detached loops remain. The first error is returned after all
// channels have been attempted.
func (r *Registry) StopAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for ch := range r.entries {
		if err := r.stopLocked(ch); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
