// Package window tracks the target application's window handle and
// keeps it fresh in the background.
package window

import (
	"log"
	"sync/atomic"
	"time"

	"rapidclick/internal/click"
)

// Tracker publishes the most recently discovered handle. Readers call
// Get from the click loops; the watcher goroutine is the only writer.
type Tracker struct {
	handle atomic.Uintptr
}

// NewTracker returns a tracker holding an invalid handle.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Set publishes a discovered handle.
func (t *Tracker) Set(h click.Handle) {
	t.handle.Store(uintptr(h))
}

// Invalidate drops the published handle.
func (t *Tracker) Invalidate() {
	t.handle.Store(0)
}

// Get returns the current handle, which may be invalid.
func (t *Tracker) Get() click.Handle {
	return click.Handle(t.handle.Load())
}

// Finder locates the target window. Implementations are platform
// specific and may be slow; the watcher calls them off the hot path.
type Finder interface {
	FindWindow() (click.Handle, error)
}

const (
	// searchInterval is the polling cadence while the target is lost.
	searchInterval = time.Second
	// foundInterval is the re-validation cadence once it is found.
	foundInterval = 5 * time.Second
)

// Watcher periodically refreshes a Tracker from a Finder on its own
// goroutine.
type Watcher struct {
	finder  Finder
	tracker *Tracker

	stop chan struct{}
	done chan struct{}
}

// NewWatcher starts the background discovery loop.
func NewWatcher(finder Finder, tracker *Tracker) *Watcher {
	w := &Watcher{
		finder:  finder,
		tracker: tracker,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w
}

// Stop wakes any pending sleep and waits for the loop to exit.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
	<-w.done
}

func (w *Watcher) loop() {
	defer close(w.done)

	wasFound := false
	for {
		found := w.refresh()

		if found != wasFound {
			if found {
				log.Printf("window: target found")
			} else {
				log.Printf("window: target lost")
			}
			wasFound = found
		}

		interval := searchInterval
		if found {
			interval = foundInterval
		}

		select {
		case <-w.stop:
			return
		case <-time.After(interval):
		}
	}
}

// refresh runs one discovery pass and publishes the result.
func (w *Watcher) refresh() bool {
	h, err := w.finder.FindWindow()
	if err != nil || !h.Valid() {
		w.tracker.Invalidate()
		return false
	}
	w.tracker.Set(h)
	return true
}
