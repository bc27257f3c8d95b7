package worker

import (
	"sync/atomic"

	"rapidclick/internal/timing"
)

// Config describes one click worker.
type Config struct {
	Channel timing.Channel
	Pattern *timing.Pattern
	Name    string
}

// LeftClick returns the config for the primary-button worker.
func LeftClick(pattern *timing.Pattern) Config {
	return Config{Channel: timing.Left, Pattern: pattern, Name: "left-click-worker"}
}

// RightClick returns the config for the secondary-button worker.
func RightClick(pattern *timing.Pattern) Config {
	return Config{Channel: timing.Right, Pattern: pattern, Name: "right-click-worker"}
}

// Worker is one channel's click worker. The signal governs whether the
// worker's loop is live at all; the active flag governs, within a live
// loop, whether the gating logic considers the channel armed. Both are
// safe to touch from other goroutines.
type Worker struct {
	config Config
	signal *Signal
	active atomic.Bool
	clicks atomic.Uint64
}

// New returns a worker in the Stopped, inactive state.
func New(config Config) *Worker {
	return &Worker{config: config, signal: NewSignal()}
}

// Config returns the worker's configuration.
func (w *Worker) Config() Config { return w.config }

// Signal returns the worker's lifecycle signal.
func (w *Worker) Signal() *Signal { return w.signal }

// SetActive arms or disarms the channel.
func (w *Worker) SetActive(active bool) { w.active.Store(active) }

// IsActive reports whether the channel is armed.
func (w *Worker) IsActive() bool { return w.active.Load() }

// AddClick bumps the executed-click counter.
func (w *Worker) AddClick() { w.clicks.Add(1) }

// Clicks returns how many clicks this worker has executed.
func (w *Worker) Clicks() uint64 { return w.clicks.Load() }
