// Package app wires the timing engines, workers, gating monitor, and
// platform backend into one runnable clicker session.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"rapidclick/internal/click"
	"rapidclick/internal/input"
	"rapidclick/internal/platform"
	"rapidclick/internal/rng"
	"rapidclick/internal/timing"
	"rapidclick/internal/window"
	"rapidclick/internal/worker"
)

// Options configures a session.
type Options struct {
	ProfileName   string
	Mode          click.GateMode
	TargetProcess string
	LeftRate      uint8
	RightRate     uint8
	ToggleKey     int

	// RunFor bounds a headless run; zero means run until interrupted.
	RunFor time.Duration
	// StatusEvery is the headless status log cadence; zero disables it.
	StatusEvery time.Duration
}

// ChannelStatus is one channel's slice of a Snapshot.
type ChannelStatus struct {
	Channel    timing.Channel
	State      worker.State
	Active     bool
	Clicks     uint64
	TargetRate uint8
}

// Status is a point-in-time view of the session for display.
type Status struct {
	Profile     string
	Mode        click.GateMode
	Running     bool
	WindowFound bool
	Uptime      time.Duration
	Channels    [2]ChannelStatus
}

var channels = [2]timing.Channel{timing.Left, timing.Right}

// App owns a session's workers and background loops.
type App struct {
	opts    Options
	profile *timing.Profile
	backend *platform.Backend

	registry *worker.Registry
	patterns map[timing.Channel]*timing.Pattern
	tracker  *window.Tracker

	mu      sync.Mutex
	running bool
	started time.Time
	done    chan struct{}
	timer   *time.Timer
	watcher *window.Watcher
	monitor *input.Monitor
}

// New resolves the profile and registers both channel workers. The
// session is not started.
func New(opts Options, backend *platform.Backend) (*App, error) {
	profile, err := timing.ByName(opts.ProfileName)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	patterns := map[timing.Channel]*timing.Pattern{
		timing.Left:  timing.NewPattern(opts.LeftRate),
		timing.Right: timing.NewPattern(opts.RightRate),
	}

	registry := worker.NewRegistry()
	if err := registry.Register(worker.New(worker.LeftClick(patterns[timing.Left]))); err != nil {
		return nil, err
	}
	if err := registry.Register(worker.New(worker.RightClick(patterns[timing.Right]))); err != nil {
		return nil, err
	}

	return &App{
		opts:     opts,
		profile:  profile,
		backend:  backend,
		registry: registry,
		patterns: patterns,
		tracker:  window.NewTracker(),
	}, nil
}

// Registry exposes the worker registry for gating surfaces.
func (a *App) Registry() *worker.Registry { return a.registry }

// Start launches both channel loops, the window watcher, and the input
// monitor. Starting a running session is an error.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return errors.New("app: session already running")
	}

	for _, ch := range channels {
		w, ok := a.registry.Get(ch)
		if !ok {
			return fmt.Errorf("app: no worker for channel %s", ch)
		}

		// Loops exit as soon as they observe Stopped, so the signal
		// must leave Stopped before the goroutine spawns. The monitor
		// moves it to Running once the gate opens.
		w.Signal().Pause()

		engine := timing.NewEngine(a.patterns[ch], ch, a.profile, rng.FromEntropy())
		ctrl := click.NewController(a.opts.Mode, a.backend.Executor, a.tracker.Get, a.backend.Pressed)
		if err := a.registry.Start(ch, func(w *worker.Worker) { ctrl.Run(w, engine) }); err != nil {
			a.registry.StopAll()
			return err
		}
	}

	a.watcher = window.NewWatcher(a.backend.Finder, a.tracker)
	a.monitor = input.NewMonitor(a.opts.Mode, a.backend.Keys, a.opts.ToggleKey, a.registry)
	a.monitor.Start()

	a.running = true
	a.started = time.Now()
	a.done = make(chan struct{})

	if a.opts.RunFor > 0 {
		a.timer = time.AfterFunc(a.opts.RunFor, func() {
			_ = a.Stop()
		})
		log.Printf("app: session started profile=%s mode=%s target=%q (timed=%s)", a.profile.Name, a.opts.Mode, a.opts.TargetProcess, a.opts.RunFor)
		return nil
	}

	log.Printf("app: session started profile=%s mode=%s target=%q", a.profile.Name, a.opts.Mode, a.opts.TargetProcess)
	return nil
}

// Done returns a channel closed when the current session stops, by
// Stop, a run-duration expiry, or a lifecycle failure. Valid after a
// successful Start.
func (a *App) Done() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done
}

// Stop tears the session down: gating first so nothing re-arms a
// worker mid-join, then the watcher, then the worker loops. Stopping a
// stopped session is a no-op.
func (a *App) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return nil
	}

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}

	a.monitor.Stop()
	a.watcher.Stop()
	a.running = false
	close(a.done)

	err := a.registry.StopAll()
	if err != nil {
		log.Printf("app: session stopped with error: %v", err)
		return err
	}
	log.Printf("app: session stopped")
	return nil
}

// Run drives a complete headless session: start, report status until
// the context is canceled or the session stops on its own, stop.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return a.reportStatus(gctx)
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-a.Done():
		}
		cancel()
		return a.Stop()
	})
	return g.Wait()
}

// reportStatus logs per-channel click throughput until ctx is done.
func (a *App) reportStatus(ctx context.Context) error {
	if a.opts.StatusEvery <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(a.opts.StatusEvery)
	defer ticker.Stop()

	var prev [2]uint64
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		st := a.Snapshot()
		elapsed := time.Since(last)
		last = time.Now()

		for i, cs := range st.Channels {
			measured := float64(cs.Clicks-prev[i]) / elapsed.Seconds()
			prev[i] = cs.Clicks
			log.Printf("app: %s %s clicks=%d cps=%.1f window=%v",
				cs.Channel, cs.State, cs.Clicks, measured, st.WindowFound)
		}
	}
}

// Snapshot returns the current session state for display.
func (a *App) Snapshot() Status {
	a.mu.Lock()
	running, started := a.running, a.started
	a.mu.Unlock()

	st := Status{
		Profile:     a.profile.Name,
		Mode:        a.opts.Mode,
		Running:     running,
		WindowFound: a.tracker.Get().Valid(),
	}
	if running {
		st.Uptime = time.Since(started)
	}

	for i, ch := range channels {
		cs := ChannelStatus{Channel: ch, TargetRate: a.patterns[ch].TargetRate()}
		if w, ok := a.registry.Get(ch); ok {
			cs.State = w.Signal().State()
			cs.Active = w.IsActive()
			cs.Clicks = w.Clicks()
		}
		st.Channels[i] = cs
	}
	return st
}

// SetRate retargets one channel's click rate. Live loops pick the new
// rate up on their next delay computation.
func (a *App) SetRate(ch timing.Channel, rate uint8) {
	if p, ok := a.patterns[ch]; ok {
		p.SetTargetRate(rate)
	}
}

// Arm arms or disarms both channels, mirroring what a hotkey press
// does. Used by display surfaces on platforms without key polling.
func (a *App) Arm(enabled bool) {
	for _, ch := range channels {
		w, ok := a.registry.Get(ch)
		if !ok {
			continue
		}
		w.SetActive(enabled)
		if w.Signal().IsStopped() {
			continue
		}
		if enabled {
			w.Signal().Start()
		} else {
			w.Signal().Pause()
		}
	}
}

// Armed reports whether any channel is currently armed.
func (a *App) Armed() bool {
	for _, ch := range channels {
		if w, ok := a.registry.Get(ch); ok && w.IsActive() {
			return true
		}
	}
	return false
}
