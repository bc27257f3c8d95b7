// Package input polls hotkey state and gates the click workers.
package input

import (
	"log"
	"time"

	"rapidclick/internal/click"
	"rapidclick/internal/timing"
	"rapidclick/internal/worker"
)

// KeyState reports whether a key or button, identified by a platform
// key code, is physically held.
type KeyState interface {
	Pressed(code int) bool
}

// pollInterval is the hotkey sampling cadence. 10ms keeps worst-case
// toggle latency well under human perception.
const pollInterval = 10 * time.Millisecond

// Monitor owns the gating of workers: it polls the toggle key and
// flips the workers' active flags and run/pause signals. It never
// touches worker internals beyond those two surfaces.
type Monitor struct {
	mode      click.GateMode
	keys      KeyState
	toggleKey int
	registry  *worker.Registry

	stop chan struct{}
	done chan struct{}
}

// NewMonitor returns an unstarted monitor. keys may be nil on
// platforms without key polling; the monitor then arms the workers
// unconditionally at start.
func NewMonitor(mode click.GateMode, keys KeyState, toggleKey int, registry *worker.Registry) *Monitor {
	return &Monitor{
		mode:      mode,
		keys:      keys,
		toggleKey: toggleKey,
		registry:  registry,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the polling loop.
func (m *Monitor) Start() {
	go m.loop()
}

// Stop terminates the polling loop and waits for it to exit. The
// workers are left paused and disarmed.
func (m *Monitor) Stop() {
	select {
	case <-m.stop:
	default:
		close(m.stop)
	}
	<-m.done
}

func (m *Monitor) loop() {
	defer close(m.done)
	defer m.apply(false)

	// MouseHold gates on the physical button inside the click loop;
	// without key polling or a configured hotkey there is nothing to
	// poll. All three cases arm the workers up front.
	if m.mode == click.MouseHold || m.keys == nil || m.toggleKey == 0 {
		switch {
		case m.mode == click.MouseHold:
		case m.keys == nil:
			log.Printf("input: key polling unavailable, arming workers unconditionally")
		default:
			log.Printf("input: no toggle key configured, arming workers unconditionally")
		}
		m.apply(true)
		<-m.stop
		return
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	enabled := false
	lastHeld := false

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
		}

		held := m.keys.Pressed(m.toggleKey)

		switch m.mode {
		case click.HotkeyToggle:
			// Rising edge flips the armed state.
			if held && !lastHeld {
				enabled = !enabled
				m.apply(enabled)
				log.Printf("input: toggled %s", onOff(enabled))
			}
		case click.HotkeyHold:
			if held != enabled {
				enabled = held
				m.apply(enabled)
			}
		}

		lastHeld = held
	}
}

// apply arms or disarms every registered channel.
func (m *Monitor) apply(enabled bool) {
	for _, ch := range []timing.Channel{timing.Left, timing.Right} {
		w, ok := m.registry.Get(ch)
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

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
