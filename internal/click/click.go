// Package click ties a worker, a delay engine, a target-window handle
// provider, and a click executor together into the per-channel
// automation loop.
package click

import (
	"fmt"

	"time"

	"rapidclick/internal/timing"
)

// Handle is a platform window handle. The zero value is invalid.
type Handle uintptr

// Valid reports whether the handle refers to a window.
func (h Handle) Valid() bool { return h != 0 }

// HandleProvider returns the current target window handle, or an
// invalid handle while discovery has not (re)found the target.
type HandleProvider func() Handle

// PressedFunc reports whether the physical button backing a channel is
// currently held. Used by the MouseHold gating mode.
type PressedFunc func(ch timing.Channel) bool

// Executor performs one synthetic click: button down, hold, button up.
// Failures are transient; the loop retries after a backoff.
type Executor interface {
	Click(h Handle, ch timing.Channel, hold time.Duration) error
}

// GateMode selects how a live worker decides whether to fire.
type GateMode int

const (
	// HotkeyToggle arms on one hotkey press and disarms on the next.
	HotkeyToggle GateMode = iota
	// HotkeyHold arms only while the configured hotkey is held.
	HotkeyHold
	// MouseHold clicks while the channel's physical button is held,
	// resetting the engine on each release edge.
	MouseHold
)

func (m GateMode) String() string {
	switch m {
	case HotkeyToggle:
		return "hotkey-toggle"
	case HotkeyHold:
		return "hotkey-hold"
	case MouseHold:
		return "mouse-hold"
	default:
		return fmt.Sprintf("gatemode(%d)", int(m))
	}
}

// ParseGateMode maps a config string to a GateMode.
func ParseGateMode(s string) (GateMode, error) {
	switch s {
	case "toggle", "hotkey-toggle":
		return HotkeyToggle, nil
	case "hold", "hotkey-hold":
		return HotkeyHold, nil
	case "mouse", "mouse-hold":
		return MouseHold, nil
	default:
		return 0, fmt.Errorf("unknown gate mode %q", s)
	}
}
