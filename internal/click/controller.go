package click

import (
	"runtime"
	"time"

	"rapidclick/internal/precision"
	"rapidclick/internal/timing"
	"rapidclick/internal/worker"
)

const (
	// runningWaitTimeout bounds each idle wait so stop and pause are
	// observed within one iteration.
	runningWaitTimeout = 100 * time.Millisecond
	// transientBackoff is the retry delay after an invalid handle or
	// failed click. These are never fatal.
	transientBackoff = 20 * time.Millisecond
)

// Controller runs one channel's click loop. The same controller can be
// reused across worker restarts; all per-press state lives in the
// engine.
type Controller struct {
	mode     GateMode
	executor Executor
	handles  HandleProvider
	pressed  PressedFunc
}

// NewController wires a controller for the given gating mode. pressed
// may be nil unless mode is MouseHold.
func NewController(mode GateMode, executor Executor, handles HandleProvider, pressed PressedFunc) *Controller {
	return &Controller{mode: mode, executor: executor, handles: handles, pressed: pressed}
}

// Run executes the click loop on the calling goroutine until the
// worker's signal reads Stopped. It is the LoopFunc handed to the
// worker registry.
func (c *Controller) Run(w *worker.Worker, engine *timing.Engine) {
	lastPressed := false

	for {
		if w.Signal().IsStopped() {
			return
		}

		if !w.Signal().WaitForRunning(runningWaitTimeout) {
			runtime.Gosched()
			continue
		}

		if !c.shouldFire(w, engine, &lastPressed) {
			runtime.Gosched()
			continue
		}

		c.clickCycle(w, engine)
	}
}

// shouldFire evaluates the gating predicate for this tick. It depends
// only on external input state and the worker's active flag.
func (c *Controller) shouldFire(w *worker.Worker, engine *timing.Engine, lastPressed *bool) bool {
	switch c.mode {
	case HotkeyHold, HotkeyToggle:
		return w.IsActive()
	case MouseHold:
		return c.mouseHoldGate(w, engine, lastPressed)
	default:
		return false
	}
}

// mouseHoldGate fires while the channel's physical button is held.
// The pressed state is sampled exactly once per tick; a falling edge
// resets the engine once and the tick does not fire.
func (c *Controller) mouseHoldGate(w *worker.Worker, engine *timing.Engine, lastPressed *bool) bool {
	if !w.IsActive() {
		*lastPressed = false
		return false
	}

	isPressed := c.pressed != nil && c.pressed(w.Config().Channel)

	if *lastPressed && !isPressed {
		engine.ResetOnRelease()
		*lastPressed = false
		return false
	}

	*lastPressed = isPressed
	return isPressed
}

// clickCycle performs one delay-click-record round. Invalid handles
// and failed sends back off briefly and leave the loop running.
func (c *Controller) clickCycle(w *worker.Worker, engine *timing.Engine) {
	handle := c.handles()
	if !handle.Valid() {
		precision.Sleep(transientBackoff)
		return
	}

	precision.Sleep(engine.NextDelay())

	hold := engine.HoldDuration()
	if err := c.executor.Click(handle, w.Config().Channel, hold); err != nil {
		precision.Sleep(transientBackoff)
		return
	}

	engine.RecordClick()
	w.AddClick()
}
