package worker

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"rapidclick/internal/timing"
)

// spinLoop is a minimal conforming loop body: it exits once the signal
// reads Stopped and otherwise waits politely.
func spinLoop(w *Worker) {
	for !w.Signal().IsStopped() {
		w.Signal().WaitForRunning(5 * time.Millisecond)
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	w := New(LeftClick(timing.NewPattern(14)))

	if err := r.Register(w); err != nil {
		t.Fatal(err)
	}

	got, ok := r.Get(timing.Left)
	if !ok || got != w {
		t.Fatalf("Get(Left) = %v, %v; want the registered worker", got, ok)
	}
	if _, ok := r.Get(timing.Right); ok {
		t.Fatal("Get(Right) found a worker that was never registered")
	}
}

func TestRegistryStartUnregistered(t *testing.T) {
	r := NewRegistry()
	err := r.Start(timing.Left, spinLoop)

	var te *ThreadError
	if !errors.As(err, &te) {
		t.Fatalf("Start on empty registry = %v, want ThreadError", err)
	}
	if te.Channel != timing.Left {
		t.Errorf("ThreadError.Channel = %v, want Left", te.Channel)
	}
}

func TestRegistryStopJoins(t *testing.T) {
	r := NewRegistry()
	w := New(LeftClick(timing.NewPattern(14)))
	if err := r.Register(w); err != nil {
		t.Fatal(err)
	}

	exited := make(chan struct{})
	if err := r.Start(timing.Left, func(w *Worker) {
		defer close(exited)
		spinLoop(w)
	}); err != nil {
		t.Fatal(err)
	}

	w.Signal().Start()
	if err := r.Stop(timing.Left); err != nil {
		t.Fatal(err)
	}

	select {
	case <-exited:
	default:
		t.Fatal("Stop returned before the loop exited")
	}
	if !w.Signal().IsStopped() {
		t.Fatal("worker signal not stopped after Stop")
	}
}

func TestRegistryRestartNeverOverlaps(t *testing.T) {
	r := NewRegistry()
	w := New(LeftClick(timing.NewPattern(14)))
	if err := r.Register(w); err != nil {
		t.Fatal(err)
	}

	var live atomic.Int32
	loop := func(w *Worker) {
		if live.Add(1) > 1 {
			t.Error("two loops live for the same channel")
		}
		defer live.Add(-1)
		spinLoop(w)
	}

	for i := 0; i < 5; i++ {
		if err := r.Start(timing.Left, loop); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
		// Restarting resets the signal back to a runnable state for
		// the fresh loop.
		w.Signal().Start()
	}

	if err := r.StopAll(); err != nil {
		t.Fatal(err)
	}
	if n := live.Load(); n != 0 {
		t.Fatalf("%d loops still live after StopAll", n)
	}
}

func TestRegistryStopAll(t *testing.T) {
	r := NewRegistry()
	left := New(LeftClick(timing.NewPattern(14)))
	right := New(RightClick(timing.NewPattern(18)))

	for _, w := range []*Worker{left, right} {
		if err := r.Register(w); err != nil {
			t.Fatal(err)
		}
		if err := r.Start(w.Config().Channel, spinLoop); err != nil {
			t.Fatal(err)
		}
		w.Signal().Start()
	}

	if err := r.StopAll(); err != nil {
		t.Fatal(err)
	}
	if !left.Signal().IsStopped() || !right.Signal().IsStopped() {
		t.Fatal("a worker signal survived StopAll")
	}
}

func TestRegistryStopIdempotent(t *testing.T) {
	r := NewRegistry()
	w := New(RightClick(timing.NewPattern(18)))
	if err := r.Register(w); err != nil {
		t.Fatal(err)
	}

	// Never started, then stopped twice: both no-ops.
	if err := r.Stop(timing.Right); err != nil {
		t.Fatal(err)
	}
	if err := r.Stop(timing.Right); err != nil {
		t.Fatal(err)
	}
}

func TestWorkerActiveIndependentOfSignal(t *testing.T) {
	w := New(LeftClick(timing.NewPattern(14)))

	w.SetActive(true)
	if !w.IsActive() || !w.Signal().IsStopped() {
		t.Fatal("active flag should not touch the lifecycle signal")
	}

	w.Signal().Start()
	w.SetActive(false)
	if w.IsActive() || !w.Signal().IsRunning() {
		t.Fatal("signal should not touch the active flag")
	}
}
