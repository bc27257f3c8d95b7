package worker

import (
	"testing"
	"time"
)

func TestSignalCreatedStopped(t *testing.T) {
	s := NewSignal()
	if !s.IsStopped() {
		t.Fatalf("new signal state = %v, want stopped", s.State())
	}
	if s.IsRunning() {
		t.Fatal("new signal reports running")
	}
}

func TestSignalTransitions(t *testing.T) {
	tests := []struct {
		name string
		op   func(*Signal)
		want State
	}{
		{name: "start", op: (*Signal).Start, want: Running},
		{name: "pause", op: (*Signal).Pause, want: Paused},
		{name: "stop", op: (*Signal).Stop, want: Stopped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSignal()
			// Transitions are legal from any state.
			for _, from := range []func(*Signal){(*Signal).Start, (*Signal).Pause, (*Signal).Stop} {
				from(s)
				tt.op(s)
				if got := s.State(); got != tt.want {
					t.Fatalf("state after %s = %v, want %v", tt.name, got, tt.want)
				}
			}
		})
	}
}

func TestWaitForRunningImmediate(t *testing.T) {
	s := NewSignal()
	s.Start()

	start := time.Now()
	if !s.WaitForRunning(time.Second) {
		t.Fatal("WaitForRunning returned false while running")
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("immediate wait took %v", elapsed)
	}
}

func TestWaitForRunningTimesOut(t *testing.T) {
	s := NewSignal()

	start := time.Now()
	if s.WaitForRunning(30 * time.Millisecond) {
		t.Fatal("WaitForRunning returned true while stopped")
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("wait returned after %v, before the timeout", elapsed)
	}
}

func TestWaitForRunningWokenByStart(t *testing.T) {
	s := NewSignal()

	go func() {
		time.Sleep(20 * time.Millisecond)
		s.Start()
	}()

	if !s.WaitForRunning(2 * time.Second) {
		t.Fatal("WaitForRunning not woken by Start")
	}
}

func TestWaitForRunningWokenByStopReturnsFalse(t *testing.T) {
	s := NewSignal()
	s.Pause()

	go func() {
		time.Sleep(20 * time.Millisecond)
		s.Stop()
	}()

	if s.WaitForRunning(2 * time.Second) {
		t.Fatal("WaitForRunning returned true on a stop transition")
	}
}

func TestSignalWakesAllWaiters(t *testing.T) {
	s := NewSignal()
	const waiters = 8

	results := make(chan bool, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			results <- s.WaitForRunning(2 * time.Second)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	s.Start()

	for i := 0; i < waiters; i++ {
		select {
		case ok := <-results:
			if !ok {
				t.Error("a waiter observed a non-running state after Start")
			}
		case <-time.After(3 * time.Second):
			t.Fatal("a waiter was never woken")
		}
	}
}
