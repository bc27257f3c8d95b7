// Package precision implements a tiered hybrid spin/sleep primitive.
//
// A plain time.Sleep is scheduled at the OS timer granularity and can
// overshoot short durations by a full scheduler quantum. The click
// cadence needs sub-millisecond spacing, so short waits are realized
// by busy-spinning against a monotonic deadline and longer waits sleep
// most of the duration and spin only the tail.
package precision

import (
	"runtime"
	"time"
)

// Params holds the tier thresholds and spin batch sizes. The batch
// sizes bound how many spins happen between clock reads; they are
// CPU-speed sensitive and deliberately tunable per platform.
type Params struct {
	// SpinOnly: below this the deadline is checked on every spin.
	SpinOnly time.Duration
	// BatchedSpin: below this we spin but amortize clock reads.
	BatchedSpin time.Duration
	// ShortHybrid: below this, OS-sleep 20% then spin the remainder.
	ShortHybrid time.Duration
	// MediumHybrid: below this, OS-sleep 40% then spin the remainder.
	// Above it, OS-sleep 80% then spin, yielding while far out.
	MediumHybrid time.Duration

	// SpinBatch is how many spin iterations run between clock reads
	// in the batched tiers.
	SpinBatch int
	// YieldMargin is the remaining time above which the long tier
	// yields the scheduler between spin batches.
	YieldMargin time.Duration
}

// DefaultParams are tuned for commodity desktop CPUs.
var DefaultParams = Params{
	SpinOnly:     time.Microsecond,
	BatchedSpin:  20 * time.Microsecond,
	ShortHybrid:  100 * time.Microsecond,
	MediumHybrid: 500 * time.Microsecond,
	SpinBatch:    32,
	YieldMargin:  50 * time.Microsecond,
}

// Sleep blocks for at least d using the default parameters.
func Sleep(d time.Duration) {
	DefaultParams.Sleep(d)
}

// Sleep blocks for at least d. It never returns before the monotonic
// deadline; overshoot is bounded by one spin batch plus clock-read
// latency. Zero or negative durations return immediately.
func (p Params) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}

	deadline := time.Now().Add(d)

	switch {
	case d < p.SpinOnly:
		spinUntil(deadline)

	case d < p.BatchedSpin:
		p.batchedSpinUntil(deadline)

	case d < p.ShortHybrid:
		time.Sleep(d / 5)
		p.batchedSpinUntil(deadline)

	case d < p.MediumHybrid:
		time.Sleep(d * 2 / 5)
		p.batchedSpinUntil(deadline)

	default:
		time.Sleep(d * 4 / 5)
		p.yieldingSpinUntil(deadline)
	}
}

// spinUntil burns the CPU to the deadline, reading the clock every
// iteration. Only sensible for sub-microsecond tails.
func spinUntil(deadline time.Time) {
	for time.Now().Before(deadline) {
	}
}

// batchedSpinUntil spins but re-checks the clock only every SpinBatch
// iterations, amortizing the read cost.
func (p Params) batchedSpinUntil(deadline time.Time) {
	for {
		for i := 0; i < p.SpinBatch; i++ {
			cpuRelax()
		}
		if !time.Now().Before(deadline) {
			return
		}
	}
}

// yieldingSpinUntil hands the remainder of the quantum back to the
// scheduler while the deadline is comfortably far, then tightens into
// a batched spin for the tail.
func (p Params) yieldingSpinUntil(deadline time.Time) {
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		if remaining > p.YieldMargin {
			runtime.Gosched()
			continue
		}
		p.batchedSpinUntil(deadline)
		return
	}
}

// cpuRelax is a single spin iteration. Go has no portable PAUSE
// intrinsic; an empty call the compiler cannot elide entirely keeps
// the loop from collapsing while staying cheap.
//
//go:noinline
func cpuRelax() {
}
