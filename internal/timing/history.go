package timing

import (
	"math"
	"time"
)

// historyCapacity must stay a power of two so the ring index can be
// masked instead of taken modulo.
const (
	historyCapacity = 128
	historyMask     = historyCapacity - 1
)

// History is a fixed-capacity ring of inter-click deltas, stored in
// microseconds relative to a fixed epoch, with running summary
// statistics. The oldest entries are overwritten, never deleted.
type History struct {
	deltas [historyCapacity]uint32
	head   int
	count  int

	epoch       time.Time
	lastAbs     uint64
	totalClicks uint64

	sumDeltas  uint64
	sumSquared uint64
	minDelta   uint32
	maxDelta   uint32
}

// NewHistory returns an empty history anchored at the current time.
func NewHistory() *History {
	return &History{
		epoch:    time.Now(),
		minDelta: math.MaxUint32,
	}
}

// ElapsedMicros converts an absolute time to the ring's epoch-relative
// microsecond scale.
func (h *History) ElapsedMicros(now time.Time) uint64 {
	d := now.Sub(h.epoch)
	if d < 0 {
		return 0
	}
	return uint64(d.Microseconds())
}

// Push records a click at the given time.
func (h *History) Push(now time.Time) {
	abs := h.ElapsedMicros(now)

	var delta uint32
	if h.totalClicks > 0 {
		d := abs - min(abs, h.lastAbs)
		if d > math.MaxUint32 {
			d = math.MaxUint32
		}
		delta = uint32(d)
	}

	h.deltas[h.head] = delta
	h.head = (h.head + 1) & historyMask
	if h.count < historyCapacity {
		h.count++
	}
	h.totalClicks++

	if delta > 0 {
		h.sumDeltas += uint64(delta)
		h.sumSquared += uint64(delta) * uint64(delta)
		h.minDelta = min(h.minDelta, delta)
		h.maxDelta = max(h.maxDelta, delta)
	}

	h.lastAbs = abs
}

// Len returns how many entries the ring currently holds.
func (h *History) Len() int {
	return h.count
}

// TotalCount returns the number of clicks recorded since creation,
// including entries the ring has since overwritten.
func (h *History) TotalCount() uint64 {
	return h.totalClicks
}

// LastMicros returns the epoch-relative time of the most recent click.
func (h *History) LastMicros() (uint64, bool) {
	if h.count == 0 {
		return 0, false
	}
	return h.lastAbs, true
}

// NthFromEnd reconstructs the epoch-relative time of the n-th most
// recent click (n=0 is the latest) by walking the delta ring backward.
func (h *History) NthFromEnd(n int) (uint64, bool) {
	if n < 0 || n >= h.count {
		return 0, false
	}

	abs := h.lastAbs
	for i := 1; i <= n; i++ {
		idx := (h.head - i + historyCapacity) & historyMask
		d := uint64(h.deltas[idx])
		abs -= min(abs, d)
	}
	return abs, true
}

// Clear empties the ring and resets the summary statistics. The epoch
// and total click count are preserved.
func (h *History) Clear() {
	h.count = 0
	h.head = 0
	h.sumDeltas = 0
	h.sumSquared = 0
	h.minDelta = math.MaxUint32
	h.maxDelta = 0
}

// MeanDeltaMicros returns the mean inter-click delta over the held
// entries, or 0 with fewer than two clicks.
func (h *History) MeanDeltaMicros() float64 {
	if h.count <= 1 || h.sumDeltas == 0 {
		return 0
	}
	return float64(h.sumDeltas) / float64(h.count-1)
}

// StddevDeltaMicros returns the standard deviation of the inter-click
// deltas, or 0 with fewer than three clicks.
func (h *History) StddevDeltaMicros() float64 {
	if h.count <= 2 {
		return 0
	}
	n := float64(h.count - 1)
	mean := h.MeanDeltaMicros()
	variance := float64(h.sumSquared)/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
