package timing

import (
	"time"

	"rapidclick/internal/rng"
)

const microsPerSecond = 1_000_000

// Engine produces the next inter-click delay and hold duration for one
// channel. It is exclusively owned by the channel's worker goroutine
// and therefore needs no locking; the only field touched from outside
// is the Pattern's atomic target rate.
type Engine struct {
	pattern *Pattern
	channel Channel
	profile *Profile
	rand    *rng.Rand
	history *History

	wasPressed   bool
	comboCounter uint8
	penaltyUntil time.Time

	// now is the engine's clock; swapped in tests.
	now func() time.Time
}

// NewEngine returns an engine for one channel of the given profile.
func NewEngine(pattern *Pattern, ch Channel, profile *Profile, r *rng.Rand) *Engine {
	return &Engine{
		pattern: pattern,
		channel: ch,
		profile: profile,
		rand:    r,
		history: NewHistory(),
		now:     time.Now,
	}
}

// History exposes the engine's click history for summary statistics.
func (e *Engine) History() *History {
	return e.history
}

func (e *Engine) timing() ChannelTiming {
	return e.profile.Timing(e.channel)
}

// baseRateDelay is the nominal per-click period for a rate, with a
// one-second sentinel for a zero rate.
func baseRateDelay(rate uint8) uint64 {
	if rate == 0 {
		return microsPerSecond
	}
	return microsPerSecond / uint64(rate)
}

// addSigned adds a signed jitter to an unsigned base, saturating at 0.
func addSigned(base uint64, delta int64) uint64 {
	if delta >= 0 {
		return base + uint64(delta)
	}
	neg := uint64(-delta)
	if neg >= base {
		return 0
	}
	return base - neg
}

// sampleDownTime draws the button-down time for this click.
func (e *Engine) sampleDownTime(ct ChannelTiming) uint64 {
	jitter := e.rand.Int64Range(-ct.HoldJitterMicros, ct.HoldJitterMicros)
	return addSigned(ct.HoldBaseMicros, jitter)
}

// minDelay is the smallest legal gap after a click that held the
// button for downTime: the rate policy's floor period minus the time
// already spent holding.
func (e *Engine) minDelay(ct ChannelTiming, downTime uint64) uint64 {
	lim := ct.Limits
	target := e.pattern.TargetRate()

	if target >= lim.HardCap {
		d := baseRateDelay(lim.HardCap)
		return d - min(d, downTime)
	}

	floored := max(target, lim.Min)
	d := baseRateDelay(floored)
	return d - min(d, downTime)
}

// firstHitDelay computes the boosted delay for the first click of a
// press. The boost only applies strictly inside the policy's rate
// band, and there it is floored by the hard-cap period alone so the
// first click genuinely lands faster than the steady cadence; at the
// band edges the nominal delay already sits on a limit.
func (e *Engine) firstHitDelay(ct ChannelTiming) time.Duration {
	lim := ct.Limits
	target := e.pattern.TargetRate()

	base := baseRateDelay(target)
	hardDelay := baseRateDelay(lim.HardCap)
	hardDelay -= min(hardDelay, ct.HoldBaseMicros)

	if target > lim.Min && target < lim.HardCap {
		boosted := base * uint64(100-ct.FirstHitBoostPct) / 100
		return time.Duration(max(boosted, hardDelay)) * time.Microsecond
	}

	final := max(base, e.minDelay(ct, ct.HoldBaseMicros), hardDelay)
	return time.Duration(final) * time.Microsecond
}

// applyComboPause adds the periodic combo pause when the counter just
// wrapped to the start of a combo cycle.
func (e *Engine) applyComboPause(ct ChannelTiming, delay uint64) uint64 {
	if !ct.ComboEnabled || e.comboCounter != 0 {
		return delay
	}
	pause := e.rand.Uint64Range(ct.ComboPauseMinMicros, ct.ComboPauseMaxMicros)
	return delay + pause
}

// checkPenalty reports the remaining post-release penalty, clearing it
// once expired.
func (e *Engine) checkPenalty() (time.Duration, bool) {
	if e.penaltyUntil.IsZero() {
		return 0, false
	}
	now := e.now()
	if now.Before(e.penaltyUntil) {
		return e.penaltyUntil.Sub(now), true
	}
	e.penaltyUntil = time.Time{}
	return 0, false
}

// enforceRateLimit stretches the delay so the effective rate holds:
// consecutive clicks stay at least one nominal period apart, and once
// the ring holds a full cap's worth of clicks inside the sliding
// one-second window, the next click waits for the window to drain.
func (e *Engine) enforceRateLimit(ct ChannelTiming, delay uint64) uint64 {
	lim := ct.Limits
	effective := e.pattern.TargetRate()
	if effective >= lim.HardCap {
		effective = lim.HardCap
	}

	nowMicros := e.history.ElapsedMicros(e.now())
	targetPeriod := baseRateDelay(effective)

	if last, ok := e.history.LastMicros(); ok {
		elapsed := nowMicros - min(nowMicros, last)
		if elapsed < targetPeriod {
			delay = max(delay, targetPeriod-elapsed)
		}
	}

	if effective > 0 && e.history.Len() >= int(effective) {
		if oldest, ok := e.history.NthFromEnd(int(effective) - 1); ok {
			window := nowMicros - min(nowMicros, oldest)
			if window < microsPerSecond {
				delay = max(delay, microsPerSecond-window)
			}
		}
	}

	return delay
}

// NextDelay returns how long to wait before the next click.
func (e *Engine) NextDelay() time.Duration {
	if remaining, armed := e.checkPenalty(); armed {
		e.comboCounter = 0
		return remaining
	}

	ct := e.timing()

	if !e.wasPressed {
		e.wasPressed = true
		e.comboCounter = 0
		return e.firstHitDelay(ct)
	}

	if ct.ComboEnabled && ct.ComboInterval > 0 {
		e.comboCounter = (e.comboCounter + 1) % ct.ComboInterval
	}

	base := baseRateDelay(e.pattern.TargetRate())
	downTime := e.sampleDownTime(ct)

	adjusted := base - min(base, downTime)
	adjusted = e.applyComboPause(ct, adjusted)

	if floor := e.minDelay(ct, downTime); adjusted < floor {
		adjusted = floor
	}

	adjusted = e.enforceRateLimit(ct, adjusted)

	return time.Duration(adjusted) * time.Microsecond
}

// HoldDuration returns how long to hold the button down for the next
// click. It is resampled independently of the down time drawn inside
// NextDelay; the drift between the two stays inside the jitter range.
func (e *Engine) HoldDuration() time.Duration {
	ct := e.timing()
	return time.Duration(e.sampleDownTime(ct)) * time.Microsecond
}

// RecordClick appends the current time to the click history. Call it
// after each successfully executed click.
func (e *Engine) RecordClick() {
	e.history.Push(e.now())
}

// ResetOnRelease clears press state after a physical release edge and
// arms the profile's release penalty if it has one.
func (e *Engine) ResetOnRelease() {
	e.wasPressed = false
	e.comboCounter = 0
	e.history.Clear()

	if p := e.profile.ReleasePenalty; p > 0 {
		e.penaltyUntil = e.now().Add(p)
	}
}
