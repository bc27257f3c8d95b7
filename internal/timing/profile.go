// Package timing implements the click-scheduling core: named timing
// profiles, recent-click history, and the stateful delay engine that
// turns a target rate into humanized inter-click delays.
package timing

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// Channel identifies one of the two independent click streams.
type Channel int

const (
	// Left is the primary button channel.
	Left Channel = iota
	// Right is the secondary button channel.
	Right
)

func (c Channel) String() string {
	switch c {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Pattern is the user-desired steady-state click rate for a channel.
// The rate may be updated live from another goroutine; the engine
// re-reads it on every delay computation.
type Pattern struct {
	targetRate atomic.Uint32
}

// NewPattern returns a pattern with the given target rate in clicks
// per second.
func NewPattern(rate uint8) *Pattern {
	p := &Pattern{}
	p.targetRate.Store(uint32(rate))
	return p
}

// SetTargetRate updates the desired clicks per second.
func (p *Pattern) SetTargetRate(rate uint8) {
	p.targetRate.Store(uint32(rate))
}

// TargetRate returns the desired clicks per second.
func (p *Pattern) TargetRate() uint8 {
	return uint8(p.targetRate.Load())
}

// Limits is a profile's rate policy: the floor applied to slow
// targets, the nominal rate, and the hard cap enforcement kicks in at.
type Limits struct {
	Min     uint8
	Nominal uint8
	HardCap uint8
}

// ChannelTiming holds the per-channel timing constants of a profile.
// All durations are in microseconds.
type ChannelTiming struct {
	HoldBaseMicros   uint64
	HoldJitterMicros int64

	ComboEnabled        bool
	ComboInterval       uint8
	ComboPauseMinMicros uint64
	ComboPauseMaxMicros uint64

	// FirstHitBoostPct speeds up the first click of a press by this
	// percentage, within the rate policy's bounds.
	FirstHitBoostPct uint8

	Limits Limits
}

// Profile is a named, immutable set of timing constants for a target.
type Profile struct {
	Name           string
	ReleasePenalty time.Duration
	Left           ChannelTiming
	Right          ChannelTiming
}

// Timing returns the constants for the given channel.
func (p *Profile) Timing(ch Channel) ChannelTiming {
	if ch == Right {
		return p.Right
	}
	return p.Left
}

// ErrUnknownProfile is returned for profile names without timing data.
var ErrUnknownProfile = errors.New("unknown timing profile")

// The profile set is closed: one entry per supported target, selected
// by name. "custom" is reserved but has no timing data yet.
var profiles = map[string]*Profile{
	"burst": {
		Name:           "burst",
		ReleasePenalty: 170 * time.Millisecond,
		Left: ChannelTiming{
			HoldBaseMicros:   55,
			HoldJitterMicros: 8,
			ComboEnabled:     true,
			ComboInterval:    4,
			FirstHitBoostPct: 10,
			Limits:           Limits{Min: 13, Nominal: 16, HardCap: 16},
		},
		Right: ChannelTiming{
			HoldBaseMicros:   55,
			HoldJitterMicros: 8,
			FirstHitBoostPct: 10,
			Limits:           Limits{Min: 15, Nominal: 20, HardCap: 20},
		},
	},
	"steady": {
		Name:           "steady",
		ReleasePenalty: 170 * time.Millisecond,
		Left: ChannelTiming{
			HoldBaseMicros:   70,
			HoldJitterMicros: 8,
			FirstHitBoostPct: 5,
			Limits:           Limits{Min: 12, Nominal: 15, HardCap: 15},
		},
		Right: ChannelTiming{
			HoldBaseMicros:   70,
			HoldJitterMicros: 8,
			FirstHitBoostPct: 5,
			Limits:           Limits{Min: 15, Nominal: 18, HardCap: 18},
		},
	},
}

// ByName looks up a profile by target identifier.
func ByName(name string) (*Profile, error) {
	if p, ok := profiles[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Names returns the selectable profile names in a stable order.
func Names() []string {
	return []string{"burst", "steady"}
}
