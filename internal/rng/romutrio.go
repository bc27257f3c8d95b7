package rng

import (
	"math/bits"
	"time"
)

// RomuTrio implements the three-word nonlinear generator by Mark
// Overton (http://www.romu-random.org/). It trades a shorter period
// guarantee for slightly cheaper state updates and is kept as an
// alternate Source behind the same interface.
type RomuTrio struct {
	x, y, z uint64
}

// NewRomuTrio returns a generator seeded via splitmix64.
func NewRomuTrio(seed uint64) *RomuTrio {
	sm := splitMix64{state: seed}
	return &RomuTrio{x: sm.next(), y: sm.next(), z: sm.next()}
}

// RomuTrioFromEntropy returns a generator seeded from the
// high-resolution clock.
func RomuTrioFromEntropy() *RomuTrio {
	return NewRomuTrio(uint64(time.Now().UnixNano()))
}

// Uint64 advances the generator and returns the next raw value.
func (r *RomuTrio) Uint64() uint64 {
	xp, yp, zp := r.x, r.y, r.z

	r.x = 15241094284759029579 * zp
	r.y = bits.RotateLeft64(yp-xp, 12)
	r.z = bits.RotateLeft64(zp-yp, 44)

	return xp
}
