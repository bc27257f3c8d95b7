package rng

import (
	"math/bits"
	"time"
)

// Xoshiro256 implements the xoshiro256++ generator by Blackman and
// Vigna (https://prng.di.unimi.it/). It is the default jitter source.
type Xoshiro256 struct {
	s [4]uint64
}

// NewXoshiro256 returns a generator seeded deterministically from a
// single word via splitmix64, as the algorithm's authors recommend.
func NewXoshiro256(seed uint64) *Xoshiro256 {
	sm := splitMix64{state: seed}
	return &Xoshiro256{
		s: [4]uint64{sm.next(), sm.next(), sm.next(), sm.next()},
	}
}

// Xoshiro256FromEntropy returns a generator seeded from the
// high-resolution clock.
func Xoshiro256FromEntropy() *Xoshiro256 {
	return NewXoshiro256(uint64(time.Now().UnixNano()))
}

// Uint64 advances the generator and returns the next raw value.
func (x *Xoshiro256) Uint64() uint64 {
	result := bits.RotateLeft64(x.s[0]+x.s[3], 23) + x.s[0]

	t := x.s[1] << 17

	x.s[2] ^= x.s[0]
	x.s[3] ^= x.s[1]
	x.s[1] ^= x.s[2]
	x.s[0] ^= x.s[3]

	x.s[2] ^= t
	x.s[3] = bits.RotateLeft64(x.s[3], 45)

	return result
}
