// Package rng provides seedable pseudo-random sources and bias-free
// uniform range sampling for timing jitter.
package rng

import (
	"math/bits"
	"time"
)

// Source is a raw 64-bit generator. Implementations are not safe for
// concurrent use; each consumer owns its own instance.
type Source interface {
	Uint64() uint64
}

// Rand draws uniformly distributed values from a Source.
type Rand struct {
	src Source
}

// New returns a Rand backed by the given source.
func New(src Source) *Rand {
	return &Rand{src: src}
}

// FromEntropy returns a Rand backed by the default source, seeded from
// the high-resolution clock.
func FromEntropy() *Rand {
	return New(NewXoshiro256(uint64(time.Now().UnixNano())))
}

// Uint64Range returns a value uniform over [min, max] inclusive.
// If min >= max, min is returned.
func (r *Rand) Uint64Range(min, max uint64) uint64 {
	if min >= max {
		return min
	}
	return min + r.bounded(max-min+1)
}

// Int64Range returns a value uniform over [min, max] inclusive.
// If min >= max, min is returned.
func (r *Rand) Int64Range(min, max int64) int64 {
	if min >= max {
		return min
	}
	return min + int64(r.bounded(uint64(max-min)+1))
}

// bounded returns a value uniform over [0, n). Power-of-two ranges are
// masked directly; anything else goes through multiply-high rejection
// sampling so no residue of the modulo bias survives.
func (r *Rand) bounded(n uint64) uint64 {
	if n&(n-1) == 0 {
		return r.src.Uint64() & (n - 1)
	}

	hi, lo := bits.Mul64(r.src.Uint64(), n)
	if lo < n {
		threshold := -n % n
		for lo < threshold {
			hi, lo = bits.Mul64(r.src.Uint64(), n)
		}
	}
	return hi
}

// splitMix64 expands a single seed word into well-mixed state words.
type splitMix64 struct {
	state uint64
}

func (s *splitMix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
