package rng

import (
	"testing"
)

func TestUint64RangeBounds(t *testing.T) {
	tests := []struct {
		name string
		min  uint64
		max  uint64
	}{
		{name: "power of two range", min: 0, max: 15},
		{name: "power of two offset", min: 100, max: 163},
		{name: "non power of two", min: 0, max: 9},
		{name: "non power of two offset", min: 52, max: 68},
		{name: "single step", min: 7, max: 8},
		{name: "microsecond jitter window", min: 5000, max: 8000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(NewXoshiro256(42))
			sawMin, sawMax := false, false
			for i := 0; i < 10000; i++ {
				v := r.Uint64Range(tt.min, tt.max)
				if v < tt.min || v > tt.max {
					t.Fatalf("Uint64Range(%d, %d) = %d, out of range", tt.min, tt.max, v)
				}
				if v == tt.min {
					sawMin = true
				}
				if v == tt.max {
					sawMax = true
				}
			}
			// Both endpoints must be reachable for small ranges;
			// a masked or rejection-sampled draw that never hits an
			// endpoint indicates an off-by-one in the range math.
			if tt.max-tt.min < 64 && (!sawMin || !sawMax) {
				t.Errorf("endpoints not covered: min seen=%v max seen=%v", sawMin, sawMax)
			}
		})
	}
}

func TestInt64RangeNegative(t *testing.T) {
	r := New(NewXoshiro256(1))
	for i := 0; i < 10000; i++ {
		v := r.Int64Range(-8, 8)
		if v < -8 || v > 8 {
			t.Fatalf("Int64Range(-8, 8) = %d, out of range", v)
		}
	}
}

func TestRangeDegenerate(t *testing.T) {
	r := New(NewXoshiro256(1))
	if got := r.Uint64Range(5, 5); got != 5 {
		t.Errorf("Uint64Range(5, 5) = %d, want 5", got)
	}
	if got := r.Uint64Range(9, 3); got != 9 {
		t.Errorf("Uint64Range(9, 3) = %d, want min", got)
	}
	if got := r.Int64Range(-3, -3); got != -3 {
		t.Errorf("Int64Range(-3, -3) = %d, want -3", got)
	}
}

func TestXoshiroDeterministic(t *testing.T) {
	a := NewXoshiro256(12345)
	b := NewXoshiro256(12345)
	for i := 0; i < 100; i++ {
		if av, bv := a.Uint64(), b.Uint64(); av != bv {
			t.Fatalf("same seed diverged at draw %d: %d vs %d", i, av, bv)
		}
	}
}

func TestRomuTrioDeterministic(t *testing.T) {
	a := NewRomuTrio(98765)
	b := NewRomuTrio(98765)
	for i := 0; i < 100; i++ {
		if av, bv := a.Uint64(), b.Uint64(); av != bv {
			t.Fatalf("same seed diverged at draw %d: %d vs %d", i, av, bv)
		}
	}
}

func TestSourcesInterchangeable(t *testing.T) {
	sources := []struct {
		name string
		src  Source
	}{
		{name: "xoshiro256++", src: NewXoshiro256(7)},
		{name: "romutrio", src: NewRomuTrio(7)},
	}

	for _, s := range sources {
		t.Run(s.name, func(t *testing.T) {
			r := New(s.src)
			for i := 0; i < 10000; i++ {
				if v := r.Uint64Range(13, 16); v < 13 || v > 16 {
					t.Fatalf("draw %d out of [13,16]: %d", i, v)
				}
			}
		})
	}
}

func TestUniformityCoarse(t *testing.T) {
	// Chi-square-free sanity check: over 10k draws of a 10-wide range,
	// every bucket should land within a generous band of the expected
	// 1000 hits. Catches gross bias without being flaky.
	r := New(NewXoshiro256(2024))
	var buckets [10]int
	for i := 0; i < 10000; i++ {
		buckets[r.Uint64Range(0, 9)]++
	}
	for i, n := range buckets {
		if n < 800 || n > 1200 {
			t.Errorf("bucket %d has %d hits, expected ~1000", i, n)
		}
	}
}
