package thinking

import (
	"math/rand/v2"
	"testing"
	"time"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestNextDelayBounds(t *testing.T) {
	rng := newTestRand()
	tests := []struct {
		name   string
		lo, hi time.Duration
	}{
		{"default", 1500 * time.Millisecond, 3000 * time.Millisecond},
		{"narrow", 10 * time.Millisecond, 12 * time.Millisecond},
		{"equal", 5 * time.Millisecond, 5 * time.Millisecond},
		{"zero", 0, 0},
		{"sub-millisecond span", time.Millisecond, time.Millisecond + 500*time.Microsecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 1000; i++ {
				v := NextDelay(rng, tt.lo, tt.hi)
				if v < tt.lo || v > tt.hi {
					t.Fatalf("NextDelay(%v, %v) = %v, out of range", tt.lo, tt.hi, v)
				}
			}
		})
	}
}

func TestNextDelayReachesBothBounds(t *testing.T) {
	rng := newTestRand()
	lo, hi := 10*time.Millisecond, 12*time.Millisecond
	seen := map[time.Duration]bool{}
	for i := 0; i < 1000; i++ {
		seen[NextDelay(rng, lo, hi)] = true
	}
	for _, want := range []time.Duration{lo, 11 * time.Millisecond, hi} {
		if !seen[want] {
			t.Errorf("expected %v to be drawn at least once", want)
		}
	}
}

func TestNextDelayInvertedBounds(t *testing.T) {
	if got := NextDelay(newTestRand(), 3*time.Second, time.Second); got != 3*time.Second {
		t.Errorf("expected lower bound, got %v", got)
	}
}

func TestRangeRandom(t *testing.T) {
	rng := newTestRand()
	for i := 0; i < 100; i++ {
		v := DefaultRange.Random(rng)
		if v < DefaultRange.Min || v > DefaultRange.Max {
			t.Fatalf("DefaultRange.Random() = %v, out of range", v)
		}
	}
}

func TestPickTwoDistinct(t *testing.T) {
	rng := newTestRand()
	pool := []string{"a", "b", "c"}
	for i := 0; i < 500; i++ {
		a, b := PickTwoDistinct(rng, pool)
		if a == b {
			t.Fatalf("expected distinct picks, got %q twice", a)
		}
		if !contains(pool, a) || !contains(pool, b) {
			t.Fatalf("picks %q, %q not from pool", a, b)
		}
	}
}

func TestPickTwoDistinctPairPool(t *testing.T) {
	rng := newTestRand()
	for i := 0; i < 100; i++ {
		a, b := PickTwoDistinct(rng, []string{"x", "y"})
		if a == b {
			t.Fatalf("expected distinct picks, got %q twice", a)
		}
	}
}

func TestPickTwoDistinctDegenerate(t *testing.T) {
	rng := newTestRand()
	tests := []struct {
		name string
		pool []string
		want string
	}{
		{"single", []string{"only"}, "only"},
		{"duplicates", []string{"same", "same", "same"}, "same"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := PickTwoDistinct(rng, tt.pool)
			if a != tt.want || b != tt.want {
				t.Errorf("expected %q twice, got %q, %q", tt.want, a, b)
			}
		})
	}
}

func TestPickTwoDistinctWithDuplicateEntries(t *testing.T) {
	rng := newTestRand()
	pool := []string{"a", "a", "b"}
	for i := 0; i < 200; i++ {
		a, b := PickTwoDistinct(rng, pool)
		if a == b {
			t.Fatalf("expected distinct picks, got %q twice", a)
		}
	}
}

func contains(pool []string, s string) bool {
	for _, p := range pool {
		if p == s {
			return true
		}
	}
	return false
}
