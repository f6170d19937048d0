// Package thinking drives the "bot is thinking" indicator shown while a reply is pending.
package thinking

import (
	"math/rand/v2"
	"time"
)

// Range bounds a randomized delay.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// DefaultRange is used when no delay bounds are configured.
var DefaultRange = Range{Min: 1500 * time.Millisecond, Max: 3000 * time.Millisecond}

// Random returns a delay within the range.
func (r Range) Random(rng *rand.Rand) time.Duration {
	return NextDelay(rng, r.Min, r.Max)
}

// NextDelay returns a delay uniformly distributed over [lo, hi] at millisecond
// granularity, both bounds inclusive. When hi <= lo it returns lo.
func NextDelay(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	steps := int64((hi - lo) / time.Millisecond)
	if steps == 0 {
		return lo
	}
	return lo + time.Duration(rng.Int64N(steps+1))*time.Millisecond
}

// PickTwoDistinct draws two different phrases from pool. When the pool holds
// fewer than two distinct phrases both results are the first entry.
func PickTwoDistinct(rng *rand.Rand, pool []string) (string, string) {
	if len(pool) == 0 {
		return "", ""
	}
	if !hasTwoDistinct(pool) {
		return pool[0], pool[0]
	}

	i := rng.IntN(len(pool))
	j := rng.IntN(len(pool))
	for j == i || pool[j] == pool[i] {
		j = rng.IntN(len(pool))
	}
	return pool[i], pool[j]
}

func hasTwoDistinct(pool []string) bool {
	for _, w := range pool[1:] {
		if w != pool[0] {
			return true
		}
	}
	return false
}

// NewRand returns a generator seeded from the runtime's entropy source.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
