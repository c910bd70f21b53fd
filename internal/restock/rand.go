package restock

import "math/rand/v2"

// Rand is the randomness source for simulated forecasts.
type Rand interface {
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
}

// globalRand uses the goroutine-safe top-level source of math/rand/v2.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// intBetween returns a value in the closed range [lo, hi].
func intBetween(r Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}
