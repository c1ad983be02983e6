// Package intmath provides integer-only arithmetic helpers for the sieve
// engine. No floating point is used anywhere; results are exact.
package intmath

import "math/bits"

// Sqrt returns floor(sqrt(x)) using Newton iteration on integers.
// Exact for every uint64 input.
func Sqrt(x uint64) uint64 {
	if x < 2 {
		return x
	}

	// Start at 2^ceil(bits/2) >= sqrt(x) so the iteration converges
	// monotonically from above.
	s := uint64(1) << ((bits.Len64(x) + 1) / 2)

	for {
		next := (s + x/s) / 2
		if next >= s {
			return s
		}
		s = next
	}
}
