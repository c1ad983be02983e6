// Package testutil provides shared fixtures for sieve tests.
package testutil

// KnownPrimeCount pairs a sieve range with the true number of primes <= it.
type KnownPrimeCount struct {
	Range uint64
	Count uint64
}

// KnownPrimeCounts are verified prime counts used to validate sieve results.
var KnownPrimeCounts = []KnownPrimeCount{
	{3, 2},
	{4, 2},
	{10, 4},
	{100, 25},
	{1000, 168},
	{10_000, 1229},
	{100_000, 9592},
	{1_000_000, 78498},
}

// IsPrime is a trial-division reference oracle for cross-checking sieve
// output on small ranges. Deliberately simple; do not use on large inputs.
func IsPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := uint64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// PrimesUpTo returns all primes <= rang in increasing order, by trial
// division.
func PrimesUpTo(rang uint64) []uint64 {
	var primes []uint64
	for n := uint64(2); n <= rang; n++ {
		if IsPrime(n) {
			primes = append(primes, n)
		}
	}
	return primes
}
