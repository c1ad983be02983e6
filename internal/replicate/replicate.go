// Package replicate provides a bounded body-replication primitive for the
// hot marking loops of the sieve engine.
//
// Iteration counts are split into fixed-size batches plus a remainder so the
// batched path can be unrolled or otherwise specialized without touching
// callers. The observable behavior is exactly that of a plain counted loop:
// the body runs the requested number of times, in order.
package replicate

// BatchSize is the number of body executions per batched block.
const BatchSize = 1000

// Do executes body exactly n times, in order.
func Do(n uint64, body func()) {
	for q := n / BatchSize; q > 0; q-- {
		for i := 0; i < BatchSize; i++ {
			body()
		}
	}
	for r := n % BatchSize; r > 0; r-- {
		body()
	}
}
