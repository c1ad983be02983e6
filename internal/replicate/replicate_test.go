package replicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDo(t *testing.T) {
	t.Run("ExactCount", func(t *testing.T) {
		// Around the batch boundary and well past it.
		for _, n := range []uint64{0, 1, 999, 1000, 1001, 2000, 2500, 5003} {
			var got uint64
			Do(n, func() { got++ })
			assert.Equal(t, n, got, "n=%d", n)
		}
	})

	t.Run("Order", func(t *testing.T) {
		const n = 2345
		seq := make([]int, 0, n)
		i := 0
		Do(n, func() {
			seq = append(seq, i)
			i++
		})
		assert.Len(t, seq, n)
		for want, got := range seq {
			assert.Equal(t, want, got)
		}
	})
}
