package intmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqrt(t *testing.T) {
	t.Run("Small", func(t *testing.T) {
		expected := []uint64{0, 1, 1, 1, 2, 2, 2, 2, 2, 3, 3}
		for x, want := range expected {
			assert.Equal(t, want, Sqrt(uint64(x)), "x=%d", x)
		}
	})

	t.Run("Exhaustive", func(t *testing.T) {
		for x := uint64(0); x < 1<<16; x++ {
			s := Sqrt(x)
			require.LessOrEqual(t, s*s, x, "x=%d", x)
			require.Greater(t, (s+1)*(s+1), x, "x=%d", x)
		}
	})

	t.Run("PerfectSquareBoundaries", func(t *testing.T) {
		for _, s := range []uint64{3, 1000, 65536, 1 << 20, 1 << 31} {
			sq := s * s
			assert.Equal(t, s, Sqrt(sq))
			assert.Equal(t, s-1, Sqrt(sq-1))
			assert.Equal(t, s, Sqrt(sq+1))
		}
	})

	t.Run("Large", func(t *testing.T) {
		assert.Equal(t, uint64(math.MaxUint32), Sqrt(math.MaxUint64))
		assert.Equal(t, uint64(1)<<31, Sqrt(1<<62))
		assert.Equal(t, (uint64(1)<<31)-1, Sqrt(1<<62-1))
	})
}
