package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSize(t *testing.T) {
	tests := []struct {
		rang uint64
		want uint64
	}{
		{3, 1},   // {3}
		{4, 1},   // {3}
		{5, 2},   // {3,5}
		{30, 14}, // {3..29}
		{100, 49},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Size(tt.rang), "rang=%d", tt.rang)
	}
}

func TestArray(t *testing.T) {
	t.Run("ZeroInitialized", func(t *testing.T) {
		a := New(100)
		require.Equal(t, uint64(49), a.Len())
		for j := uint64(1); j <= a.Len(); j++ {
			assert.Equal(t, Candidate, a.Get(j))
		}
	})

	t.Run("MarkAndClear", func(t *testing.T) {
		a := New(30)
		a.Mark(4) // the integer 9
		assert.Equal(t, Composite, a.Get(4))
		assert.Equal(t, Candidate, a.Get(3))

		a.ClearAll()
		assert.Equal(t, Candidate, a.Get(4))
	})

	t.Run("OutOfRangePanics", func(t *testing.T) {
		a := New(30)
		assert.Panics(t, func() { a.Get(0) })
		assert.Panics(t, func() { a.Get(a.Len() + 1) })
		assert.Panics(t, func() { a.Mark(0) })
		assert.Panics(t, func() { a.Mark(a.Len() + 1) })
	})

	t.Run("FromSlots", func(t *testing.T) {
		buf := []uint8{Candidate, Composite, Candidate}
		a := FromSlots(buf)
		require.Equal(t, uint64(3), a.Len())
		assert.Equal(t, Composite, a.Get(2))
	})
}
