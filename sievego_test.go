package sievego

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sievego/resource"
	"github.com/hupe1980/sievego/snapshot"
	"github.com/hupe1980/sievego/testutil"
)

func TestSieve(t *testing.T) {
	t.Run("KnownCounts", func(t *testing.T) {
		for _, kc := range testutil.KnownPrimeCounts {
			t.Run(strconv.FormatUint(kc.Range, 10), func(t *testing.T) {
				s, err := NewSieve("counts", kc.Range)
				require.NoError(t, err)

				s.Run()

				count, err := s.Count()
				require.NoError(t, err)
				assert.Equal(t, kc.Count, count)
			})
		}
	})

	t.Run("RangeTooSmall", func(t *testing.T) {
		for _, rang := range []uint64{0, 1, 2} {
			_, err := NewSieve("tiny", rang)
			assert.ErrorIs(t, err, ErrRangeTooSmall, "range %d", rang)
		}
	})

	t.Run("NotSievedErrors", func(t *testing.T) {
		s, err := NewSieve("fresh", 100)
		require.NoError(t, err)

		_, err = s.Count()
		assert.ErrorIs(t, err, ErrNotSieved)

		_, err = s.Primes()
		assert.ErrorIs(t, err, ErrNotSieved)

		_, err = s.Bitmap()
		assert.ErrorIs(t, err, ErrNotSieved)

		_, err = s.WritePrimes(context.Background(), &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrNotSieved)
	})

	t.Run("RunIsIdempotent", func(t *testing.T) {
		s, err := NewSieve("idem", 1000)
		require.NoError(t, err)

		s.Run()
		s.Run()

		count, err := s.Count()
		require.NoError(t, err)
		assert.Equal(t, uint64(168), count)
	})

	t.Run("ResetRoundTrip", func(t *testing.T) {
		s, err := NewSieve("roundtrip", 10_000)
		require.NoError(t, err)

		s.Run()

		first, err := s.Count()
		require.NoError(t, err)

		s.Reset()
		assert.False(t, s.Sieved())

		_, err = s.Count()
		assert.ErrorIs(t, err, ErrNotSieved)

		s.Run()

		second, err := s.Count()
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("PrimesMatchTrialDivision", func(t *testing.T) {
		s, err := NewSieve("oracle", 500)
		require.NoError(t, err)

		s.Run()

		primes, err := s.Primes()
		require.NoError(t, err)

		var got []uint64
		for p := range primes {
			got = append(got, p)
		}

		assert.Equal(t, testutil.PrimesUpTo(500), got)
	})

	t.Run("PrimesEarlyStop", func(t *testing.T) {
		s, err := NewSieve("earlystop", 100)
		require.NoError(t, err)

		s.Run()

		primes, err := s.Primes()
		require.NoError(t, err)

		var got []uint64
		for p := range primes {
			got = append(got, p)
			if len(got) == 3 {
				break
			}
		}

		assert.Equal(t, []uint64{2, 3, 5}, got)
	})

	t.Run("WritePrimes", func(t *testing.T) {
		s, err := NewSieve("emit", 30)
		require.NoError(t, err)

		s.Run()

		var buf bytes.Buffer
		count, err := s.WritePrimes(context.Background(), &buf)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), count)

		want := "2\n3\n5\n7\n11\n13\n17\n19\n23\n29\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("WritePrimesSmallestRange", func(t *testing.T) {
		s, err := NewSieve("smallest", 3)
		require.NoError(t, err)

		s.Run()

		var buf bytes.Buffer
		count, err := s.WritePrimes(context.Background(), &buf)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), count)
		assert.Equal(t, "2\n3\n", buf.String())
	})

	t.Run("WritePrimesThrottled", func(t *testing.T) {
		rc := resource.NewController(resource.Config{
			EmitBytesPerSec: 1 << 20,
		})

		s, err := NewSieve("throttled", 1000, WithResourceController(rc))
		require.NoError(t, err)

		s.Run()

		var buf bytes.Buffer
		count, err := s.WritePrimes(context.Background(), &buf)
		require.NoError(t, err)
		assert.Equal(t, uint64(168), count)
		assert.Equal(t, 168, strings.Count(buf.String(), "\n"))
	})

	t.Run("InstanceIndependence", func(t *testing.T) {
		small, err := NewSieve("small", 100)
		require.NoError(t, err)

		large, err := NewSieve("large", 1000)
		require.NoError(t, err)

		large.Run()

		_, err = small.Count()
		assert.ErrorIs(t, err, ErrNotSieved)

		small.Run()

		smallCount, err := small.Count()
		require.NoError(t, err)
		assert.Equal(t, uint64(25), smallCount)

		largeCount, err := large.Count()
		require.NoError(t, err)
		assert.Equal(t, uint64(168), largeCount)

		small.Reset()

		largeCount, err = large.Count()
		require.NoError(t, err)
		assert.Equal(t, uint64(168), largeCount)
	})

	t.Run("Bitmap", func(t *testing.T) {
		s, err := NewSieve("bitmap", 10_000)
		require.NoError(t, err)

		s.Run()

		bm, err := s.Bitmap()
		require.NoError(t, err)

		count, err := s.Count()
		require.NoError(t, err)
		assert.Equal(t, count, bm.GetCardinality())

		assert.True(t, bm.Contains(2))
		assert.True(t, bm.Contains(9973))
		assert.False(t, bm.Contains(9999))
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		s, err := NewSieve("persisted", 1000)
		require.NoError(t, err)

		s.Run()

		var buf bytes.Buffer
		require.NoError(t, s.SaveTo(&buf, snapshot.CompressionZstd))

		loaded, err := LoadFrom(&buf)
		require.NoError(t, err)

		assert.Equal(t, "persisted", loaded.Name())
		assert.Equal(t, uint64(1000), loaded.Range())
		assert.True(t, loaded.Sieved())

		count, err := loaded.Count()
		require.NoError(t, err)
		assert.Equal(t, uint64(168), count)
	})

	t.Run("SaveAndLoadUnsieved", func(t *testing.T) {
		s, err := NewSieve("unsieved", 100)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, s.SaveTo(&buf, snapshot.CompressionNone))

		loaded, err := LoadFrom(&buf)
		require.NoError(t, err)
		assert.False(t, loaded.Sieved())

		loaded.Run()

		count, err := loaded.Count()
		require.NoError(t, err)
		assert.Equal(t, uint64(25), count)
	})

	t.Run("MetricsCollected", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}

		s, err := NewSieve("metered", 1000, WithMetricsCollector(metrics))
		require.NoError(t, err)

		s.Run()
		s.Reset()
		s.Run()

		_, err = s.WritePrimes(context.Background(), &bytes.Buffer{})
		require.NoError(t, err)

		stats := metrics.GetStats()
		assert.Equal(t, int64(2), stats.SieveCount)
		assert.Equal(t, int64(1), stats.ResetCount)
		assert.Equal(t, int64(1), stats.EmitCount)
		assert.Equal(t, int64(168), stats.EmitPrimes)
	})
}

func BenchmarkSieveRun(b *testing.B) {
	for _, rang := range []uint64{1000, 100_000, 1_000_000} {
		b.Run(fmt.Sprintf("range-%d", rang), func(b *testing.B) {
			s, err := NewSieve("bench", rang)
			if err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				s.Reset()
				s.Run()
			}
		})
	}
}
