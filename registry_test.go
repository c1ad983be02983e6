package sievego

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sievego/blobstore"
	"github.com/hupe1980/sievego/resource"
	"github.com/hupe1980/sievego/testutil"
)

func TestRegistry(t *testing.T) {
	t.Run("CreateAndGet", func(t *testing.T) {
		reg := NewRegistry()

		created, err := reg.Create("alpha", 100)
		require.NoError(t, err)

		got, err := reg.Get("alpha")
		require.NoError(t, err)
		assert.Same(t, created, got)

		assert.Equal(t, []string{"alpha"}, reg.Names())
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("DuplicateName", func(t *testing.T) {
		reg := NewRegistry()

		_, err := reg.Create("dup", 100)
		require.NoError(t, err)

		_, err = reg.Create("dup", 1000)
		assert.ErrorIs(t, err, ErrAlreadyExists)

		var sieveErr *SieveError
		require.ErrorAs(t, err, &sieveErr)
		assert.Equal(t, "dup", sieveErr.Name)
	})

	t.Run("UnknownName", func(t *testing.T) {
		reg := NewRegistry()

		_, err := reg.Get("missing")
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, reg.Run("missing"), ErrNotFound)
		assert.ErrorIs(t, reg.Reset("missing"), ErrNotFound)
		assert.ErrorIs(t, reg.Remove("missing"), ErrNotFound)

		_, err = reg.Count("missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("RangeTooSmall", func(t *testing.T) {
		reg := NewRegistry()

		_, err := reg.Create("tiny", 2)
		assert.ErrorIs(t, err, ErrRangeTooSmall)

		assert.Equal(t, 0, reg.Len())
	})

	t.Run("RunAndCount", func(t *testing.T) {
		reg := NewRegistry()

		_, err := reg.Create("bench", 1000)
		require.NoError(t, err)

		_, err = reg.Count("bench")
		assert.ErrorIs(t, err, ErrNotSieved)

		require.NoError(t, reg.Run("bench"))

		count, err := reg.Count("bench")
		require.NoError(t, err)
		assert.Equal(t, uint64(168), count)

		require.NoError(t, reg.Reset("bench"))

		_, err = reg.Count("bench")
		assert.ErrorIs(t, err, ErrNotSieved)
	})

	t.Run("WriteFile", func(t *testing.T) {
		reg := NewRegistry()

		_, err := reg.Create("emitter", 30)
		require.NoError(t, err)
		require.NoError(t, reg.Run("emitter"))

		path := filepath.Join(t.TempDir(), "primes.txt")

		stats, err := reg.WriteFile(context.Background(), "emitter", path)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), stats.Count)
		assert.Equal(t, "10 primes were written to file "+path, stats.Status)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "2\n3\n5\n7\n11\n13\n17\n19\n23\n29\n", string(data))
	})

	t.Run("WriteFileUnsieved", func(t *testing.T) {
		reg := NewRegistry()

		_, err := reg.Create("cold", 100)
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "primes.txt")

		_, err = reg.WriteFile(context.Background(), "cold", path)
		assert.ErrorIs(t, err, ErrNotSieved)
	})

	t.Run("RunAll", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MaxWorkers: 2})
		reg := NewRegistry(WithResourceController(rc))

		for _, kc := range testutil.KnownPrimeCounts {
			_, err := reg.Create("all-"+namefor(kc.Range), kc.Range)
			require.NoError(t, err)
		}

		require.NoError(t, reg.RunAll(context.Background()))

		for _, kc := range testutil.KnownPrimeCounts {
			count, err := reg.Count("all-" + namefor(kc.Range))
			require.NoError(t, err)
			assert.Equal(t, kc.Count, count, "range %d", kc.Range)
		}
	})

	t.Run("RunAllCanceled", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MaxWorkers: 1})
		reg := NewRegistry(WithResourceController(rc))

		_, err := reg.Create("canceled", 1000)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err = reg.RunAll(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("StorageBudget", func(t *testing.T) {
		// Budget fits one slot array of ~500 bytes but not two.
		rc := resource.NewController(resource.Config{StorageLimitBytes: 600})
		reg := NewRegistry(WithResourceController(rc))

		_, err := reg.Create("first", 1000)
		require.NoError(t, err)
		assert.Equal(t, int64(499), rc.StorageUsage())

		_, err = reg.Create("second", 1000)
		assert.ErrorIs(t, err, ErrStorageExhausted)
		assert.Equal(t, 1, reg.Len())

		require.NoError(t, reg.Remove("first"))
		assert.Equal(t, int64(0), rc.StorageUsage())

		_, err = reg.Create("second", 1000)
		require.NoError(t, err)
	})

	t.Run("CloseReleasesStorage", func(t *testing.T) {
		rc := resource.NewController(resource.Config{StorageLimitBytes: 1 << 20})
		reg := NewRegistry(WithResourceController(rc))

		_, err := reg.Create("a", 10_000)
		require.NoError(t, err)
		_, err = reg.Create("b", 10_000)
		require.NoError(t, err)

		require.NoError(t, reg.Close())
		assert.Equal(t, 0, reg.Len())
		assert.Equal(t, int64(0), rc.StorageUsage())
	})

	t.Run("SnapshotRoundTrip", func(t *testing.T) {
		store := blobstore.NewMemoryStore()

		reg := NewRegistry()

		_, err := reg.Create("persisted", 10_000)
		require.NoError(t, err)
		require.NoError(t, reg.Run("persisted"))

		key, err := reg.SaveSnapshot(context.Background(), store, "persisted")
		require.NoError(t, err)
		assert.Equal(t, "persisted.sieve", key)

		restored := NewRegistry()

		s, err := restored.LoadSnapshot(context.Background(), store, key)
		require.NoError(t, err)
		assert.Equal(t, "persisted", s.Name())
		assert.True(t, s.Sieved())

		count, err := restored.Count("persisted")
		require.NoError(t, err)
		assert.Equal(t, uint64(1229), count)
	})

	t.Run("SnapshotNameCollision", func(t *testing.T) {
		store := blobstore.NewMemoryStore()

		reg := NewRegistry()

		_, err := reg.Create("taken", 100)
		require.NoError(t, err)
		require.NoError(t, reg.Run("taken"))

		key, err := reg.SaveSnapshot(context.Background(), store, "taken")
		require.NoError(t, err)

		_, err = reg.LoadSnapshot(context.Background(), store, key)
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("SnapshotMissingBlob", func(t *testing.T) {
		store := blobstore.NewMemoryStore()

		reg := NewRegistry()

		_, err := reg.LoadSnapshot(context.Background(), store, "nope.sieve")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("SaveSnapshotUnknown", func(t *testing.T) {
		store := blobstore.NewMemoryStore()

		reg := NewRegistry()

		_, err := reg.SaveSnapshot(context.Background(), store, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func namefor(rang uint64) string {
	return strconv.FormatUint(rang, 10)
}
