package sievego

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/sievego/blobstore"
	"github.com/hupe1980/sievego/snapshot"
)

// Registry manages named sieve instances. Names are unique; creating a
// second instance under an existing name fails with ErrAlreadyExists.
//
// The registry itself is safe for concurrent use. Operations on a single
// instance are not synchronized beyond the lookup; callers must not run
// conflicting operations (e.g. Reset during WriteFile) on the same name
// concurrently.
type Registry struct {
	mu     sync.RWMutex
	sieves map[string]*Sieve
	opts   *options
}

// NewRegistry creates an empty registry.
func NewRegistry(optFns ...Option) *Registry {
	return &Registry{
		sieves: make(map[string]*Sieve),
		opts:   applyOptions(optFns...),
	}
}

// Create allocates a new sieve for [1, rang] and registers it under name.
// Storage is reserved against the controller's budget up front; if the
// reservation fails the instance is not created and ErrStorageExhausted is
// returned. The new instance starts unsieved.
func (r *Registry) Create(name string, rang uint64) (*Sieve, error) {
	s, err := r.create(name, rang)

	r.opts.logger.LogCreate(context.Background(), name, rang, err)
	r.opts.metricsCollector.RecordCreate(rang, err)

	return s, err
}

func (r *Registry) create(name string, rang uint64) (*Sieve, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sieves[name]; ok {
		return nil, newSieveError(name, ErrAlreadyExists)
	}

	s, err := newSieve(name, rang, r.opts)
	if err != nil {
		return nil, newSieveError(name, err)
	}

	if !r.opts.controller.TryReserveStorage(s.StorageBytes()) {
		return nil, newSieveError(name, ErrStorageExhausted)
	}

	r.sieves[name] = s

	return s, nil
}

// Get returns the sieve registered under name.
func (r *Registry) Get(name string) (*Sieve, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sieves[name]
	if !ok {
		return nil, newSieveError(name, ErrNotFound)
	}

	return s, nil
}

// Remove unregisters the named sieve and releases its storage reservation.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sieves[name]
	if !ok {
		return newSieveError(name, ErrNotFound)
	}

	delete(r.sieves, name)
	r.opts.controller.ReleaseStorage(s.StorageBytes())

	return nil
}

// Names returns the registered instance names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sieves))
	for name := range r.sieves {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Len returns the number of registered instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sieves)
}

// Run sieves the named instance.
func (r *Registry) Run(name string) error {
	s, err := r.Get(name)
	if err != nil {
		return err
	}

	s.Run()

	return nil
}

// RunAll sieves every registered instance concurrently. Concurrency is
// bounded by the controller's worker limit when one is attached. The first
// error (only context cancellation can produce one) aborts the remaining
// unstarted instances.
func (r *Registry) RunAll(ctx context.Context) error {
	r.mu.RLock()
	sieves := make([]*Sieve, 0, len(r.sieves))
	for _, s := range r.sieves {
		sieves = append(sieves, s)
	}
	r.mu.RUnlock()

	g, ctx := errgroup.WithContext(ctx)

	for _, s := range sieves {
		g.Go(func() error {
			if err := r.opts.controller.AcquireWorker(ctx); err != nil {
				return err
			}
			defer r.opts.controller.ReleaseWorker()

			s.Run()

			return nil
		})
	}

	return g.Wait()
}

// Reset returns the named instance to the unsieved state.
func (r *Registry) Reset(name string) error {
	s, err := r.Get(name)
	if err != nil {
		return err
	}

	s.Reset()

	return nil
}

// Count returns the number of primes found by the named instance.
func (r *Registry) Count(name string) (uint64, error) {
	s, err := r.Get(name)
	if err != nil {
		return 0, err
	}

	count, err := s.Count()
	if err != nil {
		return 0, newSieveError(name, err)
	}

	return count, nil
}

// EmitStats describes a completed prime emission.
type EmitStats struct {
	// Count is the number of primes written.
	Count uint64

	// Status is a human-readable completion message.
	Status string
}

// WriteFile writes the named instance's primes to a file at path, one prime
// per line, and returns emission statistics. The file is created with mode
// 0644, truncating any existing content.
func (r *Registry) WriteFile(ctx context.Context, name, path string) (*EmitStats, error) {
	s, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, newSieveError(name, err)
	}

	count, err := s.WritePrimes(ctx, f)
	if err != nil {
		f.Close()
		return nil, newSieveError(name, err)
	}

	if err := f.Close(); err != nil {
		return nil, newSieveError(name, err)
	}

	stats := &EmitStats{
		Count:  count,
		Status: fmt.Sprintf("%d primes were written to file %s", count, path),
	}

	r.opts.logger.InfoContext(ctx, stats.Status, "sieve", name)

	return stats, nil
}

// SaveSnapshot persists the named instance to the blob store and returns the
// blob key. The snapshot is compressed with the registry's configured
// compression and protected by a CRC32 checksum.
func (r *Registry) SaveSnapshot(ctx context.Context, store blobstore.BlobStore, name string) (string, error) {
	start := time.Now()

	key, bytes, err := r.saveSnapshot(ctx, store, name)

	r.opts.logger.LogSnapshot(ctx, name, key, err)
	r.opts.metricsCollector.RecordSnapshot(bytes, time.Since(start), err)

	return key, err
}

func (r *Registry) saveSnapshot(ctx context.Context, store blobstore.BlobStore, name string) (string, int64, error) {
	s, err := r.Get(name)
	if err != nil {
		return "", 0, err
	}

	raw, err := snapshot.Encode(s.snapshotData(), r.opts.compression)
	if err != nil {
		return "", 0, newSieveError(name, err)
	}

	key := name + ".sieve"

	if err := store.Put(ctx, key, raw); err != nil {
		return key, 0, newSieveError(name, err)
	}

	return key, int64(len(raw)), nil
}

// LoadSnapshot restores an instance from the blob store and registers it
// under its recorded name. Fails with ErrAlreadyExists if that name is
// taken, and with ErrStorageExhausted if the restored slot array does not
// fit the storage budget.
func (r *Registry) LoadSnapshot(ctx context.Context, store blobstore.BlobStore, key string) (*Sieve, error) {
	start := time.Now()

	s, bytes, err := r.loadSnapshot(ctx, store, key)

	name := key
	if s != nil {
		name = s.Name()
	}

	r.opts.logger.LogSnapshot(ctx, name, key, err)
	r.opts.metricsCollector.RecordSnapshot(bytes, time.Since(start), err)

	return s, err
}

func (r *Registry) loadSnapshot(ctx context.Context, store blobstore.BlobStore, key string) (*Sieve, int64, error) {
	raw, err := blobstore.ReadAll(ctx, store, key)
	if err != nil {
		return nil, 0, err
	}

	d, err := snapshot.Decode(raw)
	if err != nil {
		return nil, 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sieves[d.Name]; ok {
		return nil, 0, newSieveError(d.Name, ErrAlreadyExists)
	}

	s, err := sieveFromSnapshot(d, r.opts)
	if err != nil {
		return nil, 0, newSieveError(d.Name, err)
	}

	if !r.opts.controller.TryReserveStorage(s.StorageBytes()) {
		return nil, 0, newSieveError(d.Name, ErrStorageExhausted)
	}

	r.sieves[d.Name] = s

	return s, int64(len(raw)), nil
}

// Close releases all storage reservations and unregisters every instance.
// The registry can be reused after Close.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, s := range r.sieves {
		r.opts.controller.ReleaseStorage(s.StorageBytes())
		delete(r.sieves, name)
	}

	return nil
}
