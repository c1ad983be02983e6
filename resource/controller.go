// Package resource enforces process-wide limits on sieve storage and I/O.
//
// Slot arrays are sized and reserved at instance creation and live for the
// lifetime of their registry, so the memory budget is a hard admission check:
// a create that would exceed it fails outright instead of blocking.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// StorageLimitBytes is the hard budget for slot-array storage across all
	// simultaneously-live instances. If 0, only usage tracking is performed.
	StorageLimitBytes int64

	// MaxWorkers bounds how many instances may be sieved concurrently.
	// If 0, defaults to 1.
	MaxWorkers int64

	// EmitBytesPerSec throttles prime emission to a sink. If 0, unlimited.
	EmitBytesPerSec int64
}

// Controller manages storage, worker, and emit limits.
type Controller struct {
	cfg Config

	storageSem  *semaphore.Weighted // nil if unlimited
	storageUsed atomic.Int64

	workerSem *semaphore.Weighted

	emitLimiter *rate.Limiter
}

// NewController creates a controller for the given limits.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}

	c := &Controller{
		cfg:       cfg,
		workerSem: semaphore.NewWeighted(cfg.MaxWorkers),
	}

	if cfg.StorageLimitBytes > 0 {
		c.storageSem = semaphore.NewWeighted(cfg.StorageLimitBytes)
	}

	if cfg.EmitBytesPerSec > 0 {
		c.emitLimiter = rate.NewLimiter(rate.Limit(cfg.EmitBytesPerSec), int(cfg.EmitBytesPerSec))
	}

	return c
}

// MaxWorkers returns the configured worker bound.
func (c *Controller) MaxWorkers() int64 {
	if c == nil {
		return 1
	}
	return c.cfg.MaxWorkers
}

// TryReserveStorage reserves storage for a new slot array without blocking.
// Returns false if the budget would be exceeded; nothing is reserved then.
func (c *Controller) TryReserveStorage(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.storageSem != nil {
		if !c.storageSem.TryAcquire(bytes) {
			return false
		}
	}

	c.storageUsed.Add(bytes)
	return true
}

// ReleaseStorage returns reserved storage to the budget.
func (c *Controller) ReleaseStorage(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.storageSem != nil {
		c.storageSem.Release(bytes)
	}
	c.storageUsed.Add(-bytes)
}

// StorageUsage returns the currently reserved storage in bytes.
func (c *Controller) StorageUsage() int64 {
	if c == nil {
		return 0
	}
	return c.storageUsed.Load()
}

// AcquireWorker reserves a sieve worker slot, blocking until one is free or
// ctx is canceled.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.workerSem.Acquire(ctx, 1)
}

// ReleaseWorker releases a sieve worker slot.
func (c *Controller) ReleaseWorker() {
	if c == nil {
		return
	}
	c.workerSem.Release(1)
}

// WaitEmit waits until the emit limiter allows the given number of bytes.
// Requests larger than the limiter burst are satisfied in burst-size chunks.
func (c *Controller) WaitEmit(ctx context.Context, bytes int) error {
	if c == nil || c.emitLimiter == nil {
		return nil
	}

	burst := c.emitLimiter.Burst()
	for bytes > burst {
		if err := c.emitLimiter.WaitN(ctx, burst); err != nil {
			return err
		}
		bytes -= burst
	}
	return c.emitLimiter.WaitN(ctx, bytes)
}
