package sievego

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    sieveCounter   prometheus.Counter
//	    sieveHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordSieve(rang uint64, duration time.Duration) {
//	    p.sieveCounter.Inc()
//	    // ... record range, duration, etc.
//	}
type MetricsCollector interface {
	// RecordCreate is called after each create operation.
	// err is nil if successful.
	RecordCreate(rang uint64, err error)

	// RecordSieve is called after each completed sieve pass.
	// rang is the upper bound of the sieved interval, duration is the
	// time the pass took.
	RecordSieve(rang uint64, duration time.Duration)

	// RecordReset is called after each reset.
	RecordReset()

	// RecordEmit is called after each prime emission.
	// count is the number of primes written, err is nil if successful.
	RecordEmit(count uint64, duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot save or load.
	RecordSnapshot(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCreate(uint64, error)                 {}
func (NoopMetricsCollector) RecordSieve(uint64, time.Duration)           {}
func (NoopMetricsCollector) RecordReset()                                {}
func (NoopMetricsCollector) RecordEmit(uint64, time.Duration, error)     {}
func (NoopMetricsCollector) RecordSnapshot(int64, time.Duration, error)  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CreateCount     atomic.Int64
	CreateErrors    atomic.Int64
	SieveCount      atomic.Int64
	SieveTotalNanos atomic.Int64
	ResetCount      atomic.Int64
	EmitCount       atomic.Int64
	EmitErrors      atomic.Int64
	EmitPrimes      atomic.Int64
	EmitTotalNanos  atomic.Int64
	SnapshotCount   atomic.Int64
	SnapshotErrors  atomic.Int64
	SnapshotBytes   atomic.Int64
}

// RecordCreate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCreate(rang uint64, err error) {
	b.CreateCount.Add(1)
	if err != nil {
		b.CreateErrors.Add(1)
	}
}

// RecordSieve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSieve(rang uint64, duration time.Duration) {
	b.SieveCount.Add(1)
	b.SieveTotalNanos.Add(duration.Nanoseconds())
}

// RecordReset implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReset() {
	b.ResetCount.Add(1)
}

// RecordEmit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEmit(count uint64, duration time.Duration, err error) {
	b.EmitCount.Add(1)
	b.EmitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EmitErrors.Add(1)
		return
	}
	b.EmitPrimes.Add(int64(count))
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(bytes int64, duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CreateCount:    b.CreateCount.Load(),
		CreateErrors:   b.CreateErrors.Load(),
		SieveCount:     b.SieveCount.Load(),
		SieveAvgNanos:  b.getAvgSieveNanos(),
		ResetCount:     b.ResetCount.Load(),
		EmitCount:      b.EmitCount.Load(),
		EmitErrors:     b.EmitErrors.Load(),
		EmitPrimes:     b.EmitPrimes.Load(),
		EmitAvgNanos:   b.getAvgEmitNanos(),
		SnapshotCount:  b.SnapshotCount.Load(),
		SnapshotErrors: b.SnapshotErrors.Load(),
		SnapshotBytes:  b.SnapshotBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSieveNanos() int64 {
	count := b.SieveCount.Load()
	if count == 0 {
		return 0
	}
	return b.SieveTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgEmitNanos() int64 {
	count := b.EmitCount.Load()
	if count == 0 {
		return 0
	}
	return b.EmitTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CreateCount    int64
	CreateErrors   int64
	SieveCount     int64
	SieveAvgNanos  int64
	ResetCount     int64
	EmitCount      int64
	EmitErrors     int64
	EmitPrimes     int64
	EmitAvgNanos   int64
	SnapshotCount  int64
	SnapshotErrors int64
	SnapshotBytes  int64
}
