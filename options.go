package sievego

import (
	"github.com/hupe1980/sievego/resource"
	"github.com/hupe1980/sievego/snapshot"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	controller       *resource.Controller
	compression      snapshot.Compression
}

// Option configures Registry constructor behavior.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := sievego.NewJSONLogger(slog.LevelInfo)
//	reg := sievego.NewRegistry(sievego.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &sievego.BasicMetricsCollector{}
//	reg := sievego.NewRegistry(sievego.WithMetricsCollector(metrics))
//	// ... use reg ...
//	stats := metrics.GetStats()
//	fmt.Printf("Sieves: %d, Avg latency: %dns\n", stats.SieveCount, stats.SieveAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithResourceController attaches a resource controller that enforces the
// storage budget, bounds concurrent sieving in RunAll, and throttles emits.
// Pass nil to run without limits.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithSnapshotCompression selects the block compression used when saving
// snapshots. The default is zstd; loading auto-detects the compression
// recorded in the snapshot header.
func WithSnapshotCompression(c snapshot.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

func applyOptions(optFns ...Option) *options {
	o := &options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		compression:      snapshot.CompressionZstd,
	}

	for _, fn := range optFns {
		fn(o)
	}

	return o
}
