package sievego

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with sievego-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSieve adds a sieve name field to the logger.
func (l *Logger) WithSieve(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("sieve", name),
	}
}

// LogCreate logs a sieve creation.
func (l *Logger) LogCreate(ctx context.Context, name string, rang uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "create failed",
			"sieve", name,
			"range", rang,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "sieve created",
			"sieve", name,
			"range", rang,
		)
	}
}

// LogRun logs a sieve pass.
func (l *Logger) LogRun(ctx context.Context, name string, rang uint64) {
	l.DebugContext(ctx, "sieve completed",
		"sieve", name,
		"range", rang,
	)
}

// LogReset logs a reset back to the unsieved state.
func (l *Logger) LogReset(ctx context.Context, name string) {
	l.DebugContext(ctx, "sieve reset",
		"sieve", name,
	)
}

// LogEmit logs a prime emission.
func (l *Logger) LogEmit(ctx context.Context, name string, count uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "emit failed",
			"sieve", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "primes emitted",
			"sieve", name,
			"count", count,
		)
	}
}

// LogSnapshot logs a snapshot operation.
func (l *Logger) LogSnapshot(ctx context.Context, name, key string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"sieve", name,
			"key", key,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"sieve", name,
			"key", key,
		)
	}
}
