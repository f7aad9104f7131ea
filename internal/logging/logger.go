// Package logging defines a minimal structured-logging interface used across
// the project. Implementations can wrap slog, zap, zerolog, etc.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "object created", "object_id", id, "kind", kind)
type Logger interface {
	// Debug logs a verbose diagnostic message.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// NopLogger discards everything. Useful as a default in tests.
type NopLogger struct{}

func (NopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (NopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (NopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (NopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (n NopLogger) With(args ...any) Logger                          { return n }
