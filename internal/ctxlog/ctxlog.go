// Package ctxlog carries the run's slog.Logger through context.Context.
//
// Every smolix component that logs takes the logger from its context
// instead of holding one: the application installs the configured logger
// once per command, the executor narrows it with a run id, and the
// interactive view replaces it with one that drops every record while the
// terminal belongs to the tree frame.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

var loggerKey = key{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// With narrows the logger already in ctx. The attributes (key/value pairs,
// as for slog.Logger.With) are attached to every record logged through the
// returned context, e.g. the executor's run_id.
func With(ctx context.Context, args ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(args...))
}

// Discard returns a copy of ctx whose logger drops every record.
func Discard(ctx context.Context) context.Context {
	return WithLogger(ctx, slog.New(slog.DiscardHandler))
}

// FromContext returns the logger carried by ctx, or slog.Default when there
// is none. Falling back keeps library callers that never set one working.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
