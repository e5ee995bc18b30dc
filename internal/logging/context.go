package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// ctxKey carries the batch-scoped logger. An unexported struct type
// cannot collide with keys from other packages.
type ctxKey struct{}

// WithLogger attaches logger to ctx so extraction workers log with the
// fields their caller established. A nil logger leaves ctx unchanged.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger attached to ctx, falling back to the
// package default when none is present.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return logger
	}
	return Default()
}
