// Package logctx provides context-based logger injection and extraction.
//
// Callers inject a logger enriched with contextual fields (e.g. the
// compound index) and the fields automatically propagate through the
// call stack.
package logctx

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// loggerKey is the private key type for storing loggers in context.
// Using a private type prevents collisions with other packages.
type loggerKey struct{}

var (
	defaultLogger     zerolog.Logger
	defaultLoggerOnce sync.Once
)

// DefaultLogger returns the process-wide default logger used when no
// context logger is available. This logger outputs JSON to stderr with
// timestamps.
func DefaultLogger() zerolog.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	})
	return defaultLogger
}

// WithLogger returns a new context with the given logger attached.
// The logger can be retrieved using FromContext.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts the logger from the context. If the context is
// nil or does not contain a logger, returns the default logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return DefaultLogger()
	}
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return DefaultLogger()
}

// WithStr returns a new context with a logger that has the specified
// string field added.
func WithStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, logger)
}

// WithInt returns a new context with a logger that has the specified
// int field added.
func WithInt(ctx context.Context, key string, value int) context.Context {
	logger := FromContext(ctx).With().Int(key, value).Logger()
	return WithLogger(ctx, logger)
}
