package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// Ctx is a shorter alias for FromContext.
func Ctx(ctx context.Context) *zerolog.Logger {
	return FromContext(ctx)
}

// WithRequestID tags the context and its logger with a request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return withStr(ctx, "request_id", requestID)
}

// RequestID extracts the request ID from context.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithChain adds the chain id to the context logger.
func WithChain(ctx context.Context, chainID string) context.Context {
	return withStr(ctx, "chain_id", chainID)
}

// WithSection adds a registry section to the context logger.
func WithSection(ctx context.Context, section string) context.Context {
	return withStr(ctx, "section", section)
}

// WithOperation adds the running operation to the context logger.
func WithOperation(ctx context.Context, operation string) context.Context {
	return withStr(ctx, "operation", operation)
}

// WithBatch adds the index of the execute message being submitted.
func WithBatch(ctx context.Context, batch int) context.Context {
	logger := FromContext(ctx).With().Int("batch", batch).Logger()
	return WithLogger(ctx, &logger)
}

func withStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}
