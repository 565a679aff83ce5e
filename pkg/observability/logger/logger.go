// Package logger provides structured logging for gridline. The Logger
// interface decouples callers from the zap implementation; all log
// methods accept a message followed by key-value pairs.
package logger

import "context"

// Logger defines the structured logging interface used throughout the
// module.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs
	Debug(msg string, args ...any)

	// Info logs an info-level message with optional key-value pairs
	Info(msg string, args ...any)

	// Warn logs a warning-level message with optional key-value pairs
	Warn(msg string, args ...any)

	// Error logs an error-level message with optional key-value pairs
	Error(msg string, args ...any)

	// With creates a child logger whose entries always carry the given
	// key-value pairs
	With(args ...any) Logger

	// WithContext creates a child logger carrying the request ID from
	// ctx, when one is present
	WithContext(ctx context.Context) Logger
}

type contextKey string

// requestIDKey stores the request ID in a context.
const requestIDKey contextKey = "request_id"

// WithRequestID returns a context carrying the given request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from ctx, or "" when
// none is set.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
