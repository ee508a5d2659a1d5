// Package observability carries the request-scoped logger and request id
// through context so the use case and adapters log with the same fields as
// the HTTP access log.
package observability

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

type requestIDKey struct{}

// ContextWithLogger attaches lg to ctx. A nil ctx or logger is returned unchanged.
func ContextWithLogger(ctx context.Context, lg *slog.Logger) context.Context {
	if ctx == nil || lg == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, lg)
}

// LoggerFromContext returns the attached logger, or slog.Default.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if lg, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && lg != nil {
		return lg
	}
	return slog.Default()
}

// ContextWithRequestID stores a non-empty request id.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the stored request id or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}

// Annotate returns a ctx whose logger carries request_id, for code paths
// that start outside the HTTP middleware (the CLI, background publishes).
func Annotate(ctx context.Context, requestID string) context.Context {
	ctx = ContextWithRequestID(ctx, requestID)
	if requestID == "" {
		return ctx
	}
	return ContextWithLogger(ctx, LoggerFromContext(ctx).With(slog.String("request_id", requestID)))
}
