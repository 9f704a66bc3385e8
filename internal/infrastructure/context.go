package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NewTraceID returns a random request or run identifier
func NewTraceID() string {
	return uuid.NewString()
}

// ContextWithTraceID gives ctx a fresh trace ID unless it already carries one
func ContextWithTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, NewTraceID())
}

// LoggerWithContext returns the global logger for a request. When the global
// handler does not add trace_id itself, the ID from ctx is bound explicitly.
func LoggerWithContext(ctx context.Context) *slog.Logger {
	logger := GetLogger()
	if injectsTrace(logger) {
		return logger
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		logger = logger.With(slog.String("trace_id", traceID))
	}
	return logger
}
