package services

import (
	"context"
	"log/slog"

	"cnhpulse/internal/infrastructure"
)

// logViewError logs a failed dashboard view with the request's trace context
func logViewError(ctx context.Context, view, message string, attrs ...slog.Attr) {
	logger := infrastructure.LoggerWithContext(ctx)

	allAttrs := []slog.Attr{
		slog.String("component", "dashboard_service"),
		slog.String("view", view),
	}
	allAttrs = append(allAttrs, attrs...)

	logger.LogAttrs(ctx, slog.LevelError, message, allAttrs...)
}
