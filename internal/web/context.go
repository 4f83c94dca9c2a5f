package web

import (
	"context"
	"log/slog"

	"github.com/example/scheme-discovery/internal/logging"
)

type contextKey string

const schemeIDContextKey contextKey = "scheme_id"

// ContextWithLogger returns a derived context carrying the request logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request logger from context if available.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// ContextWithSchemeID injects the scheme identifier resolved from the request path.
func ContextWithSchemeID(ctx context.Context, schemeID string) context.Context {
	return context.WithValue(ctx, schemeIDContextKey, schemeID)
}

// SchemeIDFromContext extracts a scheme identifier previously associated with the context.
func SchemeIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(schemeIDContextKey).(string)
	return id, ok
}
