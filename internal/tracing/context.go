// Package tracing records OpenTelemetry spans around highlight runs and
// exports them to a JSONL file, stdout or an OTLP collector.
package tracing

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const sessionIDKey contextKey = "session_id"

// SessionIDFromContext returns the session id stored in ctx, "" if none.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// ContextWithSessionID stores id in ctx. An empty id leaves ctx unchanged.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// EnsureSessionID returns ctx carrying a session id, generating one when
// ctx has none, and that id.
func EnsureSessionID(ctx context.Context) (context.Context, string) {
	if id := SessionIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return context.WithValue(ctx, sessionIDKey, id), id
}
