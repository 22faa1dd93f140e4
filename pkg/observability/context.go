package observability

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type ctxKey int

const (
	correlationIDCtx ctxKey = iota
	requestIDCtx
	userIDCtx
)

// Attribute names shared by request logs and the context-aware handler.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
	UserIDKey        = "user_id"
	DurationKey      = "duration_ms"
	StatusKey        = "status"
)

// contextAttrs lists, in log order, the request-scoped IDs the log handler
// copies onto every record.
var contextAttrs = []struct {
	key  ctxKey
	attr string
}{
	{correlationIDCtx, CorrelationIDKey},
	{requestIDCtx, RequestIDKey},
	{userIDCtx, UserIDKey},
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(key).(string)
	return s
}

func orNewID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// WithCorrelationID stores the correlation ID, minting one when id is empty.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDCtx, orNewID(id))
}

// CorrelationIDFromContext returns the correlation ID or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationIDCtx)
}

// WithRequestID stores the request ID, minting one when id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtx, orNewID(id))
}

// RequestIDFromContext returns the request ID or "".
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDCtx)
}

// WithUserID records the authenticated user for log enrichment.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtx, userID)
}

// UserIDFromContext returns the user ID or "".
func UserIDFromContext(ctx context.Context) string {
	return stringValue(ctx, userIDCtx)
}

// ContextAttrs returns the request-scoped IDs present on ctx as log attributes.
func ContextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	for _, a := range contextAttrs {
		if v := stringValue(ctx, a.key); v != "" {
			attrs = append(attrs, slog.String(a.attr, v))
		}
	}
	return attrs
}
