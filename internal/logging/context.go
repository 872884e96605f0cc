package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Context key types.
type chatCtxKey struct{}
type userCtxKey struct{}
type operationCtxKey struct{}

// WithChatID returns a context carrying the originating chat identifier.
func WithChatID(ctx context.Context, chatID int64) context.Context {
	return context.WithValue(ctx, chatCtxKey{}, chatID)
}

// ChatIDFromContext returns the chat identifier, or 0 when absent.
func ChatIDFromContext(ctx context.Context) int64 {
	if v, ok := ctx.Value(chatCtxKey{}).(int64); ok {
		return v
	}
	return 0
}

// WithUserID returns a context carrying the requesting user identifier.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userCtxKey{}, userID)
}

// UserIDFromContext returns the user identifier, or 0 when absent.
func UserIDFromContext(ctx context.Context) int64 {
	if v, ok := ctx.Value(userCtxKey{}).(int64); ok {
		return v
	}
	return 0
}

// WithOperation returns a context tagged with the pipeline operation name.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationCtxKey{}, op)
}

// OperationFromContext returns the operation name, or "" when absent.
func OperationFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(operationCtxKey{}).(string); ok {
		return v
	}
	return ""
}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 6)

	// Trace correlation (from OpenTelemetry)
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}

	if chatID := ChatIDFromContext(ctx); chatID != 0 {
		fields = append(fields, zap.Int64("chat_id", chatID))
	}
	if userID := UserIDFromContext(ctx); userID != 0 {
		fields = append(fields, zap.Int64("user_id", userID))
	}
	if op := OperationFromContext(ctx); op != "" {
		fields = append(fields, zap.String("operation", op))
	}

	return fields
}
