package services

import "context"

type contextKey string

const (
	editIDKey    contextKey = "edit_id"
	targetIDKey  contextKey = "target_id"
	requestIDKey contextKey = "request_id"
)

// WithEditID attaches the edit identifier to the context for log correlation.
func WithEditID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, editIDKey, id)
}

// EditIDFromContext extracts the edit identifier, if present.
func EditIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(editIDKey).(int64)
	return id, ok
}

// WithTargetID attaches the catalog target identifier to the context.
func WithTargetID(ctx context.Context, targetID string) context.Context {
	return context.WithValue(ctx, targetIDKey, targetID)
}

// TargetIDFromContext extracts the catalog target identifier, if present.
func TargetIDFromContext(ctx context.Context) (string, bool) {
	target, ok := ctx.Value(targetIDKey).(string)
	return target, ok
}

// WithRequestID attaches a correlation identifier to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the correlation identifier, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}
