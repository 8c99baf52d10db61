package logging

import (
	"context"
	"log/slog"

	"catalogpress/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEditID is the standardized structured logging key for edit identifiers.
	FieldEditID = "edit_id"
	// FieldTargetID is the standardized structured logging key for catalog record identifiers.
	FieldTargetID = "target_id"
	// FieldRevision is the standardized structured logging key for content revisions.
	FieldRevision = "revision"
	// FieldCorrelationID is the standardized structured logging key for per-run correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.EditIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldEditID, id))
	}
	if target, ok := services.TargetIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldTargetID, target))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger carrying the context's standardized fields.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, 0, len(fields))
	for _, field := range fields {
		args = append(args, field)
	}
	return logger.With(args...)
}
