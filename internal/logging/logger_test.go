package logging_test

import (
	"context"
	"testing"

	"catalogpress/internal/logging"
	"catalogpress/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewDefaultsToConsole(t *testing.T) {
	logger, err := logging.New(logging.Options{Level: "debug"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger")
	}
}

func TestContextFields(t *testing.T) {
	ctx := services.WithEditID(context.Background(), 5)
	ctx = services.WithTargetID(ctx, "kafka")
	ctx = services.WithRequestID(ctx, "req-1")

	fields := logging.ContextFields(ctx)
	if len(fields) != 3 {
		t.Fatalf("expected 3 context fields, got %d", len(fields))
	}

	keys := map[string]bool{}
	for _, field := range fields {
		keys[field.Key] = true
	}
	for _, want := range []string{logging.FieldEditID, logging.FieldTargetID, logging.FieldCorrelationID} {
		if !keys[want] {
			t.Fatalf("missing field %q in %v", want, keys)
		}
	}
}

func TestWithContextNilLogger(t *testing.T) {
	logger := logging.WithContext(context.Background(), nil)
	if logger == nil {
		t.Fatal("expected fallback logger")
	}
}
