package deploy_test

import (
	"context"
	"errors"
	"testing"

	"catalogpress/internal/deploy"
	"catalogpress/internal/services"
	"catalogpress/internal/testsupport"
)

func TestInspectorReadsCurrentRecord(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	repo := testsupport.NewFakeRepository(map[string]string{
		"src/data/characters/kafka.ts": kafkaDocument(t, -5),
	})
	inspector := deploy.NewInspector(repo, cfg)

	record, revision, err := inspector.Record(context.Background(), "kafka")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if revision == "" {
		t.Fatal("expected a revision")
	}
	if record["name"] != "Kafka" {
		t.Fatalf("unexpected record: %#v", record)
	}
}

func TestInspectorNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	inspector := deploy.NewInspector(testsupport.NewFakeRepository(nil), cfg)

	_, _, err := inspector.Record(context.Background(), "ghost")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInspectorRejectsInvalidTarget(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	inspector := deploy.NewInspector(testsupport.NewFakeRepository(nil), cfg)

	_, _, err := inspector.Record(context.Background(), "../escape")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInspectorMalformedDocument(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	repo := testsupport.NewFakeRepository(map[string]string{
		"src/data/characters/kafka.ts": "not canonical",
	})
	inspector := deploy.NewInspector(repo, cfg)

	_, _, err := inspector.Record(context.Background(), "kafka")
	if !errors.Is(err, services.ErrMalformedDocument) {
		t.Fatalf("expected malformed document error, got %v", err)
	}
}
