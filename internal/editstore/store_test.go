package editstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalogpress/internal/catalog"
	"catalogpress/internal/editstore"
	"catalogpress/internal/services"
	"catalogpress/internal/testsupport"
)

func newDraft() editstore.Draft {
	return editstore.Draft{
		TargetID:      "kafka",
		Payload:       editstore.FieldPatch(map[string]any{"investment.eidolons.0.penalty": float64(-10)}),
		EditorID:      "contributor-1",
		ChangeSummary: "Lower E0 penalty",
	}
}

func TestCreateAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	edit, err := store.Create(ctx, newDraft())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if edit.ID == 0 {
		t.Fatal("expected edit ID to be assigned")
	}
	if edit.Status != editstore.StatusPending {
		t.Fatalf("expected pending status, got %s", edit.Status)
	}
	if edit.Payload.Kind != editstore.PayloadFieldPatch {
		t.Fatalf("expected field_patch payload, got %s", edit.Payload.Kind)
	}
	if edit.ChangeSummary != "Lower E0 penalty" {
		t.Fatalf("unexpected change summary %q", edit.ChangeSummary)
	}

	fetched, err := store.GetByID(ctx, edit.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.TargetID != "kafka" {
		t.Fatalf("unexpected target id %q", fetched.TargetID)
	}
	if fetched.Payload.Patches["investment.eidolons.0.penalty"] != float64(-10) {
		t.Fatalf("patch not round-tripped: %#v", fetched.Payload.Patches)
	}
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	draft := newDraft()
	draft.Payload = editstore.Payload{}
	_, err := store.Create(context.Background(), draft)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePersistsTierEdits(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	draft := newDraft()
	draft.TierEdits = map[string]string{"memory-of-chaos": "S"}
	edit, err := store.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if edit.TierEdits["memory-of-chaos"] != "S" {
		t.Fatalf("tier edits not persisted: %#v", edit.TierEdits)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := store.GetByID(context.Background(), 999)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApproveRecordsReviewer(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	edit, err := store.Create(ctx, newDraft())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	approved, err := store.Approve(ctx, edit.ID, "admin-1")
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if approved.Status != editstore.StatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if approved.ReviewerID != "admin-1" {
		t.Fatalf("expected reviewer recorded, got %q", approved.ReviewerID)
	}
	if approved.ReviewedAt == nil {
		t.Fatal("expected reviewed_at to be set")
	}
}

func TestRejectIsTerminal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	edit, err := store.Create(ctx, newDraft())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Reject(ctx, edit.ID, "admin-1"); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	if _, err := store.Approve(ctx, edit.ID, "admin-2"); !errors.Is(err, services.ErrInvalidState) {
		t.Fatalf("expected invalid state approving rejected edit, got %v", err)
	}
}

func TestMarkDeployedRequiresApproved(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	edit, err := store.Create(ctx, newDraft())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.MarkDeployed(ctx, edit.ID, "rev-1", "admin-1", time.Now())
	if !errors.Is(err, services.ErrInvalidState) {
		t.Fatalf("expected invalid state for pending edit, got %v", err)
	}

	current, err := store.GetByID(ctx, edit.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if current.Status != editstore.StatusPending {
		t.Fatalf("status mutated by failed finalize: %s", current.Status)
	}
}

func TestMarkDeployedIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	edit, err := store.Create(ctx, newDraft())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Approve(ctx, edit.ID, "admin-1"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	deployedAt := time.Now()
	if err := store.MarkDeployed(ctx, edit.ID, "rev-7", "admin-1", deployedAt); err != nil {
		t.Fatalf("first finalize failed: %v", err)
	}
	if err := store.MarkDeployed(ctx, edit.ID, "rev-7", "admin-1", deployedAt); err != nil {
		t.Fatalf("repeat finalize with same revision should succeed: %v", err)
	}

	final, err := store.GetByID(ctx, edit.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if final.Status != editstore.StatusDeployed {
		t.Fatalf("expected deployed, got %s", final.Status)
	}
	if final.CommitRevision != "rev-7" {
		t.Fatalf("expected rev-7, got %q", final.CommitRevision)
	}
	if final.DeployedAt == nil {
		t.Fatal("expected deployed_at to be set")
	}

	if err := store.MarkDeployed(ctx, edit.ID, "rev-8", "admin-1", time.Now()); !errors.Is(err, services.ErrInvalidState) {
		t.Fatalf("expected refusal of different revision, got %v", err)
	}
}

func TestFullReplacePayloadRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	draft := editstore.Draft{
		TargetID: "silver-wolf",
		Payload: editstore.FullReplace(catalog.Record{
			"name":    "Silver Wolf",
			"element": "quantum",
		}),
		EditorID: "contributor-2",
	}
	edit, err := store.Create(ctx, draft)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if edit.Payload.Kind != editstore.PayloadFullReplace {
		t.Fatalf("expected full_replace, got %s", edit.Payload.Kind)
	}
	if edit.Payload.Record["element"] != "quantum" {
		t.Fatalf("record not round-tripped: %#v", edit.Payload.Record)
	}
}

func TestListAndStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first, err := store.Create(ctx, newDraft())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, newDraft()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Approve(ctx, first.ID, "admin-1"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	pending, err := store.List(ctx, editstore.StatusPending)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending edit, got %d", len(pending))
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(all))
	}
	if all[0].ID < all[1].ID {
		t.Fatal("expected newest-first ordering")
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[editstore.StatusPending] != 1 || stats[editstore.StatusApproved] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}
