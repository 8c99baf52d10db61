package api_test

import (
	"context"
	"errors"
	"testing"

	"catalogpress/internal/api"
	"catalogpress/internal/editstore"
	"catalogpress/internal/services"
	"catalogpress/internal/testsupport"
)

func newService(t *testing.T) *api.EditService {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	return api.NewEditService(store)
}

func TestCreateFieldPatchEdit(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	edit, err := svc.Create(ctx, api.CreateEditRequest{
		TargetID:      "silver-wolf",
		PayloadKind:   "field_patch",
		Patches:       map[string]any{"stats.speed": float64(107)},
		TierEdits:     map[string]string{"pvp": "S"},
		ChangeSummary: "Speed correction",
	}, "editor-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if edit.Status != string(editstore.StatusPending) {
		t.Fatalf("status = %q, want pending", edit.Status)
	}
	if edit.EditorID != "editor-1" {
		t.Fatalf("editor = %q", edit.EditorID)
	}
	if edit.Patches["stats.speed"] != float64(107) {
		t.Fatalf("patches = %+v", edit.Patches)
	}
	if edit.TierEdits["pvp"] != "S" {
		t.Fatalf("tier edits = %+v", edit.TierEdits)
	}
	if edit.CreatedAt == "" || edit.UpdatedAt == "" {
		t.Fatal("timestamps missing from DTO")
	}
}

func TestCreateRejectsMismatchedPayload(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  api.CreateEditRequest
	}{
		{"unknown kind", api.CreateEditRequest{TargetID: "kafka", PayloadKind: "partial"}},
		{"full replace without record", api.CreateEditRequest{TargetID: "kafka", PayloadKind: "full_replace"}},
		{"field patch without patches", api.CreateEditRequest{TargetID: "kafka", PayloadKind: "field_patch"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.req, "editor-1"); !errors.Is(err, services.ErrValidation) {
				t.Fatalf("err = %v, want validation", err)
			}
		})
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc := newService(t)

	if _, err := svc.List(context.Background(), editstore.Status("bogus")); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestApproveAndRejectRoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, api.CreateEditRequest{
		TargetID:    "kafka",
		PayloadKind: "field_patch",
		Patches:     map[string]any{"name": "Kafka Prime"},
	}, "editor-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(ctx, api.CreateEditRequest{
		TargetID:    "kafka",
		PayloadKind: "field_patch",
		Patches:     map[string]any{"name": "Kafka"},
	}, "editor-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	approved, err := svc.Approve(ctx, first.ID, "reviewer-1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != string(editstore.StatusApproved) || approved.ReviewerID != "reviewer-1" {
		t.Fatalf("approved = %+v", approved)
	}
	if approved.ReviewedAt == "" {
		t.Fatal("approve did not stamp reviewedAt")
	}

	rejected, err := svc.Reject(ctx, second.ID, "reviewer-1")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != string(editstore.StatusRejected) {
		t.Fatalf("rejected status = %q", rejected.Status)
	}

	if _, err := svc.Approve(ctx, second.ID, "reviewer-1"); !errors.Is(err, services.ErrInvalidState) {
		t.Fatalf("approve after reject err = %v, want invalid state", err)
	}

	pending, err := svc.List(ctx, editstore.StatusPending)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending after review = %d, want 0", len(pending))
	}
}
