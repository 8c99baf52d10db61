package api

import (
	"context"
	"fmt"

	"catalogpress/internal/editstore"
	"catalogpress/internal/services"
)

// EditReviewStore abstracts the edit persistence operations the API exposes.
type EditReviewStore interface {
	Create(ctx context.Context, draft editstore.Draft) (*editstore.Edit, error)
	GetByID(ctx context.Context, id int64) (*editstore.Edit, error)
	List(ctx context.Context, statuses ...editstore.Status) ([]*editstore.Edit, error)
	Approve(ctx context.Context, id int64, reviewerID string) (*editstore.Edit, error)
	Reject(ctx context.Context, id int64, reviewerID string) (*editstore.Edit, error)
}

// EditService exposes edit lifecycle operations returning API DTOs.
type EditService struct {
	store EditReviewStore
}

// NewEditService constructs an EditService around the provided store.
func NewEditService(store EditReviewStore) *EditService {
	if store == nil {
		return nil
	}
	return &EditService{store: store}
}

// Create validates and stores a new edit proposal on behalf of editorID.
func (s *EditService) Create(ctx context.Context, req CreateEditRequest, editorID string) (Edit, error) {
	payload, err := payloadFromRequest(req)
	if err != nil {
		return Edit{}, err
	}
	edit, err := s.store.Create(ctx, editstore.Draft{
		TargetID:      req.TargetID,
		Payload:       payload,
		TierEdits:     req.TierEdits,
		EditorID:      editorID,
		ChangeSummary: req.ChangeSummary,
	})
	if err != nil {
		return Edit{}, err
	}
	return FromEdit(edit), nil
}

// Get returns one edit.
func (s *EditService) Get(ctx context.Context, id int64) (Edit, error) {
	edit, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Edit{}, err
	}
	return FromEdit(edit), nil
}

// List returns edits filtered by the given statuses.
func (s *EditService) List(ctx context.Context, statuses ...editstore.Status) ([]Edit, error) {
	for _, status := range statuses {
		if !editstore.ValidStatus(status) {
			return nil, services.Wrap(services.ErrValidation, "api", "list", fmt.Sprintf("unknown status %q", status), nil)
		}
	}
	edits, err := s.store.List(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	return FromEdits(edits), nil
}

// Approve records a reviewer approval.
func (s *EditService) Approve(ctx context.Context, id int64, reviewerID string) (Edit, error) {
	edit, err := s.store.Approve(ctx, id, reviewerID)
	if err != nil {
		return Edit{}, err
	}
	return FromEdit(edit), nil
}

// Reject records a reviewer rejection.
func (s *EditService) Reject(ctx context.Context, id int64, reviewerID string) (Edit, error) {
	edit, err := s.store.Reject(ctx, id, reviewerID)
	if err != nil {
		return Edit{}, err
	}
	return FromEdit(edit), nil
}

func payloadFromRequest(req CreateEditRequest) (editstore.Payload, error) {
	switch editstore.PayloadKind(req.PayloadKind) {
	case editstore.PayloadFullReplace:
		if req.Record == nil {
			return editstore.Payload{}, services.Wrap(services.ErrValidation, "api", "create", "full_replace requires a record", nil)
		}
		return editstore.FullReplace(req.Record), nil
	case editstore.PayloadFieldPatch:
		if len(req.Patches) == 0 {
			return editstore.Payload{}, services.Wrap(services.ErrValidation, "api", "create", "field_patch requires patches", nil)
		}
		return editstore.FieldPatch(req.Patches), nil
	default:
		return editstore.Payload{}, services.Wrap(services.ErrValidation, "api", "create", fmt.Sprintf("unknown payload kind %q", req.PayloadKind), nil)
	}
}
