package api

import (
	"time"

	"catalogpress/internal/editstore"
)

// FromEdit converts an internal edit into its transport representation.
func FromEdit(edit *editstore.Edit) Edit {
	out := Edit{
		ID:             edit.ID,
		TargetID:       edit.TargetID,
		PayloadKind:    string(edit.Payload.Kind),
		Record:         edit.Payload.Record,
		Patches:        edit.Payload.Patches,
		TierEdits:      edit.TierEdits,
		Status:         string(edit.Status),
		EditorID:       edit.EditorID,
		ReviewerID:     edit.ReviewerID,
		ChangeSummary:  edit.ChangeSummary,
		CommitRevision: edit.CommitRevision,
		CreatedAt:      formatTime(edit.CreatedAt),
		UpdatedAt:      formatTime(edit.UpdatedAt),
	}
	if edit.ReviewedAt != nil {
		out.ReviewedAt = formatTime(*edit.ReviewedAt)
	}
	if edit.DeployedAt != nil {
		out.DeployedAt = formatTime(*edit.DeployedAt)
	}
	return out
}

// FromEdits converts a list of internal edits.
func FromEdits(edits []*editstore.Edit) []Edit {
	out := make([]Edit, 0, len(edits))
	for _, edit := range edits {
		out = append(out, FromEdit(edit))
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
