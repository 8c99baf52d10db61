package api

import "catalogpress/internal/catalog"

// Edit is the transport representation of an edit proposal.
type Edit struct {
	ID             int64             `json:"id"`
	TargetID       string            `json:"targetId"`
	PayloadKind    string            `json:"payloadKind"`
	Record         catalog.Record    `json:"record,omitempty"`
	Patches        map[string]any    `json:"patches,omitempty"`
	TierEdits      map[string]string `json:"tierEdits,omitempty"`
	Status         string            `json:"status"`
	EditorID       string            `json:"editorId"`
	ReviewerID     string            `json:"reviewerId,omitempty"`
	ChangeSummary  string            `json:"changeSummary,omitempty"`
	CommitRevision string            `json:"commitRevision,omitempty"`
	CreatedAt      string            `json:"createdAt"`
	UpdatedAt      string            `json:"updatedAt"`
	ReviewedAt     string            `json:"reviewedAt,omitempty"`
	DeployedAt     string            `json:"deployedAt,omitempty"`
}

// EditListResponse wraps the edit listing endpoint payload.
type EditListResponse struct {
	Edits []Edit `json:"edits"`
}

// EditResponse wraps a single edit payload.
type EditResponse struct {
	Edit Edit `json:"edit"`
}

// CreateEditRequest is the inbound shape for new edit proposals.
type CreateEditRequest struct {
	TargetID      string            `json:"targetId"`
	PayloadKind   string            `json:"payloadKind"`
	Record        catalog.Record    `json:"record,omitempty"`
	Patches       map[string]any    `json:"patches,omitempty"`
	TierEdits     map[string]string `json:"tierEdits,omitempty"`
	ChangeSummary string            `json:"changeSummary,omitempty"`
}

// DeployResponse reports a completed deployment.
type DeployResponse struct {
	Revision string `json:"revision"`
	Message  string `json:"message"`
	Warning  string `json:"warning,omitempty"`
}

// RecordResponse carries the current canonical record for inspection.
type RecordResponse struct {
	TargetID string         `json:"targetId"`
	Revision string         `json:"revision"`
	Record   catalog.Record `json:"record"`
}

// ErrorResponse is the controlled failure shape: a stable kind plus a
// caller-safe message, never internal error text.
type ErrorResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}
