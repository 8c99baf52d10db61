package editstore

import (
	"errors"
	"strings"
	"time"

	"catalogpress/internal/catalog"
)

// Status represents the review lifecycle of an edit.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusDeployed Status = "deployed"
)

var allStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusDeployed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ValidStatus reports whether value names a known status.
func ValidStatus(value Status) bool {
	_, ok := statusSet[value]
	return ok
}

var allowedTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusDeployed},
}

// CanTransition reports whether from may legally move to to. Deployed and
// rejected are terminal.
func CanTransition(from, to Status) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Terminal reports whether status permits no further transitions.
func Terminal(status Status) bool {
	return len(allowedTransitions[status]) == 0
}

// PayloadKind discriminates the two edit payload variants.
type PayloadKind string

const (
	PayloadFullReplace PayloadKind = "full_replace"
	PayloadFieldPatch  PayloadKind = "field_patch"
)

// Payload is the tagged union an edit carries: either a whole-record
// replacement or a set of path-addressed field patches, never both.
type Payload struct {
	Kind    PayloadKind    `json:"kind"`
	Record  catalog.Record `json:"record,omitempty"`
	Patches map[string]any `json:"patches,omitempty"`
}

// FullReplace builds a whole-record overwrite payload.
func FullReplace(rec catalog.Record) Payload {
	return Payload{Kind: PayloadFullReplace, Record: rec}
}

// FieldPatch builds a sparse path-addressed payload.
func FieldPatch(patches map[string]any) Payload {
	return Payload{Kind: PayloadFieldPatch, Patches: patches}
}

// Validate enforces the exactly-one-variant invariant.
func (p Payload) Validate() error {
	switch p.Kind {
	case PayloadFullReplace:
		if p.Record == nil {
			return errors.New("full_replace payload requires a record")
		}
		if len(p.Patches) != 0 {
			return errors.New("full_replace payload must not carry patches")
		}
	case PayloadFieldPatch:
		if len(p.Patches) == 0 {
			return errors.New("field_patch payload requires at least one patch")
		}
		if p.Record != nil {
			return errors.New("field_patch payload must not carry a record")
		}
	default:
		return errors.New("payload kind is required")
	}
	return nil
}

// Edit is one proposal to change a catalog record, together with its review
// and deployment provenance.
type Edit struct {
	ID             int64
	TargetID       string
	Payload        Payload
	TierEdits      map[string]string
	Status         Status
	EditorID       string
	ReviewerID     string
	ChangeSummary  string
	CommitRevision string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ReviewedAt     *time.Time
	DeployedAt     *time.Time
}

// Draft carries the caller-supplied fields for a new edit proposal.
type Draft struct {
	TargetID      string
	Payload       Payload
	TierEdits     map[string]string
	EditorID      string
	ChangeSummary string
}

// Validate checks a draft before insertion.
func (d Draft) Validate() error {
	if !catalog.ValidTargetID(d.TargetID) {
		return errors.New("target id is not valid")
	}
	if strings.TrimSpace(d.EditorID) == "" {
		return errors.New("editor id is required")
	}
	return d.Payload.Validate()
}
