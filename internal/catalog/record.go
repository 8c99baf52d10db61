package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Record is one catalog entry: an arbitrarily nested structure of scalars,
// map[string]any mappings, and []any sequences. Records carry no identity of
// their own; the target id addressing them lives on the Edit.
type Record map[string]any

// DisplayName returns the record's name field when present, falling back to
// a title-cased rendering of the target id.
func (r Record) DisplayName(targetID string) string {
	if name, ok := r["name"].(string); ok {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			return trimmed
		}
	}
	return titleFromID(targetID)
}

func titleFromID(targetID string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(targetID), "-", " ")
	if cleaned == "" {
		return "Unknown Record"
	}
	return cases.Title(language.Und).String(cleaned)
}
