// Package logging constructs the process slog logger and provides the
// standardized attribute keys used for deployment correlation (component,
// edit_id, target_id, revision, correlation_id).
package logging
