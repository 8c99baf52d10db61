// Package editstore owns the edit proposal lifecycle: pending edits move to
// approved or rejected under reviewer action, and approved edits move to
// deployed when the orchestrator finalizes a commit. Deployed and rejected
// are terminal. All status writes are conditional updates guarded by the
// transition table, so concurrent callers race safely on the database row.
package editstore
