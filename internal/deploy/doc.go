// Package deploy orchestrates the approve-to-deployed transition for catalog
// edits: load the edit, guard its status, materialize the record (patching
// the current canonical content or taking a full replacement), encode it,
// commit the new document, and finalize the edit with the resulting
// revision.
//
// The sequence is strict. Failures before commit are side-effect free and
// retryable with the same edit id. A finalize failure after a successful
// commit is the known partial-failure window: it is logged with the edit id,
// target id, and committed revision, and finalize is idempotent so the fix
// is re-running it with that revision.
package deploy
