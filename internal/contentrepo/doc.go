// Package contentrepo abstracts the remote version-controlled store holding
// canonical catalog documents: fetch current content with its revision, and
// commit a new revision to the main line. Failures are classified into the
// shared taxonomy (not found, rate limited with retry-after, upstream status,
// transport). The client never retries; callers own retry policy.
package contentrepo
