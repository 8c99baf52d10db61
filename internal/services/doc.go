// Package services defines the shared error taxonomy and context plumbing
// used across the deployment pipeline.
//
// Errors are classified by wrapping them with sentinel markers (ErrAuth,
// ErrValidation, ErrNotFound, ErrInvalidState, ErrMalformedDocument,
// ErrConflict, ErrRateLimited, ErrUpstream, ErrTransport). Callers test
// classification with errors.Is and never by message text. The API layer maps
// markers to HTTP statuses via HTTPStatus and renders only the controlled
// Kind/PublicMessage pair, so internal error text is never relayed to
// untrusted callers.
//
// RateLimitError carries the upstream retry-after delay; it must propagate
// intact to the outermost caller rather than being swallowed or converted.
package services
