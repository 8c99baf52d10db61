package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	ErrAuth              = errors.New("authorization error")
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrMalformedDocument = errors.New("malformed document")
	ErrConflict          = errors.New("revision conflict")
	ErrRateLimited       = errors.New("rate limited")
	ErrUpstream          = errors.New("upstream error")
	ErrTransport         = errors.New("transport error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

// RateLimitError reports an upstream rate limit along with the delay the
// caller should wait before retrying. The retry-after value must travel to
// the outermost caller intact.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// RetryAfter extracts the retry delay from a rate-limit error chain.
func RetryAfter(err error) (time.Duration, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	return 0, false
}

// UpstreamStatusError captures a non-2xx, non-rate-limit response from the
// content repository. Snippet holds a trimmed portion of the upstream body
// for logs; it is never relayed to callers.
type UpstreamStatusError struct {
	StatusCode int
	Snippet    string
}

func (e *UpstreamStatusError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("upstream returned %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Snippet)
}

func (e *UpstreamStatusError) Unwrap() error { return ErrUpstream }

// UpstreamStatus extracts the upstream HTTP status from an error chain.
func UpstreamStatus(err error) (int, bool) {
	var up *UpstreamStatusError
	if errors.As(err, &up) {
		return up.StatusCode, true
	}
	return 0, false
}

// HTTPStatus maps a classified error to the status the API layer should
// return. Upstream failures map to gateway errors so corrupt or unavailable
// canonical content is never presented as caller input error.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrAuth):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrMalformedDocument):
		return http.StatusInternalServerError
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, ErrTransport):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Kind returns the stable classification name for an error. API responses
// carry this instead of raw error text.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrMalformedDocument):
		return "malformed_document"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "internal"
	}
}

// PublicMessage returns the controlled, caller-safe message for an error.
// Internal error text never crosses the API boundary verbatim.
func PublicMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuth):
		return "caller is not authorized for this operation"
	case errors.Is(err, ErrValidation):
		return "request is malformed"
	case errors.Is(err, ErrNotFound):
		return "requested resource was not found"
	case errors.Is(err, ErrInvalidState):
		return "edit is not in a deployable state"
	case errors.Is(err, ErrConflict):
		return "canonical content changed since it was read; retry the deployment"
	case errors.Is(err, ErrRateLimited):
		if delay, ok := RetryAfter(err); ok && delay > 0 {
			return fmt.Sprintf("content repository rate limit reached; retry after %s", delay)
		}
		return "content repository rate limit reached"
	case errors.Is(err, ErrMalformedDocument):
		return "canonical content could not be decoded"
	case errors.Is(err, ErrUpstream):
		return "content repository rejected the request"
	case errors.Is(err, ErrTransport):
		return "content repository is unreachable"
	default:
		return "internal error"
	}
}
