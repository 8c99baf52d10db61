package contentrepo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"catalogpress/internal/config"
	"catalogpress/internal/services"
)

// HTTPDoer describes the HTTP client used by the repository client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FileState is the current canonical content of one repository path together
// with its revision marker.
type FileState struct {
	Content  []byte
	Revision string
}

// Client talks to the contents API of the version-controlled repository that
// stores canonical catalog documents. Every call is a single attempt; retry
// policy belongs to the caller.
type Client struct {
	baseURL string
	token   string
	branch  string
	client  HTTPDoer
}

// New constructs a client from application config with a bounded-timeout
// HTTP client.
func New(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Upstream.RequestTimeout) * time.Second
	return &Client{
		baseURL: strings.TrimRight(cfg.Upstream.BaseURL, "/"),
		token:   cfg.Upstream.Token,
		branch:  cfg.Upstream.Branch,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewWithDoer constructs a client around a caller-supplied HTTP doer.
// Intended for tests.
func NewWithDoer(baseURL, token, branch string, doer HTTPDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		branch:  strings.TrimSpace(branch),
		client:  doer,
	}
}

type fileEnvelope struct {
	Content  string `json:"content"`
	Revision string `json:"revision"`
}

type commitRequest struct {
	Message  string `json:"message"`
	Content  string `json:"content"`
	Branch   string `json:"branch"`
	Revision string `json:"revision,omitempty"`
}

type commitEnvelope struct {
	Revision string `json:"revision"`
}

// Fetch retrieves the current canonical content and revision for path.
func (c *Client) Fetch(ctx context.Context, path string) (FileState, error) {
	endpoint := fmt.Sprintf("%s/contents/%s?ref=%s", c.baseURL, path, c.branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return FileState{}, fmt.Errorf("build fetch request: %w", err)
	}
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return FileState{}, services.Wrap(services.ErrTransport, "contentrepo", "fetch", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FileState{}, services.Wrap(services.ErrTransport, "contentrepo", "fetch", "read body", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return FileState{}, services.Wrap(services.ErrNotFound, "contentrepo", "fetch", path, nil)
	}
	if err := classifyStatus(resp, body); err != nil {
		return FileState{}, err
	}

	var envelope fileEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return FileState{}, services.Wrap(services.ErrUpstream, "contentrepo", "fetch", "decode response", err)
	}
	content, err := base64.StdEncoding.DecodeString(envelope.Content)
	if err != nil {
		return FileState{}, services.Wrap(services.ErrUpstream, "contentrepo", "fetch", "decode content", err)
	}
	return FileState{Content: content, Revision: envelope.Revision}, nil
}

// Commit writes a new revision of path directly to the configured branch and
// returns the resulting revision. When priorRevision is non-empty the
// upstream performs a conditional write: a 409 means the path moved since it
// was read and surfaces as a conflict. Commit is attempted exactly once.
func (c *Client) Commit(ctx context.Context, path string, content []byte, message, priorRevision string) (string, error) {
	payload := commitRequest{
		Message:  message,
		Content:  base64.StdEncoding.EncodeToString(content),
		Branch:   c.branch,
		Revision: priorRevision,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode commit request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/contents/%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("build commit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "contentrepo", "commit", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "contentrepo", "commit", "read body", err)
	}

	if resp.StatusCode == http.StatusConflict {
		return "", services.Wrap(services.ErrConflict, "contentrepo", "commit", path, nil)
	}
	if err := classifyStatus(resp, body); err != nil {
		return "", err
	}

	var envelope commitEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", services.Wrap(services.ErrUpstream, "contentrepo", "commit", "decode response", err)
	}
	if envelope.Revision == "" {
		return "", services.Wrap(services.ErrUpstream, "contentrepo", "commit", "response missing revision", nil)
	}
	return envelope.Revision, nil
}

func (c *Client) decorate(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
}

// classifyStatus turns non-2xx responses into the error taxonomy: 429 keeps
// its retry-after delay, everything else carries the upstream status.
func classifyStatus(resp *http.Response, body []byte) error {
	if resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return &services.RateLimitError{RetryAfter: retryAfter}
	}
	return &services.UpstreamStatusError{
		StatusCode: resp.StatusCode,
		Snippet:    snippet(body),
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}

func snippet(body []byte) string {
	const limit = 200
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > limit {
		return trimmed[:limit]
	}
	return trimmed
}
