package api

import (
	"net/http"
	"strings"

	"catalogpress/internal/deploy"
	"catalogpress/internal/services"
)

// Authenticator resolves the caller identity for a request. Credential
// verification and role assignment live outside this module; the daemon
// ships a static-token implementation and tests inject fakes.
type Authenticator interface {
	Authenticate(r *http.Request) (deploy.Identity, error)
}

// StaticTokenAuthenticator grants a fixed identity to callers presenting the
// configured bearer token.
type StaticTokenAuthenticator struct {
	Token    string
	Identity deploy.Identity
}

// Authenticate checks the Authorization header against the configured token.
func (a StaticTokenAuthenticator) Authenticate(r *http.Request) (deploy.Identity, error) {
	if a.Token == "" {
		return deploy.Identity{}, services.Wrap(services.ErrAuth, "api", "authenticate", "api token is not configured", nil)
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) != a.Token {
		return deploy.Identity{}, services.Wrap(services.ErrAuth, "api", "authenticate", "missing or invalid bearer token", nil)
	}
	return a.Identity, nil
}
