package api_test

import (
	"errors"
	"net/http"
	"testing"

	"catalogpress/internal/api"
	"catalogpress/internal/deploy"
	"catalogpress/internal/services"
)

func TestStaticTokenAuthenticator(t *testing.T) {
	auth := api.StaticTokenAuthenticator{
		Token:    "secret",
		Identity: deploy.Identity{ID: "reviewer-1", Admin: true},
	}

	cases := []struct {
		name   string
		header string
		wantOK bool
	}{
		{"valid token", "Bearer secret", true},
		{"missing header", "", false},
		{"wrong token", "Bearer other", false},
		{"wrong scheme", "Basic secret", false},
		{"token without scheme", "secret", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "http://127.0.0.1/api/edits", nil)
			if err != nil {
				t.Fatalf("build request: %v", err)
			}
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			identity, err := auth.Authenticate(req)
			if tc.wantOK {
				if err != nil {
					t.Fatalf("authenticate: %v", err)
				}
				if identity.ID != "reviewer-1" {
					t.Fatalf("identity = %+v", identity)
				}
				return
			}
			if !errors.Is(err, services.ErrAuth) {
				t.Fatalf("err = %v, want auth classification", err)
			}
		})
	}
}

func TestStaticTokenAuthenticatorUnconfigured(t *testing.T) {
	auth := api.StaticTokenAuthenticator{}

	req, err := http.NewRequest(http.MethodGet, "http://127.0.0.1/api/edits", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer anything")

	if _, err := auth.Authenticate(req); !errors.Is(err, services.ErrAuth) {
		t.Fatalf("err = %v, want auth classification", err)
	}
}
