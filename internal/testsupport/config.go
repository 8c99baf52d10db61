package testsupport

import (
	"path/filepath"
	"testing"

	"catalogpress/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Upstream.BaseURL = "https://upstream.test/api/repos/catalog"
	cfg.Upstream.Token = "test-token"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithUpstreamBaseURL overrides the content repository base URL.
func WithUpstreamBaseURL(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Upstream.BaseURL = baseURL
	}
}
