package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that the configuration can support the deployment pipeline.
// It is called by the daemon and CLI before opening stores or clients.
func (c *Config) Validate() error {
	var problems []string

	if c.Paths.DataDir == "" {
		problems = append(problems, "paths.data_dir is required")
	}
	if c.Upstream.BaseURL == "" {
		problems = append(problems, "upstream.base_url is required")
	} else if parsed, err := url.Parse(c.Upstream.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		problems = append(problems, fmt.Sprintf("upstream.base_url %q is not a valid URL", c.Upstream.BaseURL))
	}
	if c.Upstream.Token == "" {
		problems = append(problems, "upstream.token is required")
	}
	if c.Upstream.RequestTimeout <= 0 {
		problems = append(problems, "upstream.request_timeout must be positive")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not supported", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
