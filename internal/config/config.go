package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
	APIToken string `toml:"api_token"`
}

// Upstream contains configuration for the version-controlled content
// repository that holds canonical catalog documents.
type Upstream struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token"`
	Branch         string `toml:"branch"`
	ContentDir     string `toml:"content_dir"`
	FileExtension  string `toml:"file_extension"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Deploy contains deployment behavior configuration.
type Deploy struct {
	DefaultChangeSummary string `toml:"default_change_summary"`
}

// Config is the root application configuration.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Upstream Upstream `toml:"upstream"`
	Logging  Logging  `toml:"logging"`
	Deploy   Deploy   `toml:"deploy"`
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "catalogpress.toml")
	}
	return filepath.Join(configDir, "catalogpress", "config.toml")
}

// Load reads configuration from path, falling back to the default location
// when path is empty. A missing file yields defaults; callers validate before
// use. The resolved path is returned alongside the config.
func Load(path string) (*Config, string, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		resolved = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, resolved, nil
		}
		return nil, resolved, fmt.Errorf("read config %s: %w", resolved, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, resolved, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	cfg.normalize()
	return &cfg, resolved, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the data and log directories when missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) normalize() {
	c.Paths.DataDir = strings.TrimSpace(c.Paths.DataDir)
	c.Paths.LogDir = strings.TrimSpace(c.Paths.LogDir)
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Upstream.BaseURL = strings.TrimRight(strings.TrimSpace(c.Upstream.BaseURL), "/")
	c.Upstream.Token = strings.TrimSpace(c.Upstream.Token)
	c.Upstream.Branch = strings.TrimSpace(c.Upstream.Branch)
	c.Upstream.ContentDir = strings.Trim(strings.TrimSpace(c.Upstream.ContentDir), "/")
	c.Upstream.FileExtension = strings.TrimSpace(c.Upstream.FileExtension)
	if c.Upstream.FileExtension != "" && !strings.HasPrefix(c.Upstream.FileExtension, ".") {
		c.Upstream.FileExtension = "." + c.Upstream.FileExtension
	}
	if c.Upstream.Branch == "" {
		c.Upstream.Branch = defaultBranch
	}
	if c.Upstream.ContentDir == "" {
		c.Upstream.ContentDir = defaultContentDir
	}
	if c.Upstream.FileExtension == "" {
		c.Upstream.FileExtension = defaultFileExtension
	}
	if c.Upstream.RequestTimeout <= 0 {
		c.Upstream.RequestTimeout = defaultRequestTimeout
	}
	if c.Deploy.DefaultChangeSummary == "" {
		c.Deploy.DefaultChangeSummary = defaultChangeSummary
	}
}
