package config

import (
	"os"
	"path/filepath"
)

const (
	defaultBranch         = "main"
	defaultContentDir     = "src/data/characters"
	defaultFileExtension  = ".ts"
	defaultRequestTimeout = 30
	defaultChangeSummary  = "Content update"
)

// Default returns the baseline configuration before any file overrides.
func Default() Config {
	dataRoot := "."
	if home, err := os.UserHomeDir(); err == nil {
		dataRoot = filepath.Join(home, ".local", "share", "catalogpress")
	}
	return Config{
		Paths: Paths{
			DataDir: dataRoot,
			LogDir:  filepath.Join(dataRoot, "logs"),
			APIBind: "127.0.0.1:7487",
		},
		Upstream: Upstream{
			Branch:         defaultBranch,
			ContentDir:     defaultContentDir,
			FileExtension:  defaultFileExtension,
			RequestTimeout: defaultRequestTimeout,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		Deploy: Deploy{
			DefaultChangeSummary: defaultChangeSummary,
		},
	}
}
