package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultDirName = ".worktimer"

// Path returns the config file location: WT_CONFIG when set, otherwise
// ~/.worktimer/config.yaml. The bool reports whether WT_CONFIG was used.
func Path() (string, bool, error) {
	if p := os.Getenv("WT_CONFIG"); p != "" {
		return p, true, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, defaultDirName, "config.yaml"), false, nil
}

// Load reads the YAML config file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// On first run the annotated template is written to the default location.
// An explicit WT_CONFIG that does not exist is an error.
func Load() (*Config, error) {
	var cfg Config

	path, explicitPath, err := Path()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if _, err := os.Stat(path); err != nil {
		if explicitPath {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.resolveDataDir(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// resolveDataDir fills in the default data directory and expands a leading ~.
func (c *Config) resolveDataDir() error {
	if c.DataDir != "" && !strings.HasPrefix(c.DataDir, "~") {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot determine home directory: %w", err)
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Join(home, defaultDirName)
		return nil
	}
	c.DataDir = filepath.Join(home, strings.TrimPrefix(c.DataDir, "~"))
	return nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
