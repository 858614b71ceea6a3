package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}

	switch c.Backend.Kind {
	case BackendNone:
	case BackendREST:
		if err := validURL(c.Backend.RESTURL); err != nil {
			return fmt.Errorf("backend.rest_url: %w", err)
		}
		if c.Backend.Table == "" {
			return fmt.Errorf("backend.table is required for the rest backend")
		}
	case BackendPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres backend")
		}
		if c.Database.MaxConns <= 0 {
			return fmt.Errorf("database.max_conns must be > 0 (got %d)", c.Database.MaxConns)
		}
		if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("database.min_conns must be between 0 and max_conns (got %d)", c.Database.MinConns)
		}
	default:
		return fmt.Errorf("backend.kind must be rest, postgres or empty (got %q)", c.Backend.Kind)
	}

	if c.Backend.Enabled() {
		if err := validURL(c.Auth.URL); err != nil {
			return fmt.Errorf("auth.url: %w", err)
		}
	}
	return nil
}

func validURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an absolute http(s) URL (got %q)", raw)
	}
	return nil
}
