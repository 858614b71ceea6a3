package config

import "time"

// Config is the root configuration for wt, stored in ~/.worktimer/config.yaml.
type Config struct {
	DataDir  string         `yaml:"data_dir" env:"WT_DATA_DIR"`
	Log      LogConfig      `yaml:"log"`
	Timer    TimerConfig    `yaml:"timer"`
	Backend  BackendConfig  `yaml:"backend"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"WT_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"WT_LOG_FORMAT" env-default:"text"`
}

// TimerConfig holds dashboard defaults.
type TimerConfig struct {
	DefaultCategory      string `yaml:"default_category"       env:"WT_DEFAULT_CATEGORY"`
	DefaultCategoryLabel string `yaml:"default_category_label" env:"WT_DEFAULT_CATEGORY_LABEL"`
}

// Backend kinds.
const (
	BackendNone     = ""
	BackendREST     = "rest"
	BackendPostgres = "postgres"
)

// BackendConfig selects the remote record store.
type BackendConfig struct {
	Kind    string `yaml:"kind"     env:"WT_BACKEND"`
	RESTURL string `yaml:"rest_url" env:"WT_REST_URL"`
	APIKey  string `yaml:"api_key"  env:"WT_API_KEY"`
	Table   string `yaml:"table"    env:"WT_TABLE" env-default:"M_Timer"`
}

// DatabaseConfig holds PostgreSQL connection settings for the postgres backend.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"WT_DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"WT_DATABASE_MAX_CONNS"          env-default:"4"`
	MinConns        int32         `yaml:"min_conns"          env:"WT_DATABASE_MIN_CONNS"          env-default:"0"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"WT_DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"WT_DATABASE_MAX_CONN_IDLE_TIME" env-default:"5m"`
}

// AuthConfig holds the authentication endpoint settings.
type AuthConfig struct {
	URL      string `yaml:"url"       env:"WT_AUTH_URL"`
	ClientID string `yaml:"client_id" env:"WT_AUTH_CLIENT_ID" env-default:"wt"`
}

// Enabled reports whether a remote backend is configured.
func (c BackendConfig) Enabled() bool {
	return c.Kind != BackendNone
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# wt configuration - ~/.worktimer/config.yaml
#
# All settings are optional. Environment variables (shown in brackets)
# take precedence over this file.

# Directory holding store.json and the auth token. [WT_DATA_DIR]
# Empty means ~/.worktimer.
data_dir: ""

log:
  # debug, info, warn or error. [WT_LOG_LEVEL]
  level: info
  # text or json, written to stderr. [WT_LOG_FORMAT]
  format: text

timer:
  # Work category used by the "w" key in "wt watch". [WT_DEFAULT_CATEGORY]
  default_category: ""
  default_category_label: ""

backend:
  # Remote record store: "rest", "postgres" or "" to disable sync. [WT_BACKEND]
  kind: ""
  # Base URL of the REST API, e.g. https://example.org/rest/v1 [WT_REST_URL]
  rest_url: ""
  # API key sent with every REST request. [WT_API_KEY]
  api_key: ""
  # Table holding the session rows. [WT_TABLE]
  table: M_Timer

database:
  # PostgreSQL DSN for the postgres backend. [WT_DATABASE_DSN]
  dsn: ""
  max_conns: 4
  min_conns: 0
  max_conn_lifetime: 1h
  max_conn_idle_time: 5m

auth:
  # Base URL of the auth API; /token, /signup, /recover and /logout are
  # appended. [WT_AUTH_URL]
  url: ""
  client_id: wt
`
