package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the postdesk CLI.
//
// Fields:
//   - APIBaseURL: scheme://host:port of the content API.
//   - RequestTimeout: per-request HTTP timeout.
//   - SessionDBPath: SQLite file holding the persisted token and identity.
//   - RequestsPerSecond: outbound request budget; 0 disables throttling.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL        string        `env:"API_BASE_URL"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT"`
	SessionDBPath     string        `env:"SESSION_DB"`
	RequestsPerSecond float64       `env:"REQUESTS_PER_SECOND"`
	LogLevel          string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3000"
	c.RequestTimeout = 10 * time.Second
	c.SessionDBPath = "session.db"
	c.RequestsPerSecond = 10
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), POSTDESK_* environment variables and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
