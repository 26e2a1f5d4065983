package config

import "time"

// Config holds runtime settings for the DocVault CLI.
//
// Fields:
//   - ServerURL: base URL of the document service HTTP API.
//   - DatabaseFile: path of the local SQLite file backing the cache.
//   - RequestTimeout: per-request deadline for remote calls.
type Config struct {
	ServerURL      string
	DatabaseFile   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabaseFile = "docvault.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
