// Package config handles configuration for the records manager,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Backend names accepted for the record store.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config holds runtime settings for the application.
//
// Fields:
//   - DataDir: directory holding users.json, settings.json, and the per-user
//     record tables.
//   - RecordsBackend: "csv" (one table file per user) or "sqlite".
//   - SQLitePath: database file used by the sqlite backend.
//   - SessionSecret: HMAC secret for signing session resume tokens (HS256).
//   - SessionTokenTTL: validity of a resume token.
//   - RefreshDelay: pause before the post-mutation view refresh.
type Config struct {
	DataDir         string
	RecordsBackend  string
	SQLitePath      string
	SessionSecret   string
	SessionTokenTTL time.Duration
	RefreshDelay    time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: The secret is insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.DataDir = "personal_info.db"
	c.RecordsBackend = BackendCSV
	c.SQLitePath = "records.db"
	c.SessionSecret = "secretKey"
	c.SessionTokenTTL = 30 * time.Minute
	c.RefreshDelay = 1 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
