package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkhrutsky/mdskeeper/internal/flagx"
	"github.com/dkhrutsky/mdskeeper/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "1s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	DataDir         string         `json:"data_dir"`
	RecordsBackend  string         `json:"records_backend"`
	SQLitePath      string         `json:"sqlite_path"`
	SessionSecret   string         `json:"session_secret"`
	SessionTokenTTL timex.Duration `json:"session_token_ttl"`
	RefreshDelay    timex.Duration `json:"refresh_delay"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics. The caller is expected to
// merge these values with defaults and command-line flags as part of the
// full configuration process.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.DataDir = c.DataDir
	config.RecordsBackend = c.RecordsBackend
	config.SQLitePath = c.SQLitePath
	config.SessionSecret = c.SessionSecret
	config.SessionTokenTTL = time.Duration(c.SessionTokenTTL.Duration)
	config.RefreshDelay = time.Duration(c.RefreshDelay.Duration)
}
