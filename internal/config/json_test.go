package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"data_dir":          "/srv/mds",
		"records_backend":   "sqlite",
		"sqlite_path":       "mds.db",
		"session_secret":    "my_secret_key",
		"session_token_ttl": "15m",
		"refresh_delay":     "500ms",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "/srv/mds", cfg.DataDir)
		assert.Equal(t, BackendSQLite, cfg.RecordsBackend)
		assert.Equal(t, "mds.db", cfg.SQLitePath)
		assert.Equal(t, "my_secret_key", cfg.SessionSecret)
		assert.Equal(t, 15*time.Minute, cfg.SessionTokenTTL)
		assert.Equal(t, 500*time.Millisecond, cfg.RefreshDelay)
	})

	t.Run("no config flag means no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			DataDir:         "keep",
			RecordsBackend:  BackendCSV,
			SQLitePath:      "keep.db",
			SessionSecret:   "key",
			SessionTokenTTL: 2 * time.Minute,
			RefreshDelay:    time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "keep", cfg.DataDir)
		assert.Equal(t, BackendCSV, cfg.RecordsBackend)
		assert.Equal(t, "keep.db", cfg.SQLitePath)
		assert.Equal(t, "key", cfg.SessionSecret)
		assert.Equal(t, 2*time.Minute, cfg.SessionTokenTTL)
		assert.Equal(t, time.Second, cfg.RefreshDelay)
	})
}
