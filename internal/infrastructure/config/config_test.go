package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	// Session config
	assert.Equal(t, 30*time.Second, cfg.Session.SaveInterval)
	assert.Equal(t, 4*time.Hour, cfg.Session.MaxRecoveryAge)
	assert.Equal(t, time.Second, cfg.Session.PollInterval)
	assert.True(t, cfg.Session.AutoSaveOnChange)
	assert.False(t, cfg.Session.Compress)
}

func TestLoadOrDefault(t *testing.T) {
	// Should return default when no env vars set
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                     "9000",
		"HOST":                     "127.0.0.1",
		"LOG_LEVEL":                "debug",
		"LOG_DEV":                  "true",
		"RATE_LIMIT_RPS":           "500",
		"SESSION_SAVE_INTERVAL":    "10s",
		"SESSION_MAX_RECOVERY_AGE": "2h",
		"SESSION_COMPRESS":         "true",
	}

	for key, value := range envVars {
		os.Setenv(key, value)
	}
	defer func() {
		for key := range envVars {
			os.Unsetenv(key)
		}
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 10*time.Second, cfg.Session.SaveInterval)
	assert.Equal(t, 2*time.Hour, cfg.Session.MaxRecoveryAge)
	assert.True(t, cfg.Session.Compress)
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte("server:\n  port: \"9100\"\nsession:\n  max_recovery_age: 1h\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	// File values win
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Session.MaxRecoveryAge)

	// Untouched fields keep env/default values
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 30*time.Second, cfg.Session.SaveInterval)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("/nonexistent/config.yaml")
	assert.Error(t, err)
}
