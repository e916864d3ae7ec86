package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies that Load() returns sensible defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TRACEMARK_LOG_LEVEL", "")
	t.Setenv("TRACEMARK_SERVICE_URL", "")
	t.Setenv("TRACEMARK_LOG_ID", "")
	t.Setenv("TRACEMARK_LOG_DB", "")
	t.Setenv("TRACEMARK_DELEGATED", "")

	c := Load()
	assert.Equal(t, "INFO", c.LogLevel)
	assert.Equal(t, "local://simulated", c.ServiceURL)
	assert.Equal(t, "tracemark-log", c.LogID)
	assert.Empty(t, c.LogDB)
	assert.False(t, c.Delegated)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("TRACEMARK_SERVICE_URL", "https://log.example.com")
	t.Setenv("TRACEMARK_DELEGATED", "true")

	c := Load()
	assert.Equal(t, "https://log.example.com", c.ServiceURL)
	assert.True(t, c.Delegated)
}

func TestLoadProfile_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	err := os.WriteFile(path, []byte("service_url: https://log.example.com\nlog_id: prod-log\ndelegated: true\n"), 0o600)
	require.NoError(t, err)

	p, err := LoadProfile(path)
	require.NoError(t, err)

	c := &Config{LogLevel: "INFO", ServiceURL: "local://simulated", LogID: "tracemark-log"}
	p.Apply(c)

	assert.Equal(t, "https://log.example.com", c.ServiceURL)
	assert.Equal(t, "prod-log", c.LogID)
	assert.True(t, c.Delegated)
	assert.Equal(t, "INFO", c.LogLevel, "unset profile fields leave config untouched")
}

func TestLoadProfile_Errors(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_id: [unclosed"), 0o600))
	_, err = LoadProfile(path)
	assert.Error(t, err)
}
