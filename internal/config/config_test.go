package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"api_url": "https://teaser.example.com",
		"api_token": "secret-token",
		"state_db": "/tmp/state.db",
		"timeout_seconds": 45,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://teaser.example.com", cfg.APIURL)
	assert.Equal(t, "secret-token", cfg.APIToken)
	assert.Equal(t, "/tmp/state.db", cfg.StateDB)
	assert.Equal(t, 45, cfg.TimeoutSeconds)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{TimeoutSeconds: 30}
	assert.NoError(t, cfg.Validate())

	cfg.TimeoutSeconds = -1
	assert.Error(t, cfg.Validate())
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://env.example.com")
	t.Setenv(EnvToken, "env-token")
	t.Setenv(EnvStateDB, "/tmp/env-state.db")

	cfg := &Config{}
	cfg.ApplyEnv()
	assert.Equal(t, "https://env.example.com", cfg.APIURL)
	assert.Equal(t, "env-token", cfg.APIToken)
	assert.Equal(t, "/tmp/env-state.db", cfg.StateDB)

	// Explicit values win over the environment.
	cfg = &Config{APIURL: "https://explicit.example.com"}
	cfg.ApplyEnv()
	assert.Equal(t, "https://explicit.example.com", cfg.APIURL)
}

func TestConfig_Timeout(t *testing.T) {
	cfg := &Config{TimeoutSeconds: 45}
	assert.Equal(t, 45*time.Second, cfg.Timeout())

	cfg = &Config{}
	assert.Zero(t, cfg.Timeout())
}
