// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Environment variable fallbacks, applied when neither the config file nor a
// CLI flag sets the value.
const (
	EnvAPIURL  = "TEASER_API_URL"
	EnvToken   = "TEASER_API_TOKEN"
	EnvStateDB = "TEASER_STATE_DB"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// APIURL is the base URL of the remote teaser service.
	APIURL string `json:"api_url,omitempty"`
	// APIToken is an optional bearer token sent on every request.
	APIToken string `json:"api_token,omitempty"`
	// StateDB is the path of the local session state database.
	StateDB string `json:"state_db,omitempty"`
	// TimeoutSeconds overrides the HTTP request timeout.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
	// Verbose prints detailed output for each step.
	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	return nil
}

// ApplyEnv fills empty fields from the environment.
func (c *Config) ApplyEnv() {
	if c.APIURL == "" {
		c.APIURL = os.Getenv(EnvAPIURL)
	}
	if c.APIToken == "" {
		c.APIToken = os.Getenv(EnvToken)
	}
	if c.StateDB == "" {
		c.StateDB = os.Getenv(EnvStateDB)
	}
}

// Timeout returns the configured request timeout, or zero when unset so the
// client falls back to its default.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
