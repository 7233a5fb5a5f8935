package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thomas/teaser-agent/internal/api"
	"github.com/thomas/teaser-agent/internal/config"
	"github.com/thomas/teaser-agent/internal/session"
)

// resolveConfig merges config file values, CLI flags, and environment
// fallbacks, in that order of increasing priority for flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	// CLI flags override config file values
	if cmd.Flags().Changed("api-url") {
		cfg.APIURL = rootAPIURL
	}
	if cmd.Flags().Changed("token") {
		cfg.APIToken = rootToken
	}
	if cmd.Flags().Changed("state-db") {
		cfg.StateDB = rootStateDB
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = rootVerbose
	}

	cfg.ApplyEnv()

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("service URL required: set --api-url, config 'api_url', or %s", config.EnvAPIURL)
	}
	return &cfg, nil
}

func newClient(cfg *config.Config) *api.Client {
	return api.New(api.Config{
		BaseURL: cfg.APIURL,
		Token:   cfg.APIToken,
		Timeout: cfg.Timeout(),
	})
}

func openStore(cfg *config.Config) (*session.Store, error) {
	store, err := session.Open(cfg.StateDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open session state: %w", err)
	}
	return store, nil
}
