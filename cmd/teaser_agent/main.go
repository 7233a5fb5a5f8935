// Package main implements the teaser_agent CLI for guided investment teaser creation.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "teaser_agent",
	Short: "Investment teaser generator",
	Long:  "teaser_agent guides the creation of a downloadable investment teaser: scrape a company website, upload supporting documents, confirm the profile, generate and edit the teaser text, then export the rendered PDF.",
}

var (
	rootConfigPath string
	rootAPIURL     string
	rootToken      string
	rootStateDB    string
	rootVerbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&rootAPIURL, "api-url", "", "Base URL of the teaser service (defaults to TEASER_API_URL)")
	rootCmd.PersistentFlags().StringVar(&rootToken, "token", "", "Bearer token for the teaser service (defaults to TEASER_API_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&rootStateDB, "state-db", "", "Path of the local session state database (defaults to TEASER_STATE_DB)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed output for each step")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
