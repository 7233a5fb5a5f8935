package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thomas/teaser-agent/internal/api"
	"github.com/thomas/teaser-agent/internal/observability"
	"github.com/thomas/teaser-agent/internal/session"
	"github.com/thomas/teaser-agent/internal/types"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape a company website into a profile draft",
	Long:  "Submits the company homepage URL to the teaser service and stores the extracted profile as the draft for confirmation.",
	RunE:  runScrape,
}

var scrapeURL string

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeURL, "url", "u", "", "Company homepage URL (required)")

	if err := scrapeCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// Local validation first: trivially invalid URLs never reach the server.
	if err := types.ValidateWebsiteURL(scrapeURL); err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client := newClient(cfg)
	result, err := client.ScrapeCompany(context.Background(), scrapeURL)
	if err != nil {
		return fmt.Errorf("%s", api.UserMessage(err))
	}
	if !result.Found {
		return fmt.Errorf("could not extract company details from this website, please try another URL")
	}

	profile := result.Company
	if profile.Website == "" {
		profile.Website = scrapeURL
	}
	if err := store.Put(session.Patch{Profile: &profile}); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Scraped company profile for %s\n", profile.Name)
	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintCompanyProfile(&profile)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Next: upload supporting documents (optional), then confirm the profile.\n")
	return nil
}
