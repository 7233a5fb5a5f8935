package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thomas/teaser-agent/internal/observability"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted workflow state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	snap, err := store.Get()
	if err != nil {
		return err
	}

	switch {
	case snap.LastTeaserID != "":
		_, _ = fmt.Fprintf(os.Stdout, "Teaser %s generated; next step: edit or export\n", snap.LastTeaserID)
	case snap.SessionID != "":
		_, _ = fmt.Fprintf(os.Stdout, "Company confirmed; next step: generate\n")
	case snap.Profile.Name != "":
		_, _ = fmt.Fprintf(os.Stdout, "Profile draft for %s; next step: upload (optional) or confirm\n", snap.Profile.Name)
	default:
		_, _ = fmt.Fprintf(os.Stdout, "No session in progress; next step: scrape\n")
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		if snap.Profile.Name != "" {
			printer.PrintCompanyProfile(&snap.Profile)
		}
		if snap.Teaser.ID != "" {
			printer.PrintTeaser(snap.Teaser)
		}
	}
	return nil
}
