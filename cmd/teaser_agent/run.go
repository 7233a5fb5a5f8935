package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thomas/teaser-agent/internal/api"
	"github.com/thomas/teaser-agent/internal/editor"
	"github.com/thomas/teaser-agent/internal/export"
	"github.com/thomas/teaser-agent/internal/observability"
	"github.com/thomas/teaser-agent/internal/session"
	"github.com/thomas/teaser-agent/internal/types"
	"github.com/thomas/teaser-agent/internal/upload"
	"github.com/thomas/teaser-agent/internal/workflow"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full teaser workflow end-to-end",
	Long: `Drives the whole workflow in order: scrape -> upload -> confirm -> generate -> export.
Each transition is checked against the step's preconditions, exactly as the step-by-step commands enforce them.`,
	RunE: runWorkflow,
}

var (
	runURL   string
	runFiles []string
	runName  string
	runOut   string
)

func init() {
	runCmd.Flags().StringVarP(&runURL, "url", "u", "", "Company homepage URL (required)")
	runCmd.Flags().StringSliceVar(&runFiles, "files", nil, "Supporting documents to upload (optional)")
	runCmd.Flags().StringVar(&runName, "name", "", "Override the scraped company name")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "teaser.pdf", "Output file path for the rendered PDF")

	if err := runCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	rootCmd.AddCommand(runCmd)
}

func runWorkflow(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client := newClient(cfg)
	printer := observability.NewPrinter(os.Stdout)
	controller := workflow.NewController(store)

	// Landing -> website input
	if err := controller.Advance(); err != nil {
		return err
	}

	// Step 1: scrape the company website
	fmt.Printf("Step 1/5: Scraping %s...\n", runURL)
	if err := types.ValidateWebsiteURL(runURL); err != nil {
		return err
	}
	scraped, err := client.ScrapeCompany(ctx, runURL)
	if err != nil {
		return fmt.Errorf("%s", api.UserMessage(err))
	}
	if !scraped.Found {
		return fmt.Errorf("could not extract company details from this website, please try another URL")
	}
	profile := scraped.Company
	if profile.Website == "" {
		profile.Website = runURL
	}
	if err := store.Put(session.Patch{Profile: &profile}); err != nil {
		return err
	}
	controller.MarkScraped()
	if err := controller.Advance(); err != nil {
		return err
	}

	// Step 2: upload supporting documents (optional)
	if len(runFiles) > 0 {
		fmt.Printf("Step 2/5: Uploading %d file(s)...\n", len(runFiles))
		candidates, err := upload.CandidatesFromPaths(runFiles)
		if err != nil {
			return err
		}
		coordinator := upload.New(client)
		for _, rejection := range coordinator.AddFiles(candidates) {
			_, _ = fmt.Fprintf(os.Stderr, "Skipping %s: %s\n", rejection.Name, rejection.Reason)
		}
		if len(coordinator.Files()) > 0 {
			snap, err := controller.Snapshot()
			if err != nil {
				return err
			}
			results, err := coordinator.Upload(ctx, snap.SessionID)
			if err != nil {
				return fmt.Errorf("%s", api.UserMessage(err))
			}
			if cfg.Verbose {
				printer.PrintUploadResults(results)
			}
		}
	} else {
		fmt.Printf("Step 2/5: No files to upload, skipping...\n")
	}
	if err := controller.Advance(); err != nil {
		return err
	}

	// Step 3: confirm the company profile
	fmt.Printf("Step 3/5: Confirming company profile...\n")
	snap, err := controller.Snapshot()
	if err != nil {
		return err
	}
	profile = snap.Profile
	if cmd.Flags().Changed("name") {
		profile.Name = runName
	}
	if err := profile.Validate(); err != nil {
		return err
	}
	sessionID, err := client.ConfirmCompany(ctx, profile)
	if err != nil {
		return fmt.Errorf("%s", api.UserMessage(err))
	}
	if err := store.Put(session.Patch{Profile: &profile, SessionID: &sessionID}); err != nil {
		return err
	}
	if err := controller.Advance(); err != nil {
		return err
	}

	// Step 4: generate the teaser
	fmt.Printf("Step 4/5: Generating teaser...\n")
	ed := editor.New(client, store)
	if ed.State() == editor.StateError {
		return fmt.Errorf("%s", ed.ErrorMessage())
	}
	if err := ed.Generate(ctx, nil); err != nil {
		return fmt.Errorf("%s", ed.ErrorMessage())
	}
	if cfg.Verbose {
		printer.PrintTeaser(ed.Document())
	}
	controller.SetDocumentReady(ed.DocumentReady)
	if err := controller.Advance(); err != nil {
		return err
	}

	// Step 5: export the rendered PDF
	fmt.Printf("Step 5/5: Exporting PDF...\n")
	coordinator := export.New(client, store)
	if err := coordinator.Load(ctx); err != nil {
		return fmt.Errorf("%s", coordinator.ErrorMessage())
	}
	if err := coordinator.Download(runOut); err != nil {
		return err
	}

	if pages := coordinator.TotalPages(); pages > 0 {
		fmt.Printf("Done! Teaser saved to %s (%d pages).\n", runOut, pages)
	} else {
		fmt.Printf("Done! Teaser saved to %s.\n", runOut)
	}
	return nil
}
