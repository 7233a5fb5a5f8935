package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thomas/teaser-agent/internal/api"
	"github.com/thomas/teaser-agent/internal/observability"
	"github.com/thomas/teaser-agent/internal/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload FILE...",
	Short: "Upload supporting documents",
	Long:  "Uploads PDF, Word, Excel, or TXT files to the teaser service. Files of other types are reported and skipped; duplicates (same name and size) are dropped silently.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
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

	candidates, err := upload.CandidatesFromPaths(args)
	if err != nil {
		return err
	}

	coordinator := upload.New(newClient(cfg))
	coordinator.SetProgressListener(func(p upload.Progress) {
		_, _ = fmt.Fprintf(os.Stderr, "\rUploading... %3d%% (%d/%d bytes)", p.Percent, p.Loaded, p.Total)
	})
	for _, rejection := range coordinator.AddFiles(candidates) {
		_, _ = fmt.Fprintf(os.Stderr, "Skipping %s: %s\n", rejection.Name, rejection.Reason)
	}
	if len(coordinator.Files()) == 0 {
		return fmt.Errorf("no valid files to upload")
	}

	results, err := coordinator.Upload(context.Background(), snap.SessionID)
	// Finish the progress line before reporting the outcome.
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("%s", api.UserMessage(err))
	}

	_, _ = fmt.Fprintf(os.Stdout, "Uploaded %d file(s)\n", len(results))
	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintUploadResults(results)
	}
	return nil
}
