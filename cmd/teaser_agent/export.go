package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thomas/teaser-agent/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the rendered teaser PDF",
	Long:  "Fetches the rendered PDF for the most recently generated or saved teaser and writes it to disk.",
	RunE:  runExport,
}

var exportOut string

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "teaser.pdf", "Output file path")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	coordinator := export.New(newClient(cfg), store)
	if err := coordinator.Load(context.Background()); err != nil {
		if coordinator.NotFound() {
			return fmt.Errorf("%s Go back and regenerate the teaser.", coordinator.ErrorMessage())
		}
		return fmt.Errorf("%s", coordinator.ErrorMessage())
	}

	if err := coordinator.Download(exportOut); err != nil {
		return err
	}

	if pages := coordinator.TotalPages(); pages > 0 {
		_, _ = fmt.Fprintf(os.Stdout, "Saved %s (%d pages)\n", exportOut, pages)
	} else {
		_, _ = fmt.Fprintf(os.Stdout, "Saved %s\n", exportOut)
	}
	return nil
}
