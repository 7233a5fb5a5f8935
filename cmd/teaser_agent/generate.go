package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thomas/teaser-agent/internal/editor"
	"github.com/thomas/teaser-agent/internal/observability"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the teaser text",
	Long:  "Asks the teaser service to generate the teaser document for the confirmed company. Running it again replaces the current document, discarding unsaved edits.",
	RunE:  runGenerate,
}

var generateFiles []string

func init() {
	generateCmd.Flags().StringSliceVar(&generateFiles, "files", nil, "Restrict generation to these uploaded filenames")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ed := editor.New(newClient(cfg), store)
	if ed.State() == editor.StateError {
		return fmt.Errorf("%s", ed.ErrorMessage())
	}

	var selected []string
	if cmd.Flags().Changed("files") {
		selected = generateFiles
	}

	if err := ed.Generate(context.Background(), selected); err != nil {
		return fmt.Errorf("%s", ed.ErrorMessage())
	}

	doc := ed.Document()
	_, _ = fmt.Fprintf(os.Stdout, "Generated teaser %s: %s\n", doc.ID, doc.Title)
	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintTeaser(doc)
	}
	return nil
}
