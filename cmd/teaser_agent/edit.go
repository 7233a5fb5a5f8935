package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thomas/teaser-agent/internal/editor"
	"github.com/thomas/teaser-agent/internal/observability"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit and save the teaser text",
	Long:  "Applies title and/or content edits to the current teaser and saves them to the teaser service. Without changes nothing is sent.",
	RunE:  runEdit,
}

var (
	editTitle string
	editBody  string
)

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "New teaser title")
	editCmd.Flags().StringVar(&editBody, "content", "", "New teaser content")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, _ []string) error {
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
	switch ed.State() {
	case editor.StateError:
		return fmt.Errorf("%s", ed.ErrorMessage())
	case editor.StateReady:
	default:
		return fmt.Errorf("no teaser to edit, run generate first")
	}

	if cmd.Flags().Changed("title") {
		if err := ed.Edit(editor.FieldTitle, editTitle); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("content") {
		if err := ed.Edit(editor.FieldBody, editBody); err != nil {
			return err
		}
	}

	if !ed.Dirty() {
		_, _ = fmt.Fprintf(os.Stdout, "No changes to save\n")
		return nil
	}

	if err := ed.Save(context.Background()); err != nil {
		return fmt.Errorf("%s", ed.ErrorMessage())
	}

	doc := ed.Document()
	_, _ = fmt.Fprintf(os.Stdout, "Saved teaser %s: %s\n", doc.ID, doc.Title)
	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintTeaser(doc)
	}
	return nil
}
