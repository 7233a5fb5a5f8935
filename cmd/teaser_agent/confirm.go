package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thomas/teaser-agent/internal/api"
	"github.com/thomas/teaser-agent/internal/observability"
	"github.com/thomas/teaser-agent/internal/session"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Confirm (and optionally edit) the company profile",
	Long:  "Validates the profile draft from the scrape step, applies any field overrides given as flags, and submits it to the teaser service. A successful confirmation issues the session required by the generate step.",
	RunE:  runConfirm,
}

var (
	confirmName         string
	confirmIndustry     string
	confirmHeadquarters string
	confirmDescription  string
	confirmWebsite      string
	confirmEmail        string
	confirmPhone        string
	confirmFoundedYear  string
	confirmEmployees    string
	confirmRevenue      string
)

func init() {
	confirmCmd.Flags().StringVar(&confirmName, "name", "", "Company name")
	confirmCmd.Flags().StringVar(&confirmIndustry, "industry", "", "Industry")
	confirmCmd.Flags().StringVar(&confirmHeadquarters, "headquarters", "", "Headquarters location")
	confirmCmd.Flags().StringVar(&confirmDescription, "description", "", "Company description")
	confirmCmd.Flags().StringVar(&confirmWebsite, "website", "", "Company website URL")
	confirmCmd.Flags().StringVar(&confirmEmail, "email", "", "Contact email")
	confirmCmd.Flags().StringVar(&confirmPhone, "phone", "", "Contact phone")
	confirmCmd.Flags().StringVar(&confirmFoundedYear, "founded", "", "Founding year (4 digits)")
	confirmCmd.Flags().StringVar(&confirmEmployees, "employees", "", "Employee count")
	confirmCmd.Flags().StringVar(&confirmRevenue, "revenue", "", "Revenue")

	rootCmd.AddCommand(confirmCmd)
}

func runConfirm(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Rehydrate the draft from the store, then apply explicit overrides.
	snap, err := store.Get()
	if err != nil {
		return err
	}
	profile := snap.Profile

	if cmd.Flags().Changed("name") {
		profile.Name = confirmName
	}
	if cmd.Flags().Changed("industry") {
		profile.Industry = confirmIndustry
	}
	if cmd.Flags().Changed("headquarters") {
		profile.Headquarters = confirmHeadquarters
	}
	if cmd.Flags().Changed("description") {
		profile.Description = confirmDescription
	}
	if cmd.Flags().Changed("website") {
		profile.Website = confirmWebsite
	}
	if cmd.Flags().Changed("email") {
		profile.Email = confirmEmail
	}
	if cmd.Flags().Changed("phone") {
		profile.Phone = confirmPhone
	}
	if cmd.Flags().Changed("founded") {
		profile.FoundedYear = confirmFoundedYear
	}
	if cmd.Flags().Changed("employees") {
		profile.Employees = confirmEmployees
	}
	if cmd.Flags().Changed("revenue") {
		profile.Revenue = confirmRevenue
	}

	// Local field validation blocks the round trip for trivially bad input.
	if err := profile.Validate(); err != nil {
		return err
	}

	client := newClient(cfg)
	sessionID, err := client.ConfirmCompany(context.Background(), profile)
	if err != nil {
		return fmt.Errorf("%s", api.UserMessage(err))
	}

	if err := store.Put(session.Patch{Profile: &profile, SessionID: &sessionID}); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Confirmed %s, session established\n", profile.Name)
	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintCompanyProfile(&profile)
	}
	return nil
}
