package main

import (
	"context"
	"fmt"
	"io"

	"github.com/assessmentslol/assessments/internal/db"
	"github.com/spf13/cobra"
)

var (
	companyName string
	companyIcon string
	companyLink string
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Manage the company catalogue",
}

var companiesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a company that submissions can be reported against",
	RunE:  runCompaniesAdd,
}

func init() {
	companiesAddCmd.Flags().StringVar(&companyName, "name", "", "Company name")
	companiesAddCmd.Flags().StringVar(&companyIcon, "icon", "", "Icon URL")
	companiesAddCmd.Flags().StringVar(&companyLink, "link", "", "Careers or home page URL")
	_ = companiesAddCmd.MarkFlagRequired("name")
	companiesCmd.AddCommand(companiesAddCmd)
	rootCmd.AddCommand(companiesCmd)
}

// companyCreator is the part of the store the companies command writes to.
type companyCreator interface {
	CreateCompany(ctx context.Context, name string, icon, link *string) (*db.Company, error)
}

func runCompaniesAdd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	store, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	return addCompany(cmd.Context(), cmd.OutOrStdout(), store, companyName, companyIcon, companyLink)
}

func addCompany(ctx context.Context, out io.Writer, store companyCreator, name, icon, link string) error {
	company, err := store.CreateCompany(ctx, name, optional(icon), optional(link))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Created company %s (%s)\n", company.Name, company.ID)
	return nil
}

// optional maps an unset flag to NULL.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
