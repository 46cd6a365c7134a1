package main

import (
	"context"
	"fmt"
	"io"

	"github.com/assessmentslol/assessments/internal/db"
	"github.com/assessmentslol/assessments/internal/observability"
	"github.com/assessmentslol/assessments/internal/stats"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var statsCompany string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a company's assessment statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsCompany, "company", "", "Company ID (UUID)")
	_ = statsCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(statsCmd)
}

// companyStatsStore is the part of the store the stats command reads.
type companyStatsStore interface {
	GetCompanyByID(ctx context.Context, id uuid.UUID) (*db.Company, error)
	ListCompanySubmissions(ctx context.Context, companyID uuid.UUID, filter db.SubmissionFilter) ([]db.Submission, error)
}

func runStats(cmd *cobra.Command, _ []string) error {
	companyID, err := uuid.Parse(statsCompany)
	if err != nil {
		return fmt.Errorf("invalid --company %q: %w", statsCompany, err)
	}

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

	return printCompanyStats(cmd.Context(), cmd.OutOrStdout(), store, companyID)
}

func printCompanyStats(ctx context.Context, out io.Writer, store companyStatsStore, companyID uuid.UUID) error {
	company, err := store.GetCompanyByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return fmt.Errorf("company %s not found", companyID)
	}

	subs, err := store.ListCompanySubmissions(ctx, companyID, db.SubmissionFilter{})
	if err != nil {
		return err
	}
	records := db.Records(subs)

	p := observability.NewPrinter(out)
	p.PrintCompanySummary(company.Name, stats.CompanyDetail(records))
	p.PrintDistribution(stats.CompanyDistribution(records))
	return nil
}
