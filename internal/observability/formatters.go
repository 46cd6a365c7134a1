// Package observability provides formatted console output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/assessmentslol/assessments/internal/stats"
	"github.com/assessmentslol/assessments/internal/types"
	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxBucketsToShow caps the rows printed for a score histogram
	maxBucketsToShow = 15
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// newTable returns a table writer that renders to the printer's output.
func (p *Printer) newTable(title string) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(p.out)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(title)
	return tw
}

// PrintCompanySummary outputs the headline figures shown on a company's page.
func (p *Printer) PrintCompanySummary(name string, detail stats.CompanyDetailStats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Submissions:        %d\n", detail.TotalSubmissions))
	sb.WriteString(fmt.Sprintf("CodeSignal average: %.2f\n", detail.AverageScores.CodeSignal))
	sb.WriteString(fmt.Sprintf("HackerRank done:    %.0f%%\n", detail.AverageScores.HackerRank.Completion))
	sb.WriteString(fmt.Sprintf("Test cases passed:  %.0f%%\n", detail.AverageScores.HackerRank.TestCases))
	sb.WriteString(fmt.Sprintf("Moved forward:      %.0f%%", detail.SuccessRates.Overall))

	p.printBox(strings.ToUpper(name), sb.String())
}

// PrintDistribution renders the per-company distribution statistics as tables.
func (p *Printer) PrintDistribution(dist stats.DistributionStats) {
	p.printPlatformStats(dist.PlatformStats)
	p.printScoreBuckets(dist.ScoreDistribution.CodeSignal)
	p.printHackerRankBuckets(dist.ScoreDistribution.HackerRank)
	p.printRoles(dist.RoleBreakdown, dist.SuccessRates)
	p.printPlatformRates(dist.SuccessRates)
}

func (p *Printer) printPlatformStats(ps stats.PlatformStats) {
	tw := p.newTable("Platforms")
	tw.AppendHeader(table.Row{"Platform", "Metric", "Value"})
	tw.AppendRow(table.Row{"CodeSignal", "Average", fmt.Sprintf("%.2f", ps.CodeSignal.Average)})
	tw.AppendRow(table.Row{"CodeSignal", "Median", fmt.Sprintf("%.1f", ps.CodeSignal.Median)})
	tw.AppendRow(table.Row{"CodeSignal", "Range", fmt.Sprintf("%d-%d", ps.CodeSignal.Range.Min, ps.CodeSignal.Range.Max)})
	tw.AppendRow(table.Row{"HackerRank", "Avg completion", fmt.Sprintf("%.2f", ps.HackerRank.AverageCompletion)})
	// AverageTestCases is a pass fraction in [0, 1].
	tw.AppendRow(table.Row{"HackerRank", "Avg test cases", fmt.Sprintf("%.0f%%", ps.HackerRank.AverageTestCases*100)})
	tw.Render()
}

func (p *Printer) printScoreBuckets(buckets []stats.ScoreBucket) {
	if len(buckets) == 0 {
		return
	}
	tw := p.newTable("CodeSignal scores")
	tw.AppendHeader(table.Row{"Score", "Count"})
	for i, b := range buckets {
		if i == maxBucketsToShow {
			tw.AppendFooter(table.Row{"...", fmt.Sprintf("%d more", len(buckets)-maxBucketsToShow)})
			break
		}
		tw.AppendRow(table.Row{b.Score, b.Count})
	}
	tw.Render()
}

func (p *Printer) printHackerRankBuckets(hr stats.HackerRankDistributions) {
	if len(hr.Completion) == 0 && len(hr.TestCases) == 0 {
		return
	}
	tw := p.newTable("HackerRank")
	tw.AppendHeader(table.Row{"Bucket", "Value", "Submissions"})
	for _, b := range hr.Completion {
		tw.AppendRow(table.Row{"completion rate", fmt.Sprintf("%d%%", b.Rate), b.Count})
	}
	for _, b := range hr.TestCases {
		tw.AppendRow(table.Row{"test case count", b.Count, b.Submissions})
	}
	tw.Render()
}

func (p *Printer) printRoles(breakdown map[types.RoleType]int, rates stats.SuccessRates) {
	tw := p.newTable("Roles")
	tw.AppendHeader(table.Row{"Role", "Submissions", "Success"})
	for _, role := range types.AllRoleTypes() {
		tw.AppendRow(table.Row{role, breakdown[role], fmt.Sprintf("%.0f%%", rates.ByRole[role])})
	}
	tw.AppendFooter(table.Row{"Overall", "", fmt.Sprintf("%.0f%%", rates.Overall)})
	tw.Render()
}

func (p *Printer) printPlatformRates(rates stats.SuccessRates) {
	tw := p.newTable("Success by platform")
	tw.AppendHeader(table.Row{"Platform", "Success"})
	for _, platform := range types.AllPlatforms() {
		tw.AppendRow(table.Row{platform, fmt.Sprintf("%.0f%%", rates.ByPlatform[platform])})
	}
	tw.Render()
}
