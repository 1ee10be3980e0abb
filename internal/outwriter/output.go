// Package outwriter renders aggregation reports for the terminal.
package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/kaz-takahashi/github-streak/internal/domain"
	"github.com/kaz-takahashi/github-streak/internal/usecase"
)

// Output formats accepted by WriteReport.
const (
	JSONOut  = "json"
	TableOut = "table"
)

// WriteReport outputs the report, dispatching on the configured format.
func WriteReport(w io.Writer, report *usecase.Report, format string) error {
	switch format {
	case JSONOut:
		return writeJSONReport(w, report)
	case TableOut, "":
		return writeTableReport(w, report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeJSONReport(w io.Writer, report *usecase.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeTableReport(w io.Writer, report *usecase.Report) error {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value", "Range"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := [][]string{
		{"Total contributions", strconv.Itoa(report.Stats.TotalContributions), ""},
		{"Longest streak", green(formatDays(report.Stats.LongestStreak.Length)), formatRange(report.Stats.LongestStreak)},
		{"Current streak", yellow(formatDays(report.Stats.CurrentStreak.Length)), formatRange(report.Stats.CurrentStreak)},
		{"Active days", strconv.Itoa(report.Summary.ActiveDays), ""},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if report.Summary.ActiveDays > 0 {
		if _, err := fmt.Fprintf(w, "Per active day: mean %.1f, median %.1f, max %d\n",
			report.Summary.MeanPerDay, report.Summary.MedianPerDay, report.Summary.MaxInOneDay); err != nil {
			return err
		}
	}
	if len(report.Summary.SkippedYears) > 0 {
		if _, err := fmt.Fprintf(w, "Skipped years (fetch failed): %v\n", report.Summary.SkippedYears); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "User %s, grace period %d day(s), years fetched: %v\n",
		report.User, report.GraceDays, report.Summary.FetchedYears)
	return err
}

func formatDays(n int) string {
	return fmt.Sprintf("%d days", n)
}

// formatRange prints a streak's span, or a dash for a zero-length streak
// whose anchor dates carry no activity.
func formatRange(r domain.StreakRange) string {
	if r.Length == 0 {
		return "-"
	}
	return fmt.Sprintf("%s .. %s", r.Start, r.End)
}
