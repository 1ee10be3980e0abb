// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/kaz-takahashi/github-streak/internal/domain"
	"github.com/kaz-takahashi/github-streak/internal/gateway"
)

// maxInFlightFetches bounds concurrent per-year requests against the API.
const maxInFlightFetches = 4

// Summary describes the shape of activity across active days (count > 0).
type Summary struct {
	ActiveDays   int     `json:"active_days"`
	MeanPerDay   float64 `json:"mean_per_active_day"`
	MedianPerDay float64 `json:"median_per_active_day"`
	MaxInOneDay  int     `json:"max_in_one_day"`
	FetchedYears []int   `json:"fetched_years"`
	SkippedYears []int   `json:"skipped_years,omitempty"`
}

// Report is the full result of one aggregation run.
type Report struct {
	User      string       `json:"user"`
	GraceDays int          `json:"grace_days"`
	Stats     domain.Stats `json:"stats"`
	Summary   Summary      `json:"summary"`
}

// Aggregator is the use case for computing contribution streak statistics.
// It orchestrates the fetching, merging and analysis of per-year activity.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Aggregate fetches every year from startingYear through the current year
// concurrently, merges the per-year ledgers, and analyzes the result.
// A startingYear of zero means the current year only.
//
// Fetching is best-effort: a year that fails is logged and omitted from the
// merged ledger rather than failing the run. Merge order does not affect the
// result, so per-year completion order is irrelevant. If every year fails
// or the user has no recorded activity at all, the returned error wraps
// domain.ErrEmptyLedger.
func (a *Aggregator) Aggregate(ctx context.Context, user string, startingYear, graceDays int) (*Report, error) {
	currentYear := time.Now().UTC().Year()
	if startingYear == 0 {
		startingYear = currentYear
	}
	if startingYear > currentYear {
		return nil, fmt.Errorf("starting year %d is in the future", startingYear)
	}
	a.logger.Printf("Usecase: Aggregating activity for %s from %d through %d...", user, startingYear, currentYear)

	years := make([]int, 0, currentYear-startingYear+1)
	for year := startingYear; year <= currentYear; year++ {
		years = append(years, year)
	}

	// One task per year; each task writes only its own slot, so no locking
	// is needed. Failed years leave their slot nil.
	docs := make([]*domain.YearActivity, len(years))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxInFlightFetches)
	for i, year := range years {
		eg.Go(func() error {
			doc, err := a.fetcher.FetchYearActivity(egCtx, user, year)
			if err != nil {
				a.logger.Printf("Usecase: Skipping year %d: %v", year, err)
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	ledger := domain.NewLedger()
	fetched := make([]int, 0, len(years))
	var skipped []int
	for i, doc := range docs {
		if doc == nil {
			skipped = append(skipped, years[i])
			continue
		}
		partial, err := domain.Extract(*doc)
		if err != nil {
			return nil, fmt.Errorf("failed to extract year %d: %w", doc.Year, err)
		}
		ledger = ledger.Merge(partial)
		fetched = append(fetched, doc.Year)
	}
	a.logger.Printf("Usecase: Merged %d year(s) into a ledger of %d day(s).", len(fetched), ledger.Len())

	streakStats, err := domain.Analyze(ledger, graceDays)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze contribution ledger: %w", err)
	}
	summary, err := buildSummary(ledger)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize contribution ledger: %w", err)
	}
	summary.FetchedYears = fetched
	summary.SkippedYears = skipped

	a.logger.Println("Usecase: Aggregation complete.")
	return &Report{
		User:      user,
		GraceDays: graceDays,
		Stats:     streakStats,
		Summary:   summary,
	}, nil
}

// buildSummary computes per-active-day statistics over the merged ledger.
func buildSummary(ledger domain.Ledger) (Summary, error) {
	var samples stats.Float64Data
	for _, date := range ledger.Dates() {
		if count := ledger.Count(date); count > 0 {
			samples = append(samples, float64(count))
		}
	}
	if len(samples) == 0 {
		return Summary{}, nil
	}
	mean, err := stats.Mean(samples)
	if err != nil {
		return Summary{}, err
	}
	median, err := stats.Median(samples)
	if err != nil {
		return Summary{}, err
	}
	max, err := stats.Max(samples)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		ActiveDays:   len(samples),
		MeanPerDay:   mean,
		MedianPerDay: median,
		MaxInOneDay:  int(max),
	}, nil
}
