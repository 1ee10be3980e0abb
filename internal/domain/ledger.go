// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"sort"
	"time"
)

// DateLayout is the calendar-day format used for every ledger key.
const DateLayout = "2006-01-02"

// PartialLedger maps calendar dates (DateLayout) to contribution counts for
// a single fetched year.
type PartialLedger map[string]int

// Ledger is the merged chronological record of daily contribution counts
// across all fetched years. At most one entry exists per date and iteration
// via Dates is always ascending.
type Ledger struct {
	counts map[string]int
	dates  []string
}

// NewLedger returns an empty ledger.
func NewLedger() Ledger {
	return Ledger{counts: map[string]int{}}
}

// Merge returns a new ledger combining the receiver with the partial ledger.
// Counts for dates present in both are summed, so repeated merges only
// accumulate and the result is independent of merge order. The receiver is
// not mutated.
func (l Ledger) Merge(p PartialLedger) Ledger {
	counts := make(map[string]int, len(l.counts)+len(p))
	for date, count := range l.counts {
		counts[date] = count
	}
	for date, count := range p {
		counts[date] += count
	}
	dates := make([]string, 0, len(counts))
	for date := range counts {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return Ledger{counts: counts, dates: dates}
}

// Len returns the number of dated entries in the ledger.
func (l Ledger) Len() int {
	return len(l.counts)
}

// Count returns the contribution count recorded for the given date, or zero
// if the date has no entry.
func (l Ledger) Count(date string) int {
	return l.counts[date]
}

// Dates returns the ledger's dates in ascending order.
func (l Ledger) Dates() []string {
	return l.dates
}

func parseDay(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}
