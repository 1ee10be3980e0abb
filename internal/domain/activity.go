package domain

import "fmt"

// DayCount is one calendar day and its contribution count.
type DayCount struct {
	Date  string
	Count int
}

// CommitActivity is a single commit-contribution event within a repository.
// A zero Count means the source omitted it and one commit is assumed.
type CommitActivity struct {
	Date  string
	Count int
}

// RepositoryActivity groups a year's commit contributions for one repository.
type RepositoryActivity struct {
	Name    string
	IsFork  bool
	Commits []CommitActivity
}

// YearActivity is the raw per-year document delivered by the activity source.
// It is read-only input to Extract and discarded afterwards.
type YearActivity struct {
	Year         int
	Calendar     []DayCount
	Repositories []RepositoryActivity
}

// Extract converts one year's raw document into a partial ledger. The
// contribution calendar is the base; commit contributions on fork
// repositories are added on top of their occurrence dates because the
// calendar view undercounts fork work. Non-fork repositories are already
// reflected in the calendar and are ignored.
//
// A malformed document (invalid date, negative count) violates the activity
// source contract and yields an error the caller must treat as fatal rather
// than as a skippable fetch failure.
func Extract(doc YearActivity) (PartialLedger, error) {
	ledger := make(PartialLedger, len(doc.Calendar))
	for _, day := range doc.Calendar {
		if _, err := parseDay(day.Date); err != nil {
			return nil, fmt.Errorf("invalid calendar date %q in year %d document: %w", day.Date, doc.Year, err)
		}
		if day.Count < 0 {
			return nil, fmt.Errorf("negative calendar count %d on %s in year %d document", day.Count, day.Date, doc.Year)
		}
		ledger[day.Date] += day.Count
	}
	for _, repo := range doc.Repositories {
		if !repo.IsFork {
			continue
		}
		for _, commit := range repo.Commits {
			if _, err := parseDay(commit.Date); err != nil {
				return nil, fmt.Errorf("invalid commit date %q in %s: %w", commit.Date, repo.Name, err)
			}
			if commit.Count < 0 {
				return nil, fmt.Errorf("negative commit count %d on %s in %s", commit.Count, commit.Date, repo.Name)
			}
			count := commit.Count
			if count == 0 {
				count = 1
			}
			ledger[commit.Date] += count
		}
	}
	return ledger, nil
}
