package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyLedger is returned by Analyze when the merged ledger has no
// entries: there is no first or last date to anchor a streak on. Callers
// surface it as a distinct status instead of a generic failure.
var ErrEmptyLedger = errors.New("ledger has no entries")

// StreakRange is a run of consecutive qualifying days.
type StreakRange struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Length int    `json:"length"`
}

// Stats is the result of analyzing a ledger.
type Stats struct {
	TotalContributions int         `json:"total_contributions"`
	LongestStreak      StreakRange `json:"longest_streak"`
	CurrentStreak      StreakRange `json:"current_streak"`
}

// Analyze walks the ledger once in ascending date order and computes the
// total contribution count, the longest streak, and the current (trailing)
// streak.
//
// Streak continuity is driven by holes in the ledger, not by zero-count
// entries: a zero-count day immediately after the previous entry neither
// extends nor breaks a streak. Each hole of one or more wholly-absent dates
// counts as one missed day, and once more than graceDays have been missed
// the current streak breaks and is re-anchored as a zero-length range at the
// ledger's last date. Ties for the longest streak keep the first streak that
// reached that length.
func Analyze(ledger Ledger, graceDays int) (Stats, error) {
	if graceDays < 0 {
		return Stats{}, fmt.Errorf("grace days must be non-negative, got %d", graceDays)
	}
	dates := ledger.Dates()
	if len(dates) == 0 {
		return Stats{}, ErrEmptyLedger
	}
	first := dates[0]
	today := dates[len(dates)-1]

	stats := Stats{
		LongestStreak: StreakRange{Start: first, End: first},
		CurrentStreak: StreakRange{Start: first, End: first},
	}
	missedDays := 0
	prevOrdinal := int64(0)
	havePrevious := false

	for _, date := range dates {
		day, err := parseDay(date)
		if err != nil {
			return Stats{}, fmt.Errorf("malformed date %q in ledger: %w", date, err)
		}
		ordinal := day.Unix() / 86400
		count := ledger.Count(date)
		stats.TotalContributions += count

		// A hole of wholly-absent dates since the previous entry counts as
		// one missed day, whatever its width.
		if havePrevious && ordinal-prevOrdinal > 1 {
			missedDays++
			if missedDays > graceDays {
				stats.CurrentStreak = StreakRange{Start: today, End: today}
				missedDays = 0
			}
		}

		if count > 0 {
			missedDays = 0
			if stats.CurrentStreak.Length == 0 {
				stats.CurrentStreak.Start = date
			}
			stats.CurrentStreak.Length++
			stats.CurrentStreak.End = date
			if stats.CurrentStreak.Length > stats.LongestStreak.Length {
				stats.LongestStreak = stats.CurrentStreak
			}
		}

		prevOrdinal = ordinal
		havePrevious = true
	}
	return stats, nil
}
