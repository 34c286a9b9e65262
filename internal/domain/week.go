package domain

import (
	"fmt"
	"time"
)

// ─── Week Clock ─────────────────────────────────────────────────────────────
// WeekID maps an instant to the week bucket used to partition recurring
// task logs. The rule is deliberately simple and pinned, not ISO-8601:
// weeks are numbered within the calendar year, week N covering ordinal
// days (N-1)*7+1 … N*7. Week 1 always starts on January 1, so December 31
// and January 1 never share a bucket; the final week of a year is short
// (1–2 days except in leap years).
//
// Pure, deterministic, no failure modes. Stable for any instant within
// the same bucket.

// WeekID returns the week bucket identifier for now, e.g. "2026-W35".
func WeekID(now time.Time) string {
	week := (now.YearDay()-1)/7 + 1
	return fmt.Sprintf("%04d-W%02d", now.Year(), week)
}

// ValidWeekID reports whether s has the shape produced by WeekID.
// It bounds the week number but does not check day-level calendar validity.
func ValidWeekID(s string) bool {
	var year, week int
	if _, err := fmt.Sscanf(s, "%4d-W%2d", &year, &week); err != nil {
		return false
	}
	return year >= 1 && week >= 1 && week <= 53 && len(s) == 8
}
