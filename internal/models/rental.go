// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"time"
)

// DateLayout is the date format used by the dataset and the range selector.
const DateLayout = "2006-01-02"

// DailyRecord is one row of the daily rentals table.
type DailyRecord struct {
	Date    time.Time
	Month   int
	Holiday int
	Count   int64
}

// HourlyRecord is one row of the hourly rentals table, one per (day, hour).
type HourlyRecord struct {
	Date    time.Time
	Hour    int
	Month   int
	Holiday int
	Count   int64
}

// Dataset holds both loaded tables. Each table has its own slot so that
// loading one never replaces the other.
type Dataset struct {
	Daily  []DailyRecord
	Hourly []HourlyRecord

	// DailySource and HourlySource describe where each table came from
	// (a file path or a database location).
	DailySource  string
	HourlySource string
	LoadedAt     time.Time
}

// IsEmpty reports whether the dataset has no hourly rows.
func (d *Dataset) IsEmpty() bool {
	return d == nil || len(d.Hourly) == 0
}

// DateRange is an inclusive [Start, End] range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on a day inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := TruncateDay(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days covered by the range.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// IsZero reports whether the range was never set.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// String formats the range as "start..end".
func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}

// TruncateDay drops the time of day, keeping the calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Grain selects which table feeds the monthly rentals summary.
type Grain int

const (
	// GrainHourly aggregates monthly totals from the hourly table.
	GrainHourly Grain = iota
	// GrainDaily aggregates monthly totals from the daily table.
	GrainDaily
)

// String returns the configuration name of the grain.
func (g Grain) String() string {
	switch g {
	case GrainHourly:
		return "hourly"
	case GrainDaily:
		return "daily"
	default:
		return "unknown"
	}
}

// ParseGrain parses a grain name.
func ParseGrain(s string) (Grain, error) {
	switch s {
	case "hourly", "":
		return GrainHourly, nil
	case "daily":
		return GrainDaily, nil
	default:
		return GrainHourly, fmt.Errorf("unknown grain %q: must be hourly or daily", s)
	}
}
