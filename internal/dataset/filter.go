package dataset

import (
	"strings"
	"time"

	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
)

// RangeSeparator separates the two dates of a typed range.
const RangeSeparator = ".."

// Bounds returns the [min, max] date span of the hourly table, falling back
// to the daily table when there are no hourly rows. ok is false when the
// dataset has no rows at all.
func Bounds(ds *models.Dataset) (r models.DateRange, ok bool) {
	if ds == nil {
		return r, false
	}
	for _, rec := range ds.Hourly {
		r, ok = widen(r, ok, rec.Date)
	}
	if ok {
		return r, true
	}
	for _, rec := range ds.Daily {
		r, ok = widen(r, ok, rec.Date)
	}
	return r, ok
}

func widen(r models.DateRange, ok bool, t time.Time) (models.DateRange, bool) {
	d := models.TruncateDay(t)
	if !ok {
		return models.DateRange{Start: d, End: d}, true
	}
	if d.Before(r.Start) {
		r.Start = d
	}
	if d.After(r.End) {
		r.End = d
	}
	return r, true
}

// NewDateRange validates a selection against the data bounds.
func NewDateRange(start, end time.Time, bounds models.DateRange) (models.DateRange, error) {
	start = models.TruncateDay(start)
	end = models.TruncateDay(end)

	if start.After(end) {
		return models.DateRange{}, &ValidationError{
			Field:   "range",
			Message: "start date " + start.Format(models.DateLayout) + " is after end date " + end.Format(models.DateLayout),
		}
	}
	if !bounds.IsZero() {
		if start.Before(bounds.Start) {
			return models.DateRange{}, &ValidationError{
				Field:   "start",
				Message: start.Format(models.DateLayout) + " is before the first day with data (" + bounds.Start.Format(models.DateLayout) + ")",
			}
		}
		if end.After(bounds.End) {
			return models.DateRange{}, &ValidationError{
				Field:   "end",
				Message: end.Format(models.DateLayout) + " is after the last day with data (" + bounds.End.Format(models.DateLayout) + ")",
			}
		}
	}
	return models.DateRange{Start: start, End: end}, nil
}

// ParseRange parses "YYYY-MM-DD..YYYY-MM-DD" (or a single date, meaning
// that one day) and validates it against bounds.
func ParseRange(s string, bounds models.DateRange) (models.DateRange, error) {
	s = strings.TrimSpace(s)
	startStr, endStr, found := strings.Cut(s, RangeSeparator)
	if !found {
		endStr = startStr
	}

	start, err := time.Parse(models.DateLayout, strings.TrimSpace(startStr))
	if err != nil {
		return models.DateRange{}, &ValidationError{Field: "start", Message: "expected date as YYYY-MM-DD, got " + quote(startStr)}
	}
	end, err := time.Parse(models.DateLayout, strings.TrimSpace(endStr))
	if err != nil {
		return models.DateRange{}, &ValidationError{Field: "end", Message: "expected date as YYYY-MM-DD, got " + quote(endStr)}
	}
	return NewDateRange(start, end, bounds)
}

func quote(s string) string {
	return `"` + strings.TrimSpace(s) + `"`
}

// Clamp fits r inside bounds. If the two do not overlap the full bounds are
// returned.
func Clamp(r, bounds models.DateRange) models.DateRange {
	if r.IsZero() || r.End.Before(bounds.Start) || r.Start.After(bounds.End) {
		return bounds
	}
	if r.Start.Before(bounds.Start) {
		r.Start = bounds.Start
	}
	if r.End.After(bounds.End) {
		r.End = bounds.End
	}
	return r
}

// Shift moves the whole window by days, keeping its length, and stops at
// the bounds.
func Shift(r models.DateRange, days int, bounds models.DateRange) models.DateRange {
	span := r.End.Sub(r.Start)
	start := r.Start.AddDate(0, 0, days)
	if start.Before(bounds.Start) {
		start = bounds.Start
	}
	end := start.Add(span)
	if end.After(bounds.End) {
		end = bounds.End
		start = end.Add(-span)
		if start.Before(bounds.Start) {
			start = bounds.Start
		}
	}
	return models.DateRange{Start: start, End: end}
}

// FilterHourly returns the hourly rows whose date lies inside r.
// The input slice is not modified.
func FilterHourly(rows []models.HourlyRecord, r models.DateRange) []models.HourlyRecord {
	out := make([]models.HourlyRecord, 0, len(rows))
	for _, rec := range rows {
		if r.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterDaily returns the daily rows whose date lies inside r.
// The input slice is not modified.
func FilterDaily(rows []models.DailyRecord, r models.DateRange) []models.DailyRecord {
	out := make([]models.DailyRecord, 0, len(rows))
	for _, rec := range rows {
		if r.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out
}
