// Package analytics derives the dashboard summary tables from filtered rows.
//
// Every function here is pure: inputs are never modified and the same input
// always yields the same output.
package analytics

import (
	"sort"

	"github.com/j-veylop/bike-sharing-dashboard/internal/dataset"
	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
)

// PeakHoursLimit is the number of hours kept by PeakHours.
const PeakHoursLimit = 5

type monthKey struct {
	month   int
	holiday int
}

// MonthlyRentals sums hourly counts per (month, holiday flag), ordered by
// month and then raw flag.
func MonthlyRentals(rows []models.HourlyRecord) []models.MonthlyRental {
	return monthly(len(rows), func(i int) (int, int, int64) {
		return rows[i].Month, rows[i].Holiday, rows[i].Count
	})
}

// MonthlyRentalsDaily is MonthlyRentals over the daily table.
func MonthlyRentalsDaily(rows []models.DailyRecord) []models.MonthlyRental {
	return monthly(len(rows), func(i int) (int, int, int64) {
		return rows[i].Month, rows[i].Holiday, rows[i].Count
	})
}

func monthly(n int, at func(int) (month, holiday int, count int64)) []models.MonthlyRental {
	totals := make(map[monthKey]int64)
	for i := range n {
		month, holiday, count := at(i)
		totals[monthKey{month, holiday}] += count
	}

	out := make([]models.MonthlyRental, 0, len(totals))
	for k, total := range totals {
		out = append(out, models.MonthlyRental{
			Month:      k.month,
			HolidayRaw: k.holiday,
			Holiday:    models.HolidayLabel(k.holiday),
			TotalCount: total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].HolidayRaw < out[j].HolidayRaw
	})
	return out
}

// HourlyRentals sums counts per hour of the day in ascending hour order.
// Hours with no rows are absent.
func HourlyRentals(rows []models.HourlyRecord) []models.HourTotal {
	totals := make(map[int]int64)
	for _, r := range rows {
		totals[r.Hour] += r.Count
	}

	out := make([]models.HourTotal, 0, len(totals))
	for hour, total := range totals {
		out = append(out, models.HourTotal{Hour: hour, TotalCount: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// PeakHours returns the PeakHoursLimit hours with the highest totals,
// highest first. Ties keep ascending hour order.
func PeakHours(rows []models.HourlyRecord) []models.HourTotal {
	return TopHours(HourlyRentals(rows), PeakHoursLimit)
}

// TopHours sorts a copy of totals descending by TotalCount and keeps the
// first n entries.
func TopHours(totals []models.HourTotal, n int) []models.HourTotal {
	out := make([]models.HourTotal, len(totals))
	copy(out, totals)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalCount > out[j].TotalCount })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// ClassifyBusyQuiet labels each hour Busy when its total is strictly above
// the mean of all totals given, Quiet otherwise. The mean is returned with
// the result; it is zero for empty input.
func ClassifyBusyQuiet(totals []models.HourTotal) ([]models.ClassifiedHour, float64) {
	if len(totals) == 0 {
		return []models.ClassifiedHour{}, 0
	}

	mean := Mean(totals)
	out := make([]models.ClassifiedHour, len(totals))
	for i, t := range totals {
		hourType := models.HourTypeQuiet
		if float64(t.TotalCount) > mean {
			hourType = models.HourTypeBusy
		}
		out[i] = models.ClassifiedHour{Hour: t.Hour, TotalCount: t.TotalCount, HourType: hourType}
	}
	return out, mean
}

// Mean returns the arithmetic mean of the totals, or zero when empty.
func Mean(totals []models.HourTotal) float64 {
	if len(totals) == 0 {
		return 0
	}
	var sum int64
	for _, t := range totals {
		sum += t.TotalCount
	}
	return float64(sum) / float64(len(totals))
}

// Compute filters ds to r and derives every summary table. Monthly rentals
// come from the table selected by grain; the hourly tables always use the
// hourly rows.
func Compute(ds *models.Dataset, r models.DateRange, grain models.Grain) models.Summary {
	s := models.Summary{Range: r, Grain: grain}
	if ds == nil {
		s.Monthly = []models.MonthlyRental{}
		s.Hourly = []models.HourTotal{}
		s.PeakHours = []models.HourTotal{}
		s.Classified = []models.ClassifiedHour{}
		return s
	}

	hourly := dataset.FilterHourly(ds.Hourly, r)
	s.RowCount = len(hourly)
	for _, rec := range hourly {
		s.TotalRentals += rec.Count
	}

	if grain == models.GrainDaily {
		s.Monthly = MonthlyRentalsDaily(dataset.FilterDaily(ds.Daily, r))
	} else {
		s.Monthly = MonthlyRentals(hourly)
	}

	s.Hourly = HourlyRentals(hourly)
	s.PeakHours = TopHours(s.Hourly, PeakHoursLimit)
	s.Classified, s.HourlyMean = ClassifyBusyQuiet(s.Hourly)
	return s
}
