package models

// Day type labels for the holiday flag.
const (
	LabelWorkingDay = "Working Day"
	LabelHoliday    = "Holiday"
)

// Hour type labels for the busy/quiet classification.
const (
	HourTypeBusy  = "Busy"
	HourTypeQuiet = "Quiet"
)

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// HolidayLabel maps the raw holiday flag to its label.
// Values other than 0 and 1 have no label and return "".
func HolidayLabel(flag int) string {
	switch flag {
	case 0:
		return LabelWorkingDay
	case 1:
		return LabelHoliday
	default:
		return ""
	}
}

// MonthName returns the short English month name for 1-12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return "?"
	}
	return monthNames[month-1]
}

// MonthlyRental is the total rentals for one (month, day type) pair.
type MonthlyRental struct {
	Month      int
	HolidayRaw int
	Holiday    string
	TotalCount int64
}

// HourTotal is the total rentals for one hour of the day.
type HourTotal struct {
	Hour       int
	TotalCount int64
}

// ClassifiedHour is an hourly total labelled Busy or Quiet.
type ClassifiedHour struct {
	Hour       int
	TotalCount int64
	HourType   string
}

// IsBusy reports whether the hour was classified as busy.
func (c ClassifiedHour) IsBusy() bool {
	return c.HourType == HourTypeBusy
}

// Summary bundles every derived table for one filter selection.
type Summary struct {
	Range        DateRange
	Grain        Grain
	RowCount     int
	Monthly      []MonthlyRental
	Hourly       []HourTotal
	PeakHours    []HourTotal
	Classified   []ClassifiedHour
	HourlyMean   float64
	TotalRentals int64
}

// HasData reports whether any rows survived the filter.
func (s *Summary) HasData() bool {
	return s != nil && s.RowCount > 0
}

// BusyCount returns how many hours were classified as busy.
func (s *Summary) BusyCount() int {
	n := 0
	for _, c := range s.Classified {
		if c.IsBusy() {
			n++
		}
	}
	return n
}

// MonthlyTotal sums TotalCount across the monthly summary.
func (s *Summary) MonthlyTotal() int64 {
	var total int64
	for _, m := range s.Monthly {
		total += m.TotalCount
	}
	return total
}
