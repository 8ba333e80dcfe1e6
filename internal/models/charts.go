package models

// Page text shared by every renderer.
const (
	PageTitle = "Bike Sharing Dashboard"
	Footer    = "Rifqi Yafik"
)

// Chart identifies one of the four dashboard panels.
type Chart int

// Panels in display order.
const (
	ChartMonthly Chart = iota
	ChartHourly
	ChartPeakHours
	ChartBusyQuiet
)

// Charts lists every panel in the order it is rendered.
var Charts = []Chart{ChartMonthly, ChartHourly, ChartPeakHours, ChartBusyQuiet}

// ChartSpec holds the fixed labels of a panel.
type ChartSpec struct {
	Section  string
	Title    string
	XLabel   string
	YLabel   string
	FileName string
}

const yLabelRentals = "Total Rentals (cnt)"

var chartSpecs = map[Chart]ChartSpec{
	ChartMonthly: {
		Section:  "1. Comparison of Bicycle Rentals on Weekdays and Holidays",
		Title:    "Total Bike Rentals per Month",
		XLabel:   "Month",
		YLabel:   yLabelRentals,
		FileName: "monthly_rentals.png",
	},
	ChartHourly: {
		Section:  "2. Which hours are the peak times for bike rentals?",
		Title:    "Total Rentals Per Hour",
		XLabel:   "Hour of the Day",
		YLabel:   yLabelRentals,
		FileName: "hourly_rentals.png",
	},
	ChartPeakHours: {
		Section:  "Top 5 Peak Hours",
		Title:    "Top 5 Peak Hours for Bike Rentals",
		XLabel:   "Hour of the Day",
		YLabel:   yLabelRentals,
		FileName: "peak_hours.png",
	},
	ChartBusyQuiet: {
		Section:  "Comparison of Busy Hours VS Quiet Hours",
		Title:    "Busy and Quiet Hours",
		XLabel:   "Hour of the Day",
		YLabel:   yLabelRentals,
		FileName: "busy_quiet_hours.png",
	},
}

// Spec returns the fixed labels of c.
func (c Chart) Spec() ChartSpec {
	return chartSpecs[c]
}

// Series colours as hex RGB.
const (
	ColorHoliday    = "#d62728"
	ColorWorkingDay = "#7f7f7f"
	ColorBusy       = "#ff7f0e"
	ColorQuiet      = "#1f77b4"
	ColorLine       = "#1f77b4"
	ColorPeak       = "#2ca02c"
	ColorUnlabelled = "#bcbd22"
)

// HolidayColor returns the bar colour for a day type label.
func HolidayColor(label string) string {
	switch label {
	case LabelHoliday:
		return ColorHoliday
	case LabelWorkingDay:
		return ColorWorkingDay
	default:
		return ColorUnlabelled
	}
}

// HourTypeColor returns the bar colour for a busy/quiet label.
func HourTypeColor(hourType string) string {
	if hourType == HourTypeBusy {
		return ColorBusy
	}
	return ColorQuiet
}
