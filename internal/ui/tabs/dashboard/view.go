package dashboard

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
	"github.com/j-veylop/bike-sharing-dashboard/internal/ui/components"
	"github.com/j-veylop/bike-sharing-dashboard/internal/ui/styles"
)

const (
	lineChartHeight = 10
	hoursPerDay     = 24
	unmappedLabel   = "(unmapped)"
)

// View renders the dashboard component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	sections := []string{
		m.renderTitle(),
		m.renderRangeSelector(),
	}

	summary := m.state.GetSummary()
	if !summary.HasData() {
		sections = append(sections, "", components.NoData)
	} else {
		for _, chart := range models.Charts {
			sections = append(sections, m.renderPanel(chart, summary))
		}
	}

	sections = append(sections, styles.FooterStyle.Render(models.Footer))

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) contentWidth() int {
	return max(m.width-8, 40)
}

// renderTitle renders the page title.
func (m *Model) renderTitle() string {
	return styles.TitleStyle.Render(models.PageTitle + " ✨")
}

// renderRangeSelector renders the date range control and any validation
// error for the last attempted selection.
func (m *Model) renderRangeSelector() string {
	bounds := m.state.GetBounds()
	current := m.state.GetRange()

	var lines []string

	label := styles.SubTitleStyle.UnsetMarginBottom().Render("Date range")
	if m.input.Focused() {
		lines = append(lines, label+" "+m.input.View())
		lines = append(lines, styles.HelpStyle.Render(fmt.Sprintf("  data available %s · enter to apply · esc to cancel", bounds)))
	} else {
		value := styles.FocusedStyle.Render(current.String())
		detail := styles.HelpStyle.Render(fmt.Sprintf("(%s of %s days)", humanize.Comma(int64(current.Days())), humanize.Comma(int64(bounds.Days()))))
		lines = append(lines, fmt.Sprintf("%s %s %s", label, value, detail))
	}

	if err := m.state.GetRangeError(); err != nil {
		lines = append(lines, styles.ErrorTextStyle.Render("  ✗ "+err.Error()))
	}

	if summary := m.state.GetSummary(); summary != nil {
		lines = append(lines, styles.HelpStyle.Render(fmt.Sprintf(
			"  %s hourly rows · %s rentals",
			humanize.Comma(int64(summary.RowCount)),
			humanize.Comma(summary.TotalRentals),
		)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

// renderPanel renders one chart with its section header, title and axis
// labels.
func (m *Model) renderPanel(chart models.Chart, summary *models.Summary) string {
	spec := chart.Spec()
	width := m.contentWidth()

	var body, legend string
	switch chart {
	case models.ChartMonthly:
		body = components.RenderGroupedBars(monthlyGroups(summary.Monthly), width)
		legend = components.RenderLegend(monthlyLegend(summary.Monthly))
	case models.ChartHourly:
		body = m.renderHourlyLine(summary.Hourly, width)
	case models.ChartPeakHours:
		body = components.RenderBarChart(peakBars(summary.PeakHours), width)
	case models.ChartBusyQuiet:
		body = components.RenderBarChart(classifiedBars(summary.Classified), width)
		legend = components.RenderLegend([]components.LegendItem{
			{Label: models.HourTypeBusy, Color: styles.Busy},
			{Label: models.HourTypeQuiet, Color: styles.Quiet},
		}) + styles.HelpStyle.Render(fmt.Sprintf("   mean %s rentals/hour", humanize.CommafWithDigits(summary.HourlyMean, 1)))
	}

	lines := []string{
		styles.SectionStyle.Render(spec.Section),
		styles.ChartTitleStyle.Render(spec.Title),
		styles.AxisLabelStyle.Render(fmt.Sprintf("y: %s · x: %s", spec.YLabel, spec.XLabel)),
	}
	if legend != "" {
		lines = append(lines, legend)
	}
	lines = append(lines, body)

	return styles.CardStyle.Width(width + 4).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderHourlyLine(totals []models.HourTotal, width int) string {
	if len(totals) == 0 {
		return components.NoData
	}

	data, missing := hourlySeries(totals)
	caption := fmt.Sprintf("%s %s–%s", models.ChartHourly.Spec().XLabel, hourLabel(0), hourLabel(hoursPerDay-1))
	if missing > 0 {
		caption += fmt.Sprintf(", %d %s without rentals drawn at 0", missing, english.PluralWord(missing, "hour", ""))
	}
	return components.RenderLineChart(data, width-12, lineChartHeight, caption)
}

// hourlySeries spreads totals over the 24 hours of the day so the x axis is
// evenly spaced in time. Hours absent from totals are drawn at zero and
// counted in missing. The summary itself is left untouched.
func hourlySeries(totals []models.HourTotal) (data []float64, missing int) {
	data = make([]float64, hoursPerDay)
	seen := make([]bool, hoursPerDay)
	for _, h := range totals {
		if h.Hour < 0 || h.Hour >= hoursPerDay {
			continue
		}
		data[h.Hour] = float64(h.TotalCount)
		seen[h.Hour] = true
	}
	for _, ok := range seen {
		if !ok {
			missing++
		}
	}
	return data, missing
}

func hourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

func holidayBarLabel(label string) string {
	if label == "" {
		return unmappedLabel
	}
	return label
}

// monthlyGroups turns the monthly summary, already ordered by month and
// day type, into one bar group per month.
func monthlyGroups(rows []models.MonthlyRental) []components.BarGroup {
	var groups []components.BarGroup
	for _, r := range rows {
		name := models.MonthName(r.Month)
		if len(groups) == 0 || groups[len(groups)-1].Label != name {
			groups = append(groups, components.BarGroup{Label: name})
		}
		g := &groups[len(groups)-1]
		g.Bars = append(g.Bars, components.Bar{
			Label: holidayBarLabel(r.Holiday),
			Value: r.TotalCount,
			Color: styles.HolidayColor(r.Holiday),
		})
	}
	return groups
}

// monthlyLegend lists the day types present, Working Day before Holiday.
func monthlyLegend(rows []models.MonthlyRental) []components.LegendItem {
	seen := make(map[string]bool)
	for _, r := range rows {
		seen[r.Holiday] = true
	}

	var items []components.LegendItem
	for _, label := range []string{models.LabelWorkingDay, models.LabelHoliday, ""} {
		if seen[label] {
			items = append(items, components.LegendItem{
				Label: holidayBarLabel(label),
				Color: styles.HolidayColor(label),
			})
		}
	}
	return items
}

func peakBars(rows []models.HourTotal) []components.Bar {
	bars := make([]components.Bar, 0, len(rows))
	for i, r := range rows {
		bars = append(bars, components.Bar{
			Label: fmt.Sprintf("#%d %s", i+1, hourLabel(r.Hour)),
			Value: r.TotalCount,
			Color: styles.Peak,
		})
	}
	return bars
}

func classifiedBars(rows []models.ClassifiedHour) []components.Bar {
	bars := make([]components.Bar, 0, len(rows))
	for _, r := range rows {
		bars = append(bars, components.Bar{
			Label: hourLabel(r.Hour),
			Value: r.TotalCount,
			Color: styles.HourTypeColor(r.HourType),
		})
	}
	return bars
}
