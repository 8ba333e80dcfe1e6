// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/bike-sharing-dashboard/internal/ui/styles"
)

const (
	barRune     = "█"
	halfBarRune = "▌"

	minChartWidth  = 20
	minChartHeight = 3
)

// NoData is rendered in place of a chart without rows.
var NoData = styles.HelpStyle.Render("No data for the selected range")

// RenderLineChart plots a single series with asciigraph. Values are counts,
// so the axis starts at zero and labels carry no decimals.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return NoData
	}

	width = max(width, minChartWidth)
	height = max(height, minChartHeight)

	// With integer labels, more rows than units repeats y labels.
	if peak := slices.Max(data); peak > 0 && peak < float64(height) {
		height = int(math.Ceil(peak))
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Blue),
	}
	if caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}

	return asciigraph.Plot(data, opts...)
}

// Bar is one horizontal bar.
type Bar struct {
	Label string
	Value int64
	Color lipgloss.Color
}

// BarGroup is a set of bars drawn under a shared label, such as the day
// types of one month.
type BarGroup struct {
	Label string
	Bars  []Bar
}

// RenderBarChart draws horizontal bars scaled to the largest value, each
// followed by its count.
func RenderBarChart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return NoData
	}

	peak := peakValue(bars)
	labelWidth := 0
	for _, b := range bars {
		labelWidth = max(labelWidth, lipgloss.Width(b.Label))
	}
	barWidth := barSpace(width, labelWidth, peak)

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		lines = append(lines, renderBarLine(b, labelWidth, barWidth, peak))
	}
	return strings.Join(lines, "\n")
}

// RenderGroupedBars draws each group as a block of bars. All groups share
// one scale so bars compare across groups.
func RenderGroupedBars(groups []BarGroup, width int) string {
	if len(groups) == 0 {
		return NoData
	}

	var all []Bar
	groupWidth, labelWidth := 0, 0
	for _, g := range groups {
		groupWidth = max(groupWidth, lipgloss.Width(g.Label))
		for _, b := range g.Bars {
			labelWidth = max(labelWidth, lipgloss.Width(b.Label))
		}
		all = append(all, g.Bars...)
	}
	peak := peakValue(all)
	barWidth := barSpace(width-groupWidth-1, labelWidth, peak)

	var lines []string
	for _, g := range groups {
		for i, b := range g.Bars {
			prefix := strings.Repeat(" ", groupWidth)
			if i == 0 {
				prefix = fmt.Sprintf("%-*s", groupWidth, g.Label)
			}
			lines = append(lines, prefix+" "+renderBarLine(b, labelWidth, barWidth, peak))
		}
	}
	return strings.Join(lines, "\n")
}

func peakValue(bars []Bar) int64 {
	var peak int64
	for _, b := range bars {
		peak = max(peak, b.Value)
	}
	return peak
}

// barSpace returns the cells left for the bar itself once the label and
// the widest count are placed.
func barSpace(width, labelWidth int, peak int64) int {
	valueWidth := len(humanize.Comma(peak)) + 1
	return max(width-labelWidth-valueWidth-3, 10)
}

func renderBarLine(b Bar, labelWidth, barWidth int, peak int64) string {
	label := fmt.Sprintf("%*s", labelWidth, b.Label)

	bar := ""
	if peak > 0 && b.Value > 0 {
		cells := float64(b.Value) / float64(peak) * float64(barWidth)
		full := int(math.Floor(cells))
		bar = strings.Repeat(barRune, full)
		if cells-float64(full) >= 0.5 {
			bar += halfBarRune
		}
		if bar == "" {
			bar = halfBarRune
		}
	}

	colored := lipgloss.NewStyle().Foreground(b.Color).Render(bar)
	return label + " │" + colored + " " + humanize.Comma(b.Value)
}

// HeatmapBlocks are Unicode block characters for heatmaps (low to high intensity).
var HeatmapBlocks = []rune{'░', '▒', '▓', '█'}

// RenderHourlyHeatmap draws one cell per hour of the day, shaded by its
// share of the busiest hour. Missing hours are blank.
func RenderHourlyHeatmap(totals map[int]int64) string {
	var peak int64
	for _, v := range totals {
		peak = max(peak, v)
	}

	var result strings.Builder
	result.WriteString("00 ")

	for hour := range 24 {
		v, ok := totals[hour]
		switch {
		case !ok:
			result.WriteString(" ")
		default:
			intensity := 0
			if peak > 0 {
				intensity = int(float64(v) / float64(peak) * float64(len(HeatmapBlocks)-1))
			}
			intensity = min(max(intensity, 0), len(HeatmapBlocks)-1)

			style := lipgloss.NewStyle().Foreground(styles.Quiet)
			if intensity >= len(HeatmapBlocks)/2 {
				style = lipgloss.NewStyle().Foreground(styles.Busy)
			}
			result.WriteString(style.Render(string(HeatmapBlocks[intensity])))
		}

		// Gap at noon for readability.
		if hour == 11 {
			result.WriteString(" ")
		}
	}

	result.WriteString(" 23")
	return result.String()
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	var parts []string
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}
