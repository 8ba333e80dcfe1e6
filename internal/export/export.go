// Package export renders the dashboard charts as PNG images.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/j-veylop/bike-sharing-dashboard/internal/logger"
	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
)

// ErrNoData is returned when the summary has no rows to plot.
var ErrNoData = errors.New("nothing to export: the selected range has no data")

const (
	chartHeight   = 500
	minChartWidth = 1000
	barWidth      = 28
	barSpacing    = 12
)

// Render writes chart c of s as PNG to w.
func Render(w io.Writer, c models.Chart, s *models.Summary) error {
	if !s.HasData() {
		return ErrNoData
	}
	switch c {
	case models.ChartMonthly:
		return monthlyChart(s).Render(chart.PNG, w)
	case models.ChartHourly:
		return hourlyChart(s).Render(chart.PNG, w)
	case models.ChartPeakHours:
		return peakChart(s).Render(chart.PNG, w)
	case models.ChartBusyQuiet:
		return busyQuietChart(s).Render(chart.PNG, w)
	default:
		return fmt.Errorf("unknown chart %d", c)
	}
}

// WriteAll renders every chart into dir and returns the written paths in
// panel order.
func WriteAll(dir string, s *models.Summary) ([]string, error) {
	if !s.HasData() {
		return nil, ErrNoData
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	paths := make([]string, 0, len(models.Charts))
	for _, c := range models.Charts {
		path := filepath.Join(dir, c.Spec().FileName)
		if err := writeFile(path, c, s); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	logger.Info("charts exported", "dir", dir, "range", s.Range.String(), "files", len(paths))
	return paths, nil
}

func writeFile(path string, c models.Chart, s *models.Summary) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := Render(f, c, s); err != nil {
		return fmt.Errorf("failed to render %s: %w", c.Spec().Title, err)
	}
	return nil
}

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func barStyle(hex string) chart.Style {
	c := color(hex)
	return chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1}
}

func formatCount(v any) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(f))
	}
	return ""
}

// valueRange starts at zero and leaves headroom above the tallest value.
func valueRange(peak int64) *chart.ContinuousRange {
	top := float64(peak) * 1.1
	if top <= 0 {
		top = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: top}
}

func barChartWidth(bars int) int {
	return max(minChartWidth, bars*(barWidth+barSpacing)+200)
}

func newBarChart(c models.Chart, bars []chart.Value, top int64) chart.BarChart {
	spec := c.Spec()
	return chart.BarChart{
		Title:      spec.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      barChartWidth(len(bars)),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		XAxis:      chart.Style{FontSize: 9},
		YAxis: chart.YAxis{
			Name:           spec.YLabel,
			Range:          valueRange(top),
			ValueFormatter: formatCount,
		},
		Bars: bars,
	}
}

// spacer is an invisible bar that separates months.
var spacer = chart.Value{Style: chart.Style{FillColor: invisible, StrokeColor: invisible}}

// invisible is fully transparent. drawing.ColorTransparent is the zero Color,
// which go-chart replaces with its default bar colour.
var invisible = drawing.Color{R: 255, G: 255, B: 255, A: 0}

type legendItem struct {
	label string
	color string
}

// monthlyBars lays out one bar per month and day type with a spacer between
// months. Only the first bar of each month carries the month name; day types
// are told apart by colour and listed in the legend in order of appearance.
func monthlyBars(rows []models.MonthlyRental) (bars []chart.Value, legend []legendItem, top int64) {
	seen := make(map[string]bool)
	for i, m := range rows {
		label := ""
		if i == 0 || rows[i-1].Month != m.Month {
			if i > 0 {
				bars = append(bars, spacer)
			}
			label = models.MonthName(m.Month)
		}
		bars = append(bars, chart.Value{
			Label: label,
			Value: float64(m.TotalCount),
			Style: barStyle(models.HolidayColor(m.Holiday)),
		})
		top = max(top, m.TotalCount)

		if !seen[m.Holiday] {
			seen[m.Holiday] = true
			legend = append(legend, legendItem{label: dayTypeName(m.Holiday), color: models.HolidayColor(m.Holiday)})
		}
	}
	return bars, legend, top
}

func dayTypeName(label string) string {
	if label == "" {
		return "(unmapped)"
	}
	return label
}

const (
	swatchSize = 10
	legendGap  = 14
)

// legendElement draws a colour swatch and label per item along the top
// right edge of the canvas.
func legendElement(items []legendItem) chart.Renderable {
	return func(r chart.Renderer, canvas chart.Box, defaults chart.Style) {
		text := chart.Style{FontSize: 9, FontColor: drawing.ColorBlack}.InheritFrom(defaults)

		widths := make([]int, len(items))
		total := 0
		for i, it := range items {
			widths[i] = chart.Draw.MeasureText(r, it.label, text).Width()
			total += swatchSize + 4 + widths[i] + legendGap
		}

		x := canvas.Right - total
		y := canvas.Top + legendGap
		for i, it := range items {
			chart.Draw.Box(r, chart.Box{Top: y, Left: x, Right: x + swatchSize, Bottom: y + swatchSize}, barStyle(it.color))
			chart.Draw.Text(r, it.label, x+swatchSize+4, y+swatchSize, text)
			x += swatchSize + 4 + widths[i] + legendGap
		}
	}
}

func monthlyChart(s *models.Summary) chart.BarChart {
	bars, legend, top := monthlyBars(s.Monthly)
	c := newBarChart(models.ChartMonthly, bars, top)
	c.Elements = []chart.Renderable{legendElement(legend)}
	return c
}

func hourlyChart(s *models.Summary) chart.Chart {
	spec := models.ChartHourly.Spec()
	xs := make([]float64, len(s.Hourly))
	ys := make([]float64, len(s.Hourly))
	var top int64
	for i, h := range s.Hourly {
		xs[i] = float64(h.Hour)
		ys[i] = float64(h.TotalCount)
		top = max(top, h.TotalCount)
	}

	ticks := make([]chart.Tick, 0, 24)
	for h := 0; h < 24; h += 2 {
		ticks = append(ticks, chart.Tick{Value: float64(h), Label: strconv.Itoa(h)})
	}

	line := color(models.ColorLine)
	return chart.Chart{
		Title:      spec.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      minChartWidth,
		Height:     chartHeight,
		XAxis: chart.XAxis{
			Name:  spec.XLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: 23},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:           spec.YLabel,
			Range:          valueRange(top),
			ValueFormatter: formatCount,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    spec.Title,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: line,
					StrokeWidth: 2,
					DotColor:    line,
					DotWidth:    4,
				},
			},
		},
	}
}

func hourLabel(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

func peakChart(s *models.Summary) chart.BarChart {
	bars := make([]chart.Value, len(s.PeakHours))
	var top int64
	for i, p := range s.PeakHours {
		bars[i] = chart.Value{
			Label: hourLabel(p.Hour),
			Value: float64(p.TotalCount),
			Style: barStyle(models.ColorPeak),
		}
		top = max(top, p.TotalCount)
	}
	return newBarChart(models.ChartPeakHours, bars, top)
}

func busyQuietChart(s *models.Summary) chart.BarChart {
	bars := make([]chart.Value, len(s.Classified))
	var top int64
	for i, c := range s.Classified {
		bars[i] = chart.Value{
			Label: strconv.Itoa(c.Hour),
			Value: float64(c.TotalCount),
			Style: barStyle(models.HourTypeColor(c.HourType)),
		}
		top = max(top, c.TotalCount)
	}
	return newBarChart(models.ChartBusyQuiet, bars, top)
}
