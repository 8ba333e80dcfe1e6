package hours

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
	"github.com/j-veylop/bike-sharing-dashboard/internal/ui/components"
	"github.com/j-veylop/bike-sharing-dashboard/internal/ui/styles"
)

// Column widths of the hour table.
const (
	colHour    = 7
	colRentals = 12
	colShare   = 8
	colType    = 7
	colRank    = 6
)

// row is one line of the hour table.
type row struct {
	Hour     int
	Total    int64
	Share    float64
	HourType string
	Rank     int // 1-based position among the peak hours, 0 if not a peak
}

// View renders the hours tab.
func (m *Model) View() string {
	summary := m.state.GetSummary()
	if m.state.IsInitialLoading() {
		return m.renderMessage(styles.HelpStyle.Render("Loading dataset..."))
	}
	if !summary.HasData() {
		return m.renderMessage(components.NoData)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(summary),
		m.renderPattern(summary),
		m.renderTable(summary),
	)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderMessage(msg string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Hours"),
		"",
		msg,
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 50)
}

func (m *Model) renderHeader(summary *models.Summary) string {
	title := styles.TitleStyle.Render("Hours")

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)
	indicator := rangeStyle.Render(summary.Range.String())

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", indicator)
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%s hourly rows · %s rentals · %d hours with data",
		humanize.Comma(int64(summary.RowCount)),
		humanize.Comma(summary.TotalRentals),
		len(summary.Hourly),
	))

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

// renderPattern renders the heatmap and the share of rentals taken by busy
// hours.
func (m *Model) renderPattern(summary *models.Summary) string {
	width := m.cardWidth()

	totals := make(map[int]int64, len(summary.Hourly))
	for _, h := range summary.Hourly {
		totals[h.Hour] = h.TotalCount
	}

	var busyTotal int64
	for _, c := range summary.Classified {
		if c.IsBusy() {
			busyTotal += c.TotalCount
		}
	}

	rows := []string{
		styles.CardTitleStyle.Render("Daily Pattern"),
		"",
		"  " + components.RenderHourlyHeatmap(totals),
		"",
		"  " + m.share.View(fmt.Sprintf("Busy hours (%d)", summary.BusyCount()), busyTotal, summary.TotalRentals, width-6),
		"",
		fmt.Sprintf("  Mean: %s rentals/hour · Peak: %s",
			lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).
				Render(humanize.CommafWithDigits(summary.HourlyMean, 1)),
			peakLabel(summary),
		),
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func peakLabel(summary *models.Summary) string {
	if len(summary.PeakHours) == 0 {
		return "-"
	}
	p := summary.PeakHours[0]
	return fmt.Sprintf("%02d:00-%02d:00 (%s)", p.Hour, (p.Hour+1)%24, humanize.Comma(p.TotalCount))
}

func (m *Model) renderTable(summary *models.Summary) string {
	width := m.cardWidth()

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		cell("Hour", colHour, lipgloss.Left),
		cell("Rentals", colRentals, lipgloss.Right),
		cell("Share", colShare, lipgloss.Right),
		cell("Type", colType, lipgloss.Left),
		cell("Peak", colRank, lipgloss.Right),
	)

	lines := []string{
		styles.CardTitleStyle.Render("All Hours ") + styles.HelpStyle.Render("("+m.order.String()+")"),
		"",
		styles.TableHeaderStyle.Render(header),
	}

	for _, r := range buildRows(summary, m.order) {
		rank := ""
		if r.Rank > 0 {
			rank = fmt.Sprintf("#%d", r.Rank)
		}
		typeCell := lipgloss.NewStyle().Foreground(styles.HourTypeColor(r.HourType)).Render(r.HourType)
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			cell(fmt.Sprintf("%02d:00", r.Hour), colHour, lipgloss.Left),
			cell(humanize.Comma(r.Total), colRentals, lipgloss.Right),
			cell(fmt.Sprintf("%.1f%%", r.Share*100), colShare, lipgloss.Right),
			cell(typeCell, colType, lipgloss.Left),
			cell(rank, colRank, lipgloss.Right),
		))
	}

	return styles.CardStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func cell(s string, width int, align lipgloss.Position) string {
	return styles.TableCellStyle.Width(width + 2).Align(align).Render(s)
}

// buildRows joins the classified hours with their share of all rentals and
// their peak rank, ordered as requested.
func buildRows(summary *models.Summary, order SortOrder) []row {
	ranks := make(map[int]int, len(summary.PeakHours))
	for i, p := range summary.PeakHours {
		ranks[p.Hour] = i + 1
	}

	rows := make([]row, 0, len(summary.Classified))
	for _, c := range summary.Classified {
		rows = append(rows, row{
			Hour:     c.Hour,
			Total:    c.TotalCount,
			Share:    components.Fraction(c.TotalCount, summary.TotalRentals),
			HourType: c.HourType,
			Rank:     ranks[c.Hour],
		})
	}

	if order == SortByRentals {
		slices.SortStableFunc(rows, func(a, b row) int {
			return cmp.Compare(b.Total, a.Total)
		})
	}
	return rows
}
