package info

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
	"github.com/j-veylop/bike-sharing-dashboard/internal/ui/styles"
	"github.com/j-veylop/bike-sharing-dashboard/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderDatasetCard(),
		m.renderAboutCard(),
	)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration, dataset and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

func (m *Model) card(title string, rows ...string) string {
	lines := append([]string{styles.CardTitleStyle.Render(title), ""}, rows...)
	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

// renderConfigCard renders the active configuration.
func (m *Model) renderConfigCard() string {
	if m.config == nil {
		return m.card("Configuration", styles.HelpStyle.Render("Configuration not loaded"))
	}

	cfg := m.config
	rows := []string{
		renderRow("Data Source", cfg.DataSource),
		renderRow("Day CSV", cfg.DayCSVPath),
		renderRow("Hour CSV", cfg.HourCSVPath),
	}
	if cfg.UsesDatabase() {
		rows = append(rows, renderRow("Database", cfg.DatabasePath))
	}
	rows = append(rows,
		renderRow("Monthly Grain", cfg.MonthlyGrain.String()),
		renderRow("Export Dir", cfg.ExportDir),
		renderRow("Log File", cfg.LogFile),
		renderRow("Log Level", cfg.LogLevel.String()),
		renderRow("Watch Files", onOff(cfg.WatchFiles)),
		renderRow("Notifications", onOff(cfg.DesktopNotifications)),
	)

	return m.card("Configuration", rows...)
}

// renderDatasetCard renders what is loaded and selected.
func (m *Model) renderDatasetCard() string {
	bounds := m.state.GetBounds()
	if bounds.IsZero() {
		return m.card("Dataset", styles.HelpStyle.Render("No dataset loaded"))
	}

	rows := []string{
		renderRow("Available", fmt.Sprintf("%s (%s days)", bounds, humanize.Comma(int64(bounds.Days())))),
	}

	if summary := m.state.GetSummary(); summary != nil {
		rows = append(rows,
			renderRow("Selected", summary.Range.String()),
			renderRow("Hourly Rows", humanize.Comma(int64(summary.RowCount))),
			renderRow("Rentals", humanize.Comma(summary.TotalRentals)),
		)
	}

	if updated := m.state.GetLastUpdated(); !updated.IsZero() {
		rows = append(rows, renderRow("Computed", humanize.Time(updated)))
	}

	if stats := m.state.GetStoreStats(); stats != nil {
		rows = append(rows, "", styles.SubTitleStyle.Render("SQLite store"))
		rows = append(rows, renderStoreStats(stats)...)
	}

	if paths := m.state.GetLastExport(); len(paths) > 0 {
		rows = append(rows, "", styles.SubTitleStyle.Render("Last export"))
		for _, p := range paths {
			rows = append(rows, "  "+styles.SuccessTextStyle.Render("✓")+" "+p)
		}
	}

	return m.card("Dataset", rows...)
}

func renderStoreStats(stats *models.StoreStats) []string {
	if !stats.HasImport() {
		return []string{styles.WarningTextStyle.Render("Store is empty, run the import command")}
	}
	return []string{
		renderRow("Daily Rows", humanize.Comma(int64(stats.DailyRows))),
		renderRow("Hourly Rows", humanize.Comma(int64(stats.HourlyRows))),
		renderRow("Span", stats.Span.String()),
		renderRow("Imported", humanize.Time(stats.LastImport)),
		renderRow("Sources", strings.Join([]string{stats.DailySource, stats.HourlySource}, ", ")),
		renderRow("Schema", fmt.Sprintf("v%d", stats.SchemaVersion)),
	}
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	return m.card("About "+models.PageTitle,
		renderRow("Version", version.GetVersion()),
		renderRow("Build Date", version.GetDate()),
		renderRow("Git Commit", version.GetCommit()),
		renderRow("Go Version", runtime.Version()),
		renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
		"",
		styles.HelpStyle.Render(models.Footer),
	)
}

// renderRow renders a key-value row.
func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
