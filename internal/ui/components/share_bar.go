package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/bike-sharing-dashboard/internal/ui/styles"
)

const shareLabelWidth = 16

// ShareBar renders the share of a part in a total as a gradient bar, for
// example busy hours against all rentals.
type ShareBar struct {
	progress progress.Model
}

// NewShareBar creates a bar shading from one series color to another.
func NewShareBar(from, to lipgloss.Color) ShareBar {
	p := progress.New(
		progress.WithGradient(string(from), string(to)),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	return ShareBar{progress: p}
}

// Fraction returns part/total clamped to [0, 1]. A zero total yields 0.
func Fraction(part, total int64) float64 {
	if total <= 0 || part <= 0 {
		return 0
	}
	return min(float64(part)/float64(total), 1)
}

// View renders "label [bar] pct (part of total)" within width cells.
func (b ShareBar) View(label string, part, total int64, width int) string {
	fraction := Fraction(part, total)

	detail := fmt.Sprintf("%5.1f%% (%s of %s)", fraction*100, humanize.Comma(part), humanize.Comma(total))
	b.progress.Width = max(width-shareLabelWidth-lipgloss.Width(detail)-2, 10)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(shareLabelWidth).
		Render(label)

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		b.progress.ViewAs(fraction),
		" ",
		styles.HelpDescStyle.Render(detail),
	)
}
