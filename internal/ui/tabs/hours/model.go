// Package hours provides the hourly breakdown tab: every hour of the
// selection with its share of rentals and busy/quiet label.
package hours

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/bike-sharing-dashboard/internal/app"
	"github.com/j-veylop/bike-sharing-dashboard/internal/ui/components"
	"github.com/j-veylop/bike-sharing-dashboard/internal/ui/styles"
)

// SortOrder selects how the hour table is ordered.
type SortOrder int

const (
	// SortByHour lists hours in natural order.
	SortByHour SortOrder = iota
	// SortByRentals lists the busiest hours first.
	SortByRentals
)

// String returns the label shown in the table header.
func (s SortOrder) String() string {
	if s == SortByRentals {
		return "by rentals"
	}
	return "by hour"
}

// Next cycles to the other order.
func (s SortOrder) Next() SortOrder {
	if s == SortByHour {
		return SortByRentals
	}
	return SortByHour
}

// keyMap defines the key bindings specific to the hours tab.
type keyMap struct {
	ToggleSort key.Binding
	Up         key.Binding
	Down       key.Binding
}

// defaultKeyMap returns the default key bindings for the hours tab.
func defaultKeyMap() keyMap {
	return keyMap{
		ToggleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle sort"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the hours tab state.
type Model struct {
	state    *app.State
	keys     keyMap
	viewport viewport.Model
	share    components.ShareBar
	order    SortOrder
	width    int
	height   int
}

// New creates a new hours model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		share:    components.NewShareBar(styles.Quiet, styles.Busy),
	}
}

// Init initializes the hours tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the hours tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ToggleSort) {
			m.order = m.order.Next()
			m.viewport.GotoTop()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case app.SummaryComputedMsg:
		m.viewport.GotoTop()
	}

	return m, nil
}

// Order returns the current table order.
func (m *Model) Order() SortOrder {
	return m.order
}

// SetSize sets the available size for the hours tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.ToggleSort}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleSort},
		{m.keys.Up, m.keys.Down},
	}
}
