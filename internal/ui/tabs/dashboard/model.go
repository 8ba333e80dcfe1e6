// Package dashboard provides the main dashboard tab: the date range
// selector followed by the four rental charts.
package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/bike-sharing-dashboard/internal/app"
	"github.com/j-veylop/bike-sharing-dashboard/internal/dataset"
	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
	"github.com/j-veylop/bike-sharing-dashboard/internal/ui/components"
	"github.com/j-veylop/bike-sharing-dashboard/internal/ui/styles"
)

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	EditRange  key.Binding
	Apply      key.Binding
	Cancel     key.Binding
	ResetRange key.Binding
	PrevWindow key.Binding
	NextWindow key.Binding
	Export     key.Binding
}

// defaultKeyMap returns the default key bindings for the dashboard tab.
func defaultKeyMap() keyMap {
	return keyMap{
		EditRange: key.NewBinding(
			key.WithKeys("d", "/"),
			key.WithHelp("d", "edit date range"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply range"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel edit"),
		),
		ResetRange: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "full range"),
		),
		PrevWindow: key.NewBinding(
			key.WithKeys("[", "<"),
			key.WithHelp("[", "previous window"),
		),
		NextWindow: key.NewBinding(
			key.WithKeys("]", ">"),
			key.WithHelp("]", "next window"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export PNG"),
		),
	}
}

// Model represents the dashboard tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model
	input    textinput.Model
	width    int
	height   int
}

// New creates a new dashboard model.
func New(state *app.State, commands *app.Commands) *Model {
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "YYYY-MM-DD" + dataset.RangeSeparator + "YYYY-MM-DD"
	input.CharLimit = len(models.DateLayout)*2 + len(dataset.RangeSeparator)
	input.Width = input.CharLimit + 1
	input.PromptStyle = styles.FocusedStyle
	input.TextStyle = styles.FocusedStyle.Bold(false)

	return &Model{
		state:    state,
		commands: commands,
		spinner:  components.NewSpinner("Loading dataset..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		input:    input,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.input.Focused() {
			cmds = append(cmds, m.handleEditKey(msg))
		} else {
			cmds = append(cmds, m.handleKeyMsg(msg))
		}

	case spinner.TickMsg:
		if m.state.IsInitialLoading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case app.SummaryComputedMsg:
		m.viewport.GotoTop()

	default:
		if m.input.Focused() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.EditRange):
		return m.startEditing()
	case key.Matches(msg, m.keys.ResetRange):
		return m.commands.ResetRange()
	case key.Matches(msg, m.keys.PrevWindow):
		return m.commands.ShiftRange(-1)
	case key.Matches(msg, m.keys.NextWindow):
		return m.commands.ShiftRange(1)
	case key.Matches(msg, m.keys.Export):
		return m.commands.Export()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
}

func (m *Model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Apply):
		value := m.input.Value()
		m.stopEditing()
		return m.commands.SetRange(value)
	case key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		return nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
}

// startEditing opens the range editor prefilled with the current selection.
func (m *Model) startEditing() tea.Cmd {
	current := m.state.GetRange()
	if current.IsZero() {
		current = m.state.GetBounds()
	}
	if !current.IsZero() {
		m.input.SetValue(current.String())
	}
	m.input.CursorEnd()
	m.state.SetEditing(true)
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m *Model) stopEditing() {
	m.input.Blur()
	m.state.SetEditing(false)
}

// Editing reports whether the range editor is open.
func (m *Model) Editing() bool {
	return m.input.Focused()
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.input.Focused() {
		return []key.Binding{m.keys.Apply, m.keys.Cancel}
	}
	return []key.Binding{
		m.keys.EditRange,
		m.keys.ResetRange,
		m.keys.PrevWindow,
		m.keys.NextWindow,
		m.keys.Export,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.EditRange, m.keys.Apply, m.keys.Cancel},
		{m.keys.ResetRange, m.keys.PrevWindow, m.keys.NextWindow},
		{m.keys.Export},
	}
}
