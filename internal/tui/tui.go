// Package tui renders the launcher palette in the terminal.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nmelis/beacon/internal/launcher"
)

var (
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7AA2F7"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#C0CAF5")).
			Background(lipgloss.Color("#283457"))

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A9B1D6"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565F89"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E0AF68"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7768E"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565F89"))
)

const (
	statusTimeout   = 3 * time.Second
	refreshInterval = time.Second
)

// Message types
type (
	// refreshMsg re-runs the current search so plugin views stay live.
	refreshMsg struct{}

	// clearStatusMsg hides the transient status line.
	clearStatusMsg struct{ seq int }
)

// Model is the Bubble Tea model for the launcher palette.
type Model struct {
	registry *launcher.Registry
	input    textinput.Model
	items    []*launcher.Item
	cursor   int

	status    string
	statusErr bool
	statusSeq int

	width  int
	height int
}

// NewModel creates a palette over the given registry.
func NewModel(registry *launcher.Registry) Model {
	ti := textinput.New()
	ti.Placeholder = "Search, or type a trigger like wifi, bt, kill, bm, music"
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.Focus()
	ti.CharLimit = 200

	m := Model{
		registry: registry,
		input:    ti,
	}
	m.items = registry.Search("")
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refreshTick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "up", "ctrl+k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			return m, nil

		case "enter":
			return m.activate()

		case "ctrl+r":
			m.registry.Invalidate()
			m.items = m.registry.Search(m.input.Value())
			m.clampCursor()
			return m, nil
		}

	case refreshMsg:
		// Trigger views show command output that goes stale, so re-run
		// the search on a timer while one is active.
		if p, _ := m.registry.FindPluginForInput(m.input.Value()); p != nil {
			m.items = m.registry.Search(m.input.Value())
			m.clampCursor()
		}
		return m, m.refreshTick()

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if m.input.Value() != before {
		m.items = m.registry.Search(m.input.Value())
		m.cursor = 0
	}

	return m, tea.Batch(cmds...)
}

// activate runs the selected item. Query rewrites are applied locally;
// everything else goes through the registry, with failures surfaced as
// a transient status line instead of ending the session.
func (m Model) activate() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.items) {
		return m, nil
	}
	item := m.items[m.cursor]
	if item.Action == nil {
		return m, nil
	}

	if set, ok := item.Action.(*launcher.SetQueryAction); ok {
		m.input.SetValue(set.Query)
		m.input.CursorEnd()
		m.items = m.registry.Search(set.Query)
		m.cursor = 0
		return m, nil
	}

	if err := m.registry.Execute(item); err != nil {
		return m.setStatus(err.Error(), true)
	}

	m.items = m.registry.Search(m.input.Value())
	m.clampCursor()
	return m.setStatus("ok: "+item.Title, false)
}

func (m Model) setStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.status = text
	m.statusErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return m, tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	visible := m.visibleRows()
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.items) {
		end = len(m.items)
	}

	for i := start; i < end; i++ {
		item := m.items[i]
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("▸ " + item.Title))
		} else {
			b.WriteString("  " + itemStyle.Render(item.Title))
		}
		if item.Subtitle != "" {
			b.WriteString("  " + subtitleStyle.Render(item.Subtitle))
		}
		b.WriteString("\n")
	}

	if len(m.items) == 0 {
		b.WriteString(dimStyle.Render("  no results"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(statusStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("enter: run  ctrl+r: refresh  esc: quit"))

	return b.String()
}

func (m Model) visibleRows() int {
	rows := m.height - 6
	if rows < 5 {
		rows = 10
	}
	return rows
}

// Run starts the palette and blocks until the user quits.
func Run(registry *launcher.Registry) error {
	p := tea.NewProgram(NewModel(registry), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
