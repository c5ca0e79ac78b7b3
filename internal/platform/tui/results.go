package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockduel/internal/storage"
)

// ResultsView selects what the results screen lists.
type ResultsView int

const (
	ViewMatches ResultsView = iota
	ViewBots
)

func (v ResultsView) String() string {
	if v == ViewBots {
		return "BOTS"
	}
	return "RECENT MATCHES"
}

// ResultsKeyMap defines the key bindings for the results screen.
type ResultsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ResultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Switch, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ResultsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Switch, k.Quit}}
}

// DefaultResultsKeyMap returns default key bindings.
func DefaultResultsKeyMap() ResultsKeyMap {
	return ResultsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Switch: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "left", "right"),
			key.WithHelp("tab", "matches/bots"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ResultsModel is the Bubble Tea model for browsing stored results.
type ResultsModel struct {
	matches []storage.MatchRecord
	bots    []storage.BotStats
	view    ResultsView
	table   table.Model
	help    help.Model
	keys    ResultsKeyMap
	width   int
	height  int
}

// NewResultsModel creates a results browser over already loaded data.
func NewResultsModel(matches []storage.MatchRecord, bots []storage.BotStats, width, height int) ResultsModel {
	m := ResultsModel{
		matches: matches,
		bots:    bots,
		help:    help.New(),
		keys:    DefaultResultsKeyMap(),
		width:   width,
		height:  height,
	}
	m.table = m.createTable()
	return m
}

// createTable creates a new table with the current view's columns and rows.
func (m *ResultsModel) createTable() table.Model {
	var columns []table.Column
	var rows []table.Row
	switch m.view {
	case ViewBots:
		columns = []table.Column{
			{Title: "Bot", Width: 12},
			{Title: "Played", Width: 8},
			{Title: "Won", Width: 6},
			{Title: "Drawn", Width: 6},
			{Title: "Win %", Width: 7},
		}
		for _, b := range m.bots {
			pct := 0.0
			if b.Played > 0 {
				pct = 100 * float64(b.Won) / float64(b.Played)
			}
			rows = append(rows, table.Row{
				b.Bot,
				fmt.Sprintf("%d", b.Played),
				fmt.Sprintf("%d", b.Won),
				fmt.Sprintf("%d", b.Drawn),
				fmt.Sprintf("%.0f", pct),
			})
		}
	default:
		columns = []table.Column{
			{Title: "ID", Width: 8},
			{Title: "A", Width: 8},
			{Title: "B", Width: 8},
			{Title: "Winner", Width: 6},
			{Title: "Reason", Width: 14},
			{Title: "Ticks", Width: 7},
			{Title: "Date", Width: 12},
		}
		for _, r := range m.matches {
			rows = append(rows, table.Row{
				shortID(r.ID),
				r.Sides[0].Bot,
				r.Sides[1].Bot,
				r.Winner,
				r.Reason,
				fmt.Sprintf("%d", r.Ticks),
				r.CreatedAt.Format("Jan 02 15:04"),
			})
		}
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 5 {
		height = 10
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Init initializes the results model.
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results screen.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Switch):
			m.view = (m.view + 1) % 2
			m.table = m.createTable()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the results screen.
func (m ResultsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.MarginBottom(1).Render(centerText(m.view.String(), m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	empty := len(m.matches) == 0
	if m.view == ViewBots {
		empty = len(m.bots) == 0
	}
	if empty {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(centerText(tableStyle.Render(emptyStyle.Render("No matches recorded yet.\nRun `blockduel simulate --save` or play one!")), m.width))
	} else {
		b.WriteString(centerText(tableStyle.Render(m.table.View()), m.width))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// RunResults runs the results browser.
func RunResults(store *storage.Store, limit, width, height int) error {
	matches, err := store.RecentMatches(limit)
	if err != nil {
		return err
	}
	bots, err := store.GetBotStats()
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		NewResultsModel(matches, bots, width, height),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}
