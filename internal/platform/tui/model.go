package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/attack"
	"github.com/vovakirdan/blockduel/internal/games/duel/match"
	"github.com/vovakirdan/blockduel/internal/registry"
	"github.com/vovakirdan/blockduel/internal/storage"
)

// Options configures a play session.
type Options struct {
	Config     match.Config
	Calculator *attack.Calculator
	Seed       int64 // 0 picks a time-based seed
	Bot        registry.Bot
	Store      *storage.Store // nil disables saving
	ConfigYAML []byte         // stored with each replay
	Logger     *log.Logger
	MatchOpts  []match.Option
}

// Model is the Bubble Tea model for a human (side A) against a bot (side B).
type Model struct {
	opts     Options
	match    *match.Match
	keys     KeyMap
	help     help.Model
	input    core.InputFrame
	width    int
	paused   bool
	quitting bool
	saved    bool
	savedID  string
	saveErr  error
}

// NewModel creates a new Bubble Tea model and starts the first match.
func NewModel(opts Options) Model {
	// Use time-based seed if not specified
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	m := Model{
		opts: opts,
		keys: DefaultKeyMap(),
		help: help.New(),
	}
	m.newMatch()
	return m
}

func (m *Model) newMatch() {
	opts := append([]match.Option{match.WithLogger(m.opts.Logger)}, m.opts.MatchOpts...)
	m.match = match.New(m.opts.Config, m.opts.Seed, m.opts.Calculator, opts...)
	m.opts.Bot.Reset(m.opts.Seed)
	m.input.Clear()
	m.saved = false
	m.savedID = ""
	m.saveErr = nil
}

// Match returns the match being played.
func (m Model) Match() *match.Match { return m.match }

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input. Game commands are buffered until the
// next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		if !m.match.Done() {
			m.paused = !m.paused
		}
		return m, nil
	case key.Matches(msg, m.keys.Restart):
		if m.match.Done() {
			m.opts.Seed++
			m.newMatch()
		}
		return m, nil
	}

	if !m.paused {
		m.input.Push(m.keys.Command(msg))
	}
	return m, nil
}

// handleTick steps the match once.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.paused || m.match.Done() {
		return m, tickCmd(m.opts.Config.TickRate)
	}

	botInput := m.opts.Bot.Commands(m.match.SideView(core.SideB))
	m.match.Step(m.input, botInput)
	m.input.Clear()

	if m.match.Done() && !m.saved {
		m.saved = true
		if m.opts.Store != nil {
			bots := [2]string{"human", m.opts.Bot.ID()}
			m.savedID, m.saveErr = m.opts.Store.SaveFinished(m.match, bots, m.opts.ConfigYAML)
			if m.saveErr != nil {
				m.opts.Logger.Error("saving match failed", "err", m.saveErr)
			}
		}
	}

	return m, tickCmd(m.opts.Config.TickRate)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.match.Snapshot()
	names := [2]string{"YOU", strings.ToUpper(m.opts.Bot.Title())}

	var b strings.Builder
	b.WriteString(RenderMatch(snap, names, m.match.Stats(), m.opts.Config.TickRate))
	b.WriteString("\n")

	switch {
	case snap.Result != nil:
		b.WriteString(m.resultLine(*snap.Result))
	case m.paused:
		b.WriteString(titleStyle.Render("PAUSED"))
	default:
		b.WriteString(dimStyle.Render(fmt.Sprintf("tick %d  seed %d", snap.Tick, m.match.Seed())))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, b.String())
	}
	return b.String()
}

func (m Model) resultLine(r match.Result) string {
	var outcome string
	switch {
	case r.Draw:
		outcome = "DRAW"
	case r.Winner == core.SideA:
		outcome = "YOU WIN"
	default:
		outcome = "YOU LOSE"
	}
	line := titleStyle.Render(fmt.Sprintf("%s (%s after %d ticks)", outcome, r.Reason, r.Ticks))
	switch {
	case m.saveErr != nil:
		line += warningStyle.Render("  not saved: " + m.saveErr.Error())
	case m.savedID != "":
		line += dimStyle.Render("  saved as " + m.savedID)
	}
	return line + dimStyle.Render("  r: rematch  q: quit")
}

// Run starts the Bubble Tea program and returns the last match played.
func Run(opts Options) (*match.Match, error) {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if fm, ok := final.(Model); ok {
		return fm.match, nil
	}
	return nil, nil
}
