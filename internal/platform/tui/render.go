package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
	"github.com/vovakirdan/blockduel/internal/games/duel/engine"
	"github.com/vovakirdan/blockduel/internal/games/duel/match"
	"github.com/vovakirdan/blockduel/internal/games/duel/payload"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorNone:   lipgloss.NewStyle(),
	core.ColorRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBlue:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
}

var (
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	garbageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func colorStyle(c core.Color) lipgloss.Style {
	if s, ok := colorStyles[c]; ok {
		return s
	}
	return colorStyles[core.ColorNone]
}

// cell draws one block two columns wide. Interference shows the source
// colour faintly until it converts.
func cell(b board.Block) string {
	switch b.Kind {
	case board.KindBreaker:
		return colorStyle(b.Color).Bold(true).Render("()")
	case board.KindGarbage:
		return garbageStyle.Render("░") + colorStyle(b.SourceColor).Faint(true).Render("░")
	case board.KindStrike:
		return garbageStyle.Render("▓") + colorStyle(b.SourceColor).Faint(true).Render("▓")
	}
	return colorStyle(b.Color).Render("██")
}

// RenderGrid draws the visible rows of one side, with the falling piece on
// top. Row 0 is the hidden spawn row and is not drawn.
func RenderGrid(s engine.Snapshot) string {
	g := s.Grid
	if g == nil {
		return ""
	}
	var sb strings.Builder
	for y := 1; y < g.H; y++ {
		if y > 1 {
			sb.WriteRune('\n')
		}
		for x := 0; x < g.W; x++ {
			pos := core.C(x, y)
			switch {
			case s.Piece != nil && pos == s.Piece.Pos:
				sb.WriteString(cell(s.Piece.Primary))
			case s.Piece != nil && pos == s.Piece.AttachedPos():
				sb.WriteString(cell(s.Piece.Attached))
			case g.Get(pos).Filled:
				sb.WriteString(cell(g.Get(pos).Block))
			default:
				sb.WriteString(emptyStyle.Render(" ."))
			}
		}
	}
	return boardStyle.Render(sb.String())
}

// RenderPending lists incoming payloads with the seconds left until they land.
func RenderPending(pending []payload.Preview, now uint64, tickRate int) string {
	if len(pending) == 0 {
		return dimStyle.Render("no incoming")
	}
	if tickRate <= 0 {
		tickRate = 60
	}
	lines := make([]string, 0, len(pending))
	for _, p := range pending {
		var what string
		if p.Kind == payload.KindStrike {
			what = fmt.Sprintf("strike %dx%d", p.Units, p.Height)
		} else {
			what = fmt.Sprintf("garbage x%d", p.Units)
		}
		left := 0.0
		if p.DeliverAtTick > now {
			left = float64(p.DeliverAtTick-now) / float64(tickRate)
		}
		lines = append(lines, colorStyle(p.Color).Render("■ ")+warningStyle.Render(fmt.Sprintf("%s %.1fs", what, left)))
	}
	return strings.Join(lines, "\n")
}

// renderPanel is the column beside a board: name, next piece, chain, stats
// and incoming payloads.
func renderPanel(name string, s engine.Snapshot, st match.SideStats, pending []payload.Preview, now uint64, tickRate int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(name))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("next "))
	b.WriteString(cell(s.Next.Attached))
	b.WriteString("\n     ")
	b.WriteString(cell(s.Next.Primary))
	b.WriteString("\n\n")
	if s.Chain.Multiplier > 1 {
		b.WriteString(warningStyle.Bold(true).Render(fmt.Sprintf("CHAIN x%d", s.Chain.Multiplier)))
	} else {
		b.WriteString(dimStyle.Render(s.State.String()))
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "chain  %d\nbroken %d\nsent   %d/%d\n\n", st.MaxChain, st.CellsBroken, st.GarbageSent, st.StrikesSent)
	b.WriteString(RenderPending(pending, now, tickRate))
	return lipgloss.NewStyle().Width(22).PaddingLeft(1).Render(b.String())
}

// RenderMatch draws both sides next to each other.
func RenderMatch(snap match.Snapshot, names [2]string, stats [2]match.SideStats, tickRate int) string {
	cols := make([]string, 0, 4)
	for _, side := range core.Sides {
		cols = append(cols,
			RenderGrid(snap.Sides[side]),
			renderPanel(names[side], snap.Sides[side], stats[side], snap.Pending[side], snap.Tick, tickRate),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}
