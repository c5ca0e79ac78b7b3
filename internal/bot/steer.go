// Package bot provides computer opponents. Every bot plays through the same
// command vocabulary as a human: move, rotate, soft drop and spawn.
package bot

import (
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
	"github.com/vovakirdan/blockduel/internal/games/duel/engine"
)

// Target is where a bot wants the current piece to end up.
type Target struct {
	Column int
	Orient core.Dir
}

// steer walks a piece toward a target one command per tick, then drops it.
// It gives up on the target when a command leaves the piece unchanged.
type steer struct {
	target  Target
	planned bool
	last    board.Piece
	issued  bool
	stuck   bool
}

func (s *steer) reset() {
	*s = steer{}
}

// next returns this tick's commands. plan is called once per piece.
func (s *steer) next(view engine.Snapshot, plan func(engine.Snapshot) Target) core.InputFrame {
	switch view.State {
	case engine.Idle:
		s.reset()
		return core.Frame(core.CmdSpawnNext)
	case engine.PieceFalling:
	default:
		s.reset()
		return core.InputFrame{}
	}
	if view.Piece == nil {
		return core.InputFrame{}
	}
	p := *view.Piece

	if !s.planned {
		s.target = plan(view)
		s.planned = true
	} else if s.issued && p.Pos.X == s.last.Pos.X && p.Orient == s.last.Orient {
		s.stuck = true
	}
	s.last = p
	s.issued = false

	if s.stuck {
		return core.Frame(core.CmdSoftDrop)
	}
	switch {
	case p.Orient != s.target.Orient:
		s.issued = true
		if p.Orient.CW() == s.target.Orient {
			return core.Frame(core.CmdRotateCW)
		}
		return core.Frame(core.CmdRotateCCW)
	case p.Pos.X > s.target.Column:
		s.issued = true
		return core.Frame(core.CmdMoveLeft)
	case p.Pos.X < s.target.Column:
		s.issued = true
		return core.Frame(core.CmdMoveRight)
	}
	return core.Frame(core.CmdSoftDrop)
}

// placements lists every column/orientation the piece fits at from its
// spawn row, in a fixed order.
func placements(g *board.Grid, p board.Piece) []Target {
	var out []Target
	for _, d := range core.Dirs {
		for x := 0; x < g.W; x++ {
			q := p
			q.Pos = core.C(x, p.Pos.Y)
			q.Orient = d
			if q.Fits(g) {
				out = append(out, Target{Column: x, Orient: d})
			}
		}
	}
	return out
}

// drop returns a copy of g with p hard-dropped at t and gravity applied,
// plus the cells the piece's blocks settled in.
func drop(g *board.Grid, p board.Piece, t Target) (*board.Grid, [2]core.Coord) {
	q := p
	q.Pos = core.C(t.Column, p.Pos.Y)
	q.Orient = t.Orient
	for q.Moved(0, 1).Fits(g) {
		q = q.Moved(0, 1)
	}
	out := g.Clone()
	q.Write(out)

	cells := q.Cells()
	for i, c := range cells {
		for y := c.Y + 1; y < out.H; y++ {
			below := core.C(c.X, y)
			if !out.IsFree(below) {
				break
			}
			cells[i] = below
		}
	}
	board.ApplyGravity(out)
	return out, cells
}
