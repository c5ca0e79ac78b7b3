package bot

import (
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
	"github.com/vovakirdan/blockduel/internal/games/duel/engine"
	"github.com/vovakirdan/blockduel/internal/registry"
)

func init() {
	registry.Register("idle", func() registry.Bot { return &Idle{} })
	registry.Register("dropper", func() registry.Bot { return &Dropper{} })
	registry.Register("random", func() registry.Bot { return &Random{} })
	registry.Register("greedy", func() registry.Bot { return &Greedy{} })
}

// Idle never moves; its pieces fall at the engine's pace.
type Idle struct{}

func (*Idle) ID() string    { return "idle" }
func (*Idle) Title() string { return "Idle" }
func (*Idle) Reset(int64)   {}

// Commands only asks for the next piece when the engine waits for one.
func (*Idle) Commands(view engine.Snapshot) core.InputFrame {
	if view.State == engine.Idle {
		return core.Frame(core.CmdSpawnNext)
	}
	return core.InputFrame{}
}

// Dropper soft-drops every piece where it spawns.
type Dropper struct{}

func (*Dropper) ID() string    { return "dropper" }
func (*Dropper) Title() string { return "Dropper" }
func (*Dropper) Reset(int64)   {}

func (*Dropper) Commands(view engine.Snapshot) core.InputFrame {
	switch view.State {
	case engine.Idle:
		return core.Frame(core.CmdSpawnNext)
	case engine.PieceFalling:
		return core.Frame(core.CmdSoftDrop)
	}
	return core.InputFrame{}
}

// Random sends each piece to a random column and orientation.
type Random struct {
	rng   *core.RNG
	steer steer
}

func (*Random) ID() string    { return "random" }
func (*Random) Title() string { return "Random" }

func (b *Random) Reset(seed int64) {
	b.rng = core.NewRNG(seed)
	b.steer.reset()
}

func (b *Random) Commands(view engine.Snapshot) core.InputFrame {
	if b.rng == nil {
		b.Reset(0)
	}
	return b.steer.next(view, b.plan)
}

func (b *Random) plan(view engine.Snapshot) Target {
	options := placements(view.Grid, *view.Piece)
	if len(options) == 0 {
		return Target{Column: view.Piece.Pos.X, Orient: view.Piece.Orient}
	}
	return options[b.rng.Intn(len(options))]
}

// Greedy tries every placement of the current piece and keeps the one that
// grows the largest same-colour groups while keeping the stack low.
type Greedy struct {
	steer steer
}

func (*Greedy) ID() string    { return "greedy" }
func (*Greedy) Title() string { return "Greedy" }

func (b *Greedy) Reset(int64) { b.steer.reset() }

func (b *Greedy) Commands(view engine.Snapshot) core.InputFrame {
	return b.steer.next(view, b.plan)
}

func (b *Greedy) plan(view engine.Snapshot) Target {
	p := *view.Piece
	best := Target{Column: p.Pos.X, Orient: p.Orient}
	bestScore := 0
	for i, t := range placements(view.Grid, p) {
		if s := Score(view.Grid, p, t, view.BreakerReach); i == 0 || s > bestScore {
			best, bestScore = t, s
		}
	}
	return best
}

// Score rates dropping p at t on g: squared sizes of the same-colour groups
// the piece joins, a bonus for groups big enough to break, and for breakers
// that would fire under reach, minus the height of the tallest column.
func Score(g *board.Grid, p board.Piece, t Target, reach board.Reach) int {
	out, cells := drop(g, p, t)

	score := 0
	for _, cl := range board.DetectClusters(out, 2) {
		touched := false
		for _, c := range cl.Cells {
			if c == cells[0] || c == cells[1] {
				touched = true
				break
			}
		}
		if !touched {
			continue
		}
		score += cl.Size() * cl.Size()
		if cl.Size() >= 4 {
			score += 50
		}
	}
	for _, hit := range board.ActivateBreakers(out, reach) {
		score += 10 * len(hit.Targets)
	}

	tallest := 0
	for x := 0; x < out.W; x++ {
		tallest = max(tallest, out.ColumnHeight(x))
	}
	return score - 3*tallest
}
