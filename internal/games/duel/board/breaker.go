package board

import (
	"fmt"

	"github.com/vovakirdan/blockduel/internal/core"
)

// Reach controls how far an activated breaker clears.
type Reach uint8

const (
	// ReachAdjacent clears only same-colored blocks orthogonally touching the breaker.
	ReachAdjacent Reach = iota
	// ReachConnected clears the whole same-colored region the breaker touches.
	ReachConnected
)

func (r Reach) String() string {
	if r == ReachConnected {
		return "connected"
	}
	return "adjacent"
}

// ParseReach converts a config value to a Reach.
func ParseReach(s string) (Reach, error) {
	switch s {
	case "", "adjacent":
		return ReachAdjacent, nil
	case "connected":
		return ReachConnected, nil
	}
	return ReachAdjacent, fmt.Errorf("unknown breaker reach %q", s)
}

// BreakerHit is one activated breaker and the cells it clears.
type BreakerHit struct {
	Pos     core.Coord
	Color   core.Color
	Targets []core.Coord // row-major, excludes Pos
}

// ActivateBreakers finds every breaker touching at least one block of its own
// color (Normal or Breaker) and returns what each one clears.
func ActivateBreakers(g *Grid, reach Reach) []BreakerHit {
	var hits []BreakerHit
	for i, cell := range g.Cells {
		if !cell.Filled || cell.Block.Kind != KindBreaker {
			continue
		}
		pos := core.C(i%g.W, i/g.W)
		color := cell.Block.Color
		sameColor := func(b Block) bool {
			return (b.Kind == KindNormal || b.Kind == KindBreaker) && b.Color == color
		}

		var targets []core.Coord
		for _, d := range core.Dirs {
			n := pos.Step(d)
			nc := g.Get(n)
			if g.InBounds(n) && nc.Filled && sameColor(nc.Block) {
				targets = append(targets, n)
			}
		}
		if len(targets) == 0 {
			continue
		}
		if reach == ReachConnected {
			visited := make([]bool, len(g.Cells))
			region := flood(g, pos, visited, sameColor)
			targets = targets[:0]
			for _, c := range region {
				if c != pos {
					targets = append(targets, c)
				}
			}
		} else {
			sortCoords(targets)
		}
		hits = append(hits, BreakerHit{Pos: pos, Color: color, Targets: targets})
	}
	return hits
}
