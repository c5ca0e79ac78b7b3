package combo

import (
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
)

// Role is how a broken cell contributed to a pass.
type Role uint8

const (
	RoleIndividual Role = iota // Cleared by a breaker without belonging to a cluster
	RoleBreaker                // The activated breaker itself
	RoleCluster                // Member of a cluster of at least the minimum size
)

func (r Role) String() string {
	switch r {
	case RoleCluster:
		return "cluster"
	case RoleBreaker:
		return "breaker"
	default:
		return "individual"
	}
}

// BrokenCell is one cell removed during a pass.
type BrokenCell struct {
	Pos   core.Coord
	Color core.Color
	Kind  board.Kind
	Role  Role
}

// Record summarizes one resolution pass on one side.
type Record struct {
	Side            core.Side
	Tick            uint64
	Broken          []BrokenCell // row-major
	ClusterSizes    []int
	ClusterColors   []core.Color // parallel to ClusterSizes
	IndividualCount int
	BreakerCount    int
	ChainMultiplier int
}

// Empty reports whether the pass broke nothing.
func (r Record) Empty() bool {
	return len(r.Broken) == 0
}

// ClusterCells returns the total number of cells broken as cluster members.
func (r Record) ClusterCells() int {
	n := 0
	for _, s := range r.ClusterSizes {
		n += s
	}
	return n
}

// DominantIndividualColor returns the most frequent color among individual
// cells, ties going to the lowest color value. ColorNone when there are none.
func (r Record) DominantIndividualColor() core.Color {
	var counts [8]int
	for _, c := range r.Broken {
		if c.Role == RoleIndividual && int(c.Color) < len(counts) {
			counts[c.Color]++
		}
	}
	best := core.ColorNone
	for c := 1; c < len(counts); c++ {
		if counts[c] > counts[best] {
			best = core.Color(c)
		}
	}
	return best
}
