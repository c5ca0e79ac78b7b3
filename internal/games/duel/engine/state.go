package engine

import (
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
)

// State is a GridEngine lifecycle state.
type State uint8

const (
	Idle State = iota
	PieceFalling
	Locking
	ClusterScan
	Breaking
	GravityApply
	WaitSettle
	GameOver
)

var stateNames = [...]string{
	Idle:         "Idle",
	PieceFalling: "PieceFalling",
	Locking:      "Locking",
	ClusterScan:  "ClusterScan",
	Breaking:     "Breaking",
	GravityApply: "GravityApply",
	WaitSettle:   "WaitSettle",
	GameOver:     "GameOver",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Resolving reports whether the engine is between locking a piece and
// returning to Idle.
func (s State) Resolving() bool {
	return s >= Locking && s <= WaitSettle
}

// ChainState tracks consecutive resolution passes that broke something.
type ChainState struct {
	Multiplier int
	Active     bool
}

// Snapshot is a read-only copy of one side's engine for renderers and bots.
type Snapshot struct {
	Side  core.Side
	Tick  uint64
	State State
	Grid  *board.Grid
	Piece *board.Piece // nil unless PieceFalling
	Next  board.Piece  // preview; position is not meaningful
	Chain ChainState

	BreakerReach board.Reach
}
