// Package event defines what a duel reports to the outside world while it
// runs. Engines and the payload scheduler emit events; renderers, loggers
// and tests consume them through a Sink.
package event

import (
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
)

// Event is implemented by every duel event type.
type Event interface {
	duelEvent()
}

// ClusterBroken is emitted once per resolution pass that removed cells.
type ClusterBroken struct {
	Side            core.Side
	Tick            uint64
	ChainMultiplier int
	ClusterSizes    []int
	IndividualCount int
	BreakerCount    int
	Cells           int
}

func (ClusterBroken) duelEvent() {}

// ChainAdvanced is emitted when a pass raises the chain multiplier above 1.
type ChainAdvanced struct {
	Side       core.Side
	Tick       uint64
	Multiplier int
}

func (ChainAdvanced) duelEvent() {}

// AttackSent is emitted when a side's combo produces a non-empty attack.
type AttackSent struct {
	From    core.Side
	To      core.Side
	Tick    uint64
	Garbage int
	Strikes int
	Source  string // "table" or "formula"
}

func (AttackSent) duelEvent() {}

// PayloadLanded is emitted for each placement that puts units of a payload
// on the board. An overflowing payload lands in several placements; the last
// one has Remaining 0.
type PayloadLanded struct {
	Side      core.Side
	Tick      uint64
	PayloadID uint64
	Kind      board.Kind
	Columns   []int // columns of this placement
	Cells     int
	Clipped   int // strike cells cut off by column height
	Remaining int // units still queued
}

func (PayloadLanded) duelEvent() {}

// PayloadConverted is emitted when a landed unit turns into Normal blocks.
type PayloadConverted struct {
	Side      core.Side
	Tick      uint64
	PayloadID uint64
	UnitID    board.UnitID
	Cells     int
	Color     core.Color
}

func (PayloadConverted) duelEvent() {}

// PlacementOverflow is emitted when a payload could not be placed in full
// because every column in the rotation was full.
type PlacementOverflow struct {
	Side      core.Side
	Tick      uint64
	PayloadID uint64
	Requested int
	Placed    int
	Attempt   int
}

func (PlacementOverflow) duelEvent() {}

// PayloadDropped is emitted when a payload exhausts its placement attempts.
type PayloadDropped struct {
	Side      core.Side
	Tick      uint64
	PayloadID uint64
	Units     int
}

func (PayloadDropped) duelEvent() {}

// GameOver is emitted once when a side can no longer spawn.
type GameOver struct {
	Side core.Side
	Tick uint64
}

func (GameOver) duelEvent() {}
