// Package payload delivers attacks onto the opposing board: per-side FIFO
// queues, a delivery delay, column rotation, and the countdown that turns
// landed interference into ordinary blocks.
package payload

import (
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
)

// Kind is the payload type.
type Kind uint8

const (
	KindGarbage Kind = iota
	KindStrike
)

func (k Kind) String() string {
	if k == KindStrike {
		return "strike"
	}
	return "garbage"
}

// BlockKind returns the board kind of the cells this payload places.
func (k Kind) BlockKind() board.Kind {
	if k == KindStrike {
		return board.KindStrike
	}
	return board.KindGarbage
}

// Payload is a pending delivery to one side. Garbage of N units places N
// single cells; a strike W wide and H tall places W columns of H cells.
type Payload struct {
	ID            uint64
	Kind          Kind
	Units         int // column units still to place
	Width         int // units at creation
	Height        int // cells per unit
	Color         core.Color
	CreatedAtTick uint64
	DeliverAtTick uint64
	Target        core.Side
	Attempts      int
	Columns       []int // columns units have landed in so far
	LandedCells   int
}

// Garbage builds a garbage payload of n single-cell units.
func Garbage(n int, c core.Color) Payload {
	return Payload{Kind: KindGarbage, Units: n, Width: n, Height: 1, Color: c}
}

// Strike builds a strike payload w columns wide and h cells tall.
func Strike(w, h int, c core.Color) Payload {
	return Payload{Kind: KindStrike, Units: w, Width: w, Height: h, Color: c}
}

// Preview is what a renderer shows as an incoming warning.
type Preview struct {
	ID            uint64
	Kind          Kind
	Units         int
	Height        int
	Color         core.Color
	DeliverAtTick uint64
}

// UnitState is the lifecycle of one placed column unit.
type UnitState uint8

const (
	UnitPending UnitState = iota
	UnitLanded
	UnitTransforming
	UnitConverted
)

func (s UnitState) String() string {
	switch s {
	case UnitLanded:
		return "landed"
	case UnitTransforming:
		return "transforming"
	case UnitConverted:
		return "converted"
	}
	return "pending"
}

// Unit is a placed column unit the scheduler is counting down.
type Unit struct {
	ID        board.UnitID
	PayloadID uint64
	Side      core.Side
	Kind      Kind
	Column    int
	Cells     int
	Color     core.Color
	State     UnitState
	Remaining int
}

// Receiver is the board a side's payloads land on.
type Receiver interface {
	// Accepting reports whether placement may happen now.
	Accepting() bool
	ColumnRoom(col int) int
	PlaceUnit(col int, blocks []board.Block) int
	SetTransformStage(id board.UnitID, remaining int)
	ConvertUnit(id board.UnitID) int
}

// Telemetry observes scheduler activity.
type Telemetry interface {
	PayloadEnqueued(kind string)
	UnitsLanded(kind string, n int)
	UnitConverted(kind string)
	PlacementOverflow()
	PayloadDropped()
}

type nopTelemetry struct{}

func (nopTelemetry) PayloadEnqueued(string)  {}
func (nopTelemetry) UnitsLanded(string, int) {}
func (nopTelemetry) UnitConverted(string)    {}
func (nopTelemetry) PlacementOverflow()      {}
func (nopTelemetry) PayloadDropped()         {}
