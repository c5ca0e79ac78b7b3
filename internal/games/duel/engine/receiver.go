package engine

import (
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
)

// Accepting reports whether interference may be placed right now. Placement
// waits while the engine is resolving or topped out.
func (e *Engine) Accepting() bool {
	return e.state == Idle || e.state == PieceFalling
}

// ColumnRoom returns how many cells can land in column col, stopping below
// the falling piece if it hangs over the column.
func (e *Engine) ColumnRoom(col int) int {
	room := 0
	for y := e.grid.LandingRow(col); y >= 0; y-- {
		pos := core.C(col, y)
		if !e.grid.IsFree(pos) || (e.piece != nil && e.piece.Occupies(pos)) {
			break
		}
		room++
	}
	return room
}

// PlaceUnit stacks blocks into column col from the landing row upward and
// returns how many fit. blocks[0] ends up lowest.
func (e *Engine) PlaceUnit(col int, blocks []board.Block) int {
	room := e.ColumnRoom(col)
	y := e.grid.LandingRow(col)
	n := 0
	for _, b := range blocks {
		if n == room {
			break
		}
		b.BornAtTick = e.tick
		e.grid.Set(core.C(col, y-n), b)
		n++
	}
	return n
}

// SetTransformStage mirrors a unit's countdown onto its cells.
func (e *Engine) SetTransformStage(id board.UnitID, remaining int) {
	for i := range e.grid.Cells {
		c := &e.grid.Cells[i]
		if c.Filled && c.Block.UnitID == id && c.Block.Interference() {
			c.Block.TransformStage = remaining
		}
	}
}

// ConvertUnit turns every remaining cell of unit id into a Normal block of
// its source color and returns how many cells converted. Cells already
// broken or cleared are simply gone.
func (e *Engine) ConvertUnit(id board.UnitID) int {
	n := 0
	for i := range e.grid.Cells {
		c := &e.grid.Cells[i]
		if c.Filled && c.Block.UnitID == id && c.Block.Interference() {
			c.Block = board.NewNormal(c.Block.SourceColor, e.tick)
			n++
		}
	}
	if n > 0 {
		e.dirty = true
	}
	return n
}
