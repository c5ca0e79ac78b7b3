package board

import "github.com/vovakirdan/blockduel/internal/core"

// Piece is the falling pair: a primary block at Pos and an attached block
// one cell away in direction Orient.
type Piece struct {
	Primary  Block
	Attached Block
	Pos      core.Coord
	Orient   core.Dir
}

// AttachedPos returns the attached block's cell.
func (p Piece) AttachedPos() core.Coord {
	return p.Pos.Step(p.Orient)
}

// Cells returns the primary and attached positions.
func (p Piece) Cells() [2]core.Coord {
	return [2]core.Coord{p.Pos, p.AttachedPos()}
}

// Occupies reports whether the piece covers c.
func (p Piece) Occupies(c core.Coord) bool {
	return c == p.Pos || c == p.AttachedPos()
}

// Moved returns the piece shifted by (dx, dy).
func (p Piece) Moved(dx, dy int) Piece {
	p.Pos = p.Pos.Add(core.C(dx, dy))
	return p
}

// Rotated returns the piece with the attached block turned a quarter around
// the primary.
func (p Piece) Rotated(cw bool) Piece {
	if cw {
		p.Orient = p.Orient.CW()
	} else {
		p.Orient = p.Orient.CCW()
	}
	return p
}

// Fits reports whether both cells are in bounds and empty.
func (p Piece) Fits(g *Grid) bool {
	return g.IsFree(p.Pos) && g.IsFree(p.AttachedPos())
}

// Write stores both blocks into the grid.
func (p Piece) Write(g *Grid) {
	g.Set(p.Pos, p.Primary)
	g.Set(p.AttachedPos(), p.Attached)
}
