package board

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/blockduel/internal/core"
)

// Grid is a player's board. Cells are stored in row-major order,
// index = y*W + x, with row 0 at the top.
type Grid struct {
	W     int
	H     int
	Cells []Cell
}

// NewGrid creates an empty grid.
func NewGrid(w, h int) *Grid {
	return &Grid{
		W:     w,
		H:     h,
		Cells: make([]Cell, w*h),
	}
}

func (g *Grid) index(c core.Coord) int {
	return c.Y*g.W + c.X
}

// InBounds returns true if the coordinate is within the grid boundaries.
func (g *Grid) InBounds(c core.Coord) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// Get returns the cell at c, or an empty cell when out of bounds.
func (g *Grid) Get(c core.Coord) Cell {
	if !g.InBounds(c) {
		return Empty()
	}
	return g.Cells[g.index(c)]
}

// IsFree reports whether c is in bounds and empty.
func (g *Grid) IsFree(c core.Coord) bool {
	return g.InBounds(c) && !g.Cells[g.index(c)].Filled
}

// Set places a block at c.
func (g *Grid) Set(c core.Coord, b Block) {
	if g.InBounds(c) {
		g.Cells[g.index(c)] = Occupied(b)
	}
}

// SetEmpty clears the cell at c.
func (g *Grid) SetEmpty(c core.Coord) {
	if g.InBounds(c) {
		g.Cells[g.index(c)] = Empty()
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{W: g.W, H: g.H, Cells: cells}
}

// Equal reports whether two grids have identical dimensions and contents.
func (g *Grid) Equal(o *Grid) bool {
	if g.W != o.W || g.H != o.H {
		return false
	}
	for i := range g.Cells {
		if g.Cells[i] != o.Cells[i] {
			return false
		}
	}
	return true
}

// FilledCount returns the number of occupied cells.
func (g *Grid) FilledCount() int {
	n := 0
	for _, c := range g.Cells {
		if c.Filled {
			n++
		}
	}
	return n
}

// CountKind returns the number of cells holding a block of kind k.
func (g *Grid) CountKind(k Kind) int {
	n := 0
	for _, c := range g.Cells {
		if c.Filled && c.Block.Kind == k {
			n++
		}
	}
	return n
}

// ColumnHeight returns how many cells of column x are filled, counted from the
// lowest row up to the topmost filled cell.
func (g *Grid) ColumnHeight(x int) int {
	for y := 0; y < g.H; y++ {
		if g.Cells[y*g.W+x].Filled {
			return g.H - y
		}
	}
	return 0
}

// LandingRow returns the row where a block dropped into column x comes to
// rest, or -1 when the column is full or x is out of range.
func (g *Grid) LandingRow(x int) int {
	if x < 0 || x >= g.W {
		return -1
	}
	return g.H - g.ColumnHeight(x) - 1
}

// Find returns the coordinates of every cell matching pred, in row-major order.
func (g *Grid) Find(pred func(Block) bool) []core.Coord {
	var out []core.Coord
	for i, c := range g.Cells {
		if c.Filled && pred(c.Block) {
			out = append(out, core.C(i%g.W, i/g.W))
		}
	}
	return out
}

// String renders the grid as ASCII, one line per row. See Block.Rune for the
// cell codes; empty cells are '.'.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			c := g.Cells[y*g.W+x]
			if c.Filled {
				sb.WriteRune(c.Block.Rune())
			} else {
				sb.WriteByte('.')
			}
		}
		if y < g.H-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ParseGrid builds a grid from ASCII rows using the same codes as String.
// Garbage and strike cells parse with ColorNone and no unit.
func ParseGrid(rows ...string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("board: empty grid")
	}
	w := len(rows[0])
	g := NewGrid(w, len(rows))
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("board: row %d has width %d, expected %d", y, len(row), w)
		}
		for x, r := range row {
			pos := core.C(x, y)
			switch {
			case r == '.':
			case r == '#':
				g.Set(pos, Block{Kind: KindGarbage})
			case r == '%':
				g.Set(pos, Block{Kind: KindStrike})
			default:
				c, ok := core.ColorFromRune(r)
				if !ok {
					return nil, fmt.Errorf("board: unknown cell %q at %v", r, pos)
				}
				if r >= 'a' && r <= 'z' {
					g.Set(pos, NewBreaker(c, 0))
				} else {
					g.Set(pos, NewNormal(c, 0))
				}
			}
		}
	}
	return g, nil
}

// MustParseGrid is ParseGrid for fixtures; it panics on malformed input.
func MustParseGrid(rows ...string) *Grid {
	g, err := ParseGrid(rows...)
	if err != nil {
		panic(err)
	}
	return g
}
