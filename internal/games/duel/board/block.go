package board

import "github.com/vovakirdan/blockduel/internal/core"

// Kind classifies what occupies a cell.
type Kind uint8

const (
	KindNormal  Kind = iota // Matchable block from a piece
	KindBreaker             // Clears same-colored neighbours when it touches one
	KindGarbage             // Single-cell interference, converts to Normal later
	KindStrike              // Column of interference from a strike, converts to Normal later
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindBreaker:
		return "breaker"
	case KindGarbage:
		return "garbage"
	case KindStrike:
		return "strike"
	}
	return "?"
}

// UnitID ties interference cells to the payload unit that placed them.
// Zero means the block is not part of a unit.
type UnitID uint64

// Block is the content of an occupied cell.
type Block struct {
	Kind  Kind
	Color core.Color
	// SourceColor is the color an interference block becomes once converted.
	SourceColor core.Color
	// TransformStage counts the ticks left before an interference block converts.
	TransformStage int
	BornAtTick     uint64
	UnitID         UnitID
}

// NewNormal returns a matchable block.
func NewNormal(c core.Color, tick uint64) Block {
	return Block{Kind: KindNormal, Color: c, BornAtTick: tick}
}

// NewBreaker returns a breaker block.
func NewBreaker(c core.Color, tick uint64) Block {
	return Block{Kind: KindBreaker, Color: c, BornAtTick: tick}
}

// NewInterference returns a garbage or strike block belonging to unit id.
func NewInterference(kind Kind, c core.Color, id UnitID, stage int, tick uint64) Block {
	return Block{
		Kind:           kind,
		Color:          c,
		SourceColor:    c,
		TransformStage: stage,
		BornAtTick:     tick,
		UnitID:         id,
	}
}

// Interference reports whether the block is garbage or strike.
func (b Block) Interference() bool {
	return b.Kind == KindGarbage || b.Kind == KindStrike
}

// Rune returns the ASCII code for the block: uppercase for normal,
// lowercase for breakers, '#' for garbage and '%' for strike cells.
func (b Block) Rune() rune {
	switch b.Kind {
	case KindNormal:
		return b.Color.Rune()
	case KindBreaker:
		return b.Color.Rune() + ('a' - 'A')
	case KindGarbage:
		return '#'
	case KindStrike:
		return '%'
	}
	return '?'
}

// Cell is a single grid position: empty, or holding exactly one block.
type Cell struct {
	Filled bool
	Block  Block
}

// Empty returns an empty cell.
func Empty() Cell {
	return Cell{}
}

// Occupied returns a cell holding b.
func Occupied(b Block) Cell {
	return Cell{Filled: true, Block: b}
}

// IsEmpty returns true if the cell holds no block.
func (c Cell) IsEmpty() bool {
	return !c.Filled
}
