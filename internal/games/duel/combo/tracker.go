// Package combo aggregates the cells broken in a single resolution pass into
// a Record the attack calculator can price.
package combo

import (
	"sort"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
)

// Tracker collects broken cells for one pass at a time. Each cell is
// counted exactly once under its highest role: cluster membership wins over
// breaker, breaker over individual.
type Tracker struct {
	side       core.Side
	tick       uint64
	multiplier int
	cells      map[core.Coord]BrokenCell
	sizes      []int
	colors     []core.Color
}

// NewTracker returns a tracker for one side's engine.
func NewTracker(side core.Side) *Tracker {
	return &Tracker{side: side, cells: make(map[core.Coord]BrokenCell)}
}

// Begin starts a new pass, discarding anything not yet finished.
func (t *Tracker) Begin(tick uint64, multiplier int) {
	t.tick = tick
	t.multiplier = multiplier
	clear(t.cells)
	t.sizes = t.sizes[:0]
	t.colors = t.colors[:0]
}

// AddCluster records every cell of c as a cluster member.
func (t *Tracker) AddCluster(c board.Cluster) {
	t.sizes = append(t.sizes, c.Size())
	t.colors = append(t.colors, c.Color)
	for _, pos := range c.Cells {
		t.add(BrokenCell{Pos: pos, Color: c.Color, Kind: board.KindNormal, Role: RoleCluster})
	}
}

// AddBreaker records an activated breaker.
func (t *Tracker) AddBreaker(pos core.Coord, color core.Color) {
	t.add(BrokenCell{Pos: pos, Color: color, Kind: board.KindBreaker, Role: RoleBreaker})
}

// AddIndividual records a cell cleared by a breaker. Breaker blocks cleared
// this way count as breakers.
func (t *Tracker) AddIndividual(pos core.Coord, b board.Block) {
	role := RoleIndividual
	if b.Kind == board.KindBreaker {
		role = RoleBreaker
	}
	t.add(BrokenCell{Pos: pos, Color: b.Color, Kind: b.Kind, Role: role})
}

func (t *Tracker) add(c BrokenCell) {
	if prev, ok := t.cells[c.Pos]; ok && prev.Role >= c.Role {
		return
	}
	t.cells[c.Pos] = c
}

// Finish closes the pass. It returns false when nothing was broken.
func (t *Tracker) Finish() (Record, bool) {
	if len(t.cells) == 0 {
		return Record{}, false
	}
	rec := Record{
		Side:            t.side,
		Tick:            t.tick,
		ChainMultiplier: t.multiplier,
		ClusterSizes:    append([]int(nil), t.sizes...),
		ClusterColors:   append([]core.Color(nil), t.colors...),
		Broken:          make([]BrokenCell, 0, len(t.cells)),
	}
	for _, c := range t.cells {
		rec.Broken = append(rec.Broken, c)
		switch c.Role {
		case RoleIndividual:
			rec.IndividualCount++
		case RoleBreaker:
			rec.BreakerCount++
		}
	}
	sort.Slice(rec.Broken, func(i, j int) bool {
		return rec.Broken[i].Pos.Less(rec.Broken[j].Pos)
	})
	clear(t.cells)
	return rec, true
}
