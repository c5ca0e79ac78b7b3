// Package attack turns a combo record into the interference sent to the
// opponent. Resolution is a pure function of the record: the rule table is
// consulted first and the formula covers every combo the table misses.
package attack

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/combo"
)

// StrikeSpec is one rectangular strike: Width column units, each Height tall.
type StrikeSpec struct {
	Width  int
	Height int
	Color  core.Color // ColorNone lets the sender pick the cluster color
}

func (s StrikeSpec) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Cells returns the strike's footprint area.
func (s StrikeSpec) Cells() int {
	return s.Width * s.Height
}

// Output is what a combo sends to the opponent.
type Output struct {
	GarbageUnits int
	Strikes      []StrikeSpec
}

// Empty reports whether the output sends nothing.
func (o Output) Empty() bool {
	return o.GarbageUnits == 0 && len(o.Strikes) == 0
}

// StrikeCells sums the footprints of all strikes.
func (o Output) StrikeCells() int {
	n := 0
	for _, s := range o.Strikes {
		n += s.Cells()
	}
	return n
}

// Clone returns a copy that shares no memory with o.
func (o Output) Clone() Output {
	out := Output{GarbageUnits: o.GarbageUnits}
	if len(o.Strikes) > 0 {
		out.Strikes = append([]StrikeSpec(nil), o.Strikes...)
	}
	return out
}

func (o Output) String() string {
	parts := make([]string, len(o.Strikes))
	for i, s := range o.Strikes {
		parts[i] = s.String()
	}
	return fmt.Sprintf("garbage=%d strikes=[%s]", o.GarbageUnits, strings.Join(parts, " "))
}

// Source says which strategy produced an output.
type Source uint8

const (
	SourceFormula Source = iota
	SourceTable
)

func (s Source) String() string {
	if s == SourceTable {
		return "table"
	}
	return "formula"
}

// Resolution is an output together with where it came from.
type Resolution struct {
	Output Output
	Source Source
}

// Strategy maps a combo record to an attack.
type Strategy interface {
	Resolve(rec combo.Record) Resolution
}
