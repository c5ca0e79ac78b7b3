package attack

import (
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/combo"
)

// FormulaFallback prices any combo from the record alone.
//
// Garbage is one unit per individual cell minus one per breaker. Each
// cluster of size s sends max(1, s/4 * chain) strikes whose footprint comes
// from the cluster's shape, grown by the chain and capped.
type FormulaFallback struct {
	MaxStrikeWidth  int
	MaxStrikeHeight int
}

// DefaultFallback returns the standard caps.
func DefaultFallback() FormulaFallback {
	return FormulaFallback{MaxStrikeWidth: 3, MaxStrikeHeight: 12}
}

// Resolve implements Strategy.
func (f FormulaFallback) Resolve(rec combo.Record) Resolution {
	return Resolution{Output: f.Compute(rec), Source: SourceFormula}
}

// Compute returns the formula output for rec.
func (f FormulaFallback) Compute(rec combo.Record) Output {
	out := Output{GarbageUnits: max(0, rec.IndividualCount-rec.BreakerCount)}
	chain := max(1, rec.ChainMultiplier)
	for i, s := range rec.ClusterSizes {
		color := core.ColorNone
		if i < len(rec.ClusterColors) {
			color = rec.ClusterColors[i]
		}
		w, h := f.Footprint(s, chain)
		count := max(1, s/4*chain)
		for j := 0; j < count; j++ {
			out.Strikes = append(out.Strikes, StrikeSpec{Width: w, Height: h, Color: color})
		}
	}
	return out
}

// Footprint returns the strike size for one cluster of size s at the given
// chain multiplier.
func (f FormulaFallback) Footprint(s, chain int) (w, h int) {
	w, h = strikeShape(clusterShape(s))
	if chain >= 2 {
		h += 2 * (chain - 1)
	}
	if chain >= 3 {
		w++
	}
	return core.Clamp(w, 1, max(1, f.MaxStrikeWidth)), core.Clamp(h, 1, max(1, f.MaxStrikeHeight))
}

// clusterShape guesses the bounding box of a cluster from its size.
func clusterShape(s int) (w, h int) {
	switch s {
	case 4:
		return 2, 2
	case 6:
		return 3, 2
	case 8:
		return 4, 2
	case 9:
		return 3, 3
	case 12:
		return 4, 3
	case 16:
		return 4, 4
	}
	for w := 2; w <= 6; w++ {
		for h := 2; h <= 6; h++ {
			if w*h == s {
				return w, h
			}
		}
	}
	return 2, max(1, s/2)
}

// strikeShape maps a cluster bounding box to its base strike.
func strikeShape(w, h int) (int, int) {
	switch {
	case w == 2 && h == 2:
		return 1, 4
	case w == 4 && h == 2:
		return 2, 4
	case w == 4 && h == 3:
		return 3, 4
	case w >= 5:
		return 3, h
	}
	return w, h
}
