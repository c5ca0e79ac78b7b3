package engine

import (
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
)

// Config holds the per-engine rules. It is built from the duel config by the
// match package.
type Config struct {
	Width          int
	Height         int // includes the hidden spawn row
	SpawnColumn    int
	MinClusterSize int
	BreakerReach   board.Reach
	BreakerChance  float64
	Colors         []core.Color
	FallInterval   int // ticks between gravity steps of the falling piece
	SettleTicks    int // ticks spent in WaitSettle after gravity
	AutoSpawn      bool
}

// DefaultConfig returns the standard 6x16 board rules.
func DefaultConfig() Config {
	return Config{
		Width:          6,
		Height:         16,
		SpawnColumn:    3,
		MinClusterSize: 4,
		BreakerReach:   board.ReachAdjacent,
		BreakerChance:  0.25,
		Colors:         core.PlayableColors,
		FallInterval:   30,
		SettleTicks:    6,
		AutoSpawn:      true,
	}
}
