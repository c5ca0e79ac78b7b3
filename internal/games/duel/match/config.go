package match

import (
	"fmt"

	"github.com/vovakirdan/blockduel/internal/config"
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/attack"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
	"github.com/vovakirdan/blockduel/internal/games/duel/engine"
	"github.com/vovakirdan/blockduel/internal/games/duel/payload"
)

// Config is everything a match needs, already converted from YAML names to
// simulation values.
type Config struct {
	Engine     engine.Config
	Payload    payload.Config
	Fallback   attack.FormulaFallback
	RuleTable  string
	TickRate   int
	MaxTicks   uint64 // 0 for no limit
	Difficulty config.DifficultyConfig
}

// DefaultConfig converts config.DefaultDuelConfig.
func DefaultConfig() Config {
	cfg, err := FromDuel(config.DefaultDuelConfig())
	if err != nil {
		panic(fmt.Sprintf("match: default config: %v", err))
	}
	return cfg
}

// FromDuel converts a loaded DuelConfig.
func FromDuel(dc config.DuelConfig) (Config, error) {
	reach, err := board.ParseReach(dc.Rules.BreakerReach)
	if err != nil {
		return Config{}, err
	}
	colors := make([]core.Color, 0, len(dc.Rules.Colors))
	for _, name := range dc.Rules.Colors {
		c, err := core.ParseColor(name)
		if err != nil {
			return Config{}, err
		}
		if !c.Valid() {
			return Config{}, fmt.Errorf("color %q is not playable", name)
		}
		colors = append(colors, c)
	}
	if len(colors) == 0 {
		return Config{}, fmt.Errorf("no piece colors configured")
	}

	return Config{
		Engine: engine.Config{
			Width:          dc.Grid.Width,
			Height:         dc.Grid.Height,
			SpawnColumn:    dc.Grid.SpawnColumn,
			MinClusterSize: dc.Rules.MinClusterSize,
			BreakerReach:   reach,
			BreakerChance:  dc.Rules.BreakerChance,
			Colors:         colors,
			FallInterval:   dc.Timing.FallInterval,
			SettleTicks:    dc.Timing.SettleTicks,
			AutoSpawn:      dc.Timing.AutoSpawn,
		},
		Payload: payload.Config{
			GarbageDelay:          dc.Payload.GarbageDelay,
			StrikeDelay:           dc.Payload.StrikeDelay,
			GarbageTransformTicks: dc.Payload.GarbageTransformTicks,
			StrikeTransformTicks:  dc.Payload.StrikeTransformTicks,
			Rotation:              dc.Payload.ColumnRotation,
			MaxAttempts:           dc.Payload.MaxAttempts,
		},
		Fallback: attack.FormulaFallback{
			MaxStrikeWidth:  dc.Attack.MaxStrikeWidth,
			MaxStrikeHeight: dc.Attack.MaxStrikeHeight,
		},
		RuleTable:  dc.Attack.RuleTable,
		TickRate:   dc.Match.TickRate,
		MaxTicks:   uint64(max(0, dc.Match.MaxTicks)), //#nosec G115 -- clamped to non-negative
		Difficulty: dc.Difficulty,
	}, nil
}
