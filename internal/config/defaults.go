package config

import (
	_ "embed"
)

//go:embed defaults/duel.yaml
var defaultDuelYAML []byte

// DefaultDuelConfig returns the built-in configuration. It matches
// defaults/duel.yaml and is used when even the embedded file fails to parse.
func DefaultDuelConfig() DuelConfig {
	return DuelConfig{
		Grid: GridConfig{
			Width:       6,
			Height:      16,
			SpawnColumn: 3,
		},
		Rules: RulesConfig{
			MinClusterSize: 4,
			BreakerReach:   "adjacent",
			BreakerChance:  0.25,
			Colors:         []string{"red", "green", "blue", "yellow"},
		},
		Timing: TimingConfig{
			FallInterval: 30,
			SettleTicks:  6,
			AutoSpawn:    true,
		},
		Attack: AttackConfig{
			MaxStrikeWidth:  3,
			MaxStrikeHeight: 12,
		},
		Payload: PayloadConfig{
			GarbageDelay:          60,
			StrikeDelay:           90,
			GarbageTransformTicks: 180,
			StrikeTransformTicks:  240,
			ColumnRotation:        []int{0, 5, 1, 4, 2, 3},
			MaxAttempts:           3,
		},
		Match: MatchConfig{
			TickRate: 60,
			MaxTicks: 36000,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 18000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 2.0,
				MinFallInterval: 6,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultDuelYAML
}
