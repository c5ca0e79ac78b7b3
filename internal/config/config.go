// Package config loads the duel rules from YAML. Every tunable number of a
// match lives here; the simulation packages receive plain values built from
// a DuelConfig and never read files themselves.
package config

// DuelConfig holds the complete duel configuration.
type DuelConfig struct {
	Grid       GridConfig       `yaml:"grid"`
	Rules      RulesConfig      `yaml:"rules"`
	Timing     TimingConfig     `yaml:"timing"`
	Attack     AttackConfig     `yaml:"attack"`
	Payload    PayloadConfig    `yaml:"payload"`
	Match      MatchConfig      `yaml:"match"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// GridConfig defines board dimensions. Height includes the hidden spawn row.
type GridConfig struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	SpawnColumn int `yaml:"spawn_column"`
}

// RulesConfig defines matching rules.
type RulesConfig struct {
	MinClusterSize int      `yaml:"min_cluster_size"`
	BreakerReach   string   `yaml:"breaker_reach"`  // "adjacent" or "connected"
	BreakerChance  float64  `yaml:"breaker_chance"` // Probability a piece block is a breaker
	Colors         []string `yaml:"colors"`
}

// TimingConfig defines engine pacing in ticks.
type TimingConfig struct {
	FallInterval int  `yaml:"fall_interval"` // Ticks per row of automatic fall
	SettleTicks  int  `yaml:"settle_ticks"`  // Pause after gravity before the next scan
	AutoSpawn    bool `yaml:"auto_spawn"`
}

// AttackConfig defines attack resolution.
type AttackConfig struct {
	RuleTable       string `yaml:"rule_table"` // Empty for the built-in table, "none" for formula only
	MaxStrikeWidth  int    `yaml:"max_strike_width"`
	MaxStrikeHeight int    `yaml:"max_strike_height"`
}

// PayloadConfig defines delivery timings in ticks.
type PayloadConfig struct {
	GarbageDelay          int   `yaml:"garbage_delay"`
	StrikeDelay           int   `yaml:"strike_delay"`
	GarbageTransformTicks int   `yaml:"garbage_transform_ticks"`
	StrikeTransformTicks  int   `yaml:"strike_transform_ticks"`
	ColumnRotation        []int `yaml:"column_rotation"`
	MaxAttempts           int   `yaml:"max_attempts"`
}

// MatchConfig defines match-level settings.
type MatchConfig struct {
	TickRate int `yaml:"tick_rate"`
	MaxTicks int `yaml:"max_ticks"` // 0 for no limit
}

// DifficultyConfig defines how the fall speed ramps up during a match.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "time" or "none"
	MaxAt int    `yaml:"max_at"` // Ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Fall speed factor added at max difficulty
	MinFallInterval int     `yaml:"min_fall_interval"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *DuelConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}
