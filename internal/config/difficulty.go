package config

import "math"

// DifficultyManager calculates the fall interval as a match goes on.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) after ticks.
func (d *DifficultyManager) Level(ticks uint64) float64 {
	if !d.IsEnabled() || d.cfg.Progression.Type != "time" {
		return d.initialLevel
	}
	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}
	progress := clampF(float64(ticks)/maxAt, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// FallInterval returns the ticks per row at the current level. Fall speed
// grows from 1x to (1 + speed_multiplier)x, and the interval never drops
// below min_fall_interval.
func (d *DifficultyManager) FallInterval(base int, ticks uint64) int {
	if !d.cfg.Enabled {
		return base
	}
	level := d.Level(ticks)
	interval := int(math.Round(float64(base) / (1.0 + level*d.cfg.Scaling.SpeedMultiplier)))
	floor := max(1, d.cfg.Scaling.MinFallInterval)
	return max(interval, floor)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
