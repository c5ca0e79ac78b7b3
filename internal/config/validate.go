package config

import (
	"errors"
	"fmt"
)

var validColors = map[string]bool{"red": true, "green": true, "blue": true, "yellow": true}

// Validate checks that the configuration describes a playable duel.
// All problems are reported together.
func (c DuelConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Grid.Width >= 2, "grid.width must be at least 2, got %d", c.Grid.Width)
	check(c.Grid.Height >= 3, "grid.height must be at least 3, got %d", c.Grid.Height)
	check(c.Grid.SpawnColumn >= 0 && c.Grid.SpawnColumn < c.Grid.Width,
		"grid.spawn_column %d outside grid width %d", c.Grid.SpawnColumn, c.Grid.Width)

	check(c.Rules.MinClusterSize >= 2, "rules.min_cluster_size must be at least 2, got %d", c.Rules.MinClusterSize)
	check(c.Rules.BreakerReach == "adjacent" || c.Rules.BreakerReach == "connected",
		"rules.breaker_reach must be adjacent or connected, got %q", c.Rules.BreakerReach)
	check(c.Rules.BreakerChance >= 0 && c.Rules.BreakerChance <= 1,
		"rules.breaker_chance must be within [0, 1], got %v", c.Rules.BreakerChance)
	check(len(c.Rules.Colors) >= 2, "rules.colors needs at least 2 colors, got %d", len(c.Rules.Colors))
	for _, name := range c.Rules.Colors {
		check(validColors[name], "rules.colors: unknown color %q", name)
	}

	check(c.Timing.FallInterval >= 1, "timing.fall_interval must be at least 1, got %d", c.Timing.FallInterval)
	check(c.Timing.SettleTicks >= 0, "timing.settle_ticks must not be negative, got %d", c.Timing.SettleTicks)

	check(c.Attack.MaxStrikeWidth >= 1 && c.Attack.MaxStrikeWidth <= c.Grid.Width,
		"attack.max_strike_width must be within [1, %d], got %d", c.Grid.Width, c.Attack.MaxStrikeWidth)
	check(c.Attack.MaxStrikeHeight >= 1, "attack.max_strike_height must be at least 1, got %d", c.Attack.MaxStrikeHeight)

	check(c.Payload.GarbageDelay >= 0 && c.Payload.StrikeDelay >= 0, "payload delays must not be negative")
	check(c.Payload.GarbageTransformTicks >= 1,
		"payload.garbage_transform_ticks must be at least 1, got %d", c.Payload.GarbageTransformTicks)
	check(c.Payload.StrikeTransformTicks > c.Payload.GarbageTransformTicks,
		"payload.strike_transform_ticks (%d) must exceed garbage_transform_ticks (%d)",
		c.Payload.StrikeTransformTicks, c.Payload.GarbageTransformTicks)
	check(len(c.Payload.ColumnRotation) > 0, "payload.column_rotation must not be empty")
	for _, col := range c.Payload.ColumnRotation {
		check(col >= 0 && col < c.Grid.Width, "payload.column_rotation: column %d outside grid width %d", col, c.Grid.Width)
	}
	check(c.Payload.MaxAttempts >= 1, "payload.max_attempts must be at least 1, got %d", c.Payload.MaxAttempts)

	check(c.Match.TickRate >= 1, "match.tick_rate must be at least 1, got %d", c.Match.TickRate)
	check(c.Match.MaxTicks >= 0, "match.max_ticks must not be negative, got %d", c.Match.MaxTicks)

	check(c.Difficulty.InitialLevel >= 0 && c.Difficulty.InitialLevel <= 1,
		"difficulty.initial_level must be within [0, 1], got %v", c.Difficulty.InitialLevel)

	return errors.Join(errs...)
}
