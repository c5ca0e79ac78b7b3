package payload

// Config holds delivery and transform timings, all in ticks.
type Config struct {
	GarbageDelay          int
	StrikeDelay           int
	GarbageTransformTicks int
	StrikeTransformTicks  int
	Rotation              []int
	MaxAttempts           int
}

// DefaultConfig returns timings for a 60 Hz tick.
func DefaultConfig() Config {
	return Config{
		GarbageDelay:          60,
		StrikeDelay:           90,
		GarbageTransformTicks: 180,
		StrikeTransformTicks:  240,
		Rotation:              DefaultRotation,
		MaxAttempts:           3,
	}
}

func (c Config) delay(k Kind) int {
	if k == KindStrike {
		return c.StrikeDelay
	}
	return c.GarbageDelay
}

func (c Config) transform(k Kind) int {
	if k == KindStrike {
		return c.StrikeTransformTicks
	}
	return c.GarbageTransformTicks
}
