package core

// RNG is a small xorshift64 generator. Every random draw in a match goes
// through one, so a seed fully determines the piece sequence.
type RNG struct {
	state uint64
}

// NewRNG creates a generator. A zero seed is replaced with a fixed constant
// because xorshift never leaves the all-zero state.
func NewRNG(seed int64) *RNG {
	s := uint64(seed) //#nosec G115 -- intentional conversion for RNG seeding
	if s == 0 {
		s = 88172645463325252
	}
	return &RNG{state: s}
}

// Next returns the next random uint64.
func (r *RNG) Next() uint64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

// Intn returns a random int in [0, n).
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n)) //#nosec G115 -- n is always positive
}

// Float64 returns a random float64 in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Next()>>11) / float64(1<<53)
}

// State exposes the internal state for snapshots.
func (r *RNG) State() uint64 {
	return r.state
}
