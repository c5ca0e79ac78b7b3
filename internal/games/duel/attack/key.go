package attack

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vovakirdan/blockduel/internal/games/duel/combo"
)

// Key is the canonical form of a combo used for rule table lookups.
type Key struct {
	Sizes      []int // ascending
	Individual int
	Breakers   int
	Chain      int
}

// NewKey builds a key, sorting sizes so cluster order never matters.
func NewKey(sizes []int, individual, breakers, chain int) Key {
	s := append([]int(nil), sizes...)
	slices.Sort(s)
	return Key{Sizes: s, Individual: individual, Breakers: breakers, Chain: chain}
}

// KeyOf derives the key for a record.
func KeyOf(rec combo.Record) Key {
	return NewKey(rec.ClusterSizes, rec.IndividualCount, rec.BreakerCount, rec.ChainMultiplier)
}

// String renders "sizes_individual_breakers_chain", e.g. "4,6_2_1_3".
// A combo without clusters uses "0" for the sizes part.
func (k Key) String() string {
	sizes := "0"
	if len(k.Sizes) > 0 {
		parts := make([]string, len(k.Sizes))
		for i, s := range k.Sizes {
			parts[i] = strconv.Itoa(s)
		}
		sizes = strings.Join(parts, ",")
	}
	return fmt.Sprintf("%s_%d_%d_%d", sizes, k.Individual, k.Breakers, k.Chain)
}

// ParseKey is the inverse of Key.String. Sizes are re-sorted.
func ParseKey(s string) (Key, error) {
	fields := strings.Split(s, "_")
	if len(fields) != 4 {
		return Key{}, fmt.Errorf("attack: key %q: expected 4 fields, got %d", s, len(fields))
	}
	var sizes []int
	if fields[0] != "0" {
		for _, f := range strings.Split(fields[0], ",") {
			n, err := strconv.Atoi(f)
			if err != nil || n <= 0 {
				return Key{}, fmt.Errorf("attack: key %q: bad cluster size %q", s, f)
			}
			sizes = append(sizes, n)
		}
	}
	nums := make([]int, 3)
	for i, f := range fields[1:] {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return Key{}, fmt.Errorf("attack: key %q: bad count %q", s, f)
		}
		nums[i] = n
	}
	if nums[2] < 1 {
		return Key{}, fmt.Errorf("attack: key %q: chain must be at least 1", s)
	}
	return NewKey(sizes, nums[0], nums[1], nums[2]), nil
}
