package combo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
	"github.com/vovakirdan/blockduel/internal/games/duel/combo"
)

func TestTrackerEmptyPass(t *testing.T) {
	tr := combo.NewTracker(core.SideA)
	tr.Begin(10, 1)
	_, ok := tr.Finish()
	assert.False(t, ok)
}

func TestTrackerExclusiveRoles(t *testing.T) {
	tr := combo.NewTracker(core.SideB)
	tr.Begin(42, 2)

	cluster := board.Cluster{
		Color: core.ColorRed,
		Cells: []core.Coord{core.C(0, 4), core.C(1, 4), core.C(0, 5), core.C(1, 5)},
	}
	tr.AddCluster(cluster)
	tr.AddBreaker(core.C(2, 5), core.ColorRed)
	// (1,5) is already a cluster member; it must not be counted twice.
	tr.AddIndividual(core.C(1, 5), board.NewNormal(core.ColorRed, 0))
	tr.AddIndividual(core.C(3, 5), board.NewNormal(core.ColorRed, 0))
	// A breaker cleared by another breaker counts as a breaker.
	tr.AddIndividual(core.C(2, 4), board.NewBreaker(core.ColorRed, 0))

	rec, ok := tr.Finish()
	require.True(t, ok)
	assert.Equal(t, core.SideB, rec.Side)
	assert.Equal(t, uint64(42), rec.Tick)
	assert.Equal(t, 2, rec.ChainMultiplier)
	assert.Equal(t, []int{4}, rec.ClusterSizes)
	assert.Equal(t, []core.Color{core.ColorRed}, rec.ClusterColors)
	assert.Equal(t, 1, rec.IndividualCount)
	assert.Equal(t, 2, rec.BreakerCount)
	assert.Len(t, rec.Broken, 7)
	assert.Equal(t, 4, rec.ClusterCells())

	for i := 1; i < len(rec.Broken); i++ {
		assert.True(t, rec.Broken[i-1].Pos.Less(rec.Broken[i].Pos), "broken cells must be row-major")
	}

	tr.Begin(43, 1)
	_, ok = tr.Finish()
	assert.False(t, ok, "Begin must reset the previous pass")
}

func TestDominantIndividualColor(t *testing.T) {
	tests := []struct {
		name     string
		colors   []core.Color
		expected core.Color
	}{
		{"none", nil, core.ColorNone},
		{"majority", []core.Color{core.ColorBlue, core.ColorYellow, core.ColorBlue}, core.ColorBlue},
		{"tie goes low", []core.Color{core.ColorYellow, core.ColorGreen}, core.ColorGreen},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var rec combo.Record
			for i, c := range tc.colors {
				rec.Broken = append(rec.Broken, combo.BrokenCell{Pos: core.C(i, 0), Color: c, Role: combo.RoleIndividual})
			}
			rec.Broken = append(rec.Broken, combo.BrokenCell{Pos: core.C(0, 1), Color: core.ColorRed, Role: combo.RoleCluster})
			assert.Equal(t, tc.expected, rec.DominantIndividualColor())
		})
	}
}
