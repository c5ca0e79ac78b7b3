package match_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockduel/internal/config"
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/attack"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
	"github.com/vovakirdan/blockduel/internal/games/duel/engine"
	"github.com/vovakirdan/blockduel/internal/games/duel/event"
	"github.com/vovakirdan/blockduel/internal/games/duel/match"
	"github.com/vovakirdan/blockduel/internal/games/duel/payload"
)

func testConfig() match.Config {
	cfg := match.DefaultConfig()
	cfg.Difficulty.Enabled = false
	return cfg
}

func formula() *attack.Calculator {
	return attack.New(nil, attack.DefaultFallback())
}

// wiggle is a deterministic controller that exercises every command.
func wiggle() match.Controller {
	n := 0
	script := []core.Command{
		core.CmdMoveLeft, core.CmdRotateCW, core.CmdNone, core.CmdMoveRight,
		core.CmdMoveRight, core.CmdRotateCCW, core.CmdSoftDrop, core.CmdSoftDrop,
	}
	return match.ControllerFunc(func(engine.Snapshot) core.InputFrame {
		c := script[n%len(script)]
		n++
		return core.Frame(c)
	})
}

func emptyRows(n, w int) []string {
	rows := make([]string, n)
	for i := range rows {
		b := make([]byte, w)
		for j := range b {
			b[j] = '.'
		}
		rows[i] = string(b)
	}
	return rows
}

func TestFromDuel(t *testing.T) {
	cfg, err := match.FromDuel(config.DefaultDuelConfig())
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Engine.Width)
	assert.Equal(t, core.PlayableColors, cfg.Engine.Colors)
	assert.Equal(t, board.ReachAdjacent, cfg.Engine.BreakerReach)
	assert.Equal(t, []int{0, 5, 1, 4, 2, 3}, cfg.Payload.Rotation)
	assert.Equal(t, uint64(36000), cfg.MaxTicks)

	bad := config.DefaultDuelConfig()
	bad.Rules.Colors = []string{"red", "mauve"}
	_, err = match.FromDuel(bad)
	assert.Error(t, err)

	bad = config.DefaultDuelConfig()
	bad.Rules.BreakerReach = "everywhere"
	_, err = match.FromDuel(bad)
	assert.Error(t, err)
}

func TestSameSeedSameMatch(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTicks = 2000

	a := match.New(cfg, 1234, formula())
	b := match.New(cfg, 1234, formula())
	ca, cb := wiggle(), wiggle()
	ca2, cb2 := wiggle(), wiggle()

	for i := 0; i < 2000 && !a.Done(); i++ {
		a.Step(ca.Commands(a.SideView(core.SideA)), cb.Commands(a.SideView(core.SideB)))
		b.Step(ca2.Commands(b.SideView(core.SideA)), cb2.Commands(b.SideView(core.SideB)))
		require.Equal(t, a.Snapshot().Hash(), b.Snapshot().Hash(), "diverged at tick %d", i)
	}

	other := match.New(cfg, 4321, formula())
	assert.NotEqual(t, match.New(cfg, 1234, formula()).Snapshot().Hash(), other.Snapshot().Hash())
}

func TestReplayReproducesMatch(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTicks = 3000

	m := match.New(cfg, 77, formula())
	_, err := match.Run(context.Background(), m, wiggle(), wiggle())
	require.NoError(t, err)
	require.True(t, m.Done())

	log := m.Replay()
	data, err := log.Marshal()
	require.NoError(t, err)
	decoded, err := match.UnmarshalReplay(data)
	require.NoError(t, err)
	assert.Equal(t, log.Hash, decoded.Hash)

	replayed, err := match.Replay(cfg, formula(), decoded)
	require.NoError(t, err)
	assert.Equal(t, m.Snapshot().Hash(), replayed.Snapshot().Hash())

	want, _ := m.Result()
	got, ok := replayed.Result()
	require.True(t, ok)
	assert.Equal(t, want, got)

	decoded.Hash = "0000000000000000"
	_, err = match.Replay(cfg, formula(), decoded)
	assert.ErrorIs(t, err, match.ErrReplayDiverged)
}

func TestComboRoutesStrikeToOpponent(t *testing.T) {
	cfg := testConfig()
	rows := emptyRows(cfg.Engine.Height, cfg.Engine.Width)
	rows[len(rows)-1] = "RR...."
	redPairs := func() board.Piece {
		return board.Piece{Primary: board.NewNormal(core.ColorRed, 0), Attached: board.NewNormal(core.ColorRed, 0)}
	}

	rec := &event.Recorder{}
	m := match.New(cfg, 5, formula(),
		match.WithSink(rec),
		match.WithEngineOptions(core.SideA,
			engine.WithGrid(board.MustParseGrid(rows...)),
			engine.WithPieceSource(redPairs),
		),
	)

	// Tick 0 lines the piece up over the two reds; ticks 1-14 drop it.
	step := 0
	player := match.ControllerFunc(func(engine.Snapshot) core.InputFrame {
		defer func() { step++ }()
		switch {
		case step == 0:
			return core.Frame(core.CmdMoveLeft, core.CmdMoveLeft, core.CmdMoveLeft, core.CmdRotateCW)
		case step <= 14:
			return core.Frame(core.CmdSoftDrop)
		}
		return core.InputFrame{}
	})

	var sentAt uint64
	for i := 0; i < 60; i++ {
		res := m.Step(player.Commands(m.SideView(core.SideA)), core.InputFrame{})
		if len(res.Records[core.SideA]) > 0 {
			sentAt = res.Tick
		}
	}
	require.NotZero(t, sentAt, "side A never broke its cluster")

	sent := event.Filter[event.AttackSent](rec.Events)
	require.Len(t, sent, 1)
	assert.Equal(t, core.SideA, sent[0].From)
	assert.Equal(t, core.SideB, sent[0].To)
	assert.Equal(t, 0, sent[0].Garbage)
	assert.Equal(t, 1, sent[0].Strikes)

	pending := m.Snapshot().Pending[core.SideB]
	require.Len(t, pending, 1)
	assert.Equal(t, payload.KindStrike, pending[0].Kind)
	assert.Equal(t, 1, pending[0].Units)
	assert.Equal(t, 4, pending[0].Height)
	assert.Equal(t, core.ColorRed, pending[0].Color)
	assert.Equal(t, sentAt+uint64(cfg.Payload.StrikeDelay), pending[0].DeliverAtTick)
	assert.Empty(t, m.Snapshot().Pending[core.SideA])

	for m.Tick() <= pending[0].DeliverAtTick {
		m.Step(player.Commands(m.SideView(core.SideA)), core.InputFrame{})
	}

	landed := event.Filter[event.PayloadLanded](rec.Events)
	require.Len(t, landed, 1)
	assert.Equal(t, core.SideB, landed[0].Side)
	assert.Equal(t, []int{0}, landed[0].Columns)
	assert.Equal(t, 4, landed[0].Cells)

	g := m.SideView(core.SideB).Grid
	assert.Equal(t, 4, g.CountKind(board.KindStrike))
	for y := 12; y < 16; y++ {
		b := g.Get(core.C(0, y)).Block
		assert.Equal(t, board.KindStrike, b.Kind)
		assert.Equal(t, core.ColorRed, b.SourceColor)
	}
}

func TestTopOutEndsMatch(t *testing.T) {
	cfg := testConfig()
	rows := emptyRows(cfg.Engine.Height, cfg.Engine.Width)
	rows[1] = "...G.."

	m := match.New(cfg, 9, formula(),
		match.WithEngineOptions(core.SideB, engine.WithGrid(board.MustParseGrid(rows...))),
	)
	require.True(t, m.Done())
	r, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, core.SideA, r.Winner)
	assert.False(t, r.Draw)
	assert.Equal(t, match.ReasonTopOut, r.Reason)
	assert.Equal(t, "A", r.WinnerName())

	before := m.Snapshot().Hash()
	res := m.Step(core.Frame(core.CmdSoftDrop), core.Frame(core.CmdSoftDrop))
	assert.True(t, res.Done)
	assert.Equal(t, before, m.Snapshot().Hash(), "a finished match must not change")
}

func TestTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTicks = 10

	m := match.New(cfg, 3, formula())
	r, err := match.Run(context.Background(), m, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, match.ReasonTimeout, r.Reason)
	assert.True(t, r.Draw)
	assert.Equal(t, uint64(10), r.Ticks)
}

func TestRunHonoursContext(t *testing.T) {
	cfg := testConfig()
	cfg.MaxTicks = 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := match.Run(ctx, match.New(cfg, 1, formula()), nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
