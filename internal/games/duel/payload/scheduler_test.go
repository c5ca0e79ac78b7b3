package payload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
	"github.com/vovakirdan/blockduel/internal/games/duel/event"
	"github.com/vovakirdan/blockduel/internal/games/duel/payload"
)

// gridReceiver is a bare board that accepts payloads without an engine.
type gridReceiver struct {
	grid      *board.Grid
	accepting bool
	stages    map[board.UnitID]int
}

func newReceiver(w, h int) *gridReceiver {
	return &gridReceiver{grid: board.NewGrid(w, h), accepting: true, stages: map[board.UnitID]int{}}
}

func (r *gridReceiver) Accepting() bool { return r.accepting }

func (r *gridReceiver) ColumnRoom(col int) int {
	return r.grid.LandingRow(col) + 1
}

func (r *gridReceiver) PlaceUnit(col int, blocks []board.Block) int {
	y := r.grid.LandingRow(col)
	n := 0
	for _, b := range blocks {
		if y-n < 0 {
			break
		}
		r.grid.Set(core.C(col, y-n), b)
		n++
	}
	return n
}

func (r *gridReceiver) SetTransformStage(id board.UnitID, remaining int) {
	r.stages[id] = remaining
}

func (r *gridReceiver) ConvertUnit(id board.UnitID) int {
	n := 0
	for i := range r.grid.Cells {
		c := &r.grid.Cells[i]
		if c.Filled && c.Block.UnitID == id && c.Block.Interference() {
			c.Block = board.NewNormal(c.Block.SourceColor, 0)
			n++
		}
	}
	return n
}

func fillColumn(g *board.Grid, col int) {
	for y := 0; y < g.H; y++ {
		g.Set(core.C(col, y), board.NewNormal(core.ColorYellow, 0))
	}
}

func newScheduler(cfg payload.Config, rec *event.Recorder) (*payload.Scheduler, *gridReceiver) {
	s := payload.New(cfg, payload.WithSink(rec))
	r := newReceiver(6, 16)
	s.Attach(core.SideB, r)
	return s, r
}

func TestRotatorOrder(t *testing.T) {
	rot := payload.NewRotator(nil)
	assert.Equal(t, 6, rot.Period())
	open := func(int) int { return 10 }

	var cols []int
	for i := 0; i < 7; i++ {
		c, ok := rot.Pick(open)
		require.True(t, ok)
		cols = append(cols, c)
	}
	assert.Equal(t, []int{0, 5, 1, 4, 2, 3, 0}, cols)
}

func TestRotatorSkipsFullColumns(t *testing.T) {
	rot := payload.NewRotator([]int{0, 5, 1, 4, 2, 3})
	full := map[int]bool{5: true, 1: true}
	room := func(c int) int {
		if full[c] {
			return 0
		}
		return 3
	}

	var cols []int
	for i := 0; i < 4; i++ {
		c, ok := rot.Pick(room)
		require.True(t, ok)
		cols = append(cols, c)
	}
	assert.Equal(t, []int{0, 4, 2, 3}, cols)

	rot.Reset()
	_, ok := rot.Pick(func(int) int { return 0 })
	assert.False(t, ok)
	assert.Equal(t, 0, rot.Peek(), "a failed pick must not advance the rotation")
}

func TestRotatorNoRepeatWhileOthersHaveRoom(t *testing.T) {
	rot := payload.NewRotator(nil)
	rng := core.NewRNG(99)
	prev := -1
	for i := 0; i < 500; i++ {
		rooms := make([]int, 6)
		others := false
		for c := range rooms {
			rooms[c] = rng.Intn(2)
			if c != prev && rooms[c] > 0 {
				others = true
			}
		}
		c, ok := rot.Pick(func(col int) int { return rooms[col] })
		if !ok {
			continue
		}
		if others {
			require.NotEqual(t, prev, c, "draw %d repeated column %d while others had room", i, c)
		}
		prev = c
	}
}

func TestGarbageFollowsRotation(t *testing.T) {
	rec := &event.Recorder{}
	s, r := newScheduler(payload.DefaultConfig(), rec)

	p := payload.Garbage(5, core.ColorBlue)
	p.Target = core.SideB
	queued, ok := s.Enqueue(p, 100)
	require.True(t, ok)
	assert.Equal(t, uint64(160), queued.DeliverAtTick)

	s.Tick(159)
	assert.Equal(t, 0, r.grid.FilledCount(), "payload must wait for its delivery tick")
	assert.Len(t, s.Pending(core.SideB), 1)

	s.Tick(160)
	landed := event.Filter[event.PayloadLanded](rec.Events)
	require.Len(t, landed, 1)
	assert.Equal(t, []int{0, 5, 1, 4, 2}, landed[0].Columns)
	assert.Equal(t, 5, landed[0].Cells)
	assert.Equal(t, 5, r.grid.CountKind(board.KindGarbage))
	assert.Empty(t, s.Pending(core.SideB))
}

func TestDeliveryWaitsForReceiver(t *testing.T) {
	rec := &event.Recorder{}
	cfg := payload.DefaultConfig()
	cfg.GarbageDelay = 0
	s, r := newScheduler(cfg, rec)
	r.accepting = false

	p := payload.Garbage(1, core.ColorRed)
	p.Target = core.SideB
	s.Enqueue(p, 1)
	s.Tick(1)
	s.Tick(2)
	assert.Equal(t, 0, r.grid.FilledCount())

	r.accepting = true
	s.Tick(3)
	assert.Equal(t, 1, r.grid.FilledCount())
}

func TestFIFOOrder(t *testing.T) {
	rec := &event.Recorder{}
	cfg := payload.DefaultConfig()
	cfg.GarbageDelay = 10
	cfg.StrikeDelay = 0
	s, _ := newScheduler(cfg, rec)

	g := payload.Garbage(1, core.ColorRed)
	g.Target = core.SideB
	first, _ := s.Enqueue(g, 0)
	st := payload.Strike(1, 2, core.ColorGreen)
	st.Target = core.SideB
	second, _ := s.Enqueue(st, 10)

	// Both are due on tick 10 and land in queue order.
	s.Tick(9)
	assert.Empty(t, event.Filter[event.PayloadLanded](rec.Events))

	s.Tick(10)
	landed := event.Filter[event.PayloadLanded](rec.Events)
	require.Len(t, landed, 2)
	assert.Equal(t, first.ID, landed[0].PayloadID)
	assert.Equal(t, second.ID, landed[1].PayloadID)
}

func TestDuePayloadPassesWaitingOne(t *testing.T) {
	rec := &event.Recorder{}
	s, r := newScheduler(payload.DefaultConfig(), rec)

	st := payload.Strike(1, 4, core.ColorGreen)
	st.Target = core.SideB
	strike, _ := s.Enqueue(st, 0) // due at 90
	g := payload.Garbage(2, core.ColorRed)
	g.Target = core.SideB
	garbage, _ := s.Enqueue(g, 10) // due at 70

	for tick := uint64(0); tick <= 70; tick++ {
		s.Tick(tick)
	}
	landed := event.Filter[event.PayloadLanded](rec.Events)
	require.Len(t, landed, 1, "garbage due at 70 lands without waiting for the strike")
	assert.Equal(t, garbage.ID, landed[0].PayloadID)
	assert.Equal(t, uint64(70), landed[0].Tick)
	assert.Equal(t, 2, r.grid.CountKind(board.KindGarbage))

	pending := s.Pending(core.SideB)
	require.Len(t, pending, 1)
	assert.Equal(t, strike.ID, pending[0].ID)

	for tick := uint64(71); tick <= 90; tick++ {
		s.Tick(tick)
	}
	landed = event.Filter[event.PayloadLanded](rec.Events)
	require.Len(t, landed, 2)
	assert.Equal(t, strike.ID, landed[1].PayloadID)
	assert.Equal(t, uint64(90), landed[1].Tick)
	assert.Empty(t, s.Pending(core.SideB))
}

func TestUnitLifecycle(t *testing.T) {
	rec := &event.Recorder{}
	cfg := payload.DefaultConfig()
	cfg.GarbageDelay = 0
	cfg.StrikeDelay = 0
	cfg.GarbageTransformTicks = 3
	cfg.StrikeTransformTicks = 5
	s, r := newScheduler(cfg, rec)

	g := payload.Garbage(1, core.ColorRed)
	g.Target = core.SideB
	s.Enqueue(g, 10)
	st := payload.Strike(1, 2, core.ColorGreen)
	st.Target = core.SideB
	s.Enqueue(st, 10)

	s.Tick(10)
	units := s.Units(core.SideB)
	require.Len(t, units, 2)
	for _, u := range units {
		assert.Equal(t, payload.UnitLanded, u.State)
	}

	s.Tick(11)
	for _, u := range s.Units(core.SideB) {
		assert.Equal(t, payload.UnitTransforming, u.State)
	}
	assert.Equal(t, 2, r.stages[units[0].ID])

	s.Tick(12)
	assert.Empty(t, event.Filter[event.PayloadConverted](rec.Events))

	s.Tick(13)
	converted := event.Filter[event.PayloadConverted](rec.Events)
	require.Len(t, converted, 1)
	assert.Equal(t, units[0].ID, converted[0].UnitID)
	assert.Equal(t, core.ColorRed, converted[0].Color)
	assert.Equal(t, 1, r.grid.CountKind(board.KindNormal))

	s.Tick(14)
	s.Tick(15)
	converted = event.Filter[event.PayloadConverted](rec.Events)
	require.Len(t, converted, 2)
	assert.Equal(t, 2, converted[1].Cells)
	assert.Equal(t, 3, r.grid.CountKind(board.KindNormal))
	assert.Empty(t, s.Units(core.SideB))

	// Converted cells take their source color.
	assert.Equal(t, core.ColorRed, r.grid.Get(core.C(0, 15)).Block.Color)
	assert.Equal(t, core.ColorGreen, r.grid.Get(core.C(5, 14)).Block.Color)
}

func TestStrikeClipsToColumnRoom(t *testing.T) {
	rec := &event.Recorder{}
	cfg := payload.DefaultConfig()
	cfg.StrikeDelay = 0
	s, r := newScheduler(cfg, rec)
	for y := 3; y < 16; y++ {
		r.grid.Set(core.C(0, y), board.NewNormal(core.ColorYellow, 0))
	}

	p := payload.Strike(1, 5, core.ColorBlue)
	p.Target = core.SideB
	s.Enqueue(p, 0)
	s.Tick(0)

	landed := event.Filter[event.PayloadLanded](rec.Events)
	require.Len(t, landed, 1)
	assert.Equal(t, 3, landed[0].Cells)
	assert.Equal(t, 2, landed[0].Clipped)
}

func TestOverflowRetriesThenDrops(t *testing.T) {
	rec := &event.Recorder{}
	cfg := payload.DefaultConfig()
	cfg.GarbageDelay = 0
	cfg.MaxAttempts = 3
	s, r := newScheduler(cfg, rec)
	for c := 1; c < 6; c++ {
		fillColumn(r.grid, c)
	}
	// Column 0 has two free cells.
	for y := 2; y < 16; y++ {
		r.grid.Set(core.C(0, y), board.NewNormal(core.ColorYellow, 0))
	}

	p := payload.Garbage(4, core.ColorRed)
	p.Target = core.SideB
	s.Enqueue(p, 0)

	s.Tick(0)
	overflow := event.Filter[event.PlacementOverflow](rec.Events)
	require.Len(t, overflow, 1)
	assert.Equal(t, 4, overflow[0].Requested)
	assert.Equal(t, 2, overflow[0].Placed)

	pending := s.Pending(core.SideB)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Units, "the remainder stays queued")

	s.Tick(1)
	s.Tick(2)
	assert.Len(t, event.Filter[event.PlacementOverflow](rec.Events), 3)
	dropped := event.Filter[event.PayloadDropped](rec.Events)
	require.Len(t, dropped, 1)
	assert.Equal(t, 2, dropped[0].Units)
	assert.Empty(t, s.Pending(core.SideB))

	// The two units that fit were reported as landed before they convert.
	landed := event.Filter[event.PayloadLanded](rec.Events)
	require.Len(t, landed, 1)
	assert.Equal(t, []int{0, 0}, landed[0].Columns)
	assert.Equal(t, 2, landed[0].Cells)
	assert.Equal(t, 2, landed[0].Remaining)

	for tick := uint64(3); tick < 3+uint64(cfg.GarbageTransformTicks); tick++ {
		s.Tick(tick)
	}
	assert.Len(t, event.Filter[event.PayloadConverted](rec.Events), 2)
}

func TestEnqueueRejectsEmptyPayload(t *testing.T) {
	s, _ := newScheduler(payload.DefaultConfig(), &event.Recorder{})
	_, ok := s.Enqueue(payload.Garbage(0, core.ColorRed), 0)
	assert.False(t, ok)

	p := payload.Garbage(2, core.ColorRed)
	p.Target = core.SideB
	s.Enqueue(p, 0)
	s.Clear()
	assert.Empty(t, s.Pending(core.SideB))
}
