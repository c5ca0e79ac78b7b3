package engine_test

import (
	"errors"
	"testing"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
	"github.com/vovakirdan/blockduel/internal/games/duel/engine"
	"github.com/vovakirdan/blockduel/internal/games/duel/event"
)

func pieces(colors ...core.Color) func() board.Piece {
	i := 0
	return func() board.Piece {
		a := colors[i%len(colors)]
		b := colors[(i+1)%len(colors)]
		i += 2
		return board.Piece{Primary: board.NewNormal(a, 0), Attached: board.NewNormal(b, 0)}
	}
}

func newEngine(t *testing.T, grid *board.Grid, src func() board.Piece, sink event.Sink) *engine.Engine {
	t.Helper()
	cfg := engine.DefaultConfig()
	if grid != nil {
		cfg.Width, cfg.Height = grid.W, grid.H
	}
	return engine.New(core.SideA, cfg, core.NewRNG(1),
		engine.WithGrid(grid),
		engine.WithPieceSource(src),
		engine.WithSink(sink),
	)
}

// emptyRows returns n rows of the given width filled with '.'.
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

// run steps the engine with the same input until done returns true or max
// ticks pass, and returns every record produced.
func run(e *engine.Engine, tick *uint64, in core.InputFrame, max int, done func(engine.StepResult) bool) []engine.StepResult {
	var out []engine.StepResult
	for i := 0; i < max; i++ {
		*tick++
		res := e.Step(*tick, in)
		out = append(out, res)
		if done(res) {
			break
		}
	}
	return out
}

func TestNewSpawnsFirstPiece(t *testing.T) {
	e := newEngine(t, nil, pieces(core.ColorRed), nil)
	if e.State() != engine.PieceFalling {
		t.Fatalf("State() = %v, expected PieceFalling", e.State())
	}
	p, ok := e.Piece()
	if !ok {
		t.Fatal("no falling piece after construction")
	}
	if p.Pos != core.C(3, 1) || p.AttachedPos() != core.C(3, 0) {
		t.Errorf("piece at %v/%v, expected (3,1)/(3,0)", p.Pos, p.AttachedPos())
	}
	if e.Chain().Multiplier != 1 {
		t.Errorf("initial chain multiplier = %d, expected 1", e.Chain().Multiplier)
	}
}

func TestSpawnOnOccupiedCellsIsGameOver(t *testing.T) {
	rows := emptyRows(16, 6)
	rows[1] = "...R.."
	grid := board.MustParseGrid(rows...)
	rec := &event.Recorder{}

	e := newEngine(t, grid, pieces(core.ColorBlue), rec)
	if e.State() != engine.GameOver {
		t.Fatalf("State() = %v, expected GameOver", e.State())
	}
	if err := e.SpawnPiece(); !errors.Is(err, engine.ErrGridFull) {
		t.Errorf("SpawnPiece() error = %v, expected ErrGridFull", err)
	}
	if len(event.Filter[event.GameOver](rec.Events)) != 1 {
		t.Errorf("expected exactly one GameOver event, got %v", rec.Events)
	}

	before := e.Grid()
	var tick uint64
	in := core.Frame(core.CmdMoveLeft, core.CmdRotateCW, core.CmdSoftDrop, core.CmdSpawnNext)
	run(e, &tick, in, 50, func(engine.StepResult) bool { return false })

	if !e.Grid().Equal(before) {
		t.Error("grid mutated after GameOver")
	}
	if e.State() != engine.GameOver {
		t.Errorf("State() = %v after steps, expected GameOver", e.State())
	}
	if e.Move(core.DirLeft) || e.Rotate(true) || e.SoftDrop() {
		t.Error("commands must be rejected after GameOver")
	}
	if e.Accepting() {
		t.Error("a topped-out engine must not accept payloads")
	}
}

func TestInvalidMovesAreSilent(t *testing.T) {
	e := newEngine(t, nil, pieces(core.ColorRed), nil)
	for i := 0; i < 3; i++ {
		if !e.Move(core.DirLeft) {
			t.Fatalf("move %d left should succeed", i)
		}
	}
	before, _ := e.Piece()
	if e.Move(core.DirLeft) {
		t.Error("move into the wall should be rejected")
	}
	if e.Rotate(false) {
		t.Error("rotation into the wall should be rejected")
	}
	if e.Move(core.DirUp) {
		t.Error("upward moves are not allowed")
	}
	after, _ := e.Piece()
	if before != after {
		t.Errorf("rejected commands changed the piece: %+v -> %+v", before, after)
	}
}

func TestTwoByTwoClusterBreaks(t *testing.T) {
	rows := emptyRows(16, 6)
	rows[15] = "RR...."
	rec := &event.Recorder{}
	e := newEngine(t, board.MustParseGrid(rows...), pieces(core.ColorRed, core.ColorRed, core.ColorBlue, core.ColorGreen), rec)

	for i := 0; i < 3; i++ {
		e.Move(core.DirLeft)
	}
	if !e.Rotate(true) {
		t.Fatal("rotation at column 0 should fit")
	}

	var tick uint64
	results := run(e, &tick, core.Frame(core.CmdSoftDrop), 200, func(r engine.StepResult) bool {
		return r.State == engine.PieceFalling && tick > 1 && r.Spawned
	})

	var records int
	for _, r := range results {
		for _, record := range r.Records {
			records++
			if len(record.ClusterSizes) != 1 || record.ClusterSizes[0] != 4 {
				t.Errorf("ClusterSizes = %v, expected [4]", record.ClusterSizes)
			}
			if record.ChainMultiplier != 1 {
				t.Errorf("ChainMultiplier = %d, expected 1", record.ChainMultiplier)
			}
			if record.IndividualCount != 0 || record.BreakerCount != 0 {
				t.Errorf("unexpected individual/breaker counts in %+v", record)
			}
		}
	}
	if records != 1 {
		t.Fatalf("expected 1 record, got %d", records)
	}
	if g := e.Grid(); g.FilledCount() != 0 {
		t.Errorf("grid should be empty after the break, got\n%s", g)
	}
	if len(event.Filter[event.ClusterBroken](rec.Events)) != 1 {
		t.Error("expected one ClusterBroken event")
	}
	if len(event.Filter[event.ChainAdvanced](rec.Events)) != 0 {
		t.Error("a single pass must not advance the chain")
	}
	if e.Chain().Multiplier != 1 {
		t.Errorf("chain multiplier after settling = %d, expected 1", e.Chain().Multiplier)
	}
}

func TestChainAdvancesOnSecondPass(t *testing.T) {
	rows := emptyRows(16, 6)
	rows[13] = "G....."
	rows[14] = "RR...."
	rows[15] = "GGG..."
	rec := &event.Recorder{}
	e := newEngine(t, board.MustParseGrid(rows...), pieces(core.ColorRed, core.ColorRed, core.ColorBlue, core.ColorYellow), rec)

	e.Move(core.DirLeft)

	var tick uint64
	var multipliers []int
	run(e, &tick, core.Frame(core.CmdSoftDrop), 300, func(r engine.StepResult) bool {
		for _, record := range r.Records {
			multipliers = append(multipliers, record.ChainMultiplier)
		}
		return r.Spawned
	})

	if len(multipliers) != 2 || multipliers[0] != 1 || multipliers[1] != 2 {
		t.Fatalf("chain multipliers = %v, expected [1 2]", multipliers)
	}
	adv := event.Filter[event.ChainAdvanced](rec.Events)
	if len(adv) != 1 || adv[0].Multiplier != 2 {
		t.Errorf("ChainAdvanced events = %+v", adv)
	}
	if e.Chain().Multiplier != 1 {
		t.Errorf("chain should reset after a quiet scan, got %d", e.Chain().Multiplier)
	}
}

func TestBreakerClearsNeighbours(t *testing.T) {
	rows := emptyRows(16, 6)
	rows[15] = "B.B..."
	e := newEngine(t, board.MustParseGrid(rows...), func() board.Piece {
		return board.Piece{Primary: board.NewBreaker(core.ColorBlue, 0), Attached: board.NewNormal(core.ColorYellow, 0)}
	}, nil)

	// Column 1, vertical: breaker lands at (1,15) between the two blues.
	e.Move(core.DirLeft)
	e.Move(core.DirLeft)

	var tick uint64
	var got []engine.StepResult
	run(e, &tick, core.Frame(core.CmdSoftDrop), 300, func(r engine.StepResult) bool {
		if len(r.Records) > 0 {
			got = append(got, r)
		}
		return r.Spawned
	})

	if len(got) != 1 {
		t.Fatalf("expected one resolving pass, got %d", len(got))
	}
	record := got[0].Records[0]
	if record.BreakerCount != 1 || record.IndividualCount != 2 || len(record.ClusterSizes) != 0 {
		t.Errorf("record = %+v, expected 1 breaker and 2 individuals", record)
	}
	// Only the yellow attached block is left, fallen to the floor.
	g := e.Grid()
	if g.FilledCount() != 1 || g.Get(core.C(1, 15)).Block.Color != core.ColorYellow {
		t.Errorf("unexpected grid after breaker:\n%s", g)
	}
}

func TestReceiverPlacementAndConversion(t *testing.T) {
	rows := emptyRows(16, 6)
	rows[15] = "RRR..."
	rec := &event.Recorder{}
	e := newEngine(t, board.MustParseGrid(rows...), pieces(core.ColorGreen, core.ColorBlue), rec)

	if !e.Accepting() {
		t.Fatal("a falling engine should accept payloads")
	}
	// The piece hangs over column 3 at rows 0-1.
	if room := e.ColumnRoom(3); room != 14 {
		t.Errorf("ColumnRoom(3) = %d, expected 14", room)
	}
	if room := e.ColumnRoom(0); room != 15 {
		t.Errorf("ColumnRoom(0) = %d, expected 15", room)
	}

	garbage := board.NewInterference(board.KindGarbage, core.ColorRed, 7, 180, 0)
	if n := e.PlaceUnit(3, []board.Block{garbage}); n != 1 {
		t.Fatalf("PlaceUnit() = %d, expected 1", n)
	}
	e.SetTransformStage(7, 3)
	if got := e.Grid().Get(core.C(3, 15)).Block; got.Kind != board.KindGarbage || got.TransformStage != 3 {
		t.Errorf("placed cell = %+v, expected garbage at stage 3", got)
	}
	if n := e.ConvertUnit(7); n != 1 {
		t.Fatalf("ConvertUnit() = %d, expected 1", n)
	}
	if got := e.Grid().Get(core.C(3, 15)).Block; got.Kind != board.KindNormal || got.Color != core.ColorRed {
		t.Errorf("converted cell = %+v, expected normal red", got)
	}

	// Drop the piece in column 5; the scan after it locks must see the
	// converted cell as part of a red cluster.
	e.Move(core.DirRight)
	e.Move(core.DirRight)

	var tick uint64
	var sizes []int
	run(e, &tick, core.Frame(core.CmdSoftDrop), 300, func(r engine.StepResult) bool {
		if r.State == engine.Breaking && e.Accepting() {
			t.Error("engine must not accept payloads while resolving")
		}
		for _, record := range r.Records {
			sizes = append(sizes, record.ClusterSizes...)
		}
		return r.Spawned
	})
	if len(sizes) != 1 || sizes[0] != 4 {
		t.Errorf("cluster sizes = %v, expected [4]", sizes)
	}
}

func TestPlaceUnitClipsToRoom(t *testing.T) {
	rows := emptyRows(4, 6)
	rows[3] = "Y....."
	e := newEngine(t, board.MustParseGrid(rows...), pieces(core.ColorGreen), nil)

	strike := make([]board.Block, 5)
	for i := range strike {
		strike[i] = board.NewInterference(board.KindStrike, core.ColorBlue, 3, 240, 0)
	}
	// Column 0 has rows 0-2 free.
	if n := e.PlaceUnit(0, strike); n != 3 {
		t.Errorf("PlaceUnit() = %d, expected 3", n)
	}
	if e.ColumnRoom(0) != 0 {
		t.Errorf("ColumnRoom(0) = %d after filling, expected 0", e.ColumnRoom(0))
	}
	if e.PlaceUnit(0, strike) != 0 {
		t.Error("placing into a full column should place nothing")
	}
}
