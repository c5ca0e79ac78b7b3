// Package engine runs one side of a duel: the falling piece, cluster and
// breaker resolution, gravity and chains. It also receives interference
// from the payload scheduler.
package engine

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
	"github.com/vovakirdan/blockduel/internal/games/duel/combo"
	"github.com/vovakirdan/blockduel/internal/games/duel/event"
)

// ErrGridFull is returned by SpawnPiece when a spawn cell is occupied.
var ErrGridFull = errors.New("engine: spawn cells occupied")

// StepResult is returned by Engine.Step after each tick.
type StepResult struct {
	State   State
	Records []combo.Record // at most one per tick
	Spawned bool
	Locked  bool
}

// Engine is the state machine for one side's grid.
type Engine struct {
	side    core.Side
	cfg     Config
	grid    *board.Grid
	piece   *board.Piece
	next    board.Piece
	rng     *core.RNG
	state   State
	chain   ChainState
	tick    uint64
	fall    int
	settle  int
	dirty   bool // converted interference may have formed clusters
	tracker *combo.Tracker

	clusters []board.Cluster
	hits     []board.BreakerHit
	source   func() board.Piece

	sink   event.Sink
	logger *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink routes engine events to s.
func WithSink(s event.Sink) Option {
	return func(e *Engine) { e.sink = event.OrDiscard(s) }
}

// WithLogger sets the engine's logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithGrid starts the engine from an existing grid instead of an empty one.
func WithGrid(g *board.Grid) Option {
	return func(e *Engine) {
		if g != nil {
			e.grid = g.Clone()
		}
	}
}

// WithPieceSource replaces the random piece generator. Only the blocks of
// the returned piece are used.
func WithPieceSource(next func() board.Piece) Option {
	return func(e *Engine) { e.source = next }
}

// New creates an engine and spawns its first piece. Piece colors are drawn
// from rng, which the engine owns from then on.
func New(side core.Side, cfg Config, rng *core.RNG, opts ...Option) *Engine {
	e := &Engine{
		side:    side,
		cfg:     cfg,
		grid:    board.NewGrid(cfg.Width, cfg.Height),
		rng:     rng,
		chain:   ChainState{Multiplier: 1},
		tracker: combo.NewTracker(side),
		sink:    event.Discard,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.next = e.randomPiece()
	_ = e.SpawnPiece()
	return e
}

// SetFallInterval changes the automatic fall pace; values below 1 are ignored.
func (e *Engine) SetFallInterval(ticks int) {
	if ticks >= 1 {
		e.cfg.FallInterval = ticks
	}
}

// Side returns which side the engine plays.
func (e *Engine) Side() core.Side { return e.side }

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Chain returns the current chain state.
func (e *Engine) Chain() ChainState { return e.chain }

// Grid returns a copy of the board.
func (e *Engine) Grid() *board.Grid { return e.grid.Clone() }

// Piece returns the falling piece, if any.
func (e *Engine) Piece() (board.Piece, bool) {
	if e.piece == nil {
		return board.Piece{}, false
	}
	return *e.piece, true
}

func (e *Engine) randomPiece() board.Piece {
	if e.source != nil {
		p := e.source()
		p.Orient = core.DirUp
		return p
	}
	return board.Piece{
		Primary:  e.randomBlock(),
		Attached: e.randomBlock(),
		Orient:   core.DirUp,
	}
}

func (e *Engine) randomBlock() board.Block {
	c := e.cfg.Colors[e.rng.Intn(len(e.cfg.Colors))]
	if e.rng.Float64() < e.cfg.BreakerChance {
		return board.NewBreaker(c, e.tick)
	}
	return board.NewNormal(c, e.tick)
}

// SpawnPiece places the next piece at the spawn position with its attached
// block pointing up. If either cell is occupied the engine enters GameOver
// and ErrGridFull is returned.
func (e *Engine) SpawnPiece() error {
	if e.state == GameOver {
		return ErrGridFull
	}
	p := e.next
	p.Pos = core.C(e.cfg.SpawnColumn, 1)
	p.Orient = core.DirUp
	if !p.Fits(e.grid) {
		e.topOut()
		return ErrGridFull
	}
	p.Primary.BornAtTick = e.tick
	p.Attached.BornAtTick = e.tick
	e.piece = &p
	e.next = e.randomPiece()
	e.state = PieceFalling
	e.fall = 0
	return nil
}

func (e *Engine) topOut() {
	e.state = GameOver
	e.piece = nil
	e.logger.Info("side topped out", "side", e.side, "tick", e.tick)
	e.sink.Emit(event.GameOver{Side: e.side, Tick: e.tick})
}

// Move shifts the falling piece one column. Only DirLeft and DirRight are
// accepted; a blocked move returns false and changes nothing.
func (e *Engine) Move(d core.Dir) bool {
	if e.state != PieceFalling || (d != core.DirLeft && d != core.DirRight) {
		return false
	}
	moved := e.piece.Moved(d.Delta().X, 0)
	if !moved.Fits(e.grid) {
		return false
	}
	*e.piece = moved
	return true
}

// Rotate turns the attached block around the primary. There are no wall
// kicks: a blocked rotation returns false and changes nothing.
func (e *Engine) Rotate(cw bool) bool {
	if e.state != PieceFalling {
		return false
	}
	rotated := e.piece.Rotated(cw)
	if !rotated.Fits(e.grid) {
		return false
	}
	*e.piece = rotated
	return true
}

// SoftDrop moves the piece down one row. When it cannot move, the piece is
// written to the grid and the engine enters Locking.
func (e *Engine) SoftDrop() bool {
	if e.state != PieceFalling {
		return false
	}
	down := e.piece.Moved(0, 1)
	if down.Fits(e.grid) {
		*e.piece = down
		e.fall = 0
		return true
	}
	e.lock()
	return false
}

func (e *Engine) lock() {
	e.piece.Write(e.grid)
	e.piece = nil
	e.state = Locking
}

// Step advances the engine by one tick, applying the side's commands first.
// Resolution states advance one per tick.
func (e *Engine) Step(tick uint64, in core.InputFrame) StepResult {
	e.tick = tick
	res := StepResult{}

	switch e.state {
	case GameOver:
	case Idle:
		if e.dirty {
			e.state = ClusterScan
			break
		}
		if e.cfg.AutoSpawn || in.Has(core.CmdSpawnNext) {
			res.Spawned = e.SpawnPiece() == nil
		}
	case PieceFalling:
		e.applyCommands(in)
		if e.state == PieceFalling {
			e.fall++
			if e.fall >= e.cfg.FallInterval {
				e.fall = 0
				e.gravityStep()
			}
		}
		res.Locked = e.state == Locking
	case Locking:
		board.ApplyGravity(e.grid)
		e.state = ClusterScan
	case ClusterScan:
		e.scan()
	case Breaking:
		if rec, ok := e.resolve(); ok {
			res.Records = append(res.Records, rec)
		}
		e.state = GravityApply
	case GravityApply:
		board.ApplyGravity(e.grid)
		e.settle = e.cfg.SettleTicks
		e.state = WaitSettle
	case WaitSettle:
		if e.settle > 0 {
			e.settle--
		}
		if e.settle == 0 {
			e.state = ClusterScan
		}
	}

	res.State = e.state
	return res
}

func (e *Engine) applyCommands(in core.InputFrame) {
	for _, cmd := range in.Commands {
		if e.state != PieceFalling {
			return
		}
		switch cmd {
		case core.CmdMoveLeft:
			e.Move(core.DirLeft)
		case core.CmdMoveRight:
			e.Move(core.DirRight)
		case core.CmdRotateCW:
			e.Rotate(true)
		case core.CmdRotateCCW:
			e.Rotate(false)
		case core.CmdSoftDrop:
			e.SoftDrop()
		}
	}
}

func (e *Engine) gravityStep() {
	down := e.piece.Moved(0, 1)
	if down.Fits(e.grid) {
		*e.piece = down
		return
	}
	e.lock()
}

func (e *Engine) scan() {
	e.dirty = false
	e.clusters = board.DetectClusters(e.grid, e.cfg.MinClusterSize)
	e.hits = board.ActivateBreakers(e.grid, e.cfg.BreakerReach)
	if len(e.clusters) == 0 && len(e.hits) == 0 {
		e.chain = ChainState{Multiplier: 1}
		e.state = Idle
		return
	}
	e.state = Breaking
}

func (e *Engine) resolve() (combo.Record, bool) {
	if e.chain.Active {
		e.chain.Multiplier++
	}
	e.chain.Active = true

	e.tracker.Begin(e.tick, e.chain.Multiplier)
	for _, c := range e.clusters {
		e.tracker.AddCluster(c)
	}
	for _, h := range e.hits {
		e.tracker.AddBreaker(h.Pos, h.Color)
		for _, t := range h.Targets {
			e.tracker.AddIndividual(t, e.grid.Get(t).Block)
		}
	}
	e.clusters, e.hits = nil, nil

	rec, ok := e.tracker.Finish()
	if !ok {
		return rec, false
	}
	for _, b := range rec.Broken {
		e.grid.SetEmpty(b.Pos)
	}

	e.sink.Emit(event.ClusterBroken{
		Side:            e.side,
		Tick:            e.tick,
		ChainMultiplier: rec.ChainMultiplier,
		ClusterSizes:    rec.ClusterSizes,
		IndividualCount: rec.IndividualCount,
		BreakerCount:    rec.BreakerCount,
		Cells:           len(rec.Broken),
	})
	if e.chain.Multiplier > 1 {
		e.sink.Emit(event.ChainAdvanced{Side: e.side, Tick: e.tick, Multiplier: e.chain.Multiplier})
	}
	e.logger.Debug("pass resolved", "side", e.side, "chain", rec.ChainMultiplier, "cells", len(rec.Broken))
	return rec, true
}

// Snapshot returns a read-only copy of the engine state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Side:  e.side,
		Tick:  e.tick,
		State: e.state,
		Grid:  e.grid.Clone(),
		Next:  e.next,
		Chain: e.chain,

		BreakerReach: e.cfg.BreakerReach,
	}
	if e.piece != nil {
		p := *e.piece
		s.Piece = &p
	}
	return s
}
