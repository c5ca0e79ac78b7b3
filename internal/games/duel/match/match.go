// Package match runs a duel: two engines, the attack calculator between
// them, and the payload scheduler that delivers attacks. Everything happens
// on the caller's goroutine in a fixed order, so a seed and the command log
// reproduce a match exactly.
package match

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockduel/internal/config"
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/attack"
	"github.com/vovakirdan/blockduel/internal/games/duel/combo"
	"github.com/vovakirdan/blockduel/internal/games/duel/engine"
	"github.com/vovakirdan/blockduel/internal/games/duel/event"
	"github.com/vovakirdan/blockduel/internal/games/duel/payload"
)

// sideBSalt decorrelates side B's piece sequence from side A's.
const sideBSalt uint64 = 0x9E3779B97F4A7C15

// StepResult reports what happened during one Match.Step.
type StepResult struct {
	Tick    uint64
	Records [2][]combo.Record
	Done    bool
}

// Match is one duel between side A and side B.
type Match struct {
	cfg     Config
	seed    int64
	tick    uint64
	engines [2]*engine.Engine
	sched   *payload.Scheduler
	calc    *attack.Calculator
	diff    *config.DifficultyManager
	stats   [2]SideStats
	result  *Result
	replay  ReplayLog

	sink       event.Sink
	logger     *log.Logger
	telemetry  Telemetry
	engineOpts [2][]engine.Option
}

// Option configures a Match.
type Option func(*Match)

// WithSink routes every event of the match to s.
func WithSink(s event.Sink) Option {
	return func(m *Match) { m.sink = event.OrDiscard(s) }
}

// WithLogger sets the logger shared by the match and its components.
func WithLogger(l *log.Logger) Option {
	return func(m *Match) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTelemetry reports match activity to t.
func WithTelemetry(t Telemetry) Option {
	return func(m *Match) {
		if t != nil {
			m.telemetry = t
		}
	}
}

// WithEngineOptions passes extra options to one side's engine.
func WithEngineOptions(side core.Side, opts ...engine.Option) Option {
	return func(m *Match) { m.engineOpts[side] = append(m.engineOpts[side], opts...) }
}

// SideSeed returns the piece RNG seed used for side.
func SideSeed(seed int64, side core.Side) int64 {
	if side == core.SideA {
		return seed
	}
	return int64(uint64(seed) ^ sideBSalt) //#nosec G115 -- bit mixing, overflow intended
}

// New creates a match. calc may be nil, in which case the calculator is
// opened from cfg.RuleTable.
func New(cfg Config, seed int64, calc *attack.Calculator, opts ...Option) *Match {
	m := &Match{
		cfg:       cfg,
		seed:      seed,
		sink:      event.Discard,
		logger:    log.New(io.Discard),
		telemetry: nopTelemetry{},
		replay:    ReplayLog{Seed: seed},
	}
	for _, opt := range opts {
		opt(m)
	}
	if calc == nil {
		calc = attack.Open(cfg.RuleTable, cfg.Fallback, m.logger)
	}
	m.calc = calc
	m.telemetry.RuleTableDegraded(calc.Degraded())
	m.diff = config.NewDifficultyManager(cfg.Difficulty)

	m.sched = payload.New(cfg.Payload,
		payload.WithSink(m.sink),
		payload.WithLogger(m.logger),
		payload.WithTelemetry(m.telemetry),
	)
	for _, side := range core.Sides {
		eopts := append([]engine.Option{
			engine.WithSink(m.sink),
			engine.WithLogger(m.logger.With("side", side.String())),
		}, m.engineOpts[side]...)
		m.engines[side] = engine.New(side, cfg.Engine, core.NewRNG(SideSeed(seed, side)), eopts...)
		m.sched.Attach(side, m.engines[side])
	}
	m.checkEnd()
	return m
}

// Seed returns the match seed.
func (m *Match) Seed() int64 { return m.seed }

// Tick returns the number of steps taken.
func (m *Match) Tick() uint64 { return m.tick }

// Done reports whether the match has ended.
func (m *Match) Done() bool { return m.result != nil }

// Result returns the outcome once the match has ended.
func (m *Match) Result() (Result, bool) {
	if m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

// Stats returns the running per-side totals.
func (m *Match) Stats() [2]SideStats { return m.stats }

// Calculator returns the attack calculator in use.
func (m *Match) Calculator() *attack.Calculator { return m.calc }

// Step advances the match one tick. Side A's engine steps and its attacks
// are queued before side B's engine runs; the scheduler then delivers to A
// and then to B.
func (m *Match) Step(a, b core.InputFrame) StepResult {
	res := StepResult{Tick: m.tick}
	if m.result != nil {
		res.Done = true
		return res
	}
	m.replay.record(m.tick, a, b)

	if m.diff.IsEnabled() {
		interval := m.diff.FallInterval(m.cfg.Engine.FallInterval, m.tick)
		for _, e := range m.engines {
			e.SetFallInterval(interval)
		}
	}

	inputs := [2]core.InputFrame{a, b}
	for _, side := range core.Sides {
		r := m.engines[side].Step(m.tick, inputs[side])
		res.Records[side] = r.Records
		m.route(side, r.Records)
	}
	m.sched.Tick(m.tick)

	m.tick++
	m.checkEnd()
	res.Done = m.result != nil
	return res
}

func (m *Match) route(from core.Side, records []combo.Record) {
	to := from.Opponent()
	for _, rec := range records {
		st := &m.stats[from]
		st.Passes++
		st.MaxChain = max(st.MaxChain, rec.ChainMultiplier)
		st.CellsBroken += len(rec.Broken)

		res := m.calc.Resolve(rec)
		m.telemetry.AttackResolved(res.Source.String())
		out := res.Output
		if out.Empty() {
			continue
		}

		if out.GarbageUnits > 0 {
			p := payload.Garbage(out.GarbageUnits, m.garbageColor(rec))
			p.Target = to
			m.sched.Enqueue(p, m.tick)
		}
		for i, s := range out.Strikes {
			p := payload.Strike(s.Width, s.Height, m.strikeColor(rec, s, i))
			p.Target = to
			m.sched.Enqueue(p, m.tick)
		}
		st.GarbageSent += out.GarbageUnits
		st.StrikesSent += len(out.Strikes)

		m.sink.Emit(event.AttackSent{
			From:    from,
			To:      to,
			Tick:    m.tick,
			Garbage: out.GarbageUnits,
			Strikes: len(out.Strikes),
			Source:  res.Source.String(),
		})
	}
}

func (m *Match) garbageColor(rec combo.Record) core.Color {
	if c := rec.DominantIndividualColor(); c != core.ColorNone {
		return c
	}
	if len(rec.ClusterColors) > 0 {
		return rec.ClusterColors[0]
	}
	return m.cfg.Engine.Colors[0]
}

func (m *Match) strikeColor(rec combo.Record, s attack.StrikeSpec, i int) core.Color {
	if s.Color != core.ColorNone {
		return s.Color
	}
	if len(rec.ClusterColors) > 0 {
		return rec.ClusterColors[i%len(rec.ClusterColors)]
	}
	return m.garbageColor(rec)
}

func (m *Match) checkEnd() {
	if m.result != nil {
		return
	}
	overA := m.engines[core.SideA].State() == engine.GameOver
	overB := m.engines[core.SideB].State() == engine.GameOver

	var r *Result
	switch {
	case overA && overB:
		r = &Result{Draw: true, Reason: ReasonDoubleTopOut}
	case overA:
		r = &Result{Winner: core.SideB, Reason: ReasonTopOut}
	case overB:
		r = &Result{Winner: core.SideA, Reason: ReasonTopOut}
	case m.cfg.MaxTicks > 0 && m.tick >= m.cfg.MaxTicks:
		r = m.timeoutResult()
	default:
		return
	}
	r.Ticks = m.tick
	r.Stats = m.stats
	m.result = r
	m.sched.Clear()
	m.telemetry.MatchFinished(r.Reason.String())
	m.logger.Info("match over", "winner", r.WinnerName(), "reason", r.Reason, "ticks", r.Ticks)
}

// timeoutResult awards the match to the side with fewer filled cells.
func (m *Match) timeoutResult() *Result {
	a := m.engines[core.SideA].Grid().FilledCount()
	b := m.engines[core.SideB].Grid().FilledCount()
	switch {
	case a < b:
		return &Result{Winner: core.SideA, Reason: ReasonTimeout}
	case b < a:
		return &Result{Winner: core.SideB, Reason: ReasonTimeout}
	}
	return &Result{Draw: true, Reason: ReasonTimeout}
}

// SideView returns one side's engine snapshot, for controllers.
func (m *Match) SideView(side core.Side) engine.Snapshot {
	return m.engines[side].Snapshot()
}
