package payload

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
	"github.com/vovakirdan/blockduel/internal/games/duel/event"
)

// Scheduler owns both sides' incoming queues and the countdowns of units
// already on the boards.
type Scheduler struct {
	cfg       Config
	queues    [2][]*Payload
	rotators  [2]*Rotator
	receivers [2]Receiver
	units     [2][]*Unit

	nextPayload uint64
	nextUnit    board.UnitID

	sink      event.Sink
	logger    *log.Logger
	telemetry Telemetry
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSink routes scheduler events to s.
func WithSink(s event.Sink) Option {
	return func(sc *Scheduler) { sc.sink = event.OrDiscard(s) }
}

// WithLogger sets the scheduler's logger.
func WithLogger(l *log.Logger) Option {
	return func(sc *Scheduler) {
		if l != nil {
			sc.logger = l
		}
	}
}

// WithTelemetry reports activity to t.
func WithTelemetry(t Telemetry) Option {
	return func(sc *Scheduler) {
		if t != nil {
			sc.telemetry = t
		}
	}
}

// New creates a scheduler. Receivers are attached separately.
func New(cfg Config, opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:       cfg,
		sink:      event.Discard,
		logger:    log.New(io.Discard),
		telemetry: nopTelemetry{},
	}
	if s.cfg.MaxAttempts <= 0 {
		s.cfg.MaxAttempts = 1
	}
	for _, side := range core.Sides {
		s.rotators[side] = NewRotator(cfg.Rotation)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach sets the board payloads for side land on.
func (s *Scheduler) Attach(side core.Side, r Receiver) {
	s.receivers[side] = r
}

// Enqueue stamps p with an ID and delivery tick and appends it to its
// target's queue. Empty payloads are refused.
func (s *Scheduler) Enqueue(p Payload, now uint64) (Payload, bool) {
	if p.Units <= 0 || p.Height <= 0 {
		return p, false
	}
	s.nextPayload++
	p.ID = s.nextPayload
	p.CreatedAtTick = now
	p.DeliverAtTick = now + uint64(max(0, s.cfg.delay(p.Kind))) //#nosec G115 -- delay is non-negative
	p.Attempts = 0
	p.Columns = nil
	p.LandedCells = 0
	if p.Width == 0 {
		p.Width = p.Units
	}

	q := p
	s.queues[p.Target] = append(s.queues[p.Target], &q)
	s.telemetry.PayloadEnqueued(p.Kind.String())
	s.logger.Debug("payload queued", "target", p.Target, "kind", p.Kind, "units", p.Units, "height", p.Height, "deliver_at", p.DeliverAtTick)
	return p, true
}

// Tick advances countdowns and delivers due payloads, side A first.
// Units landed this tick start counting down on the next one.
func (s *Scheduler) Tick(now uint64) {
	for _, side := range core.Sides {
		r := s.receivers[side]
		if r == nil {
			continue
		}
		s.countdown(side, r, now)
		s.deliver(side, r, now)
	}
}

func (s *Scheduler) countdown(side core.Side, r Receiver, now uint64) {
	kept := s.units[side][:0]
	for _, u := range s.units[side] {
		if u.State == UnitLanded {
			u.State = UnitTransforming
		}
		u.Remaining--
		if u.Remaining > 0 {
			r.SetTransformStage(u.ID, u.Remaining)
			kept = append(kept, u)
			continue
		}
		cells := r.ConvertUnit(u.ID)
		u.State = UnitConverted
		s.telemetry.UnitConverted(u.Kind.String())
		s.sink.Emit(event.PayloadConverted{
			Side:      side,
			Tick:      now,
			PayloadID: u.PayloadID,
			UnitID:    u.ID,
			Cells:     cells,
			Color:     u.Color,
		})
	}
	for i := len(kept); i < len(s.units[side]); i++ {
		s.units[side][i] = nil
	}
	s.units[side] = kept
}

// deliver lands every due payload in queue order. Payloads not yet due are
// skipped; an overflowing payload keeps its place and ends delivery for the
// tick, since the rotation found no room for anything behind it.
func (s *Scheduler) deliver(side core.Side, r Receiver, now uint64) {
	q := s.queues[side]
	for i := 0; i < len(q); {
		if !r.Accepting() {
			return
		}
		p := q[i]
		if p.DeliverAtTick > now {
			i++
			continue
		}

		requested := p.Units
		first := len(p.Columns)
		cells := p.LandedCells
		placed, clipped := s.place(side, r, p, now)
		if placed > 0 {
			s.telemetry.UnitsLanded(p.Kind.String(), placed)
			s.sink.Emit(event.PayloadLanded{
				Side:      side,
				Tick:      now,
				PayloadID: p.ID,
				Kind:      p.Kind.BlockKind(),
				Columns:   append([]int(nil), p.Columns[first:]...),
				Cells:     p.LandedCells - cells,
				Clipped:   clipped,
				Remaining: p.Units,
			})
		}

		if p.Units == 0 {
			q = s.remove(side, i)
			continue
		}

		p.Attempts++
		s.telemetry.PlacementOverflow()
		s.sink.Emit(event.PlacementOverflow{
			Side:      side,
			Tick:      now,
			PayloadID: p.ID,
			Requested: requested,
			Placed:    placed,
			Attempt:   p.Attempts,
		})
		if p.Attempts >= s.cfg.MaxAttempts {
			s.remove(side, i)
			s.telemetry.PayloadDropped()
			s.logger.Warn("payload dropped after overflow", "side", side, "payload", p.ID, "kind", p.Kind, "units", p.Units, "attempts", p.Attempts)
			s.sink.Emit(event.PayloadDropped{Side: side, Tick: now, PayloadID: p.ID, Units: p.Units})
		} else {
			s.logger.Debug("placement overflow", "side", side, "payload", p.ID, "placed", placed, "remaining", p.Units)
		}
		return
	}
}

// place lands as many of p's remaining units as the rotation allows.
func (s *Scheduler) place(side core.Side, r Receiver, p *Payload, now uint64) (placed, clipped int) {
	rot := s.rotators[side]
	stage := s.cfg.transform(p.Kind)
	for p.Units > 0 {
		col, ok := rot.Pick(r.ColumnRoom)
		if !ok {
			break
		}
		s.nextUnit++
		id := s.nextUnit
		blocks := make([]board.Block, p.Height)
		for i := range blocks {
			blocks[i] = board.NewInterference(p.Kind.BlockKind(), p.Color, id, stage, now)
		}
		n := r.PlaceUnit(col, blocks)
		clipped += p.Height - n

		s.units[side] = append(s.units[side], &Unit{
			ID:        id,
			PayloadID: p.ID,
			Side:      side,
			Kind:      p.Kind,
			Column:    col,
			Cells:     n,
			Color:     p.Color,
			State:     UnitLanded,
			Remaining: stage,
		})
		p.Units--
		p.Columns = append(p.Columns, col)
		p.LandedCells += n
		placed++
	}
	return placed, clipped
}

// remove deletes the i-th payload of side's queue and returns the queue.
func (s *Scheduler) remove(side core.Side, i int) []*Payload {
	q := s.queues[side]
	copy(q[i:], q[i+1:])
	q[len(q)-1] = nil
	s.queues[side] = q[:len(q)-1]
	return s.queues[side]
}

// Pending returns previews of side's queue in delivery order.
func (s *Scheduler) Pending(side core.Side) []Preview {
	out := make([]Preview, 0, len(s.queues[side]))
	for _, p := range s.queues[side] {
		out = append(out, Preview{
			ID:            p.ID,
			Kind:          p.Kind,
			Units:         p.Units,
			Height:        p.Height,
			Color:         p.Color,
			DeliverAtTick: p.DeliverAtTick,
		})
	}
	return out
}

// Units returns copies of side's units still counting down.
func (s *Scheduler) Units(side core.Side) []Unit {
	out := make([]Unit, len(s.units[side]))
	for i, u := range s.units[side] {
		out[i] = *u
	}
	return out
}

// Clear discards every queue and countdown.
func (s *Scheduler) Clear() {
	for _, side := range core.Sides {
		s.queues[side] = nil
		s.units[side] = nil
		s.rotators[side].Reset()
	}
}
