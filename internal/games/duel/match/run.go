package match

import (
	"context"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/engine"
)

// Controller chooses a side's commands from that side's view each tick.
// Bots and the terminal player both drive a match through it.
type Controller interface {
	Commands(view engine.Snapshot) core.InputFrame
}

// ControllerFunc adapts a function to the Controller interface.
type ControllerFunc func(view engine.Snapshot) core.InputFrame

// Commands calls f(view).
func (f ControllerFunc) Commands(view engine.Snapshot) core.InputFrame {
	return f(view)
}

// Run steps m with two controllers until it ends or ctx is cancelled.
// A nil controller issues no commands.
func Run(ctx context.Context, m *Match, a, b Controller) (Result, error) {
	controllers := [2]Controller{a, b}
	for !m.Done() {
		if m.tick%256 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{Ticks: m.tick, Stats: m.stats}, err
			}
		}
		var inputs [2]core.InputFrame
		for _, side := range core.Sides {
			if controllers[side] != nil {
				inputs[side] = controllers[side].Commands(m.SideView(side))
			}
		}
		m.Step(inputs[0], inputs[1])
	}
	r, _ := m.Result()
	return r, nil
}
