package match

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/attack"
)

// ErrReplayDiverged is returned when a replay ends in a different state
// than the recorded match.
var ErrReplayDiverged = errors.New("match: replay diverged")

// ReplayLog is the seed plus every non-empty command frame of a match.
type ReplayLog struct {
	Seed   int64   `yaml:"seed"`
	Ticks  uint64  `yaml:"ticks"`
	Hash   string  `yaml:"hash,omitempty"`
	Frames []Frame `yaml:"frames,omitempty"`
}

// Frame is the commands both sides issued on one tick.
type Frame struct {
	Tick uint64   `yaml:"t"`
	A    []string `yaml:"a,flow,omitempty"`
	B    []string `yaml:"b,flow,omitempty"`
}

func (l *ReplayLog) record(tick uint64, a, b core.InputFrame) {
	if a.Empty() && b.Empty() {
		return
	}
	l.Frames = append(l.Frames, Frame{Tick: tick, A: names(a), B: names(b)})
}

func names(f core.InputFrame) []string {
	if f.Empty() {
		return nil
	}
	out := make([]string, len(f.Commands))
	for i, c := range f.Commands {
		out[i] = c.String()
	}
	return out
}

func frame(names []string) (core.InputFrame, error) {
	var f core.InputFrame
	for _, n := range names {
		c, err := core.ParseCommand(n)
		if err != nil {
			return f, err
		}
		f.Push(c)
	}
	return f, nil
}

// Replay returns the match's log so far, stamped with the current tick and
// snapshot hash.
func (m *Match) Replay() ReplayLog {
	l := ReplayLog{
		Seed:   m.replay.Seed,
		Ticks:  m.tick,
		Hash:   m.Snapshot().Hash(),
		Frames: append([]Frame(nil), m.replay.Frames...),
	}
	return l
}

// Marshal encodes the log as YAML.
func (l ReplayLog) Marshal() ([]byte, error) {
	return yaml.Marshal(&l)
}

// UnmarshalReplay decodes a log written by ReplayLog.Marshal.
func UnmarshalReplay(data []byte) (ReplayLog, error) {
	var l ReplayLog
	if err := yaml.Unmarshal(data, &l); err != nil {
		return l, fmt.Errorf("match: decode replay: %w", err)
	}
	return l, nil
}

// Replay re-runs a recorded match from its seed and commands. When the log
// carries a hash, the final snapshot must match it.
func Replay(cfg Config, calc *attack.Calculator, l ReplayLog, opts ...Option) (*Match, error) {
	m := New(cfg, l.Seed, calc, opts...)
	next := 0
	for m.tick < l.Ticks && !m.Done() {
		var a, b core.InputFrame
		if next < len(l.Frames) && l.Frames[next].Tick == m.tick {
			var err error
			if a, err = frame(l.Frames[next].A); err != nil {
				return m, fmt.Errorf("match: replay tick %d: %w", m.tick, err)
			}
			if b, err = frame(l.Frames[next].B); err != nil {
				return m, fmt.Errorf("match: replay tick %d: %w", m.tick, err)
			}
			next++
		}
		m.Step(a, b)
	}
	if l.Hash != "" {
		if got := m.Snapshot().Hash(); got != l.Hash {
			return m, fmt.Errorf("%w: hash %s, recorded %s", ErrReplayDiverged, got, l.Hash)
		}
	}
	return m, nil
}
