package match

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/board"
	"github.com/vovakirdan/blockduel/internal/games/duel/engine"
	"github.com/vovakirdan/blockduel/internal/games/duel/payload"
)

// Snapshot is a read-only copy of the whole match for renderers.
type Snapshot struct {
	Tick    uint64
	Sides   [2]engine.Snapshot
	Pending [2][]payload.Preview
	Result  *Result
}

// Snapshot captures the current match state.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{Tick: m.tick}
	for _, side := range core.Sides {
		s.Sides[side] = m.engines[side].Snapshot()
		s.Pending[side] = m.sched.Pending(side)
	}
	if m.result != nil {
		r := *m.result
		s.Result = &r
	}
	return s
}

// Hash fingerprints the simulation state: tick, engine states, chains,
// grids, falling pieces and pending payloads. Equal hashes after a replay
// mean the replay reproduced the match.
func (s Snapshot) Hash() string {
	buf := make([]byte, 0, 1024)
	buf = binary.LittleEndian.AppendUint64(buf, s.Tick)
	for _, side := range core.Sides {
		es := s.Sides[side]
		buf = append(buf, byte(es.State), byte(es.Chain.Multiplier))
		buf = appendGrid(buf, es.Grid)
		if es.Piece != nil {
			buf = appendPiece(buf, *es.Piece)
		} else {
			buf = append(buf, 0xff)
		}
		for _, p := range s.Pending[side] {
			buf = binary.LittleEndian.AppendUint64(buf, p.ID)
			buf = binary.LittleEndian.AppendUint64(buf, p.DeliverAtTick)
			buf = append(buf, byte(p.Kind), byte(p.Units), byte(p.Height), byte(p.Color))
		}
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(buf))
}

func appendGrid(buf []byte, g *board.Grid) []byte {
	if g == nil {
		return buf
	}
	for _, c := range g.Cells {
		if !c.Filled {
			buf = append(buf, 0)
			continue
		}
		buf = appendBlock(buf, c.Block)
	}
	return buf
}

func appendBlock(buf []byte, b board.Block) []byte {
	buf = append(buf, 1, byte(b.Kind), byte(b.Color), byte(b.SourceColor))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(b.TransformStage)) //#nosec G115 -- hashing only
	return binary.LittleEndian.AppendUint64(buf, uint64(b.UnitID))
}

func appendPiece(buf []byte, p board.Piece) []byte {
	buf = append(buf, byte(p.Pos.X), byte(p.Pos.Y), byte(p.Orient))
	buf = appendBlock(buf, p.Primary)
	return appendBlock(buf, p.Attached)
}
