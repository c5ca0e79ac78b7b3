package match

import "github.com/vovakirdan/blockduel/internal/core"

// EndReason describes why a match ended.
type EndReason uint8

const (
	ReasonTopOut       EndReason = iota // One side could not spawn
	ReasonDoubleTopOut                  // Both sides topped out on the same tick
	ReasonTimeout                       // MaxTicks reached
)

func (r EndReason) String() string {
	switch r {
	case ReasonTopOut:
		return "top_out"
	case ReasonDoubleTopOut:
		return "double_top_out"
	case ReasonTimeout:
		return "timeout"
	}
	return "unknown"
}

// SideStats are per-side totals over a match.
type SideStats struct {
	Passes      int // resolution passes that broke something
	MaxChain    int
	CellsBroken int
	GarbageSent int
	StrikesSent int
}

// Result is the outcome of a finished match.
type Result struct {
	Winner core.Side
	Draw   bool
	Reason EndReason
	Ticks  uint64
	Stats  [2]SideStats
}

// WinnerName returns "A", "B" or "draw".
func (r Result) WinnerName() string {
	if r.Draw {
		return "draw"
	}
	return r.Winner.String()
}
