package storage

import (
	"fmt"

	"github.com/vovakirdan/blockduel/internal/games/duel/match"
)

// NewMatchRecord converts a finished match's result into a record.
func NewMatchRecord(seed int64, bots [2]string, r match.Result) MatchRecord {
	rec := MatchRecord{
		Seed:   seed,
		Winner: r.WinnerName(),
		Reason: r.Reason.String(),
		Ticks:  r.Ticks,
	}
	for i, st := range r.Stats {
		rec.Sides[i] = SideRecord{
			Bot:         bots[i],
			Passes:      st.Passes,
			MaxChain:    st.MaxChain,
			CellsBroken: st.CellsBroken,
			GarbageSent: st.GarbageSent,
			StrikesSent: st.StrikesSent,
		}
	}
	return rec
}

// SaveFinished stores a finished match together with its replay log and
// the config YAML it ran under. Returns the new match ID.
func (s *Store) SaveFinished(m *match.Match, bots [2]string, config []byte) (string, error) {
	r, ok := m.Result()
	if !ok {
		return "", fmt.Errorf("storage: match is still running")
	}
	log, err := m.Replay().Marshal()
	if err != nil {
		return "", fmt.Errorf("storage: encode replay: %w", err)
	}

	id, err := s.SaveMatch(NewMatchRecord(m.Seed(), bots, r))
	if err != nil {
		return "", err
	}
	if err := s.SaveReplay(Replay{MatchID: id, Config: config, Log: log}); err != nil {
		return id, err
	}
	return id, nil
}
