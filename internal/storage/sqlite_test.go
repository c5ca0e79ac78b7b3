package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/attack"
	"github.com/vovakirdan/blockduel/internal/games/duel/engine"
	"github.com/vovakirdan/blockduel/internal/games/duel/match"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieveMatch(t *testing.T) {
	store := openTemp(t)

	rec := MatchRecord{
		Seed:   42,
		Winner: "B",
		Reason: "top_out",
		Ticks:  1234,
		Sides: [2]SideRecord{
			{Bot: "random", Passes: 3, MaxChain: 1, CellsBroken: 12, GarbageSent: 2},
			{Bot: "greedy", Passes: 7, MaxChain: 3, CellsBroken: 30, StrikesSent: 5},
		},
	}
	id, err := store.SaveMatch(rec)
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("expected a UUID, got %q", id)
	}

	got, err := store.Match(id)
	if err != nil {
		t.Fatalf("Match() failed: %v", err)
	}
	rec.ID = id
	got.CreatedAt = rec.CreatedAt
	if got != rec {
		t.Errorf("Match() = %+v, want %+v", got, rec)
	}

	if _, err := store.Match("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Match(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStoreRecentMatchesLimit(t *testing.T) {
	store := openTemp(t)

	for i := 0; i < 5; i++ {
		if _, err := store.SaveMatch(MatchRecord{Seed: int64(i), Winner: "A", Reason: "timeout"}); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	records, err := store.RecentMatches(3)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 matches with limit, got %d", len(records))
	}
	// Newest first
	if records[0].Seed != 4 || records[1].Seed != 3 || records[2].Seed != 2 {
		t.Errorf("Matches not in expected order: %d %d %d", records[0].Seed, records[1].Seed, records[2].Seed)
	}
}

func TestStoreReplayRoundTrip(t *testing.T) {
	store := openTemp(t)

	id, err := store.SaveMatch(MatchRecord{Seed: 7, Winner: "draw", Reason: "timeout"})
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}

	log := bytes.Repeat([]byte("- t: 12\n  a: [left, soft_drop]\n"), 200)
	cfg := []byte("grid:\n  width: 6\n")
	if err := store.SaveReplay(Replay{MatchID: id, Config: cfg, Log: log}); err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}

	got, err := store.LoadReplay(id)
	if err != nil {
		t.Fatalf("LoadReplay() failed: %v", err)
	}
	if !bytes.Equal(got.Log, log) || !bytes.Equal(got.Config, cfg) {
		t.Error("replay did not survive compression")
	}

	var stored int
	if err := store.db.QueryRow(`SELECT length(data) FROM replays WHERE match_id = ?`, id).Scan(&stored); err != nil {
		t.Fatalf("query: %v", err)
	}
	if stored >= len(log) {
		t.Errorf("stored %d bytes for a %d byte log, expected compression", stored, len(log))
	}

	if _, err := store.LoadReplay("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadReplay(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStoreBotStats(t *testing.T) {
	store := openTemp(t)

	matches := []MatchRecord{
		{Winner: "A", Reason: "top_out", Sides: [2]SideRecord{{Bot: "greedy"}, {Bot: "random"}}},
		{Winner: "B", Reason: "top_out", Sides: [2]SideRecord{{Bot: "random"}, {Bot: "greedy"}}},
		{Winner: "draw", Reason: "timeout", Sides: [2]SideRecord{{Bot: "greedy"}, {Bot: "idle"}}},
	}
	for _, m := range matches {
		if _, err := store.SaveMatch(m); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	stats, err := store.GetBotStats()
	if err != nil {
		t.Fatalf("GetBotStats() failed: %v", err)
	}
	want := []BotStats{
		{Bot: "greedy", Played: 3, Won: 2, Drawn: 1},
		{Bot: "idle", Played: 1, Won: 0, Drawn: 1},
		{Bot: "random", Played: 2, Won: 0, Drawn: 0},
	}
	if len(stats) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(stats), len(want), stats)
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, stats[i], want[i])
		}
	}
}

func TestStoreSaveFinished(t *testing.T) {
	store := openTemp(t)

	cfg := match.DefaultConfig()
	cfg.MaxTicks = 120
	calc := attack.New(nil, attack.DefaultFallback())
	m := match.New(cfg, 11, calc)

	drop := match.ControllerFunc(func(engine.Snapshot) core.InputFrame {
		return core.Frame(core.CmdSoftDrop)
	})
	if _, err := store.SaveFinished(m, [2]string{"dropper", "idle"}, nil); err == nil {
		t.Error("expected an error for a running match")
	}
	if _, err := match.Run(context.Background(), m, drop, nil); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	id, err := store.SaveFinished(m, [2]string{"dropper", "idle"}, []byte("{}"))
	if err != nil {
		t.Fatalf("SaveFinished() failed: %v", err)
	}

	rec, err := store.Match(id)
	if err != nil {
		t.Fatalf("Match() failed: %v", err)
	}
	if rec.Seed != 11 || rec.Ticks != m.Tick() || rec.Sides[0].Bot != "dropper" {
		t.Errorf("unexpected record %+v", rec)
	}

	stored, err := store.LoadReplay(id)
	if err != nil {
		t.Fatalf("LoadReplay() failed: %v", err)
	}
	log, err := match.UnmarshalReplay(stored.Log)
	if err != nil {
		t.Fatalf("UnmarshalReplay() failed: %v", err)
	}
	if _, err := match.Replay(cfg, calc, log); err != nil {
		t.Errorf("stored replay does not reproduce the match: %v", err)
	}
}
