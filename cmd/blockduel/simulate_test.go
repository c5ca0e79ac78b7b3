package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockduel/internal/config"
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/attack"
	"github.com/vovakirdan/blockduel/internal/games/duel/match"
	"github.com/vovakirdan/blockduel/internal/registry"
)

func TestSimulateMaxTicksSurvivesStoredConfig(t *testing.T) {
	data, err := config.DefaultDuelConfig().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "duel.yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	oldConfig, oldMax, oldDifficulty := flagConfig, flagMaxTicks, flagDifficulty
	t.Cleanup(func() { flagConfig, flagMaxTicks, flagDifficulty = oldConfig, oldMax, oldDifficulty })
	flagConfig, flagMaxTicks, flagDifficulty = path, 120, ""

	dc, mc, err := simulateConfig()
	if err != nil {
		t.Fatalf("simulateConfig() error = %v", err)
	}
	if mc.MaxTicks != 120 {
		t.Fatalf("MaxTicks = %d, want 120", mc.MaxTicks)
	}

	// Run a match and replay it under the config as it would be stored.
	calc := attack.New(nil, mc.Fallback)
	logger := log.New(io.Discard)
	const seed = 11
	var bots [2]registry.Bot
	for _, side := range core.Sides {
		if bots[side], err = registry.Create("dropper", match.SideSeed(seed, side)); err != nil {
			t.Fatal(err)
		}
	}
	m := match.New(mc, seed, calc, match.WithLogger(logger))
	r, err := match.Run(context.Background(), m, bots[0], bots[1])
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	stored, err := dc.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	reloaded, err := config.ParseDuel(stored)
	if err != nil {
		t.Fatalf("ParseDuel() error = %v", err)
	}
	rmc, err := match.FromDuel(reloaded)
	if err != nil {
		t.Fatalf("FromDuel() error = %v", err)
	}
	if rmc.MaxTicks != 120 {
		t.Errorf("stored max_ticks = %d, want 120", rmc.MaxTicks)
	}

	again, err := match.Replay(rmc, calc, m.Replay(), match.WithLogger(logger))
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	got, done := again.Result()
	if !done {
		t.Fatal("replayed match did not finish")
	}
	if got.Reason != r.Reason || got.Ticks != r.Ticks {
		t.Errorf("replay ended %s after %d ticks, want %s after %d", got.Reason, got.Ticks, r.Reason, r.Ticks)
	}
}
