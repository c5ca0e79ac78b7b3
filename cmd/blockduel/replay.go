package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockduel/internal/config"
	"github.com/vovakirdan/blockduel/internal/games/duel/attack"
	"github.com/vovakirdan/blockduel/internal/games/duel/match"
	"github.com/vovakirdan/blockduel/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay <match-id>",
	Short: "Re-run a stored match and verify it",
	Long: `Load a stored match's seed, config and command log, run it again and
check that it ends in exactly the recorded state.

Examples:
  blockduel replay 3f2a9c1e-6d3b-4a7e-9a40-1c2b3d4e5f60`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(cmd *cobra.Command, args []string) {
	logger := newLogger()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening results database: %v", err)
	}
	defer store.Close()

	rec, err := store.Match(args[0])
	if err != nil {
		fail("%v", err)
	}
	stored, err := store.LoadReplay(rec.ID)
	if err != nil {
		fail("%v", err)
	}

	dc, err := config.ParseDuel(stored.Config)
	if err != nil {
		fail("stored config: %v", err)
	}
	mc, err := match.FromDuel(dc)
	if err != nil {
		fail("stored config: %v", err)
	}
	rl, err := match.UnmarshalReplay(stored.Log)
	if err != nil {
		fail("%v", err)
	}

	calc := attack.Open(mc.RuleTable, mc.Fallback, logger)
	m, err := match.Replay(mc, calc, rl, match.WithLogger(logger))
	if errors.Is(err, match.ErrReplayDiverged) {
		fail("%v (did the rule table at %q change?)", err, mc.RuleTable)
	}
	if err != nil {
		fail("%v", err)
	}

	r, _ := m.Result()
	fmt.Printf("replayed %s: %d frames, hash %s verified\n", rec.ID, len(rl.Frames), rl.Hash)
	printResult(rec.Seed, [2]string{rec.Sides[0].Bot, rec.Sides[1].Bot}, r)
}
