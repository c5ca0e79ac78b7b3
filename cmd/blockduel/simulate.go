package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockduel/internal/config"
	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/attack"
	"github.com/vovakirdan/blockduel/internal/games/duel/match"
	"github.com/vovakirdan/blockduel/internal/observability"
	"github.com/vovakirdan/blockduel/internal/registry"
	"github.com/vovakirdan/blockduel/internal/storage"
)

var (
	flagBotA        string
	flagBotB        string
	flagMaxTicks    int
	flagCount       int
	flagSave        bool
	flagMetricsAddr string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run headless bot-vs-bot matches",
	Long: `Run one or more matches between two bots without a terminal UI.

Each match after the first uses the next seed, so a run is reproducible
from --seed. With --save, results and replays go to the database.

Examples:
  blockduel simulate --a greedy --b random --seed 42
  blockduel simulate --count 20 --save
  blockduel simulate --metrics-addr :2112`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagBotA, "a", "greedy", "Bot playing side A")
	simulateCmd.Flags().StringVar(&flagBotB, "b", "random", "Bot playing side B")
	simulateCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 0, "Override match.max_ticks (0 = config value)")
	simulateCmd.Flags().IntVar(&flagCount, "count", 1, "Number of matches to run")
	simulateCmd.Flags().BoolVar(&flagSave, "save", false, "Store results and replays in the database")
	simulateCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
}

func runSimulate(cmd *cobra.Command, args []string) {
	logger := newLogger()

	dc, mc, err := simulateConfig()
	if err != nil {
		fail("loading config: %v", err)
	}
	for _, id := range []string{flagBotA, flagBotB} {
		if !registry.Exists(id) {
			fail("unknown bot %q (run 'blockduel bots' to see available bots)", id)
		}
	}

	var store *storage.Store
	var cfgYAML []byte
	if flagSave {
		if store, err = storage.Open(flagDBPath); err != nil {
			fail("opening results database: %v", err)
		}
		defer store.Close()
		if cfgYAML, err = dc.Marshal(); err != nil {
			fail("encoding config: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	metrics := observability.NewMetrics()
	if flagMetricsAddr != "" {
		srv := &http.Server{Addr: flagMetricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("serving metrics", "addr", flagMetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "err", err)
			}
		}()
		defer srv.Close()
	}

	calc := attack.Open(mc.RuleTable, mc.Fallback, logger)
	first := seed()
	wins := map[string]int{}
	for i := 0; i < flagCount; i++ {
		s := first + int64(i)
		a, err := registry.Create(flagBotA, match.SideSeed(s, core.SideA))
		if err != nil {
			fail("%v", err)
		}
		b, err := registry.Create(flagBotB, match.SideSeed(s, core.SideB))
		if err != nil {
			fail("%v", err)
		}

		m := match.New(mc, s, calc, match.WithLogger(logger), match.WithTelemetry(metrics))
		r, err := match.Run(ctx, m, a, b)
		if err != nil {
			logger.Warn("simulation interrupted", "tick", m.Tick())
			break
		}
		wins[r.WinnerName()]++
		printResult(s, [2]string{flagBotA, flagBotB}, r)

		if store != nil {
			id, err := store.SaveFinished(m, [2]string{flagBotA, flagBotB}, cfgYAML)
			if err != nil {
				logger.Error("saving match failed", "err", err)
			} else {
				fmt.Printf("  saved as %s\n", id)
			}
		}
	}

	if flagCount > 1 {
		fmt.Printf("\nA (%s) %d  B (%s) %d  draws %d\n", flagBotA, wins["A"], flagBotB, wins["B"], wins["draw"])
	}

	lines, err := metrics.Summary()
	if err != nil {
		logger.Warn("metrics summary unavailable", "err", err)
		return
	}
	fmt.Println("\nMetrics:")
	for _, l := range lines {
		fmt.Printf("  %s\n", l)
	}

	if flagMetricsAddr != "" && ctx.Err() == nil {
		fmt.Println("\nPress Ctrl+C to stop serving metrics.")
		<-ctx.Done()
	}
}

// simulateConfig is loadConfig with --max-ticks applied to the duel config
// itself, so the YAML saved next to a replay is the one the match ran with.
func simulateConfig() (config.DuelConfig, match.Config, error) {
	dc, err := loadDuelConfig()
	if err != nil {
		return dc, match.Config{}, err
	}
	if flagMaxTicks > 0 {
		dc.Match.MaxTicks = flagMaxTicks
	}
	mc, err := match.FromDuel(dc)
	return dc, mc, err
}

func printResult(seed int64, bots [2]string, r match.Result) {
	winner := "draw"
	if !r.Draw {
		winner = fmt.Sprintf("%s (%s)", r.Winner, bots[r.Winner])
	}
	fmt.Printf("seed %d: winner %s, %s after %d ticks\n", seed, winner, r.Reason, r.Ticks)
	for _, side := range core.Sides {
		st := r.Stats[side]
		fmt.Printf("  %s %-8s passes %3d  max chain %d  broken %4d  garbage %3d  strikes %3d\n",
			side, bots[side], st.Passes, st.MaxChain, st.CellsBroken, st.GarbageSent, st.StrikesSent)
	}
}
