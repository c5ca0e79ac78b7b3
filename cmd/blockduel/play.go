package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockduel/internal/games/duel/attack"
	"github.com/vovakirdan/blockduel/internal/platform/tui"
	"github.com/vovakirdan/blockduel/internal/registry"
	"github.com/vovakirdan/blockduel/internal/storage"
)

var (
	flagBot     string
	flagLogFile string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play against a bot",
	Long: `Play side A against a bot on side B.

Controls:
  Left/A, Right/D  - Move
  Up/X, Z          - Rotate clockwise, counter-clockwise
  Down/S           - Soft drop
  Space            - Next piece (when auto spawn is off)
  P/Esc            - Pause
  R                - Rematch (after the match ends)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Pieces start slow and speed up
  normal - Start at 30% speed-up
  hard   - Start at 70% speed-up
  fixed  - No speed-up, config fall_interval throughout

Examples:
  blockduel play
  blockduel play --bot random --difficulty easy
  blockduel play --seed 42 --config ./my-duel.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagBot, "bot", "greedy", "Bot playing side B")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file while playing")
}

func runPlay(cmd *cobra.Command, args []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fail("play needs an interactive terminal; try 'blockduel simulate'")
	}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && (w < 72 || h < 22) {
		fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, the duel needs about 72x22\n", w, h)
	}

	dc, mc, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}

	s := seed()
	bot, err := registry.Create(flagBot, s)
	if err != nil {
		fail("%v (run 'blockduel bots' to see available bots)", err)
	}

	// The alternate screen owns stdout and stderr, so logs go to a file or nowhere.
	logger := log.New(io.Discard)
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			fail("opening log file: %v", err)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "blockduel"})
		if level, err := log.ParseLevel(flagLogLevel); err == nil {
			logger.SetLevel(level)
		}
	}

	// Open results storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		// Continue without storage - the duel still works
		store = nil
	}
	cfgYAML, err := dc.Marshal()
	if err != nil {
		fail("encoding config: %v", err)
	}

	_, runErr := tui.Run(tui.Options{
		Config:     mc,
		Calculator: attack.Open(mc.RuleTable, mc.Fallback, logger),
		Seed:       s,
		Bot:        bot,
		Store:      store,
		ConfigYAML: cfgYAML,
		Logger:     logger,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running duel: %v", runErr)
	}
}
