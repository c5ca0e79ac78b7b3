// blockduel runs two-sided falling-block puzzle duels in the terminal.
//
// Usage:
//
//	blockduel play               - Play side A against a bot
//	blockduel simulate           - Run a headless bot-vs-bot match
//	blockduel replay <match-id>  - Re-run a stored match and verify it
//	blockduel results            - Show stored match results
//	blockduel rules generate     - Write a generated attack rule table
//	blockduel rules show <path>  - Inspect an attack rule table
//	blockduel bots               - List available bots
//
// Global flags:
//
//	--seed <value>        - Set match seed for reproducible play
//	--config <path>       - Custom duel config YAML
//	--db <path>           - Set database path (default: ~/.blockduel/results.db)
//	--log-level <level>   - debug, info, warn or error
//	--difficulty <preset> - easy, normal, hard or fixed
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import bots to register them
	_ "github.com/vovakirdan/blockduel/internal/bot"
	"github.com/vovakirdan/blockduel/internal/config"
	"github.com/vovakirdan/blockduel/internal/games/duel/match"
)

var (
	// Global flags
	flagSeed       int64
	flagConfig     string
	flagDBPath     string
	flagLogLevel   string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockduel",
	Short: "Blockduel - falling-block puzzle duels in your terminal",
	Long: `Blockduel pits two falling-block puzzle boards against each other.
Clusters you break turn into garbage and strikes on your opponent's board.

Available commands:
  play      - Play against a bot
  simulate  - Headless bot-vs-bot match
  replay    - Re-run and verify a stored match
  results   - Stored match results
  rules     - Generate or inspect attack rule tables
  bots      - List available bots

Examples:
  blockduel play --bot greedy
  blockduel simulate --a greedy --b random --seed 42 --save
  blockduel rules generate configs/attack_rules.yaml
  blockduel results`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Match seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom duel config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockduel/results.db", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(botsCmd)
}

// newLogger builds the CLI logger at --log-level.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "blockduel",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// seed returns --seed, or a time-based seed when it is 0.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// loadDuelConfig loads the duel config with the difficulty preset applied.
// Command-line overrides must be written into the returned config so that
// stored replays carry them.
func loadDuelConfig() (config.DuelConfig, error) {
	dc, err := config.LoadDuel(flagConfig)
	if err != nil {
		return dc, err
	}
	if flagDifficulty != "" {
		preset := config.DifficultyPreset(flagDifficulty)
		switch preset {
		case config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed:
			config.ApplyPreset(&dc, preset)
		default:
			return dc, fmt.Errorf("unknown difficulty %q", flagDifficulty)
		}
	}
	return dc, nil
}

// loadConfig loads the duel config and converts it for the match.
func loadConfig() (config.DuelConfig, match.Config, error) {
	dc, err := loadDuelConfig()
	if err != nil {
		return dc, match.Config{}, err
	}
	mc, err := match.FromDuel(dc)
	return dc, mc, err
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
