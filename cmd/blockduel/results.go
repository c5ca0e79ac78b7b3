package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockduel/internal/platform/tui"
	"github.com/vovakirdan/blockduel/internal/storage"
)

var (
	flagLimit int
	flagPlain bool
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show stored match results",
	Long: `Display recent matches and per-bot records from the results database.

In a terminal this opens an interactive browser; use --plain (or pipe the
output) for a text listing.

Examples:
  blockduel results
  blockduel results --limit 50 --plain`,
	Args: cobra.NoArgs,
	Run:  runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of recent matches to show")
	resultsCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a text listing instead of the browser")
}

func runResults(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening results database: %v", err)
	}
	defer store.Close()

	fd := int(os.Stdout.Fd())
	if !flagPlain && term.IsTerminal(fd) {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(fd); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunResults(store, flagLimit, width, height); err != nil {
			fail("%v", err)
		}
		return
	}

	matches, err := store.RecentMatches(flagLimit)
	if err != nil {
		fail("retrieving matches: %v", err)
	}
	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		return
	}

	fmt.Println("Recent matches")
	fmt.Println("--------------")
	for _, r := range matches {
		fmt.Printf("%s  %-8s vs %-8s  winner %-4s  %-14s  %6d ticks  %s\n",
			r.ID, r.Sides[0].Bot, r.Sides[1].Bot, r.Winner, r.Reason, r.Ticks,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	bots, err := store.GetBotStats()
	if err != nil {
		fail("retrieving bot stats: %v", err)
	}
	fmt.Println()
	fmt.Println("Bots")
	fmt.Println("----")
	for _, b := range bots {
		fmt.Printf("%-10s played %4d  won %4d  drawn %4d\n", b.Bot, b.Played, b.Won, b.Drawn)
	}
}
