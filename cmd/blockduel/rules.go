package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockduel/internal/games/duel/attack"
	"github.com/vovakirdan/blockduel/internal/games/duel/combo"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Generate or inspect attack rule tables",
}

var rulesGenerateCmd = &cobra.Command{
	Use:   "generate <path>",
	Short: "Write a rule table covering common combos",
	Long: `Generate a rule table from the formula for the usual cluster, individual,
breaker and chain combinations, and write it as YAML. Edit the file to
tune attacks, then point attack.rule_table at it.

Examples:
  blockduel rules generate configs/attack_rules.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runRulesGenerate,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show <path> [key]",
	Short: "List a rule table or look up one key",
	Long: `Without a key, list every entry of the table. With a key such as
"4,6_2_1_3" (cluster sizes, individuals, breakers, chain), show the entry or
what the formula would send instead.

Examples:
  blockduel rules show configs/attack_rules.yaml
  blockduel rules show configs/attack_rules.yaml 4_0_0_1`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runRulesShow,
}

func init() {
	rulesCmd.AddCommand(rulesGenerateCmd)
	rulesCmd.AddCommand(rulesShowCmd)
}

func runRulesGenerate(cmd *cobra.Command, args []string) {
	_, mc, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}
	t := attack.Generate(mc.Fallback)
	if err := t.Save(args[0]); err != nil {
		fail("%v", err)
	}
	fmt.Printf("Wrote %d rules to %s\n", t.Len(), args[0])
}

func runRulesShow(cmd *cobra.Command, args []string) {
	logger := newLogger()
	_, mc, err := loadConfig()
	if err != nil {
		fail("loading config: %v", err)
	}

	t, skipped, err := attack.LoadRuleTable(args[0])
	if err != nil {
		fail("%v", err)
	}
	if skipped > 0 {
		logger.Warn("skipped malformed rules", "count", skipped)
	}

	if len(args) == 2 {
		k, err := attack.ParseKey(args[1])
		if err != nil {
			fail("%v", err)
		}
		if out, ok := t.Lookup(k); ok {
			fmt.Printf("%s (table): %s\n", k, out)
			return
		}
		rec := combo.Record{
			ClusterSizes:    k.Sizes,
			IndividualCount: k.Individual,
			BreakerCount:    k.Breakers,
			ChainMultiplier: k.Chain,
		}
		fmt.Printf("%s (formula): %s\n", k, mc.Fallback.Compute(rec))
		return
	}

	fmt.Printf("%s: %d rules", args[0], t.Len())
	if t.Version != "" {
		fmt.Printf(", version %s", t.Version)
	}
	fmt.Println()
	if t.Description != "" {
		fmt.Println(t.Description)
	}
	fmt.Println()
	for _, key := range t.Keys() {
		k, err := attack.ParseKey(key)
		if err != nil {
			continue
		}
		out, _ := t.Lookup(k)
		fmt.Printf("  %-20s %s\n", key, out)
	}
}
