package attack

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockduel/internal/games/duel/combo"
)

// Calculator is the entry point the match uses to price combos.
type Calculator struct {
	strategy Strategy
	table    *RuleTable
	loadErr  error
}

// New builds a calculator from an already loaded table. A nil table means
// formula only.
func New(table *RuleTable, fallback FormulaFallback) *Calculator {
	c := &Calculator{table: table, strategy: fallback}
	if table != nil {
		c.strategy = TableLookup{Table: table, Fallback: fallback}
	}
	return c
}

// FormulaOnly is the rule table path that disables the table tier.
const FormulaOnly = "none"

// Open loads the rule table at path. An empty path uses the table Generate
// builds from fallback, FormulaOnly skips the table, and a path that cannot
// be loaded is logged once and the calculator degrades to the formula.
func Open(path string, fallback FormulaFallback, logger *log.Logger) *Calculator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	switch path {
	case "":
		table := Generate(fallback)
		logger.Debug("using built-in rule table", "rules", table.Len())
		return New(table, fallback)
	case FormulaOnly:
		return New(nil, fallback)
	}
	table, skipped, err := LoadRuleTable(path)
	if err != nil {
		logger.Warn("rule table unavailable, using formula", "path", path, "error", err)
		c := New(nil, fallback)
		c.loadErr = err
		return c
	}
	if skipped > 0 {
		logger.Warn("skipped malformed rules", "path", path, "skipped", skipped)
	}
	logger.Debug("rule table loaded", "path", path, "rules", table.Len(), "version", table.Version)
	return New(table, fallback)
}

// Compute returns the attack for rec. Equal records always produce equal
// outputs.
func (c *Calculator) Compute(rec combo.Record) Output {
	return c.Resolve(rec).Output
}

// Resolve is Compute plus the strategy that answered.
func (c *Calculator) Resolve(rec combo.Record) Resolution {
	if len(rec.ClusterSizes) == 0 && rec.IndividualCount == 0 && rec.BreakerCount == 0 {
		return Resolution{Source: SourceFormula}
	}
	return c.strategy.Resolve(rec)
}

// Degraded reports whether a configured rule table failed to load.
func (c *Calculator) Degraded() bool {
	return c.loadErr != nil
}

// LoadErr returns the table load failure, if any.
func (c *Calculator) LoadErr() error {
	return c.loadErr
}

// Table returns the loaded rule table, or nil.
func (c *Calculator) Table() *RuleTable {
	return c.table
}
