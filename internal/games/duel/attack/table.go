package attack

import (
	"sort"

	"github.com/vovakirdan/blockduel/internal/games/duel/combo"
)

// RuleTable maps canonical combo keys to fixed outputs.
type RuleTable struct {
	Version     string
	Description string
	rules       map[string]Output
}

// NewRuleTable returns an empty table.
func NewRuleTable() *RuleTable {
	return &RuleTable{Version: "1", rules: make(map[string]Output)}
}

// Set stores out under k, replacing any previous rule.
func (t *RuleTable) Set(k Key, out Output) {
	t.rules[k.String()] = out.Clone()
}

// Lookup returns a copy of the rule stored for k.
func (t *RuleTable) Lookup(k Key) (Output, bool) {
	out, ok := t.rules[k.String()]
	if !ok {
		return Output{}, false
	}
	return out.Clone(), true
}

// Len returns the number of rules.
func (t *RuleTable) Len() int {
	return len(t.rules)
}

// Keys returns all rule keys in sorted order.
func (t *RuleTable) Keys() []string {
	keys := make([]string, 0, len(t.rules))
	for k := range t.rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TableLookup answers from a rule table and delegates misses to Fallback.
type TableLookup struct {
	Table    *RuleTable
	Fallback Strategy
}

// Resolve implements Strategy.
func (l TableLookup) Resolve(rec combo.Record) Resolution {
	if l.Table != nil {
		if out, ok := l.Table.Lookup(KeyOf(rec)); ok {
			return Resolution{Output: out, Source: SourceTable}
		}
	}
	return l.Fallback.Resolve(rec)
}
