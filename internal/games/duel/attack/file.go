package attack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/blockduel/internal/core"
)

// LoadError reports a rule table that could not be used. The calculator
// keeps running on the formula when it sees one.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("attack: rule table %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrNoRules is wrapped by LoadError when a file holds no usable rule.
var ErrNoRules = errors.New("no valid rules")

// tableFile is the on-disk layout. JSON files decode through the same
// struct since YAML is a superset of JSON.
type tableFile struct {
	Version     string     `yaml:"version"`
	Description string     `yaml:"description,omitempty"`
	Rules       []ruleFile `yaml:"rules"`
}

type ruleFile struct {
	Key     string       `yaml:"key"`
	Garbage int          `yaml:"garbage"`
	Strikes []strikeFile `yaml:"strikes,omitempty"`
}

type strikeFile struct {
	W     int    `yaml:"w"`
	H     int    `yaml:"h"`
	Color string `yaml:"color,omitempty"`
}

// ParseRuleTable decodes a rule table. Malformed entries are skipped and
// counted; a document that fails to decode, or that has no usable entry,
// is an error.
func ParseRuleTable(data []byte) (*RuleTable, int, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, 0, err
	}

	t := NewRuleTable()
	if f.Version != "" {
		t.Version = f.Version
	}
	t.Description = f.Description

	skipped := 0
	for _, r := range f.Rules {
		k, out, err := r.decode()
		if err != nil {
			skipped++
			continue
		}
		t.Set(k, out)
	}
	if t.Len() == 0 {
		return nil, skipped, ErrNoRules
	}
	return t, skipped, nil
}

func (r ruleFile) decode() (Key, Output, error) {
	k, err := ParseKey(r.Key)
	if err != nil {
		return Key{}, Output{}, err
	}
	if r.Garbage < 0 {
		return Key{}, Output{}, fmt.Errorf("negative garbage %d", r.Garbage)
	}
	out := Output{GarbageUnits: r.Garbage}
	for _, s := range r.Strikes {
		if s.W <= 0 || s.H <= 0 {
			return Key{}, Output{}, fmt.Errorf("bad strike %dx%d", s.W, s.H)
		}
		c, err := core.ParseColor(s.Color)
		if err != nil {
			return Key{}, Output{}, err
		}
		out.Strikes = append(out.Strikes, StrikeSpec{Width: s.W, Height: s.H, Color: c})
	}
	return k, out, nil
}

// LoadRuleTable reads a rule table from path. Every failure is a *LoadError.
func LoadRuleTable(path string) (*RuleTable, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, &LoadError{Path: path, Err: err}
	}
	t, skipped, err := ParseRuleTable(data)
	if err != nil {
		return nil, skipped, &LoadError{Path: path, Err: err}
	}
	return t, skipped, nil
}

// Marshal encodes the table as YAML with rules in key order.
func (t *RuleTable) Marshal() ([]byte, error) {
	f := tableFile{Version: t.Version, Description: t.Description}
	for _, k := range t.Keys() {
		out := t.rules[k]
		r := ruleFile{Key: k, Garbage: out.GarbageUnits}
		for _, s := range out.Strikes {
			sf := strikeFile{W: s.Width, H: s.Height}
			if s.Color != core.ColorNone {
				sf.Color = s.Color.String()
			}
			r.Strikes = append(r.Strikes, sf)
		}
		f.Rules = append(f.Rules, r)
	}
	return yaml.Marshal(&f)
}

// Save writes the table to path, creating parent directories.
func (t *RuleTable) Save(path string) error {
	data, err := t.Marshal()
	if err != nil {
		return fmt.Errorf("attack: encode rule table: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("attack: create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //#nosec G306 -- rule tables are not secret
		return fmt.Errorf("attack: write rule table: %w", err)
	}
	return nil
}
