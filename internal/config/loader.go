package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadDuel loads the duel configuration and validates it.
// Search order: customPath -> ~/.blockduel/configs/duel.yaml -> ./configs/duel.yaml -> embedded default
//
// Files are decoded over the defaults, so a file only needs the keys it changes.
func LoadDuel(customPath string) (DuelConfig, error) {
	cfg, err := loadDuel(customPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadDuel(customPath string) (DuelConfig, error) {
	// Try custom path first
	if customPath != "" {
		cfg := DefaultDuelConfig()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("duel.yaml"); userCfgPath != "" {
		if cfg, ok := decodeFile(userCfgPath); ok {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, ok := decodeFile(filepath.Join("configs", "duel.yaml")); ok {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg := DefaultDuelConfig()
	if err := yaml.Unmarshal(defaultDuelYAML, &cfg); err != nil {
		return DefaultDuelConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func decodeFile(path string) (DuelConfig, bool) {
	cfg := DefaultDuelConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".blockduel", "configs", filename)
}

// ParseDuel decodes YAML over the defaults and validates the result.
// Stored replays carry their config this way.
func ParseDuel(data []byte) (DuelConfig, error) {
	cfg := DefaultDuelConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Marshal encodes the config as YAML.
func (c DuelConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(&c)
}
