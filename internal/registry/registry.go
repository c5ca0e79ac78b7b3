// Package registry provides a global registry for bot controllers.
// Bots register themselves in init() functions, allowing the CLI and the
// terminal player to offer opponents without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/blockduel/internal/core"
	"github.com/vovakirdan/blockduel/internal/games/duel/engine"
)

// Bot drives one side of a match with the same commands a human issues.
// Bots see only their own side's snapshot.
type Bot interface {
	// ID returns a unique identifier for this bot (e.g., "random").
	// Used for CLI flags and stored match results.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset prepares the bot for a new match. Bots that make random
	// choices seed themselves from seed so matches stay reproducible.
	Reset(seed int64)

	// Commands returns this tick's commands for the given view.
	Commands(view engine.Snapshot) core.InputFrame
}

// BotInfo contains metadata about a registered bot.
type BotInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a bot.
type Factory func() Bot

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a bot factory to the registry.
// Typically called from a bot's init() function.
// Panics if a bot with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: bot %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered bots, sorted by ID.
func List() []BotInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]BotInfo, 0, len(factories))
	for id := range factories {
		result = append(result, BotInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new bot by its ID and resets it with seed.
// Returns an error if the bot ID is not registered.
func Create(id string, seed int64) (Bot, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown bot %q", id)
	}

	b := f()
	b.Reset(seed)
	return b, nil
}

// Exists checks if a bot with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
