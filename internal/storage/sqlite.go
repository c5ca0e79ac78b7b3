// Package storage provides SQLite-based persistence for finished matches and
// their replays. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a match or replay does not exist.
var ErrNotFound = errors.New("storage: not found")

// replayFormat tags the replays.data column.
const replayFormat = "yaml+zstd"

// Store manages the SQLite database connection.
type Store struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// SideRecord holds one side's bot and totals.
type SideRecord struct {
	Bot         string
	Passes      int
	MaxChain    int
	CellsBroken int
	GarbageSent int
	StrikesSent int
}

// MatchRecord is one stored match.
type MatchRecord struct {
	ID        string
	Seed      int64
	Winner    string // "A", "B" or "draw"
	Reason    string
	Ticks     uint64
	Sides     [2]SideRecord
	CreatedAt time.Time
}

// Replay is a stored command log with the config it was played under.
type Replay struct {
	MatchID string
	Config  []byte // duel config YAML
	Log     []byte // match replay YAML
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: zstd decoder: %w", err)
	}

	store := &Store{db: db, enc: enc, dec: dec}

	if err := store.migrate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			winner TEXT NOT NULL,
			reason TEXT NOT NULL,
			ticks INTEGER NOT NULL,
			side_a_bot TEXT NOT NULL,
			side_b_bot TEXT NOT NULL,
			a_passes INTEGER NOT NULL DEFAULT 0,
			a_max_chain INTEGER NOT NULL DEFAULT 0,
			a_cells_broken INTEGER NOT NULL DEFAULT 0,
			a_garbage_sent INTEGER NOT NULL DEFAULT 0,
			a_strikes_sent INTEGER NOT NULL DEFAULT 0,
			b_passes INTEGER NOT NULL DEFAULT 0,
			b_max_chain INTEGER NOT NULL DEFAULT 0,
			b_cells_broken INTEGER NOT NULL DEFAULT 0,
			b_garbage_sent INTEGER NOT NULL DEFAULT 0,
			b_strikes_sent INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at DESC);

		CREATE TABLE IF NOT EXISTS replays (
			match_id TEXT PRIMARY KEY REFERENCES matches(id) ON DELETE CASCADE,
			format TEXT NOT NULL,
			config BLOB NOT NULL,
			data BLOB NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.enc != nil {
		s.enc.Close()
	}
	if s.dec != nil {
		s.dec.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch stores a finished match. A record without an ID gets a fresh
// UUID; the ID used is returned.
func (s *Store) SaveMatch(r MatchRecord) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	a, b := r.Sides[0], r.Sides[1]
	_, err := s.db.Exec(
		`INSERT INTO matches
		 (id, seed, winner, reason, ticks, side_a_bot, side_b_bot,
		  a_passes, a_max_chain, a_cells_broken, a_garbage_sent, a_strikes_sent,
		  b_passes, b_max_chain, b_cells_broken, b_garbage_sent, b_strikes_sent)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Seed, r.Winner, r.Reason, int64(r.Ticks), a.Bot, b.Bot, //#nosec G115 -- tick counts fit in int64
		a.Passes, a.MaxChain, a.CellsBroken, a.GarbageSent, a.StrikesSent,
		b.Passes, b.MaxChain, b.CellsBroken, b.GarbageSent, b.StrikesSent,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save match: %w", err)
	}
	return r.ID, nil
}

const matchColumns = `id, seed, winner, reason, ticks, side_a_bot, side_b_bot,
		  a_passes, a_max_chain, a_cells_broken, a_garbage_sent, a_strikes_sent,
		  b_passes, b_max_chain, b_cells_broken, b_garbage_sent, b_strikes_sent,
		  created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (MatchRecord, error) {
	var r MatchRecord
	var ticks int64
	var createdAt any
	a, b := &r.Sides[0], &r.Sides[1]
	err := row.Scan(
		&r.ID, &r.Seed, &r.Winner, &r.Reason, &ticks, &a.Bot, &b.Bot,
		&a.Passes, &a.MaxChain, &a.CellsBroken, &a.GarbageSent, &a.StrikesSent,
		&b.Passes, &b.MaxChain, &b.CellsBroken, &b.GarbageSent, &b.StrikesSent,
		&createdAt,
	)
	if err != nil {
		return r, err
	}
	r.Ticks = uint64(max(0, ticks)) //#nosec G115 -- clamped to non-negative

	// Parse the datetime - handle both time.Time and string
	switch v := createdAt.(type) {
	case time.Time:
		r.CreatedAt = v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			r.CreatedAt = parsed
		}
	}
	return r, nil
}

// Match retrieves a match by its ID.
func (s *Store) Match(id string) (MatchRecord, error) {
	r, err := scanMatch(s.db.QueryRow(
		`SELECT `+matchColumns+` FROM matches WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("%w: match %s", ErrNotFound, id)
	}
	if err != nil {
		return r, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return r, nil
}

// RecentMatches retrieves the most recent matches, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM matches
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		r, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// SaveReplay stores a match's config and command log, compressed.
func (s *Store) SaveReplay(r Replay) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO replays (match_id, format, config, data) VALUES (?, ?, ?, ?)`,
		r.MatchID, replayFormat,
		s.enc.EncodeAll(r.Config, nil),
		s.enc.EncodeAll(r.Log, nil),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save replay: %w", err)
	}
	return nil
}

// LoadReplay retrieves and decompresses a match's replay.
func (s *Store) LoadReplay(matchID string) (Replay, error) {
	r := Replay{MatchID: matchID}
	var format string
	var cfg, data []byte
	err := s.db.QueryRow(
		`SELECT format, config, data FROM replays WHERE match_id = ?`, matchID,
	).Scan(&format, &cfg, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("%w: replay for %s", ErrNotFound, matchID)
	}
	if err != nil {
		return r, fmt.Errorf("storage: cannot query replay: %w", err)
	}
	if format != replayFormat {
		return r, fmt.Errorf("storage: replay %s has unknown format %q", matchID, format)
	}

	if r.Config, err = s.dec.DecodeAll(cfg, nil); err != nil {
		return r, fmt.Errorf("storage: decompress replay config: %w", err)
	}
	if r.Log, err = s.dec.DecodeAll(data, nil); err != nil {
		return r, fmt.Errorf("storage: decompress replay: %w", err)
	}
	return r, nil
}

// BotStats is the record of one bot across stored matches.
type BotStats struct {
	Bot    string
	Played int
	Won    int
	Drawn  int
}

// GetBotStats aggregates wins per bot over every stored match.
func (s *Store) GetBotStats() ([]BotStats, error) {
	rows, err := s.db.Query(
		`SELECT bot, COUNT(*), SUM(won), SUM(drawn) FROM (
			SELECT side_a_bot AS bot, winner = 'A' AS won, winner = 'draw' AS drawn FROM matches
			UNION ALL
			SELECT side_b_bot AS bot, winner = 'B' AS won, winner = 'draw' AS drawn FROM matches
		 )
		 GROUP BY bot
		 ORDER BY bot`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get bot stats: %w", err)
	}
	defer rows.Close()

	var stats []BotStats
	for rows.Next() {
		var b BotStats
		if err := rows.Scan(&b.Bot, &b.Played, &b.Won, &b.Drawn); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats = append(stats, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
