// Package storage provides SQLite-based persistence for save slots and the
// history of universe collapses.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/game"
	"github.com/vovakirdan/cosmic-clicker/internal/savefile"
)

// ErrNoSave is returned when a slot has never been saved.
var ErrNoSave = errors.New("storage: no save in slot")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SaveSummary describes one save slot without decoding it.
type SaveSummary struct {
	Slot        string
	Epoch       int
	Essence     float64
	TotalClicks int
	UpdatedAt   time.Time
}

// CollapseEntry is one recorded prestige.
type CollapseEntry struct {
	ID             int64
	Slot           string
	EssenceGained  float64
	TotalStarsEver float64
	TotalEssence   float64
	CreatedAt      time.Time
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

	// Create parent directories
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

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS saves (
			slot TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			epoch INTEGER NOT NULL DEFAULT 0,
			essence REAL NOT NULL DEFAULT 0,
			total_clicks INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS collapses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slot TEXT NOT NULL,
			essence_gained REAL NOT NULL,
			total_stars REAL NOT NULL,
			total_essence REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_collapses_slot ON collapses(slot);
		CREATE INDEX IF NOT EXISTS idx_collapses_top ON collapses(slot, essence_gained DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame writes the state into slot, replacing any previous save.
func (s *Store) SaveGame(slot string, st game.State) error {
	data, err := savefile.Encode(st)
	if err != nil {
		return fmt.Errorf("storage: cannot encode save: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO saves (slot, state, epoch, essence, total_clicks, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET
		   state = excluded.state,
		   epoch = excluded.epoch,
		   essence = excluded.essence,
		   total_clicks = excluded.total_clicks,
		   updated_at = CURRENT_TIMESTAMP`,
		slot, string(data), st.CurrentEpochIndex, st.CosmicEssence, st.TotalClicks,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save game: %w", err)
	}
	return nil
}

// LoadGame reads and validates the state in slot. lastTick is set to now.
// Returns ErrNoSave if the slot is empty.
func (s *Store) LoadGame(cat *config.Catalog, slot string, now int64) (game.State, error) {
	var data string
	err := s.db.QueryRow("SELECT state FROM saves WHERE slot = ?", slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return game.State{}, ErrNoSave
	}
	if err != nil {
		return game.State{}, fmt.Errorf("storage: cannot query save: %w", err)
	}

	st, err := savefile.Decode(cat, []byte(data), now)
	if err != nil {
		return game.State{}, fmt.Errorf("storage: slot %s: %w", slot, err)
	}
	return st, nil
}

// ListSaves returns every slot, most recently saved first.
func (s *Store) ListSaves() ([]SaveSummary, error) {
	rows, err := s.db.Query(
		`SELECT slot, epoch, essence, total_clicks, updated_at
		 FROM saves
		 ORDER BY updated_at DESC, slot`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var saves []SaveSummary
	for rows.Next() {
		var sum SaveSummary
		var updatedAt any
		if err := rows.Scan(&sum.Slot, &sum.Epoch, &sum.Essence, &sum.TotalClicks, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sum.UpdatedAt = parseTime(updatedAt)
		saves = append(saves, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return saves, nil
}

// DeleteSave removes a slot. Collapse history is kept.
func (s *Store) DeleteSave(slot string) error {
	_, err := s.db.Exec("DELETE FROM saves WHERE slot = ?", slot)
	if err != nil {
		return fmt.Errorf("storage: cannot delete save: %w", err)
	}
	return nil
}

// RecordCollapse stores one prestige. Returns the ID of the inserted record.
func (s *Store) RecordCollapse(e CollapseEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO collapses (slot, essence_gained, total_stars, total_essence)
		 VALUES (?, ?, ?, ?)`,
		e.Slot, e.EssenceGained, e.TotalStarsEver, e.TotalEssence,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record collapse: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopCollapses returns the largest collapses, for one slot or for all slots
// when slot is empty. Results are ordered by essence gained descending.
func (s *Store) TopCollapses(slot string, limit int) ([]CollapseEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, slot, essence_gained, total_stars, total_essence, created_at
		 FROM collapses
		 WHERE ? = '' OR slot = ?
		 ORDER BY essence_gained DESC, id
		 LIMIT ?`,
		slot, slot, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query collapses: %w", err)
	}
	defer rows.Close()

	var entries []CollapseEntry
	for rows.Next() {
		var e CollapseEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Slot, &e.EssenceGained, &e.TotalStarsEver, &e.TotalEssence, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// CollapseStats contains aggregated prestige statistics for a slot.
type CollapseStats struct {
	Slot         string
	Count        int
	TotalEssence float64
	BestCollapse float64
	LastCollapse time.Time
}

// GetCollapseStats aggregates the collapse history of a slot.
func (s *Store) GetCollapseStats(slot string) (*CollapseStats, error) {
	stats := &CollapseStats{Slot: slot}
	var last any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(essence_gained), 0), COALESCE(MAX(essence_gained), 0), MAX(created_at)
		 FROM collapses WHERE slot = ?`,
		slot,
	).Scan(&stats.Count, &stats.TotalEssence, &stats.BestCollapse, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get collapse stats: %w", err)
	}
	stats.LastCollapse = parseTime(last)
	return stats, nil
}

// parseTime handles DATETIME columns, which the driver returns either as
// time.Time or as text.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
