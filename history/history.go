// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: history/history.go
// Summary: SQLite-backed usage history with frecency scoring.
//
// One row per entry id: how often it was launched and when it was launched
// last. Frecency decays the raw count by the age of the last launch so a
// once-loved app drifts down the list instead of squatting on top forever.

package history

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS usage (
    entry_id  TEXT PRIMARY KEY,
    count     INTEGER NOT NULL DEFAULT 0,
    last_used INTEGER NOT NULL DEFAULT 0
);
`

// DefaultHalfLife is the decay half-life applied to usage counts.
const DefaultHalfLife = 30 * 24 * time.Hour

// Store records launches and computes frecency scores.
type Store struct {
	mu       sync.Mutex
	db       *sql.DB
	halfLife time.Duration
	now      func() time.Time
}

// Open creates or opens the usage database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &Store{db: db, halfLife: DefaultHalfLife, now: time.Now}, nil
}

// Record notes one launch of the given entry.
func (s *Store) Record(entryID string) error {
	if entryID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO usage (entry_id, count, last_used) VALUES (?, 1, ?)
		ON CONFLICT(entry_id) DO UPDATE SET
			count = count + 1,
			last_used = excluded.last_used
	`, entryID, s.now().Unix())
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// Frecency returns the decayed usage score for an entry. Unknown entries
// score zero. The score halves every halfLife since the last launch.
func (s *Store) Frecency(entryID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	var lastUsed int64
	err := s.db.QueryRow(
		"SELECT count, last_used FROM usage WHERE entry_id = ?", entryID,
	).Scan(&count, &lastUsed)
	if err != nil {
		return 0
	}

	age := s.now().Sub(time.Unix(lastUsed, 0))
	if age < 0 {
		age = 0
	}
	return float64(count) * math.Exp2(-age.Hours()/s.halfLife.Hours())
}

// Scores returns the frecency of every known entry in one query, for bulk
// ranking at list build time.
func (s *Store) Scores() (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT entry_id, count, last_used FROM usage")
	if err != nil {
		return nil, fmt.Errorf("read usage: %w", err)
	}
	defer rows.Close()

	now := s.now()
	scores := make(map[string]float64)
	for rows.Next() {
		var id string
		var count, lastUsed int64
		if err := rows.Scan(&id, &count, &lastUsed); err != nil {
			continue
		}
		age := now.Sub(time.Unix(lastUsed, 0))
		if age < 0 {
			age = 0
		}
		scores[id] = float64(count) * math.Exp2(-age.Hours()/s.halfLife.Hours())
	}
	return scores, rows.Err()
}

// Prune drops entries unused for longer than maxAge and, if the table still
// exceeds maxEntries, the lowest-scoring surplus.
func (s *Store) Prune(maxEntries int, maxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge).Unix()
	if _, err := s.db.Exec("DELETE FROM usage WHERE last_used < ?", cutoff); err != nil {
		return fmt.Errorf("prune stale usage: %w", err)
	}

	if maxEntries > 0 {
		_, err := s.db.Exec(`
			DELETE FROM usage WHERE entry_id NOT IN (
				SELECT entry_id FROM usage
				ORDER BY count DESC, last_used DESC
				LIMIT ?
			)
		`, maxEntries)
		if err != nil {
			return fmt.Errorf("prune surplus usage: %w", err)
		}
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
