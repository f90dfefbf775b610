// Package sqlite provides SQLite-based persistent storage for Konekt.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
// It implements domain.GamificationStore, domain.NotificationStore and
// domain.DraftStore.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/konekt.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "konekt.db")
	dsn := "file:" + dbPath +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Durable stats record, one row per user
		`CREATE TABLE IF NOT EXISTS users (
			id               TEXT PRIMARY KEY,
			connections      INTEGER NOT NULL DEFAULT 0,
			messages         INTEGER NOT NULL DEFAULT 0,
			projects         INTEGER NOT NULL DEFAULT 0,
			events           INTEGER NOT NULL DEFAULT 0,
			profile_views    INTEGER NOT NULL DEFAULT 0,
			early_adopter    BOOLEAN NOT NULL DEFAULT 0,
			profile_complete BOOLEAN NOT NULL DEFAULT 0,
			last_level       INTEGER NOT NULL DEFAULT 1,
			created_at       INTEGER NOT NULL
		)`,

		// Login days ("2006-01-02"), one row per user per day
		`CREATE TABLE IF NOT EXISTS logins (
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			day     TEXT NOT NULL,
			PRIMARY KEY (user_id, day)
		)`,

		// Achievement unlocks; unlocked_at is written once
		`CREATE TABLE IF NOT EXISTS achievement_unlocks (
			user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			achievement_id TEXT NOT NULL,
			unlocked_at    INTEGER NOT NULL,
			PRIMARY KEY (user_id, achievement_id)
		)`,

		// Current daily challenge set per user (JSON payload)
		`CREATE TABLE IF NOT EXISTS challenge_sets (
			user_id    TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			day        TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			challenges TEXT NOT NULL
		)`,

		// Notification log (policy: max per day, quiet hours)
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			shown      BOOLEAN DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notif_user_created ON notifications(user_id, created_at)`,

		// Registration drafts; step payloads stored as JSON
		`CREATE TABLE IF NOT EXISTS registration_drafts (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			stage      TEXT NOT NULL,
			account    TEXT,
			profile    TEXT,
			interests  TEXT,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_user ON registration_drafts(user_id)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
