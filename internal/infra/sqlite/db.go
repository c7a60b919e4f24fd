// Package sqlite provides SQLite-based persistent storage for lingo.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
// It implements domain.SnapshotStore and domain.XPLedger.
type DB struct {
	db   *sql.DB
	path string
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, a 5-second busy timeout and runs migrations.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	d := &DB{db: db, path: dbPath}
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
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Path returns the database file location.
func (d *DB) Path() string { return d.path }

// applyPragmas configures SQLite for a single local writer. The pool holds
// one connection, so these stick for the lifetime of the DB.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Serialized progression snapshots, one row per profile key.
		`CREATE TABLE IF NOT EXISTS profile_state (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,

		// Append-only XP history
		`CREATE TABLE IF NOT EXISTS xp_ledger (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			timestamp  INTEGER NOT NULL,
			source     TEXT NOT NULL,
			strategy   TEXT NOT NULL DEFAULT '',
			rank       TEXT NOT NULL DEFAULT '',
			amount     INTEGER NOT NULL,
			total_xp   INTEGER NOT NULL,
			level      INTEGER NOT NULL,
			leveled_up BOOLEAN DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_xp_ledger_ts ON xp_ledger(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_xp_ledger_session ON xp_ledger(session_id)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
