package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lingo-quest/lingo/internal/domain"
)

// ─── Profile Snapshots ──────────────────────────────────────────────────────

// SaveSnapshot stores a serialized snapshot under key, replacing any
// previous value.
func (d *DB) SaveSnapshot(ctx context.Context, key string, blob []byte) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO profile_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, string(blob), time.Now().UnixMilli(),
	)
	return err
}

// LoadSnapshot retrieves the snapshot stored under key.
// Returns domain.ErrSnapshotNotFound if the key was never written.
func (d *DB) LoadSnapshot(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := d.db.QueryRowContext(ctx,
		`SELECT value FROM profile_state WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// SnapshotUpdatedAt returns when key was last written, zero if never.
func (d *DB) SnapshotUpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var ms int64
	err := d.db.QueryRowContext(ctx,
		`SELECT updated_at FROM profile_state WHERE key = ?`, key,
	).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

// ─── XP Ledger ──────────────────────────────────────────────────────────────

// AppendXPEntry adds an XP award to the ledger and returns its row id.
func (d *DB) AppendXPEntry(ctx context.Context, e domain.XPEntry) (int64, error) {
	result, err := d.db.ExecContext(ctx,
		`INSERT INTO xp_ledger (session_id, timestamp, source, strategy, rank, amount, total_xp, level, leveled_up)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Timestamp.UnixMilli(), string(e.Source), e.Strategy, string(e.Rank),
		e.Amount, e.TotalXP, e.Level, e.LeveledUp,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListXPEntries returns the most recent ledger entries, newest first.
// A non-positive limit returns everything.
func (d *DB) ListXPEntries(ctx context.Context, limit int) ([]domain.XPEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, session_id, timestamp, source, strategy, rank, amount, total_xp, level, leveled_up
		 FROM xp_ledger ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.XPEntry
	for rows.Next() {
		var e domain.XPEntry
		var ts int64
		var source, rank string
		err := rows.Scan(&e.ID, &e.SessionID, &ts, &source, &e.Strategy, &rank,
			&e.Amount, &e.TotalXP, &e.Level, &e.LeveledUp)
		if err != nil {
			return nil, err
		}
		e.Timestamp = time.UnixMilli(ts)
		e.Source = domain.XPSource(source)
		e.Rank = domain.Rank(rank)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// TotalXPAwarded sums every ledger amount.
func (d *DB) TotalXPAwarded(ctx context.Context) (int64, error) {
	var total sql.NullInt64
	err := d.db.QueryRowContext(ctx, `SELECT SUM(amount) FROM xp_ledger`).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}
