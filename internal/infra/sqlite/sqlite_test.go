package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lingo-quest/lingo/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ─── Database Lifecycle ─────────────────────────────────────────────────────

func TestOpen_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dir, "state.db")); os.IsNotExist(err) {
		t.Error("state.db should exist")
	}
	if db.Path() != filepath.Join(dir, "state.db") {
		t.Errorf("Path() = %q", db.Path())
	}
}

func TestOpen_Ping(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
}

func TestOpen_WALMode(t *testing.T) {
	db := newTestDB(t)
	var mode string
	if err := db.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSnapshot(ctx, "default", []byte(`{"level":{"xp":7}}`)); err != nil {
		t.Fatal(err)
	}
	db.Close()

	// Migrations are idempotent and data survives.
	db, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	blob, err := db.LoadSnapshot(ctx, "default")
	if err != nil {
		t.Fatal(err)
	}
	if string(blob) != `{"level":{"xp":7}}` {
		t.Errorf("blob = %s", blob)
	}
}

// ─── Profile Snapshots ──────────────────────────────────────────────────────

func TestLoadSnapshot_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.LoadSnapshot(context.Background(), "nobody")
	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Errorf("err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestSaveSnapshot_Overwrites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	for _, v := range []string{"first", "second"} {
		if err := db.SaveSnapshot(ctx, "default", []byte(v)); err != nil {
			t.Fatalf("SaveSnapshot(%s): %v", v, err)
		}
	}

	blob, err := db.LoadSnapshot(ctx, "default")
	if err != nil {
		t.Fatal(err)
	}
	if string(blob) != "second" {
		t.Errorf("blob = %q, want second", blob)
	}

	at, err := db.SnapshotUpdatedAt(ctx, "default")
	if err != nil {
		t.Fatal(err)
	}
	if at.Before(before) {
		t.Errorf("updated_at %v is before the write", at)
	}
}

func TestSnapshot_KeysAreIndependent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	db.SaveSnapshot(ctx, "alice", []byte("a"))
	db.SaveSnapshot(ctx, "bob", []byte("b"))
	db.SaveSnapshot(ctx, "alice", []byte("a2"))

	if blob, err := db.LoadSnapshot(ctx, "alice"); err != nil || string(blob) != "a2" {
		t.Errorf("alice = %q, %v", blob, err)
	}
	if blob, err := db.LoadSnapshot(ctx, "bob"); err != nil || string(blob) != "b" {
		t.Errorf("bob = %q, %v", blob, err)
	}
	if at, _ := db.SnapshotUpdatedAt(ctx, "carol"); !at.IsZero() {
		t.Errorf("unwritten key has updated_at %v", at)
	}
}

// ─── XP Ledger ──────────────────────────────────────────────────────────────

func TestXPLedger_AppendAndList(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ts := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	entries := []domain.XPEntry{
		{SessionID: "s1", Timestamp: ts, Source: domain.XPSession, Strategy: "ranked", Rank: domain.RankRare, Amount: 12, TotalXP: 12, Level: 1},
		{SessionID: "s2", Timestamp: ts.Add(time.Minute), Source: domain.XPManual, Amount: 40, TotalXP: 52, Level: 2, LeveledUp: true},
		{SessionID: "s3", Timestamp: ts.Add(2 * time.Minute), Source: domain.XPSession, Strategy: "legacy", Amount: 85, TotalXP: 137, Level: 3, LeveledUp: true},
	}
	for i, e := range entries {
		id, err := db.AppendXPEntry(ctx, e)
		if err != nil {
			t.Fatalf("AppendXPEntry(%d): %v", i, err)
		}
		if id != int64(i+1) {
			t.Errorf("id = %d, want %d", id, i+1)
		}
	}

	got, err := db.ListXPEntries(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].SessionID != "s3" || got[1].SessionID != "s2" {
		t.Errorf("order = %s, %s; want newest first", got[0].SessionID, got[1].SessionID)
	}
	if !got[1].LeveledUp || got[1].Source != domain.XPManual || got[1].Level != 2 {
		t.Errorf("entry s2 = %+v", got[1])
	}
	if !got[0].Timestamp.Equal(ts.Add(2 * time.Minute)) {
		t.Errorf("timestamp = %v", got[0].Timestamp)
	}

	all, err := db.ListXPEntries(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("unbounded list len = %d, want 3", len(all))
	}
	if all[2].Rank != domain.RankRare || all[2].Strategy != "ranked" {
		t.Errorf("oldest entry = %+v", all[2])
	}

	total, err := db.TotalXPAwarded(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 137 {
		t.Errorf("TotalXPAwarded = %d, want 137", total)
	}
}

func TestXPLedger_Empty(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	got, err := db.ListXPEntries(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
	if total, err := db.TotalXPAwarded(ctx); err != nil || total != 0 {
		t.Errorf("TotalXPAwarded = %d, %v", total, err)
	}
}

// Compile-time checks that DB satisfies the domain ports.
var (
	_ domain.SnapshotStore = (*DB)(nil)
	_ domain.XPLedger      = (*DB)(nil)
)
