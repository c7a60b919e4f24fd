package domain

import (
	"context"
	"time"
)

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// Clock supplies wall-clock time. Injected so recovery can be tested.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// RNG is a uniform [0,1) source. *math/rand.Rand satisfies it.
type RNG interface {
	Float64() float64
}

// SnapshotStore is a key-value store for serialized progression snapshots.
// LoadSnapshot returns ErrSnapshotNotFound when the key was never written.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, key string) ([]byte, error)
	SaveSnapshot(ctx context.Context, key string, blob []byte) error
}

// SnapshotTimes is implemented by stores that record when each key was
// last written. It returns the zero time for a key never written.
type SnapshotTimes interface {
	SnapshotUpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// XPTotals is implemented by ledgers that can sum every award.
type XPTotals interface {
	TotalXPAwarded(ctx context.Context) (int64, error)
}

// XPLedger is the append-only history of XP awards.
type XPLedger interface {
	AppendXPEntry(ctx context.Context, e XPEntry) (int64, error)
	ListXPEntries(ctx context.Context, limit int) ([]XPEntry, error)
}
