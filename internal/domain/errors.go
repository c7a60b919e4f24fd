package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure, with no infrastructure dependency. None of them are
// fatal: the engine degrades to a safe default and the boundary reports why.

var (
	// Allocation errors
	ErrInvalidAllocation = errors.New("allocation must be six values in [0,30] summing to 30")
	ErrUnknownTemplate   = errors.New("unknown status template")

	// Resource errors
	ErrInsufficientHearts = errors.New("no hearts left")
	ErrInsufficientStars  = errors.New("no stars left")

	// XP errors
	ErrNonPositiveXP   = errors.New("xp amount must be positive")
	ErrXPGrantTooLarge = errors.New("xp amount exceeds the per-grant limit")
	ErrUnknownStrategy = errors.New("unknown xp strategy")
	ErrInvalidRank     = errors.New("invalid question rank")

	// Persistence errors
	ErrSnapshotNotFound = errors.New("no saved progression snapshot")
	ErrCorruptSnapshot  = errors.New("saved progression snapshot is corrupt")

	// Configuration errors
	ErrInvalidTuning = errors.New("invalid economy tuning")
)
