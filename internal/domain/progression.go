// Package domain holds the progression engine types.
// Everything here is plain data shared by the engine, the profile service,
// persistence and the HTTP/CLI surfaces. JSON tags follow the snapshot format
// the UI has always written to local storage.
package domain

import "time"

// ─── Level ──────────────────────────────────────────────────────────────────

// Level is the learner's position on the 100-level curve, derived from XP.
type Level struct {
	Level    int     `json:"level"`
	Chapter  int     `json:"chapter"`
	XP       int64   `json:"xp"`
	XPToNext int64   `json:"xpToNext"`
	Progress float64 `json:"progress"` // 0–100 within the current level
}

// LevelUp reports the outcome of adding XP. NewLevel is set only when
// LeveledUp is true.
type LevelUp struct {
	LeveledUp bool   `json:"leveledUp"`
	NewLevel  *Level `json:"newLevel,omitempty"`
}

// ─── Resource Pools ─────────────────────────────────────────────────────────

// PoolKind names one of the two regenerating currencies.
type PoolKind string

const (
	PoolHearts PoolKind = "hearts"
	PoolStars  PoolKind = "stars"
)

// ResourcePool is a capped, time-regenerating counter.
// Invariant: 0 <= Current <= Max.
type ResourcePool struct {
	Current          int   `json:"current"`
	Max              int   `json:"max"`
	LastRecoveryTime int64 `json:"lastRecoveryTime"` // epoch milliseconds
}

// Full reports whether the pool is at capacity.
func (p ResourcePool) Full() bool { return p.Current >= p.Max }

// Anchor returns LastRecoveryTime as a time.Time.
func (p ResourcePool) Anchor() time.Time { return time.UnixMilli(p.LastRecoveryTime) }

// ─── Ranks & Skill Fields ───────────────────────────────────────────────────

// Rank is a question's scarcity/reward tier.
type Rank string

const (
	RankNormal    Rank = "normal"
	RankRare      Rank = "rare"
	RankEpic      Rank = "epic"
	RankLegendary Rank = "legendary"
)

// AllRanks returns every rank from most to least common.
func AllRanks() []Rank {
	return []Rank{RankNormal, RankRare, RankEpic, RankLegendary}
}

// Valid reports whether r is a known rank.
func (r Rank) Valid() bool {
	switch r {
	case RankNormal, RankRare, RankEpic, RankLegendary:
		return true
	}
	return false
}

// DisplayName returns a human-readable label for the rank.
func (r Rank) DisplayName() string {
	switch r {
	case RankNormal:
		return "Normal"
	case RankRare:
		return "Rare"
	case RankEpic:
		return "Epic"
	case RankLegendary:
		return "Legendary"
	default:
		return string(r)
	}
}

// SkillField is a practice category weighted by the allocation vector.
type SkillField string

const (
	FieldListening  SkillField = "listening"
	FieldReading    SkillField = "reading"
	FieldWriting    SkillField = "writing"
	FieldGrammar    SkillField = "grammar"
	FieldIdioms     SkillField = "idioms"
	FieldVocabulary SkillField = "vocabulary"
)

// AllSkillFields returns the six fields in allocation order.
func AllSkillFields() []SkillField {
	return []SkillField{
		FieldListening, FieldReading, FieldWriting,
		FieldGrammar, FieldIdioms, FieldVocabulary,
	}
}

// ─── Status Allocation ──────────────────────────────────────────────────────

// AllocationPoints is the exact number of points a valid allocation distributes.
const AllocationPoints = 30

// StatusAllocation is the user-tunable 30-point weight vector.
type StatusAllocation struct {
	Listening  int `json:"listening"`
	Reading    int `json:"reading"`
	Writing    int `json:"writing"`
	Grammar    int `json:"grammar"`
	Idioms     int `json:"idioms"`
	Vocabulary int `json:"vocabulary"`
}

// Weights returns the six values in AllSkillFields order.
func (a StatusAllocation) Weights() [6]int {
	return [6]int{a.Listening, a.Reading, a.Writing, a.Grammar, a.Idioms, a.Vocabulary}
}

// Sum returns the total points allocated.
func (a StatusAllocation) Sum() int {
	total := 0
	for _, w := range a.Weights() {
		total += w
	}
	return total
}

// Valid reports whether every value is within [0,30] and the sum is exactly 30.
func (a StatusAllocation) Valid() bool {
	for _, w := range a.Weights() {
		if w < 0 || w > AllocationPoints {
			return false
		}
	}
	return a.Sum() == AllocationPoints
}

// Get returns the weight for one field.
func (a StatusAllocation) Get(f SkillField) int {
	switch f {
	case FieldListening:
		return a.Listening
	case FieldReading:
		return a.Reading
	case FieldWriting:
		return a.Writing
	case FieldGrammar:
		return a.Grammar
	case FieldIdioms:
		return a.Idioms
	case FieldVocabulary:
		return a.Vocabulary
	}
	return 0
}

// ─── Answers & Sessions ─────────────────────────────────────────────────────

// Difficulty grades a plain quiz question for the legacy XP formula.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Answer is one completed question. Difficulty and Category are only read by
// the legacy formula.
type Answer struct {
	QuestionID string     `json:"questionId"`
	IsCorrect  bool       `json:"isCorrect"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Category   SkillField `json:"category,omitempty"`
}

// ─── Snapshot ───────────────────────────────────────────────────────────────

// Snapshot is the unit of persistence and restore.
type Snapshot struct {
	Level            Level            `json:"level"`
	HeartSystem      ResourcePool     `json:"heartSystem"`
	StarSystem       ResourcePool     `json:"starSystem"`
	StatusAllocation StatusAllocation `json:"statusAllocation"`
}

// ─── XP History ─────────────────────────────────────────────────────────────

// XPSource categorizes how XP was earned.
type XPSource string

const (
	XPSession     XPSource = "SESSION"
	XPManual      XPSource = "MANUAL"
	XPAchievement XPSource = "ACHIEVEMENT"
)

// XPEntry is one row of the XP ledger.
type XPEntry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
	Source    XPSource  `json:"source"`
	Strategy  string    `json:"strategy,omitempty"`
	Rank      Rank      `json:"rank,omitempty"`
	Amount    int64     `json:"amount"`
	TotalXP   int64     `json:"totalXp"`
	Level     int       `json:"level"`
	LeveledUp bool      `json:"leveledUp"`
}

// ─── Study Streak ───────────────────────────────────────────────────────────

// StudyStreak counts consecutive calendar days with at least one completed
// session. One missed day per ISO week is forgiven by a freeze.
type StudyStreak struct {
	CurrentDays   int       `json:"currentDays"`
	LongestDays   int       `json:"longestDays"`
	LastDate      time.Time `json:"lastDate"`
	FreezeUsed    bool      `json:"freezeUsed"`
	FreezeWeekISO string    `json:"freezeWeek,omitempty"`
}

// ─── Next Question ──────────────────────────────────────────────────────────

// Question is the classification handed to the content layer for the next
// question: its rank, practice field and the chapter it was drawn for.
type Question struct {
	Rank       Rank       `json:"rank"`
	SkillField SkillField `json:"skillField"`
	Chapter    int        `json:"chapter"`
}
