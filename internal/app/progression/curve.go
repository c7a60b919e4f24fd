// Package progression implements the progression and resource-economy engine:
// the 100-level XP curve grouped into chapters, the regenerating heart and
// star pools, the rank and skill-field selector, the two XP formulas, and the
// Manager façade that owns one learner's state.
//
// Everything except Manager is pure. Manager serializes its own mutation.
package progression

import "github.com/lingo-quest/lingo/internal/domain"

// ChapterFromLevel returns the chapter for a level using the default tuning.
func ChapterFromLevel(level int) int { return defaultTuning.ChapterFromLevel(level) }

// LevelFromXP maps cumulative XP to a Level using the default tuning.
func LevelFromXP(totalXP int64) domain.Level { return defaultTuning.LevelFromXP(totalXP) }

// ChapterFromLevel returns 1 + (level-1)/levelsPerChapter, clamped to the
// configured chapter range.
func (t *Tuning) ChapterFromLevel(level int) int {
	if level < 1 {
		level = 1
	}
	ch := 1 + (level-1)/t.LevelsPerChapter
	if n := t.chapterCount(); ch > n {
		ch = n
	}
	return ch
}

// XPRequiredForLevel returns the XP needed to clear the given level,
// a step function of its chapter.
func (t *Tuning) XPRequiredForLevel(level int) int64 {
	return t.ChapterCosts[t.ChapterFromLevel(level)-1]
}

// TotalXPForLevel returns the cumulative XP at which level is reached.
func (t *Tuning) TotalXPForLevel(level int) int64 {
	switch {
	case level <= 1:
		return 0
	case level > t.MaxLevel:
		level = t.MaxLevel
	}
	return t.thresholds[level]
}

// LevelFromXP walks the curve and returns the highest level whose cumulative
// threshold does not exceed totalXP. Negative XP is treated as zero.
// At the top level progress is pinned at 100 and XPToNext at 0.
func (t *Tuning) LevelFromXP(totalXP int64) domain.Level {
	if totalXP < 0 {
		totalXP = 0
	}

	level := 1
	for level < t.MaxLevel && t.thresholds[level+1] <= totalXP {
		level++
	}

	out := domain.Level{
		Level:   level,
		Chapter: t.ChapterFromLevel(level),
		XP:      totalXP,
	}
	if level >= t.MaxLevel {
		out.Progress = 100
		return out
	}

	cost := t.XPRequiredForLevel(level)
	into := totalXP - t.thresholds[level]
	out.XPToNext = cost - into
	out.Progress = float64(into) / float64(cost) * 100
	return out
}
