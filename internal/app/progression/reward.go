package progression

import (
	"fmt"
	"math"

	"github.com/lingo-quest/lingo/internal/domain"
)

// Strategy names for the two XP formulas.
const (
	StrategyRanked = "ranked"
	StrategyLegacy = "legacy"
)

// SessionResult is what a finished learning session reports back.
// Rank and ComboEligible are read by the ranked formula only.
type SessionResult struct {
	Answers       []domain.Answer
	Rank          domain.Rank
	ComboEligible bool
}

// Calculator turns a finished session into XP. The two implementations are
// deliberately separate reward curves; callers pick one by name.
type Calculator interface {
	Name() string
	SessionXP(res SessionResult, rng domain.RNG) int
}

// CalculatorFor returns the named formula bound to t.
func CalculatorFor(t *Tuning, name string) (Calculator, error) {
	switch name {
	case StrategyRanked:
		return RankedCalculator{tuning: t}, nil
	case StrategyLegacy:
		return LegacyCalculator{cfg: t.Legacy}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, name)
	}
}

// ─── Shared helpers ─────────────────────────────────────────────────────────

// Accuracy returns the fraction of correct answers, 0 for an empty set.
func Accuracy(answers []domain.Answer) float64 {
	if len(answers) == 0 {
		return 0
	}
	return float64(countCorrect(answers)) / float64(len(answers))
}

// LongestStreak returns the longest run of consecutive correct answers.
func LongestStreak(answers []domain.Answer) int {
	best, run := 0, 0
	for _, a := range answers {
		if a.IsCorrect {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

func countCorrect(answers []domain.Answer) int {
	n := 0
	for _, a := range answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// uniformInt draws an integer in [lo, hi].
func uniformInt(lo, hi int, rng domain.RNG) int {
	if hi <= lo {
		return lo
	}
	v := lo + int(rng.Float64()*float64(hi-lo+1))
	if v > hi {
		v = hi
	}
	return v
}

// ─── Ranked formula ─────────────────────────────────────────────────────────

// RankedCalculator is the rank-aware session formula.
type RankedCalculator struct {
	tuning *Tuning
}

// Name implements Calculator.
func (RankedCalculator) Name() string { return StrategyRanked }

// SessionXP implements Calculator.
func (c RankedCalculator) SessionXP(res SessionResult, rng domain.RNG) int {
	return c.tuning.SessionXP(res.Answers, res.Rank, res.ComboEligible, rng)
}

// BaseXPForRank draws the base reward for a rank from its normal range, or
// from the bonus range when bonusEligible. Unknown ranks pay as normal.
func (t *Tuning) BaseXPForRank(rank domain.Rank, bonusEligible bool, rng domain.RNG) int {
	rr, ok := t.Rewards[rank]
	if !ok {
		rr = t.Rewards[domain.RankNormal]
	}
	if bonusEligible {
		return uniformInt(rr.BonusMin, rr.BonusMax, rng)
	}
	return uniformInt(rr.Min, rr.Max, rng)
}

// SessionXP computes the ranked reward: base XP, then the accuracy bonus
// (perfect or above threshold, not both), then the streak bonus when the
// longest correct run reaches the threshold. Rounded to nearest.
func (t *Tuning) SessionXP(answers []domain.Answer, rank domain.Rank, comboEligible bool, rng domain.RNG) int {
	st := t.Session
	xp := float64(t.BaseXPForRank(rank, comboEligible, rng))

	correct := countCorrect(answers)
	switch {
	case len(answers) > 0 && correct == len(answers):
		xp *= st.PerfectMultiplier
	case len(answers) > 0 && Accuracy(answers) >= st.AccuracyThreshold:
		xp *= st.AccuracyMultiplier
	}

	if LongestStreak(answers) >= st.StreakThreshold {
		xp *= st.StreakMultiplier
	}
	return int(math.Round(xp))
}

// ─── Legacy formula ─────────────────────────────────────────────────────────

// LegacyCalculator is the per-answer additive formula used by plain quizzes.
type LegacyCalculator struct {
	cfg LegacyTuning
}

// NewLegacyCalculator binds the legacy formula to explicit constants.
func NewLegacyCalculator(cfg LegacyTuning) LegacyCalculator {
	return LegacyCalculator{cfg: cfg}
}

// Name implements Calculator.
func (LegacyCalculator) Name() string { return StrategyLegacy }

// SessionXP implements Calculator. The formula is deterministic; rng is unused.
func (c LegacyCalculator) SessionXP(res SessionResult, _ domain.RNG) int {
	return c.Calculate(res.Answers)
}

// Calculate sums per-answer XP scaled by difficulty and category, adds a
// flat bonus for each correct answer inside a streak, then a perfect bonus or
// an accuracy bonus.
func (c LegacyCalculator) Calculate(answers []domain.Answer) int {
	total := 0.0
	streak := 0
	for _, a := range answers {
		if !a.IsCorrect {
			streak = 0
			continue
		}
		total += c.cfg.BasePerCorrect * c.difficultyMult(a.Difficulty) * c.categoryMult(a.Category)
		streak++
		if streak >= c.cfg.StreakThreshold {
			total += c.cfg.StreakBonus
		}
	}

	correct := countCorrect(answers)
	switch {
	case len(answers) > 0 && correct == len(answers):
		total += c.cfg.PerfectBonus
	case len(answers) > 0 && Accuracy(answers) >= c.cfg.AccuracyThreshold:
		total += c.cfg.AccuracyBonus
	}
	return int(math.Round(total))
}

func (c LegacyCalculator) difficultyMult(d domain.Difficulty) float64 {
	if m, ok := c.cfg.DifficultyMultipliers[d]; ok {
		return m
	}
	return 1.0
}

func (c LegacyCalculator) categoryMult(f domain.SkillField) float64 {
	if m, ok := c.cfg.CategoryMultipliers[f]; ok {
		return m
	}
	return 1.0
}
