package progression

import (
	"errors"
	"testing"

	"github.com/lingo-quest/lingo/internal/domain"
)

// answers builds a session from a pattern like "TTFT".
func answers(pattern string) []domain.Answer {
	out := make([]domain.Answer, len(pattern))
	for i, c := range pattern {
		out[i] = domain.Answer{QuestionID: string(rune('a' + i)), IsCorrect: c == 'T'}
	}
	return out
}

func TestAccuracyAndStreak(t *testing.T) {
	tests := []struct {
		pattern  string
		accuracy float64
		streak   int
	}{
		{"", 0, 0},
		{"F", 0, 0},
		{"TTTT", 1, 4},
		{"TTFTT", 0.8, 2},
		{"TFTTTF", 4.0 / 6, 3},
	}
	for _, tt := range tests {
		a := answers(tt.pattern)
		if got := Accuracy(a); got != tt.accuracy {
			t.Errorf("Accuracy(%q) = %v, want %v", tt.pattern, got, tt.accuracy)
		}
		if got := LongestStreak(a); got != tt.streak {
			t.Errorf("LongestStreak(%q) = %d, want %d", tt.pattern, got, tt.streak)
		}
	}
}

func TestBaseXPForRank_Ranges(t *testing.T) {
	tu := DefaultTuning()
	for _, r := range domain.AllRanks() {
		rr := tu.Rewards[r]
		if got := tu.BaseXPForRank(r, false, fixedRNG(0)); got != rr.Min {
			t.Errorf("%s low = %d, want %d", r, got, rr.Min)
		}
		if got := tu.BaseXPForRank(r, false, fixedRNG(0.999999)); got != rr.Max {
			t.Errorf("%s high = %d, want %d", r, got, rr.Max)
		}
		if got := tu.BaseXPForRank(r, true, fixedRNG(0)); got != rr.BonusMin {
			t.Errorf("%s bonus low = %d, want %d", r, got, rr.BonusMin)
		}
		if got := tu.BaseXPForRank(r, true, fixedRNG(0.999999)); got != rr.BonusMax {
			t.Errorf("%s bonus high = %d, want %d", r, got, rr.BonusMax)
		}
	}
}

func TestBaseXPForRank_UnknownPaysAsNormal(t *testing.T) {
	tu := DefaultTuning()
	if got := tu.BaseXPForRank(domain.Rank("mythic"), false, fixedRNG(0)); got != 3 {
		t.Errorf("unknown rank = %d, want 3", got)
	}
}

func TestRankedSessionXP(t *testing.T) {
	tu := DefaultTuning()
	tests := []struct {
		name    string
		pattern string
		rank    domain.Rank
		combo   bool
		r       float64
		want    int
	}{
		// 3 × 1.5 × 1.2 = 5.4
		{"normal perfect", "TTTTT", domain.RankNormal, false, 0, 5},
		// 50 × 1.5 × 1.2
		{"legendary perfect", "TTTT", domain.RankLegendary, false, 0, 90},
		// 25 × 1.3 = 32.5, streak of two earns nothing
		{"epic at threshold", "TTFTT", domain.RankEpic, false, 0, 33},
		// 10 × 1.2, accuracy 50%
		{"rare streak only", "TTTFFF", domain.RankRare, false, 0, 12},
		{"bonus range", "", domain.RankNormal, true, 0, 15},
		{"top of range", "", domain.RankNormal, false, 0.999999, 8},
		{"all wrong", "FFFF", domain.RankEpic, false, 0, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tu.SessionXP(answers(tt.pattern), tt.rank, tt.combo, fixedRNG(tt.r))
			if got != tt.want {
				t.Errorf("SessionXP = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRankedCalculator_MatchesTuning(t *testing.T) {
	calc, err := CalculatorFor(DefaultTuning(), StrategyRanked)
	if err != nil {
		t.Fatal(err)
	}
	if calc.Name() != StrategyRanked {
		t.Errorf("Name = %s", calc.Name())
	}
	res := SessionResult{Answers: answers("TTTT"), Rank: domain.RankLegendary}
	if got := calc.SessionXP(res, fixedRNG(0)); got != 90 {
		t.Errorf("SessionXP = %d, want 90", got)
	}
}

func TestLegacyCalculate(t *testing.T) {
	calc := NewLegacyCalculator(DefaultTuning().Legacy)

	easyVocab := func(correct bool) domain.Answer {
		return domain.Answer{IsCorrect: correct, Difficulty: domain.DifficultyEasy, Category: domain.FieldVocabulary}
	}

	tests := []struct {
		name    string
		answers []domain.Answer
		want    int
	}{
		{"empty", nil, 0},
		// 3 × 10, +5 on the third, +50 perfect
		{"three easy vocabulary", []domain.Answer{easyVocab(true), easyVocab(true), easyVocab(true)}, 85},
		// 4 × 10, +5 on the third and fourth, +20 at 80%
		{"accuracy bonus", []domain.Answer{
			easyVocab(true), easyVocab(true), easyVocab(true), easyVocab(true), easyVocab(false),
		}, 70},
		// 10 + 18 + 28 + 5, accuracy 75% earns nothing
		{"mixed multipliers", []domain.Answer{
			easyVocab(true),
			{IsCorrect: true, Difficulty: domain.DifficultyMedium, Category: domain.FieldGrammar},
			{IsCorrect: true, Difficulty: domain.DifficultyHard, Category: domain.FieldWriting},
			{IsCorrect: false, Difficulty: domain.DifficultyHard, Category: domain.FieldListening},
		}, 61},
		// unknown labels fall back to 1.0
		{"unknown labels", []domain.Answer{
			{IsCorrect: true, Difficulty: "extreme", Category: "poetry"},
			{IsCorrect: false},
		}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calc.Calculate(tt.answers); got != tt.want {
				t.Errorf("Calculate = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLegacyCalculator_IgnoresRNG(t *testing.T) {
	calc, err := CalculatorFor(DefaultTuning(), StrategyLegacy)
	if err != nil {
		t.Fatal(err)
	}
	res := SessionResult{Answers: answers("TTT"), Rank: domain.RankLegendary, ComboEligible: true}
	a := calc.SessionXP(res, fixedRNG(0))
	b := calc.SessionXP(res, fixedRNG(0.9))
	if a != b {
		t.Errorf("legacy formula depends on rng: %d vs %d", a, b)
	}
}

func TestCalculatorFor_Unknown(t *testing.T) {
	_, err := CalculatorFor(DefaultTuning(), "fibonacci")
	if !errors.Is(err, domain.ErrUnknownStrategy) {
		t.Errorf("err = %v, want ErrUnknownStrategy", err)
	}
}
