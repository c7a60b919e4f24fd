package progression

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lingo-quest/lingo/internal/domain"
)

//go:embed economy.yaml
var defaultEconomyYAML []byte

// Tuning holds every balance table the engine reads: the XP curve, the two
// pool specs, per-chapter rank odds and the reward ranges of both XP formulas.
type Tuning struct {
	Version          string                      `yaml:"version"`
	MaxLevel         int                         `yaml:"max_level"`
	LevelsPerChapter int                         `yaml:"levels_per_chapter"`
	ChapterCosts     []int64                     `yaml:"chapter_costs"`
	RefillOnLevelUp  bool                        `yaml:"refill_on_level_up"`
	Hearts           PoolSpec                    `yaml:"hearts"`
	Stars            PoolSpec                    `yaml:"stars"`
	RankTables       []RankTable                 `yaml:"rank_tables"`
	Rewards          map[domain.Rank]RewardRange `yaml:"rewards"`
	Session          SessionTuning               `yaml:"session"`
	Legacy           LegacyTuning                `yaml:"legacy"`

	// thresholds[l] is the cumulative XP needed to reach level l (1-based).
	thresholds []int64
}

// RankTable is one chapter's draw odds. The four values sum to 1.
type RankTable struct {
	Normal    float64 `yaml:"normal" json:"normal"`
	Rare      float64 `yaml:"rare" json:"rare"`
	Epic      float64 `yaml:"epic" json:"epic"`
	Legendary float64 `yaml:"legendary" json:"legendary"`
}

// Sum returns the total probability mass.
func (r RankTable) Sum() float64 { return r.Normal + r.Rare + r.Epic + r.Legendary }

// RewardRange is the inclusive base-XP range for a rank, plus the larger
// range used when the session is bonus-eligible.
type RewardRange struct {
	Min      int `yaml:"min"`
	Max      int `yaml:"max"`
	BonusMin int `yaml:"bonus_min"`
	BonusMax int `yaml:"bonus_max"`
}

// SessionTuning holds the multipliers of the rank-aware session formula.
type SessionTuning struct {
	PerfectMultiplier  float64 `yaml:"perfect_multiplier"`
	AccuracyThreshold  float64 `yaml:"accuracy_threshold"`
	AccuracyMultiplier float64 `yaml:"accuracy_multiplier"`
	StreakThreshold    int     `yaml:"streak_threshold"`
	StreakMultiplier   float64 `yaml:"streak_multiplier"`
}

// LegacyTuning holds the constants of the per-answer additive formula.
type LegacyTuning struct {
	BasePerCorrect        float64                       `yaml:"base_per_correct"`
	DifficultyMultipliers map[domain.Difficulty]float64 `yaml:"difficulty_multipliers"`
	CategoryMultipliers   map[domain.SkillField]float64 `yaml:"category_multipliers"`
	StreakThreshold       int                           `yaml:"streak_threshold"`
	StreakBonus           float64                       `yaml:"streak_bonus"`
	PerfectBonus          float64                       `yaml:"perfect_bonus"`
	AccuracyThreshold     float64                       `yaml:"accuracy_threshold"`
	AccuracyBonus         float64                       `yaml:"accuracy_bonus"`
}

var defaultTuning = mustParseTuning(defaultEconomyYAML)

// DefaultTuning returns the embedded economy tables.
func DefaultTuning() *Tuning {
	return defaultTuning
}

// ParseTuning decodes and validates a YAML economy document.
func ParseTuning(data []byte) (*Tuning, error) {
	var t Tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTuning, err)
	}
	if err := t.prepare(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTuning loads economy tables.
// Search order: customPath -> $LINGO_HOME/economy.yaml -> embedded default.
// An explicit path that cannot be read or parsed is an error; a broken user
// file is skipped in favour of the default.
func LoadTuning(customPath, home string) (*Tuning, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("read tuning %s: %w", customPath, err)
		}
		t, err := ParseTuning(data)
		if err != nil {
			return nil, fmt.Errorf("parse tuning %s: %w", customPath, err)
		}
		return t, nil
	}

	if home != "" {
		if data, err := os.ReadFile(filepath.Join(home, "economy.yaml")); err == nil {
			if t, err := ParseTuning(data); err == nil {
				return t, nil
			}
		}
	}

	return DefaultTuning(), nil
}

func mustParseTuning(data []byte) *Tuning {
	t, err := ParseTuning(data)
	if err != nil {
		panic(fmt.Sprintf("embedded economy.yaml: %v", err))
	}
	return t
}

// prepare validates the tables and precomputes the cumulative XP thresholds.
func (t *Tuning) prepare() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", domain.ErrInvalidTuning, fmt.Sprintf(format, args...))
	}

	if t.MaxLevel < 1 {
		return invalid("max_level must be >= 1, got %d", t.MaxLevel)
	}
	if t.LevelsPerChapter < 1 {
		return invalid("levels_per_chapter must be >= 1, got %d", t.LevelsPerChapter)
	}
	chapters := t.chapterCount()
	if len(t.ChapterCosts) != chapters {
		return invalid("need %d chapter_costs, got %d", chapters, len(t.ChapterCosts))
	}
	for i, c := range t.ChapterCosts {
		if c <= 0 {
			return invalid("chapter %d cost must be positive, got %d", i+1, c)
		}
	}
	if len(t.RankTables) != chapters {
		return invalid("need %d rank_tables, got %d", chapters, len(t.RankTables))
	}
	for i, rt := range t.RankTables {
		if rt.Normal < 0 || rt.Rare < 0 || rt.Epic < 0 || rt.Legendary < 0 {
			return invalid("chapter %d has a negative rank probability", i+1)
		}
		if math.Abs(rt.Sum()-1) > 1e-9 {
			return invalid("chapter %d rank odds sum to %.4f, want 1", i+1, rt.Sum())
		}
	}
	for _, r := range domain.AllRanks() {
		rr, ok := t.Rewards[r]
		if !ok {
			return invalid("missing reward range for %s", r)
		}
		if rr.Min < 0 || rr.Min > rr.Max || rr.BonusMin < 0 || rr.BonusMin > rr.BonusMax {
			return invalid("reward range for %s is inverted or negative", r)
		}
	}
	for _, spec := range []PoolSpec{t.Hearts, t.Stars} {
		if spec.RecoveryInterval < time.Second {
			return invalid("%s recovery_interval must be >= 1s", spec.Kind)
		}
		if spec.BaseCapacity < 1 || spec.LevelStep < 1 || spec.HardCap < spec.BaseCapacity {
			return invalid("%s capacity settings are inconsistent", spec.Kind)
		}
	}

	t.thresholds = make([]int64, t.MaxLevel+1)
	for l := 1; l < t.MaxLevel; l++ {
		t.thresholds[l+1] = t.thresholds[l] + t.XPRequiredForLevel(l)
	}
	return nil
}

func (t *Tuning) chapterCount() int {
	return (t.MaxLevel + t.LevelsPerChapter - 1) / t.LevelsPerChapter
}
