package progression

import "github.com/lingo-quest/lingo/internal/domain"

// fallbackField is returned when an allocation carries no weight at all.
const fallbackField = domain.FieldVocabulary

// RankProbabilities returns the draw odds for a chapter. Chapters outside
// the configured range are clamped to the nearest one.
func (t *Tuning) RankProbabilities(chapter int) RankTable {
	if chapter < 1 {
		chapter = 1
	}
	if chapter > len(t.RankTables) {
		chapter = len(t.RankTables)
	}
	return t.RankTables[chapter-1]
}

// DrawRank takes one uniform draw and walks the chapter's cumulative
// distribution in the order normal, rare, epic, legendary. A draw left
// unresolved by floating-point drift falls back to normal.
func (t *Tuning) DrawRank(chapter int, rng domain.RNG) domain.Rank {
	p := t.RankProbabilities(chapter)
	r := rng.Float64()

	buckets := [...]struct {
		rank domain.Rank
		p    float64
	}{
		{domain.RankNormal, p.Normal},
		{domain.RankRare, p.Rare},
		{domain.RankEpic, p.Epic},
		{domain.RankLegendary, p.Legendary},
	}

	cum := 0.0
	for _, b := range buckets {
		cum += b.p
		if r < cum {
			return b.rank
		}
	}
	return domain.RankNormal
}

// DrawRank draws a rank with the default tuning.
func DrawRank(chapter int, rng domain.RNG) domain.Rank {
	return defaultTuning.DrawRank(chapter, rng)
}

// DrawSkillField picks a practice field with probability proportional to its
// allocation weight. Negative weights count as zero; an all-zero vector
// returns vocabulary.
func DrawSkillField(a domain.StatusAllocation, rng domain.RNG) domain.SkillField {
	weights := a.Weights()
	total := 0
	for i, w := range weights {
		if w < 0 {
			weights[i] = 0
			continue
		}
		total += w
	}
	if total == 0 {
		return fallbackField
	}

	draw := rng.Float64() * float64(total)
	cum := 0.0
	for i, f := range domain.AllSkillFields() {
		cum += float64(weights[i])
		if draw < cum {
			return f
		}
	}
	return fallbackField
}
