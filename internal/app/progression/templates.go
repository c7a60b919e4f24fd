package progression

import (
	"sort"

	"github.com/lingo-quest/lingo/internal/domain"
)

// TemplateBalanced is the default allocation: five points in every field.
const TemplateBalanced = "balanced"

// statusTemplates are preset allocations. Each one sums to 30; the test
// suite checks that so ApplyStatusTemplate can skip validation.
var statusTemplates = map[string]domain.StatusAllocation{
	TemplateBalanced:   {Listening: 5, Reading: 5, Writing: 5, Grammar: 5, Idioms: 5, Vocabulary: 5},
	"vocabulary_focus": {Listening: 3, Reading: 3, Writing: 3, Grammar: 5, Idioms: 4, Vocabulary: 12},
	"grammar_focus":    {Listening: 3, Reading: 4, Writing: 4, Grammar: 12, Idioms: 3, Vocabulary: 4},
	"conversation":     {Listening: 10, Reading: 4, Writing: 6, Grammar: 3, Idioms: 4, Vocabulary: 3},
	"exam":             {Listening: 4, Reading: 8, Writing: 6, Grammar: 6, Idioms: 2, Vocabulary: 4},
}

// StatusTemplate looks up a preset allocation by name.
func StatusTemplate(name string) (domain.StatusAllocation, bool) {
	a, ok := statusTemplates[name]
	return a, ok
}

// StatusTemplateNames returns all preset names, sorted.
func StatusTemplateNames() []string {
	names := make([]string, 0, len(statusTemplates))
	for n := range statusTemplates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DefaultAllocation returns the balanced preset.
func DefaultAllocation() domain.StatusAllocation {
	return statusTemplates[TemplateBalanced]
}
