package catalog

import (
	"strings"

	"github.com/ashita-ai/studio/internal/model"
)

// Match returns the template whose keywords occur most often in input.
// Matching is case-insensitive substring containment ("sales" matches
// "salesforce"). A template replaces the current best only on a strictly
// higher score, so ties go to the earlier template and an input with no
// hits gets the first one.
func Match(input string) model.Template {
	best, _ := match(input)
	return Clone(best)
}

// Score returns the number of keywords of t contained in input.
func Score(t model.Template, input string) int {
	normalized := strings.ToLower(input)
	score := 0
	for _, kw := range t.Keywords {
		if strings.Contains(normalized, kw) {
			score++
		}
	}
	return score
}

func match(input string) (model.Template, int) {
	best := templates[0]
	bestScore := 0
	for _, t := range templates {
		if s := Score(t, input); s > bestScore {
			best, bestScore = t, s
		}
	}
	return best, bestScore
}
