package command

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// similarityThreshold is the minimum score for a name to be offered as a
// "Did you mean" suggestion.
const similarityThreshold = 0.70

// similarity scores two names in [0, 1] as (maxLen - distance) / maxLen
// over the lowercased forms.
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	max := len(a)
	if len(b) > max {
		max = len(b)
	}
	if max == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	if d > max {
		return 0
	}
	return float64(max-d) / float64(max)
}

// closestMatch returns the best-scoring candidate at or above the
// threshold. Ties keep the first candidate encountered.
func closestMatch(input string, candidates []string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		if s := similarity(input, c); s >= similarityThreshold && s > bestScore {
			bestScore = s
			best = c
		}
	}
	return best, best != ""
}
