package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// ClosestMatch returns the candidate most similar to name by Jaro-Winkler
// similarity over normalized names, along with that similarity. It returns
// ("", 0) when there are no candidates.
func ClosestMatch(name string, candidates []string) (string, float64) {
	normalized := NormalizeName(name)

	best := ""
	bestSimilarity := 0.0
	for _, c := range candidates {
		similarity := matchr.JaroWinkler(normalized, NormalizeName(c), false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = c
		}
	}
	return best, bestSimilarity
}
