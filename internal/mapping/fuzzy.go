package mapping

import "strings"

// lcsRatio computes a sequence-similarity ratio in [0,1] from the longest
// common subsequence length, the same "ratio" shape difflib's
// SequenceMatcher exposes: 2*lcs / (len(a)+len(b)).
func lcsRatio(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	l := lcsLength(a, b)
	return 2 * float64(l) / float64(len(a)+len(b))
}

func lcsLength(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// dehyphenated/deunderscored variants of a symbol string, compared
// against the catalog in addition to the original (§4.4.1 item 2).
func symbolVariants(s string) []string {
	return []string{
		s,
		strings.ReplaceAll(s, "-", ""),
		strings.ReplaceAll(s, "_", ""),
	}
}

// bestFuzzyMatch returns the catalog entry with the highest ratio against
// any variant of query, and that ratio. Ties break on (a) higher
// confidence already encoded in the ratio, (b) lexicographic order of the
// candidate identifier.
func bestFuzzyMatch(query string, catalog []string) (string, float64) {
	var best string
	var bestRatio float64
	for _, variant := range symbolVariants(query) {
		for _, candidate := range catalog {
			r := lcsRatio(variant, candidate)
			if r > bestRatio || (r == bestRatio && r > 0 && candidate < best) {
				best, bestRatio = candidate, r
			}
		}
	}
	return best, bestRatio
}
