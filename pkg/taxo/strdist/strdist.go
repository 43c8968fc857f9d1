// Package strdist scores string similarity under interchangeable metrics.
package strdist

import (
	"math"
	"strings"
)

// Metric identifies a similarity measure. All metrics score into [0,1]
// where 0 means no resemblance and 1 means identical.
type Metric string

const (
	Levenshtein  Metric = "levenshtein"
	JaroWinkler  Metric = "jaro-winkler"
	CosineBigram Metric = "cosine"
)

// ParseMetric resolves a metric name or one of its aliases,
// case-insensitively. The second return is false for unknown names.
func ParseMetric(s string) (Metric, bool) {
	switch strings.ToLower(s) {
	case "levenshtein", "lev":
		return Levenshtein, true
	case "jaro-winkler", "jaro_winkler", "jw":
		return JaroWinkler, true
	case "cosine", "cos":
		return CosineBigram, true
	}
	return "", false
}

// AllMetrics lists every metric under its canonical name.
func AllMetrics() []Metric {
	return []Metric{Levenshtein, JaroWinkler, CosineBigram}
}

// Similarity scores a against b under the given metric.
func Similarity(a, b string, m Metric) float64 {
	switch m {
	case Levenshtein:
		return normalizedLevenshtein(a, b)
	case JaroWinkler:
		return jaroWinkler(a, b)
	case CosineBigram:
		return cosineBigram(a, b)
	}
	return 0
}

// normalizedLevenshtein maps edit distance to similarity via
// 1 - d/max(len(a), len(b)), counting in runes.
func normalizedLevenshtein(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// jaroWinkler boosts the Jaro score by 0.1 per leading equal rune,
// capped at four runes.
func jaroWinkler(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	j := jaro(ra, rb)
	prefix := 0
	for prefix < len(ra) && prefix < len(rb) && prefix < 4 && ra[prefix] == rb[prefix] {
		prefix++
	}
	return j + float64(prefix)*0.1*(1-j)
}

func jaro(a, b []rune) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	window := max(max(len(a), len(b))/2-1, 0)

	matchedA := make([]bool, len(a))
	matchedB := make([]bool, len(b))
	matches := 0
	for i := range a {
		lo := max(i-window, 0)
		hi := min(i+window, len(b)-1)
		for j := lo; j <= hi; j++ {
			if matchedB[j] || a[i] != b[j] {
				continue
			}
			matchedA[i] = true
			matchedB[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i := range a {
		if !matchedA[i] {
			continue
		}
		for !matchedB[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}

// cosineBigram compares rune-bigram multisets of the lowercased inputs.
// Strings too short to yield a bigram fall back to exact equality.
func cosineBigram(a, b string) float64 {
	ba := bigramCounts(a)
	bb := bigramCounts(b)
	if len(ba) == 0 || len(bb) == 0 {
		if a == b {
			return 1
		}
		return 0
	}

	var dot, normA, normB int64
	for gram, va := range ba {
		dot += int64(va) * int64(bb[gram])
		normA += int64(va) * int64(va)
	}
	for _, vb := range bb {
		normB += int64(vb) * int64(vb)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float64(dot) / (math.Sqrt(float64(normA)) * math.Sqrt(float64(normB)))
}

func bigramCounts(s string) map[string]int {
	runes := []rune(strings.ToLower(s))
	grams := make(map[string]int)
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])]++
	}
	return grams
}
