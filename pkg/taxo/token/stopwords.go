package token

// stopwords is the fixed English stopword set applied when
// Options.RemoveStopwords is true. Membership is tested on the
// lowercased token, so the set stays lowercase-only.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "the", "is", "it", "of", "to", "in", "for", "on", "with",
		"at", "by", "from", "as", "or", "and", "but", "not", "be", "are",
		"was", "were", "been", "being", "have", "has", "had", "do", "does",
		"did", "will", "would", "could", "should", "may", "might", "shall",
		"can", "this", "that", "these", "those", "there", "here", "where",
		"when", "what", "which", "who", "whom", "how", "all", "each", "every",
		"both", "few", "more", "most", "other", "some", "such", "no", "nor",
		"only", "own", "same", "so", "than", "too", "very", "just", "because",
		"about", "into", "through", "during", "before", "after", "above", "below",
		"between", "under", "again", "further", "then", "once", "any", "its",
		"your", "our", "their", "his", "her", "my", "if", "up", "out", "also",
	} {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether the lowercased form of w is in the built-in set.
func IsStopword(w string) bool {
	_, ok := stopwords[lower(w)]
	return ok
}
