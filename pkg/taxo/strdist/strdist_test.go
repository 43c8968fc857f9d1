package strdist

import (
	"math"
	"testing"
)

func TestIdenticalStrings(t *testing.T) {
	for _, m := range AllMetrics() {
		if got := Similarity("hello", "hello", m); got != 1.0 {
			t.Errorf("%s: identical strings scored %v, want 1.0", m, got)
		}
	}
}

func TestCompletelyDifferent(t *testing.T) {
	if got := Similarity("abc", "xyz", Levenshtein); got >= 0.1 {
		t.Errorf("Expected near-zero similarity, got %v", got)
	}
}

func TestLevenshteinKittenSitting(t *testing.T) {
	// Three edits across seven characters: 1 - 3/7.
	got := Similarity("kitten", "sitting", Levenshtein)
	want := 1.0 - 3.0/7.0
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestJaroWinklerPrefixBonus(t *testing.T) {
	if got := Similarity("martha", "marhta", JaroWinkler); got <= 0.9 {
		t.Errorf("Expected prefix-boosted score above 0.9, got %v", got)
	}
	// Shared prefix should beat the same edits elsewhere.
	front := Similarity("prefix", "preface", JaroWinkler)
	back := Similarity("xiferp", "ecaferp", JaroWinkler)
	if front <= back {
		t.Errorf("Prefix bonus missing: front %v vs back %v", front, back)
	}
}

func TestCosineSharedBigrams(t *testing.T) {
	if got := Similarity("night", "nacht", CosineBigram); got <= 0.0 {
		t.Errorf("Expected overlap from shared bigrams, got %v", got)
	}
	if got := Similarity("NIGHT", "night", CosineBigram); got != 1.0 {
		t.Errorf("Cosine should be case-insensitive, got %v", got)
	}
}

func TestCosineSingleChar(t *testing.T) {
	// No bigrams available, so equality decides.
	if got := Similarity("a", "a", CosineBigram); got != 1.0 {
		t.Errorf("Expected 1.0, got %v", got)
	}
	if got := Similarity("a", "b", CosineBigram); got != 0.0 {
		t.Errorf("Expected 0.0, got %v", got)
	}
}

func TestEmptyStrings(t *testing.T) {
	for _, m := range AllMetrics() {
		if got := Similarity("", "", m); got != 1.0 {
			t.Errorf("%s: two empty strings scored %v, want 1.0", m, got)
		}
	}
	if got := Similarity("hello", "", Levenshtein); got != 0.0 {
		t.Errorf("Expected 0.0 against empty string, got %v", got)
	}
}

func TestSimilarityBounds(t *testing.T) {
	pairs := [][2]string{
		{"abc", "xyz"},
		{"hello", "world"},
		{"a", "b"},
		{"test", "testing"},
		{"résumé", "resume"},
	}
	for _, p := range pairs {
		for _, m := range AllMetrics() {
			s := Similarity(p[0], p[1], m)
			if s < 0.0 || s > 1.0 {
				t.Errorf("%s(%q, %q) = %v out of [0,1]", m, p[0], p[1], s)
			}
		}
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	for _, m := range AllMetrics() {
		ab := Similarity("kitten", "sitting", m)
		ba := Similarity("sitting", "kitten", m)
		if math.Abs(ab-ba) > 1e-10 {
			t.Errorf("%s not symmetric: %v vs %v", m, ab, ba)
		}
	}
}

func TestUnicodeCountsRunes(t *testing.T) {
	// One rune substituted out of six.
	got := Similarity("résumé", "résume", Levenshtein)
	want := 1.0 - 1.0/6.0
	if math.Abs(got-want) > 1e-10 {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestParseMetric(t *testing.T) {
	cases := map[string]Metric{
		"levenshtein":  Levenshtein,
		"lev":          Levenshtein,
		"LEVENSHTEIN":  Levenshtein,
		"jaro-winkler": JaroWinkler,
		"jaro_winkler": JaroWinkler,
		"jw":           JaroWinkler,
		"JW":           JaroWinkler,
		"cosine":       CosineBigram,
		"Cosine":       CosineBigram,
		"cos":          CosineBigram,
	}
	for name, want := range cases {
		got, ok := ParseMetric(name)
		if !ok || got != want {
			t.Errorf("ParseMetric(%q) = %q, %v; want %q", name, got, ok, want)
		}
	}
	if _, ok := ParseMetric("unknown"); ok {
		t.Error("ParseMetric should reject unknown names")
	}
}

func TestAllMetrics(t *testing.T) {
	names := AllMetrics()
	if len(names) != 3 {
		t.Fatalf("Expected 3 metrics, got %d", len(names))
	}
	if names[0] != Levenshtein || names[1] != JaroWinkler || names[2] != CosineBigram {
		t.Errorf("Unexpected metric order: %v", names)
	}
}
