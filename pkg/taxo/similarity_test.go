package taxo

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/taxolab/taxo/pkg/taxo/internalerr"
)

func TestSimilarityLevenshteinKittenSitting(t *testing.T) {
	e := New(Options{})
	out, err := e.Similarity(context.Background(), "kitten", "sitting", SimilarityArgs{Metric: "levenshtein"})
	if err != nil {
		t.Fatalf("Similarity failed: %v", err)
	}
	got := out["similarity"].(float64)
	if math.Abs(got-4.0/7.0) > 1e-4 {
		t.Errorf("similarity = %v, want 4/7", got)
	}
	if out["a"] != "kitten" || out["b"] != "sitting" {
		t.Errorf("Inputs should echo back, got %v", out)
	}
}

func TestSimilarityDefaultsToLevenshtein(t *testing.T) {
	e := New(Options{})
	out, err := e.Similarity(context.Background(), "kitten", "sitting", SimilarityArgs{})
	if err != nil {
		t.Fatalf("Similarity failed: %v", err)
	}
	if out["metric"] != "levenshtein" {
		t.Errorf("Empty metric should default to levenshtein, got %v", out["metric"])
	}
}

func TestSimilarityAliasEchoedVerbatim(t *testing.T) {
	e := New(Options{})
	byAlias, err := e.Similarity(context.Background(), "alpha", "alphq", SimilarityArgs{Metric: "jw"})
	if err != nil {
		t.Fatalf("Similarity failed: %v", err)
	}
	if byAlias["metric"] != "jw" {
		t.Errorf("Metric should echo as given, got %v", byAlias["metric"])
	}
	canonical, err := e.Similarity(context.Background(), "alpha", "alphq", SimilarityArgs{Metric: "jaro-winkler"})
	if err != nil {
		t.Fatalf("Similarity failed: %v", err)
	}
	if byAlias["similarity"] != canonical["similarity"] {
		t.Errorf("Alias and canonical name should score identically")
	}
}

func TestSimilarityUnknownMetric(t *testing.T) {
	e := New(Options{})
	_, err := e.Similarity(context.Background(), "a", "b", SimilarityArgs{Metric: "hamming"})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("Expected invalid-input, got %v", err)
	}
}

func TestSimilarityAllMetrics(t *testing.T) {
	e := New(Options{})
	out, err := e.Similarity(context.Background(), "same", "same", SimilarityArgs{All: true})
	if err != nil {
		t.Fatalf("Similarity failed: %v", err)
	}
	for _, key := range []string{"levenshtein", "jaro-winkler", "cosine"} {
		v, ok := out[key].(float64)
		if !ok {
			t.Fatalf("All-mode result missing metric %q: %v", key, out)
		}
		if v != 1.0 {
			t.Errorf("Equal strings should score 1 under %s, got %v", key, v)
		}
	}
}

func TestNormalizeURLStripsTrackingAndDefaults(t *testing.T) {
	e := New(Options{})
	out, err := e.NormalizeURL(context.Background(), "https://www.Example.com:443/p?utm_source=x&id=9#f")
	if err != nil {
		t.Fatalf("NormalizeURL failed: %v", err)
	}
	if out["normalized"] != "https://example.com/p?id=9" {
		t.Errorf("normalized = %v, want https://example.com/p?id=9", out["normalized"])
	}
	if out["canonical_key"] != "example.com/p?id=9" {
		t.Errorf("canonical_key = %v, want example.com/p?id=9", out["canonical_key"])
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	e := New(Options{})
	first, err := e.NormalizeURL(context.Background(), "HTTP://Sub.Site.ORG/a/b/?b=2&a=1&utm_medium=mail")
	if err != nil {
		t.Fatalf("NormalizeURL failed: %v", err)
	}
	second, err := e.NormalizeURL(context.Background(), first["normalized"].(string))
	if err != nil {
		t.Fatalf("NormalizeURL failed: %v", err)
	}
	if first["normalized"] != second["normalized"] {
		t.Errorf("Normalization should be idempotent: %v vs %v", first["normalized"], second["normalized"])
	}
}

func TestNormalizeURLNeverFails(t *testing.T) {
	e := New(Options{})
	out, err := e.NormalizeURL(context.Background(), "::not a url::")
	if err != nil {
		t.Fatalf("NormalizeURL should never fail, got %v", err)
	}
	if out["original"] != "::not a url::" {
		t.Errorf("original should echo the input, got %v", out["original"])
	}
	if out["normalized"] == "" {
		t.Errorf("Unparseable input should pass through, not vanish")
	}
}
