package corpus

import (
	"encoding/json"
	"math"
	"testing"
)

func makeCorpus() *Corpus {
	return Build([][]string{
		{"rust", "programming", "language"},
		{"rust", "systems", "performance"},
		{"javascript", "web", "programming"},
	})
}

func TestIDFCommonTerms(t *testing.T) {
	c := makeCorpus()
	// "rust" and "programming" both appear in 2 of 3 documents.
	if diff := math.Abs(c.IDF("rust") - c.IDF("programming")); diff > 1e-10 {
		t.Errorf("Equal document frequency should give equal IDF, diff %v", diff)
	}
}

func TestIDFRareTermHigher(t *testing.T) {
	c := makeCorpus()
	if c.IDF("systems") <= c.IDF("rust") {
		t.Errorf("Rarer term should have higher IDF: systems=%v rust=%v",
			c.IDF("systems"), c.IDF("rust"))
	}
}

func TestIDFUnknownTerm(t *testing.T) {
	c := makeCorpus()
	// df=0 over 3 docs: ln((3+0.5)/0.5 + 1) = ln(8).
	want := math.Log(8)
	if got := c.IDF("nonexistent"); math.Abs(got-want) > 1e-10 {
		t.Errorf("Expected ln(8)=%v, got %v", want, got)
	}
}

func TestIDFEmptyCorpus(t *testing.T) {
	c := Build(nil)
	if c.NumDocs() != 0 {
		t.Fatalf("Expected empty corpus, got %d docs", c.NumDocs())
	}
	if idf := c.IDF("unknown"); math.IsNaN(idf) || math.IsInf(idf, 0) {
		t.Errorf("IDF on empty corpus should stay finite, got %v", idf)
	}
}

func TestBuildIdempotent(t *testing.T) {
	a := makeCorpus()
	b := makeCorpus()
	if a.NumDocs() != b.NumDocs() {
		t.Fatalf("Doc counts differ: %d vs %d", a.NumDocs(), b.NumDocs())
	}
	aTerms, bTerms := a.Terms(), b.Terms()
	if len(aTerms) != len(bTerms) {
		t.Fatalf("Vocabulary sizes differ: %d vs %d", len(aTerms), len(bTerms))
	}
	for i := range aTerms {
		if aTerms[i] != bTerms[i] {
			t.Errorf("Term id %d = %q vs %q", i, aTerms[i], bTerms[i])
		}
		if a.IDF(aTerms[i]) != b.IDF(aTerms[i]) {
			t.Errorf("IDF(%q) differs between builds", aTerms[i])
		}
	}
}

func TestVocabularyVisitOrder(t *testing.T) {
	c := makeCorpus()
	want := []string{"rust", "programming", "language", "systems", "performance", "javascript", "web"}
	got := c.Terms()
	if len(got) != len(want) {
		t.Fatalf("Expected %d terms, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Term id %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTFIDFRawCounts(t *testing.T) {
	c := Build([][]string{{"rust", "rust", "fast"}})
	vec := c.TFIDFVector(0)
	// Both terms appear in the single document, so they share one IDF;
	// the doubled count must double the weight.
	if math.Abs(vec["rust"]-2*vec["fast"]) > 1e-10 {
		t.Errorf("Expected rust weight to be twice fast: rust=%v fast=%v",
			vec["rust"], vec["fast"])
	}
	want := 2 * math.Log((1-1+0.5)/(1+0.5)+1)
	if math.Abs(vec["rust"]-want) > 1e-10 {
		t.Errorf("Expected %v, got %v", want, vec["rust"])
	}
}

func TestBM25RelevantScoresHigher(t *testing.T) {
	c := makeCorpus()
	query := []string{"rust", "systems"}
	score0 := c.BM25(0, query) // has rust
	score1 := c.BM25(1, query) // has rust and systems
	score2 := c.BM25(2, query) // has neither
	if score1 <= score0 {
		t.Errorf("Doc with both terms should outscore doc with one: %v vs %v", score1, score0)
	}
	if score0 <= score2 {
		t.Errorf("Doc with one term should outscore doc with none: %v vs %v", score0, score2)
	}
	if score2 != 0 {
		t.Errorf("Doc with no query terms should score 0, got %v", score2)
	}
}

func TestBM25CustomParams(t *testing.T) {
	c := Build([][]string{
		{"rust", "fast"},
		{"rust", "safe", "memory", "ownership", "borrow"},
	})
	query := []string{"rust"}
	if math.Abs(c.BM25(0, query)-c.BM25Params(0, query, 2.0, 0.5)) < 1e-10 {
		t.Error("Different k1/b should change the score when doc lengths vary")
	}
}

func TestTopTermsSortedAndCapped(t *testing.T) {
	c := makeCorpus()
	top := c.TopTerms(0, 2)
	if len(top) != 2 {
		t.Fatalf("Expected 2 terms, got %d", len(top))
	}
	if top[0].Weight < top[1].Weight {
		t.Errorf("Terms should be weight-descending: %v", top)
	}
	all := c.TopTerms(0, 100)
	if len(all) != 3 {
		t.Errorf("Expected all 3 terms when n exceeds doc size, got %d", len(all))
	}
}

func TestTopTermsTieBreakByTerm(t *testing.T) {
	c := Build([][]string{{"zebra", "apple"}, {"other"}})
	top := c.TopTerms(0, 2)
	// Equal weights: alphabetical order decides.
	if top[0].Term != "apple" || top[1].Term != "zebra" {
		t.Errorf("Expected [apple zebra], got %v", top)
	}
}

func TestTokenWeights(t *testing.T) {
	c := makeCorpus()
	weights := c.TokenWeights([]string{"rust", "systems"})
	if weights["systems"] <= weights["rust"] {
		t.Errorf("Rarer term should weigh more: systems=%v rust=%v",
			weights["systems"], weights["rust"])
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := map[string]float64{"x": 1, "y": 2}
	if got := CosineSimilarity(a, a); math.Abs(got-1.0) > 1e-10 {
		t.Errorf("Self-similarity should be 1, got %v", got)
	}
	b := map[string]float64{"z": 3}
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("Disjoint vectors should score 0, got %v", got)
	}
	if got := CosineSimilarity(nil, a); got != 0 {
		t.Errorf("Empty vector should score 0, got %v", got)
	}
}

func TestCorpusJSONRoundtrip(t *testing.T) {
	c := makeCorpus()
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var restored Corpus
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if restored.NumDocs() != c.NumDocs() {
		t.Fatalf("Doc count changed: %d vs %d", restored.NumDocs(), c.NumDocs())
	}
	for _, term := range []string{"rust", "systems", "nonexistent"} {
		if math.Abs(c.IDF(term)-restored.IDF(term)) > 1e-10 {
			t.Errorf("IDF(%q) changed across roundtrip", term)
		}
	}
	query := []string{"rust", "systems"}
	if math.Abs(c.BM25(1, query)-restored.BM25(1, query)) > 1e-10 {
		t.Error("BM25 score changed across roundtrip")
	}
}
