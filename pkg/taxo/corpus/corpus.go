// Package corpus builds document-term statistics for TF-IDF and BM25
// scoring. A Corpus is immutable once built: construct it with Build
// over the full document set, then query it.
package corpus

import (
	"encoding/json"
	"math"
	"sort"
)

// BM25 parameters.
const (
	defaultK1 = 1.5
	defaultB  = 0.75
)

// TermWeight pairs a vocabulary term with a score.
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Corpus holds term statistics over a fixed document set. Vocabulary
// ids are assigned in document-visit order, so the same documents in
// the same order always produce the same ids.
type Corpus struct {
	vocab    map[string]int
	terms    []string
	docs     []map[int]int
	docLens  []int
	docFreq  []int
	totalLen int
}

// Build ingests every document (a token sequence) and returns the
// finished corpus.
func Build(docs [][]string) *Corpus {
	c := &Corpus{vocab: make(map[string]int)}
	for _, tokens := range docs {
		counts := make(map[int]int, len(tokens))
		for _, tok := range tokens {
			id, ok := c.vocab[tok]
			if !ok {
				id = len(c.terms)
				c.vocab[tok] = id
				c.terms = append(c.terms, tok)
				c.docFreq = append(c.docFreq, 0)
			}
			counts[id]++
		}
		for id := range counts {
			c.docFreq[id]++
		}
		c.docs = append(c.docs, counts)
		c.docLens = append(c.docLens, len(tokens))
		c.totalLen += len(tokens)
	}
	return c
}

// NumDocs reports how many documents the corpus holds.
func (c *Corpus) NumDocs() int {
	return len(c.docs)
}

// NumTerms reports the vocabulary size.
func (c *Corpus) NumTerms() int {
	return len(c.terms)
}

// Terms returns the vocabulary in id order. The slice is shared with
// the corpus and must not be modified.
func (c *Corpus) Terms() []string {
	return c.terms
}

// IDF computes the BM25-smoothed inverse document frequency
// ln((N - df + 0.5)/(df + 0.5) + 1). Unknown terms score with df = 0.
func (c *Corpus) IDF(term string) float64 {
	df := 0.0
	if id, ok := c.vocab[term]; ok {
		df = float64(c.docFreq[id])
	}
	n := float64(len(c.docs))
	return math.Log((n-df+0.5)/(df+0.5) + 1.0)
}

// TFIDFVector returns the sparse term -> count*idf weights of the
// document at index doc.
func (c *Corpus) TFIDFVector(doc int) map[string]float64 {
	counts := c.docs[doc]
	vec := make(map[string]float64, len(counts))
	for id, count := range counts {
		term := c.terms[id]
		vec[term] = float64(count) * c.IDF(term)
	}
	return vec
}

// BM25 scores a query (a token sequence) against the document at index
// doc with the standard parameters k1=1.5, b=0.75.
func (c *Corpus) BM25(doc int, query []string) float64 {
	return c.BM25Params(doc, query, defaultK1, defaultB)
}

// BM25Params scores a query with caller-chosen k1 and b.
func (c *Corpus) BM25Params(doc int, query []string, k1, b float64) float64 {
	counts := c.docs[doc]
	dl := float64(c.docLens[doc])
	avg := c.avgDocLen()

	score := 0.0
	for _, term := range query {
		id, ok := c.vocab[term]
		if !ok {
			continue
		}
		tf := float64(counts[id])
		if tf == 0 {
			continue
		}
		idf := c.IDF(term)
		score += idf * (tf * (k1 + 1.0)) / (tf + k1*(1.0-b+b*dl/avg))
	}
	return score
}

// TopTerms returns the n highest-weighted TF-IDF terms of a document,
// weight descending with ties broken by term.
func (c *Corpus) TopTerms(doc, n int) []TermWeight {
	vec := c.TFIDFVector(doc)
	terms := make([]TermWeight, 0, len(vec))
	for term, w := range vec {
		terms = append(terms, TermWeight{Term: term, Weight: w})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Weight != terms[j].Weight {
			return terms[i].Weight > terms[j].Weight
		}
		return terms[i].Term < terms[j].Term
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}

// TokenWeights computes count*idf weights for an external token
// sequence against this corpus. SimHash uses this for weighted
// fingerprints.
func (c *Corpus) TokenWeights(tokens []string) map[string]float64 {
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	weights := make(map[string]float64, len(counts))
	for term, count := range counts {
		weights[term] = float64(count) * c.IDF(term)
	}
	return weights
}

func (c *Corpus) avgDocLen() float64 {
	if len(c.docs) == 0 {
		return 0
	}
	return float64(c.totalLen) / float64(len(c.docs))
}

// CosineSimilarity compares two sparse weight vectors. Keys are walked
// in sorted order so the floating-point sums are reproducible.
func CosineSimilarity(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for _, k := range sortedKeys(a) {
		va := a[k]
		dot += va * b[k]
		normA += va * va
	}
	for _, k := range sortedKeys(b) {
		vb := b[k]
		normB += vb * vb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// corpusState is the serialized form: vocabulary in id order plus
// per-document (id, count) pairs sorted by id.
type corpusState struct {
	Terms   []string   `json:"terms"`
	Docs    [][][2]int `json:"docs"`
	DocLens []int      `json:"doc_lens"`
	DocFreq []int      `json:"doc_freq"`
}

// MarshalJSON encodes the corpus for caching.
func (c *Corpus) MarshalJSON() ([]byte, error) {
	state := corpusState{
		Terms:   c.terms,
		Docs:    make([][][2]int, len(c.docs)),
		DocLens: c.docLens,
		DocFreq: c.docFreq,
	}
	for i, counts := range c.docs {
		pairs := make([][2]int, 0, len(counts))
		for id, count := range counts {
			pairs = append(pairs, [2]int{id, count})
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a][0] < pairs[b][0] })
		state.Docs[i] = pairs
	}
	return json.Marshal(state)
}

// UnmarshalJSON restores a corpus produced by MarshalJSON.
func (c *Corpus) UnmarshalJSON(data []byte) error {
	var state corpusState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	c.terms = state.Terms
	c.docLens = state.DocLens
	c.docFreq = state.DocFreq
	c.vocab = make(map[string]int, len(state.Terms))
	for id, term := range state.Terms {
		c.vocab[term] = id
	}
	c.docs = make([]map[int]int, len(state.Docs))
	c.totalLen = 0
	for i, pairs := range state.Docs {
		counts := make(map[int]int, len(pairs))
		for _, p := range pairs {
			counts[p[0]] = p[1]
		}
		c.docs[i] = counts
	}
	for _, dl := range state.DocLens {
		c.totalLen += dl
	}
	return nil
}
