// Package nmf factorizes TF-IDF document vectors into additive topics
// using multiplicative-update non-negative matrix factorization.
package nmf

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/taxolab/taxo/pkg/taxo/corpus"
	"github.com/taxolab/taxo/pkg/taxo/internalerr"
	"github.com/taxolab/taxo/pkg/taxo/sample"
)

const (
	defaultMaxIter = 100
	defaultTol     = 1e-4

	// eps keeps the update denominators away from zero.
	eps = 1e-9
)

// Config controls a factorization. Seed is required; a zero MaxIter, Tol or
// VocabLimit falls back to 100 iterations, 1e-4 and an unlimited vocabulary.
type Config struct {
	Topics     int
	MaxIter    int
	VocabLimit int
	Seed       uint64
	Tol        float64
}

// Result holds the factor matrices of one run. W (docs × topics) carries
// per-document topic affinity, H (topics × terms) per-topic term weight.
type Result struct {
	terms  []string
	w      *mat.Dense
	h      *mat.Dense
	topics int
	docs   int
	iters  int
}

// Factorize decomposes the given TF-IDF vectors into cfg.Topics topics.
// The vocabulary is the distinct terms ranked by document frequency.
func Factorize(vectors []map[string]float64, cfg Config) (*Result, error) {
	if cfg.Topics <= 0 {
		return nil, internalerr.Invalid("topic count must be positive, got %d", cfg.Topics)
	}
	if len(vectors) == 0 {
		return nil, internalerr.Invalid("no documents to factorize")
	}
	maxIter := cfg.MaxIter
	if maxIter <= 0 {
		maxIter = defaultMaxIter
	}
	tol := cfg.Tol
	if tol <= 0 {
		tol = defaultTol
	}

	terms := buildVocabulary(vectors, cfg.VocabLimit)
	if len(terms) == 0 {
		return nil, internalerr.Invalid("documents contain no terms")
	}
	col := make(map[string]int, len(terms))
	for j, term := range terms {
		col[term] = j
	}

	n, m, r := len(vectors), len(terms), cfg.Topics
	v := mat.NewDense(n, m, nil)
	for i, vec := range vectors {
		for term, weight := range vec {
			if j, ok := col[term]; ok {
				v.Set(i, j, weight)
			}
		}
	}

	rng := sample.NewRand(cfg.Seed)
	w := randomMatrix(n, r, rng)
	h := randomMatrix(r, m, rng)

	prev := math.Inf(1)
	iters := 0
	for iter := 0; iter < maxIter; iter++ {
		iters = iter + 1

		// H <- H .* (W'V) ./ (W'WH + eps)
		var wtv, wtw, wtwh mat.Dense
		wtv.Mul(w.T(), v)
		wtw.Mul(w.T(), w)
		wtwh.Mul(&wtw, h)
		wtwh.Apply(func(_, _ int, x float64) float64 { return x + eps }, &wtwh)
		h.MulElem(h, &wtv)
		h.DivElem(h, &wtwh)

		// W <- W .* (VH') ./ (WHH' + eps)
		var vht, hht, whht mat.Dense
		vht.Mul(v, h.T())
		hht.Mul(h, h.T())
		whht.Mul(w, &hht)
		whht.Apply(func(_, _ int, x float64) float64 { return x + eps }, &whht)
		w.MulElem(w, &vht)
		w.DivElem(w, &whht)

		var approx, diff mat.Dense
		approx.Mul(w, h)
		diff.Sub(v, &approx)
		frob := mat.Norm(&diff, 2)
		if !math.IsInf(prev, 1) {
			if prev == 0 || (prev-frob)/prev < tol {
				break
			}
		}
		prev = frob
	}

	return &Result{terms: terms, w: w, h: h, topics: r, docs: n, iters: iters}, nil
}

func buildVocabulary(vectors []map[string]float64, limit int) []string {
	df := make(map[string]int)
	for _, vec := range vectors {
		for term := range vec {
			df[term]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}

func randomMatrix(rows, cols int, rng *sample.Rand) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = 0.1 + 0.9*rng.Float64()
	}
	return mat.NewDense(rows, cols, data)
}

// Terms returns the vocabulary in H column order.
func (r *Result) Terms() []string { return r.terms }

// Iterations reports how many update steps ran before convergence.
func (r *Result) Iterations() int { return r.iters }

// TopTerms returns the k heaviest terms of a topic, weight descending with
// ties broken by term. An out-of-range topic yields nil.
func (r *Result) TopTerms(topic, k int) []corpus.TermWeight {
	if topic < 0 || topic >= r.topics || k <= 0 {
		return nil
	}
	row := make([]corpus.TermWeight, len(r.terms))
	for j, term := range r.terms {
		row[j] = corpus.TermWeight{Term: term, Weight: r.h.At(topic, j)}
	}
	sort.Slice(row, func(i, j int) bool {
		if row[i].Weight != row[j].Weight {
			return row[i].Weight > row[j].Weight
		}
		return row[i].Term < row[j].Term
	})
	if k < len(row) {
		row = row[:k]
	}
	return row
}

// DominantTopics returns the argmax topic per document, lowest topic id on
// ties.
func (r *Result) DominantTopics() []int {
	out := make([]int, r.docs)
	for i := 0; i < r.docs; i++ {
		best, bestWeight := 0, r.w.At(i, 0)
		for t := 1; t < r.topics; t++ {
			if weight := r.w.At(i, t); weight > bestWeight {
				best, bestWeight = t, weight
			}
		}
		out[i] = best
	}
	return out
}
