// Package discover builds taxonomies from raw text by clustering TF-IDF
// vectors and assigns records to taxonomy categories with BM25 scoring.
package discover

import (
	"math"
	"sort"
	"strings"

	"github.com/taxolab/taxo/pkg/taxo/cluster"
	"github.com/taxolab/taxo/pkg/taxo/corpus"
	"github.com/taxolab/taxo/pkg/taxo/sample"
	"github.com/taxolab/taxo/pkg/taxo/taxonomy"
	"github.com/taxolab/taxo/pkg/taxo/token"
	"github.com/taxolab/taxo/pkg/taxo/urlnorm"
)

// Config controls taxonomy discovery. TokenOptions nil means the default
// tokenize pipeline.
type Config struct {
	K                  int
	SampleSize         int
	KeywordsPerCluster int
	Linkage            cluster.Linkage
	Seed               uint64
	TokenOptions       *token.Options
}

// DefaultConfig returns the discovery defaults: 15 clusters over a sample
// of at most 500 rows, 20 keywords per category, Ward linkage, seed 42.
func DefaultConfig() Config {
	return Config{K: 15, SampleSize: 500, KeywordsPerCluster: 20, Linkage: cluster.Ward, Seed: 42}
}

func (c Config) tokenize(text string) []string {
	if c.TokenOptions != nil {
		return token.TokenizeWith(text, *c.TokenOptions)
	}
	return token.Tokenize(text)
}

// DiscoverTaxonomy derives a flat taxonomy from raw text. Rows that are
// empty or whitespace are dropped. Clustering runs on a seeded random
// sample capped at cfg.SampleSize because HAC is quadratic; each cluster
// becomes a category whose keywords are the mean TF-IDF weights of its
// members and whose label is the slug of the heaviest term.
func DiscoverTaxonomy(texts []string, cfg Config) *taxonomy.Taxonomy {
	usable := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return &taxonomy.Taxonomy{Categories: []taxonomy.Category{}}
	}

	allTokens := make([][]string, len(usable))
	for i, t := range usable {
		allTokens[i] = cfg.tokenize(t)
	}

	if len(usable) == 1 {
		return singleCategory(corpus.Build(allTokens), 0, cfg.KeywordsPerCluster)
	}

	indices := sample.Random(len(usable), cfg.SampleSize, cfg.Seed)
	sampleTokens := make([][]string, len(indices))
	for i, idx := range indices {
		sampleTokens[i] = allTokens[idx]
	}

	sampleCorpus := corpus.Build(sampleTokens)
	vectors := make([]map[string]float64, len(sampleTokens))
	for i := range sampleTokens {
		vectors[i] = sampleCorpus.TFIDFVector(i)
	}

	distances := cluster.CosineDistanceMatrix(vectors)
	k := cfg.K
	if k > len(sampleTokens) {
		k = len(sampleTokens)
	}
	dend := cluster.HAC(distances, len(sampleTokens), cfg.Linkage)
	labels := dend.Cut(k)

	numClusters := 0
	for _, l := range labels {
		if l+1 > numClusters {
			numClusters = l + 1
		}
	}

	cats := make([]taxonomy.Category, 0, numClusters)
	for c := 0; c < numClusters; c++ {
		var members []int
		for i, l := range labels {
			if l == c {
				members = append(members, i)
			}
		}
		if len(members) == 0 {
			continue
		}
		merged := make(map[string]float64)
		for _, i := range members {
			for term, weight := range vectors[i] {
				merged[term] += weight
			}
		}
		kws := topKeywords(merged, float64(len(members)), cfg.KeywordsPerCluster)
		cats = append(cats, taxonomy.Category{ID: c, Label: slugLabel(kws), Keywords: kws})
	}
	return &taxonomy.Taxonomy{Categories: cats}
}

// Assignment is one record's classification result.
type Assignment struct {
	Category   string  `json:"category"`
	Hierarchy  string  `json:"hierarchy"`
	Confidence float64 `json:"confidence"`
}

// Classify scores every record against every category and assigns each
// record the best-scoring one. The corpus is built over the record token
// lists; a category's score for a record is the weighted sum of BM25
// scores of its keywords. Records whose best score is zero or below the
// threshold come back uncategorized with confidence 0; otherwise the
// confidence is the softmax share of the winning score.
func Classify(texts []string, tax *taxonomy.Taxonomy, threshold float64, opts *token.Options) []Assignment {
	tokens := make([][]string, len(texts))
	for i, t := range texts {
		if opts != nil {
			tokens[i] = token.TokenizeWith(t, *opts)
		} else {
			tokens[i] = token.Tokenize(t)
		}
	}
	c := corpus.Build(tokens)

	out := make([]Assignment, len(texts))
	scores := make([]float64, len(tax.Categories))
	query := make([]string, 1)
	for i := range texts {
		bestIdx, bestScore := -1, math.Inf(-1)
		for j, cat := range tax.Categories {
			total := 0.0
			for _, kw := range cat.Keywords {
				query[0] = kw.Term
				total += kw.Weight * c.BM25(i, query)
			}
			scores[j] = total
			if total > bestScore {
				bestIdx, bestScore = j, total
			}
		}
		if bestIdx < 0 || bestScore <= 0 || bestScore < threshold {
			out[i] = Assignment{Category: "uncategorized", Hierarchy: "uncategorized"}
			continue
		}
		cat := tax.Categories[bestIdx]
		out[i] = Assignment{
			Category:   cat.Label,
			Hierarchy:  tax.Path(cat.ID),
			Confidence: softmaxShare(scores, bestScore),
		}
	}
	return out
}

func topKeywords(merged map[string]float64, members float64, n int) []taxonomy.Keyword {
	kws := make([]taxonomy.Keyword, 0, len(merged))
	for term, sum := range merged {
		kws = append(kws, taxonomy.Keyword{Term: term, Weight: sum / members})
	}
	sort.Slice(kws, func(i, j int) bool {
		if kws[i].Weight != kws[j].Weight {
			return kws[i].Weight > kws[j].Weight
		}
		return kws[i].Term < kws[j].Term
	})
	if n > 0 && len(kws) > n {
		kws = kws[:n]
	}
	return kws
}

func slugLabel(kws []taxonomy.Keyword) string {
	if len(kws) == 0 {
		return ""
	}
	return urlnorm.Slugify(kws[0].Term)
}

func singleCategory(c *corpus.Corpus, doc, n int) *taxonomy.Taxonomy {
	top := c.TopTerms(doc, n)
	kws := make([]taxonomy.Keyword, len(top))
	for i, tw := range top {
		kws[i] = taxonomy.Keyword{Term: tw.Term, Weight: tw.Weight}
	}
	return &taxonomy.Taxonomy{
		Categories: []taxonomy.Category{{ID: 0, Label: slugLabel(kws), Keywords: kws}},
	}
}

// softmaxShare is exp(best-max) / sum(exp(s-max)); shifting by the max
// keeps the exponentials from overflowing.
func softmaxShare(scores []float64, best float64) float64 {
	var denom float64
	for _, s := range scores {
		denom += math.Exp(s - best)
	}
	if denom == 0 {
		return 0
	}
	return 1 / denom
}
