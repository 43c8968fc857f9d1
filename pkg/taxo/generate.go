package taxo

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/taxolab/taxo/pkg/taxo/cache"
	"github.com/taxolab/taxo/pkg/taxo/cluster"
	"github.com/taxolab/taxo/pkg/taxo/corpus"
	"github.com/taxolab/taxo/pkg/taxo/internalerr"
)

// GenerateArgs configures Generate.
type GenerateArgs struct {
	// Field holds the text to cluster; empty means "content".
	Field string
	// Depth is the number of clusters to cut the dendrogram at.
	// Non-positive falls back to 10.
	Depth int
	// Linkage is one of ward, complete, average, single. Empty means ward.
	Linkage string
	// TopTerms is how many keywords each category keeps. Non-positive
	// falls back to 5.
	TopTerms int
}

// DefaultGenerateArgs returns the documented defaults.
func DefaultGenerateArgs() GenerateArgs {
	return GenerateArgs{Field: defaultField, Depth: 10, Linkage: string(cluster.Ward), TopTerms: 5}
}

// generateKey is the argument identity of a dendrogram artifact.
type generateKey struct {
	Field   string `json:"field"`
	Linkage string `json:"linkage"`
}

// Generate clusters the whole batch hierarchically and reports the
// resulting taxonomy as a summary record: one category per cluster with
// its summed TF-IDF keywords, a label from the top terms, and the member
// row indices. Unlike Classify's discovery this runs on every record,
// so it is meant for batches small enough for quadratic clustering.
func (e *Engine) Generate(ctx context.Context, records []Record, args GenerateArgs) (Record, error) {
	n := len(records)
	if n < 2 {
		return nil, internalerr.Invalid("need at least 2 records to generate a taxonomy, got %d", n)
	}
	args.Field = fieldOrDefault(args.Field)
	if args.Depth <= 0 {
		args.Depth = 10
	}
	if args.TopTerms <= 0 {
		args.TopTerms = 5
	}
	if args.Linkage == "" {
		args.Linkage = string(cluster.Ward)
	}
	linkage, ok := cluster.ParseLinkage(args.Linkage)
	if !ok {
		return nil, internalerr.Invalid("unknown linkage %q, use: %s", args.Linkage, linkageNames())
	}

	lists, err := e.tokenLists(ctx, records, args.Field)
	if err != nil {
		return nil, err
	}
	c := corpus.Build(lists)
	vectors := make([]map[string]float64, n)
	for i := 0; i < n; i++ {
		vectors[i] = c.TFIDFVector(i)
	}

	dend := e.cachedDendrogram(ctx, lists, vectors, args.Field, linkage)
	k := args.Depth
	if k > n {
		k = n
	}
	labels := dend.Cut(k)

	numClusters := 0
	for _, l := range labels {
		if l+1 > numClusters {
			numClusters = l + 1
		}
	}

	categories := make([]Record, 0, numClusters)
	for ci := 0; ci < numClusters; ci++ {
		var members []int
		for i, l := range labels {
			if l == ci {
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
		keywords := rankedKeywords(merged, args.TopTerms)

		categories = append(categories, Record{
			"id":       ci,
			"label":    termLabel(keywords, 3),
			"size":     len(members),
			"keywords": termRecords(keywords),
			"members":  members,
		})
	}

	return Record{
		"name":         "generated",
		"num_clusters": numClusters,
		"num_items":    n,
		"linkage":      string(linkage),
		"categories":   categories,
	}, nil
}

// cachedDendrogram retrieves (or computes) the merge history, the
// quadratic part of Generate.
func (e *Engine) cachedDendrogram(ctx context.Context, lists [][]string, vectors []map[string]float64, field string, linkage cluster.Linkage) *cluster.Dendrogram {
	n := len(vectors)
	if e.cache == nil {
		return cluster.HAC(cluster.CosineDistanceMatrix(vectors), n, linkage)
	}

	contentHash := cache.ContentHash(lists)
	argsHash := cache.ArgsHash(generateKey{Field: field, Linkage: string(linkage)})

	if payload, ok := e.cacheGet(ctx, cache.KindDendrogram, contentHash, argsHash); ok {
		var dend cluster.Dendrogram
		if json.Unmarshal(payload, &dend) == nil && dend.N == n {
			return &dend
		}
	}

	dend := cluster.HAC(cluster.CosineDistanceMatrix(vectors), n, linkage)
	if payload, err := json.Marshal(dend); err == nil {
		e.cachePut(ctx, cache.KindDendrogram, contentHash, argsHash, payload, n)
	}
	return dend
}

// rankedKeywords sorts a merged weight map heaviest-first (ties by term)
// and keeps the top n.
func rankedKeywords(merged map[string]float64, n int) []corpus.TermWeight {
	ranked := make([]corpus.TermWeight, 0, len(merged))
	for term, weight := range merged {
		ranked = append(ranked, corpus.TermWeight{Term: term, Weight: weight})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return ranked[i].Term < ranked[j].Term
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// termRecords converts term weights to {term, weight} records.
func termRecords(terms []corpus.TermWeight) []Record {
	out := make([]Record, len(terms))
	for i, tw := range terms {
		out[i] = Record{"term": tw.Term, "weight": tw.Weight}
	}
	return out
}

func linkageNames() string {
	names := ""
	for i, l := range cluster.AllLinkages() {
		if i > 0 {
			names += ", "
		}
		names += string(l)
	}
	return names
}
