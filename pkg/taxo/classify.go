package taxo

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/taxolab/taxo/pkg/taxo/cache"
	"github.com/taxolab/taxo/pkg/taxo/cluster"
	"github.com/taxolab/taxo/pkg/taxo/discover"
	"github.com/taxolab/taxo/pkg/taxo/internalerr"
	"github.com/taxolab/taxo/pkg/taxo/taxonomy"
)

// ClassifyArgs configures Classify.
type ClassifyArgs struct {
	// Field holds the text to classify; empty means "content".
	Field string
	// Taxonomy, when set, is used directly and nothing is discovered.
	Taxonomy *taxonomy.Taxonomy
	// TaxonomyPath loads a taxonomy file (JSON or YAML) when Taxonomy is
	// nil. When both are empty a taxonomy is discovered from the data.
	TaxonomyPath string
	// Clusters is the category count for discovery. Non-positive falls
	// back to 15.
	Clusters int
	// SampleSize caps how many records feed discovery clustering.
	// Non-positive falls back to 500.
	SampleSize int
	// Linkage is the discovery clustering rule: one of ward, complete,
	// average, single. Empty means ward.
	Linkage string
	// Threshold gates assignments: best scores below it come back as
	// uncategorized. Zero disables the gate.
	Threshold float64
	// Seed drives discovery sampling.
	Seed uint64
}

// DefaultClassifyArgs returns the documented defaults: discover 15
// categories over a 500-record sample with ward linkage, threshold 0.5,
// seed 42.
func DefaultClassifyArgs() ClassifyArgs {
	return ClassifyArgs{Field: defaultField, Clusters: 15, SampleSize: 500, Linkage: string(cluster.Ward), Threshold: 0.5, Seed: 42}
}

// classifyKey is the argument identity of a discovered-taxonomy
// artifact. Threshold is excluded: it gates assignment, not discovery.
type classifyKey struct {
	Field      string `json:"field"`
	Clusters   int    `json:"clusters"`
	SampleSize int    `json:"sample_size"`
	Linkage    string `json:"linkage"`
	Seed       uint64 `json:"seed"`
}

// Classify annotates every record with `_category`, `_hierarchy` and
// `_confidence`. The taxonomy comes from args.Taxonomy, args.TaxonomyPath,
// or discovery over the batch itself, in that order of precedence.
// Records whose best category score falls below the threshold are
// assigned the reserved category "uncategorized" with confidence 0.
func (e *Engine) Classify(ctx context.Context, records []Record, args ClassifyArgs) ([]Record, error) {
	if len(records) == 0 {
		return []Record{}, nil
	}
	args.Field = fieldOrDefault(args.Field)
	if args.Clusters <= 0 {
		args.Clusters = 15
	}
	if args.SampleSize <= 0 {
		args.SampleSize = 500
	}
	if args.Linkage == "" {
		args.Linkage = string(cluster.Ward)
	}
	linkage, ok := cluster.ParseLinkage(args.Linkage)
	if !ok {
		return nil, internalerr.Invalid("unknown linkage %q, use: %s", args.Linkage, linkageNames())
	}

	batchTexts := texts(records, args.Field)
	if allBlank(batchTexts) {
		return nil, &internalerr.Error{
			Kind:    internalerr.KindFieldMissing,
			Message: "no record has text to classify",
			Field:   args.Field,
		}
	}

	tax, err := e.resolveTaxonomy(ctx, records, batchTexts, args, linkage)
	if err != nil {
		return nil, err
	}

	assignments := discover.Classify(batchTexts, tax, args.Threshold, &e.tokOpts)

	out := make([]Record, len(records))
	for i, r := range records {
		annotated := cloneRecord(r)
		annotated["_category"] = assignments[i].Category
		annotated["_hierarchy"] = assignments[i].Hierarchy
		annotated["_confidence"] = assignments[i].Confidence
		out[i] = annotated
	}
	return out, nil
}

func (e *Engine) resolveTaxonomy(ctx context.Context, records []Record, batchTexts []string, args ClassifyArgs, linkage cluster.Linkage) (*taxonomy.Taxonomy, error) {
	if args.Taxonomy != nil {
		return args.Taxonomy, nil
	}
	if args.TaxonomyPath != "" {
		return taxonomy.Load(args.TaxonomyPath)
	}
	return e.discoveredTaxonomy(ctx, records, batchTexts, args, linkage), nil
}

// discoveredTaxonomy runs discovery, consulting the cache first: the
// sample-cluster-label pipeline is the expensive part of classification.
func (e *Engine) discoveredTaxonomy(ctx context.Context, records []Record, batchTexts []string, args ClassifyArgs, linkage cluster.Linkage) *taxonomy.Taxonomy {
	cfg := discover.Config{
		K:                  args.Clusters,
		SampleSize:         args.SampleSize,
		KeywordsPerCluster: 20,
		Linkage:            linkage,
		Seed:               args.Seed,
		TokenOptions:       &e.tokOpts,
	}
	if e.cache == nil {
		return discover.DiscoverTaxonomy(batchTexts, cfg)
	}

	lists, err := e.tokenLists(ctx, records, args.Field)
	if err != nil {
		return discover.DiscoverTaxonomy(batchTexts, cfg)
	}
	contentHash := cache.ContentHash(lists)
	argsHash := cache.ArgsHash(classifyKey{
		Field: args.Field, Clusters: args.Clusters, SampleSize: args.SampleSize,
		Linkage: string(linkage), Seed: args.Seed,
	})

	if payload, ok := e.cacheGet(ctx, cache.KindTaxonomy, contentHash, argsHash); ok {
		if tax, err := taxonomy.Parse(payload); err == nil {
			return tax
		}
	}

	tax := discover.DiscoverTaxonomy(batchTexts, cfg)
	if payload, err := json.Marshal(tax); err == nil {
		e.cachePut(ctx, cache.KindTaxonomy, contentHash, argsHash, payload, len(records))
	}
	return tax
}

func allBlank(texts []string) bool {
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			return false
		}
	}
	return true
}
