package taxo

import (
	"context"

	"github.com/taxolab/taxo/pkg/taxo/dedup"
	"github.com/taxolab/taxo/pkg/taxo/internalerr"
	"github.com/taxolab/taxo/pkg/taxo/lsh"
	"github.com/taxolab/taxo/pkg/taxo/simhash"
	"github.com/taxolab/taxo/pkg/taxo/urlnorm"
)

// DedupArgs configures Dedup.
type DedupArgs struct {
	// Field holds the text compared for fuzzy duplicates; empty means
	// "content".
	Field string
	// URLField holds the record URL; empty means "url".
	URLField string
	// Strategy is one of url, fuzzy, combined. Empty means combined.
	Strategy string
	// Threshold is the maximum Hamming distance between SimHash
	// fingerprints for a fuzzy match.
	Threshold int
}

// DefaultDedupArgs returns the documented defaults.
func DefaultDedupArgs() DedupArgs {
	return DedupArgs{Field: defaultField, URLField: "url", Strategy: string(dedup.Combined), Threshold: 3}
}

// Dedup annotates each record with its duplicate group. "_dup_group" is
// the smallest original index among the group's members and "_is_primary"
// marks that representative. URL duplicates share a canonical URL key;
// fuzzy duplicates sit within Threshold bits of each other's SimHash.
func (e *Engine) Dedup(ctx context.Context, records []Record, args DedupArgs) ([]Record, error) {
	if len(records) == 0 {
		return []Record{}, nil
	}
	args.Field = fieldOrDefault(args.Field)
	if args.URLField == "" {
		args.URLField = "url"
	}
	if args.Strategy == "" {
		args.Strategy = string(dedup.Combined)
	}
	strategy, ok := dedup.ParseStrategy(args.Strategy)
	if !ok {
		return nil, internalerr.Invalid("unknown dedup strategy %q, use: %s", args.Strategy, dedupStrategyNames())
	}

	var urlKeys map[int]string
	if strategy == dedup.URL || strategy == dedup.Combined {
		urlKeys = make(map[int]string, len(records))
		for i, r := range records {
			if raw := textOf(r, args.URLField); raw != "" {
				urlKeys[i] = urlnorm.CanonicalKey(raw)
			}
		}
	}

	var fuzzyPairs [][2]int
	if strategy == dedup.Fuzzy || strategy == dedup.Combined {
		lists, err := e.tokenLists(ctx, records, args.Field)
		if err != nil {
			return nil, err
		}
		fingerprints := e.cachedFingerprints(ctx, lists, args.Field, false)
		fuzzyPairs = nearPairs(fingerprints, args.Threshold)
	}

	groups := dedup.Groups(len(records), urlKeys, fuzzyPairs)

	out := make([]Record, len(records))
	for i, r := range records {
		annotated := cloneRecord(r)
		annotated["_dup_group"] = groups.GroupID(i)
		annotated["_is_primary"] = groups.IsPrimary(i)
		out[i] = annotated
	}
	return out, nil
}

// nearPairs filters the LSH candidate pairs down to those within
// threshold Hamming bits.
func nearPairs(fingerprints []uint64, threshold int) [][2]int {
	index := lsh.NewDefaultSimHashIndex()
	for i, fp := range fingerprints {
		index.Insert(i, fp)
	}
	var pairs [][2]int
	for _, p := range index.CandidatePairs() {
		if simhash.HammingDistance(fingerprints[p[0]], fingerprints[p[1]]) <= threshold {
			pairs = append(pairs, p)
		}
	}
	return pairs
}

func dedupStrategyNames() string {
	names := ""
	for i, s := range dedup.AllStrategies() {
		if i > 0 {
			names += ", "
		}
		names += string(s)
	}
	return names
}
