package taxo

import (
	"context"
	"encoding/json"

	"github.com/taxolab/taxo/pkg/taxo/cache"
	"github.com/taxolab/taxo/pkg/taxo/corpus"
	"github.com/taxolab/taxo/pkg/taxo/simhash"
)

// FingerprintArgs configures Fingerprint.
type FingerprintArgs struct {
	// Field holds the text to fingerprint; empty means "content".
	Field string
	// Weighted applies TF-IDF token weights from a corpus over the whole
	// batch instead of weighting every token 1.
	Weighted bool
}

// DefaultFingerprintArgs returns the documented defaults.
func DefaultFingerprintArgs() FingerprintArgs {
	return FingerprintArgs{Field: defaultField}
}

// fingerprintKey is the argument identity of a fingerprint artifact.
// Dedup reuses fingerprint-op artifacts by hashing the same shape.
type fingerprintKey struct {
	Field    string `json:"field"`
	Weighted bool   `json:"weighted"`
}

// Fingerprint annotates every record with a `_fingerprint` column: the
// 64-bit SimHash of its tokenized text as 16 hex digits. Records with no
// usable text get the zero fingerprint. Identical token multisets always
// produce identical fingerprints regardless of token order.
func (e *Engine) Fingerprint(ctx context.Context, records []Record, args FingerprintArgs) ([]Record, error) {
	args.Field = fieldOrDefault(args.Field)

	lists, err := e.tokenLists(ctx, records, args.Field)
	if err != nil {
		return nil, err
	}

	fingerprints := e.cachedFingerprints(ctx, lists, args.Field, args.Weighted)

	out := make([]Record, len(records))
	for i, r := range records {
		annotated := cloneRecord(r)
		annotated["_fingerprint"] = simhash.ToHex(fingerprints[i])
		out[i] = annotated
	}
	return out, nil
}

// cachedFingerprints computes (or retrieves) one fingerprint per token
// list. The cached payload is the hex fingerprint array.
func (e *Engine) cachedFingerprints(ctx context.Context, lists [][]string, field string, weighted bool) []uint64 {
	if e.cache == nil {
		return computeFingerprints(lists, weighted)
	}
	contentHash := cache.ContentHash(lists)
	argsHash := cache.ArgsHash(fingerprintKey{Field: field, Weighted: weighted})

	if payload, ok := e.cacheGet(ctx, cache.KindFingerprints, contentHash, argsHash); ok {
		var hexes []string
		if json.Unmarshal(payload, &hexes) == nil && len(hexes) == len(lists) {
			fingerprints := make([]uint64, len(hexes))
			valid := true
			for i, h := range hexes {
				fp, ok := simhash.FromHex(h)
				if !ok {
					valid = false
					break
				}
				fingerprints[i] = fp
			}
			if valid {
				return fingerprints
			}
		}
	}

	fingerprints := computeFingerprints(lists, weighted)

	hexes := make([]string, len(fingerprints))
	for i, fp := range fingerprints {
		hexes[i] = simhash.ToHex(fp)
	}
	if payload, err := json.Marshal(hexes); err == nil {
		e.cachePut(ctx, cache.KindFingerprints, contentHash, argsHash, payload, len(lists))
	}
	return fingerprints
}

func computeFingerprints(lists [][]string, weighted bool) []uint64 {
	fingerprints := make([]uint64, len(lists))
	if weighted {
		c := corpus.Build(lists)
		for i, tokens := range lists {
			fingerprints[i] = simhash.WeightedHash(tokens, c.TokenWeights(tokens))
		}
		return fingerprints
	}
	for i, tokens := range lists {
		fingerprints[i] = simhash.Hash(tokens)
	}
	return fingerprints
}
