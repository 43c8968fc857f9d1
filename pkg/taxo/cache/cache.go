// Package cache keys and stores expensive pipeline artifacts so repeated
// runs over the same data can skip recomputation. An artifact is valid only
// for the exact input data, operation arguments and library version that
// produced it; all three are part of the key.
package cache

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dchest/siphash"

	"github.com/taxolab/taxo/pkg/taxo/simhash"
)

// SipHash key for argument hashing. Changing it invalidates every cache.
const (
	argsKey0 = 0x7461786f5f617267
	argsKey1 = 0x735f686173685f6b
)

// Kind names a cacheable artifact type.
type Kind string

const (
	KindCorpus       Kind = "corpus"
	KindDendrogram   Kind = "dendrogram"
	KindTaxonomy     Kind = "taxonomy"
	KindFingerprints Kind = "fingerprints"
)

// ParseKind resolves a kind name case-insensitively. The second return is
// false for unknown names.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindCorpus:
		return KindCorpus, true
	case KindDendrogram:
		return KindDendrogram, true
	case KindTaxonomy:
		return KindTaxonomy, true
	case KindFingerprints:
		return KindFingerprints, true
	}
	return "", false
}

// AllKinds lists every artifact kind.
func AllKinds() []Kind {
	return []Kind{KindCorpus, KindDendrogram, KindTaxonomy, KindFingerprints}
}

// Key identifies one cached artifact.
type Key struct {
	Kind        Kind
	ContentHash uint64
	ArgsHash    uint64
	Version     string
}

// Info describes cache contents for the cache-info operation.
type Info struct {
	Path      string         `json:"path"`
	SizeBytes int64          `json:"size_bytes"`
	Entries   int            `json:"entries"`
	ByKind    map[string]int `json:"by_kind"`
}

// Cache stores opaque artifact payloads keyed by Key. Implementations must
// be safe for concurrent use.
type Cache interface {
	// Get returns the payload for key; the bool is false on a miss.
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	// Put stores (or replaces) the payload for key.
	Put(ctx context.Context, key Key, payload []byte, rowCount int) error
	// Invalidate removes artifacts of one kind, or everything when kind
	// is empty, and returns how many entries were dropped.
	Invalidate(ctx context.Context, kind Kind) (int, error)
	Info(ctx context.Context) (Info, error)
	Close() error
}

// ContentHash fingerprints the input data: a uniform SimHash over the
// concatenation of every record's tokens. Empty input hashes to 0.
func ContentHash(tokenLists [][]string) uint64 {
	var all []string
	for _, tokens := range tokenLists {
		all = append(all, tokens...)
	}
	return simhash.Hash(all)
}

// ArgsHash fingerprints operation arguments via their canonical JSON, so
// any parameter change misses the cache.
func ArgsHash(args any) uint64 {
	data, err := json.Marshal(args)
	if err != nil {
		return 0
	}
	return siphash.Hash(argsKey0, argsKey1, data)
}
