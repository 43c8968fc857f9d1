// Package taxo is the operation facade of the content-topology engine:
// JSON-shaped records in, JSON-shaped records or summaries out. Every
// operation is deterministic for a fixed input and seed, never mutates
// its input, and reports failures as a single structured error (see
// internalerr). The algorithmic work lives in the subpackages; this
// package marshals records into them and annotations back out.
package taxo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/taxolab/taxo/pkg/taxo/cache"
	"github.com/taxolab/taxo/pkg/taxo/token"
)

// Version participates in every cache key, so artifacts written by one
// release are never served to another.
const Version = "0.3.0"

// Record is the exchange unit of every operation: string keys, arbitrary
// JSON-shaped values. Operations treat records as read-only and return
// annotated copies.
type Record = map[string]any

// Options configures an Engine. The zero value runs with the default
// tokenizer and no cache.
type Options struct {
	// Tokenizer overrides the default tokenize pipeline for every
	// operation that extracts text.
	Tokenizer *token.Options
	// Cache, when set, stores expensive artifacts (corpora, dendrograms,
	// taxonomies, fingerprints) between calls. Results are identical with
	// or without it.
	Cache cache.Cache
}

// Engine exposes the topology operations over record batches. An Engine
// is stateless apart from its configuration and safe for concurrent use.
type Engine struct {
	tokOpts token.Options
	cache   cache.Cache
}

// New creates an Engine.
func New(opts Options) *Engine {
	tokOpts := token.DefaultOptions()
	if opts.Tokenizer != nil {
		tokOpts = *opts.Tokenizer
	}
	return &Engine{tokOpts: tokOpts, cache: opts.Cache}
}

// Close releases the cache, if one was configured.
func (e *Engine) Close() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Close()
}

func (e *Engine) tokenize(text string) []string {
	return token.TokenizeWith(text, e.tokOpts)
}

// textOf extracts the string value of a record field; non-string values
// and missing fields read as "".
func textOf(r Record, field string) string {
	if v, ok := r[field]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// cloneRecord returns a shallow copy so annotations never touch the
// caller's map.
func cloneRecord(r Record) Record {
	out := make(Record, len(r)+3)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// texts extracts the field value of every record, in input order.
func texts(records []Record, field string) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = textOf(r, field)
	}
	return out
}

// tokenLists tokenizes every record's field in parallel. Each row writes
// its own result slot, so the output order is the input order no matter
// how the goroutines interleave.
func (e *Engine) tokenLists(ctx context.Context, records []Record, field string) ([][]string, error) {
	lists := make([][]string, len(records))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lists[i] = e.tokenize(textOf(records[i], field))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lists, nil
}

// cacheGet looks up an artifact. The cache is an accessory: lookup
// failures count as misses so the operation recomputes instead of
// failing.
func (e *Engine) cacheGet(ctx context.Context, kind cache.Kind, contentHash, argsHash uint64) ([]byte, bool) {
	if e.cache == nil {
		return nil, false
	}
	key := cache.Key{Kind: kind, ContentHash: contentHash, ArgsHash: argsHash, Version: Version}
	payload, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	return payload, ok
}

// cachePut stores an artifact, best-effort.
func (e *Engine) cachePut(ctx context.Context, kind cache.Kind, contentHash, argsHash uint64, payload []byte, rows int) {
	if e.cache == nil {
		return
	}
	key := cache.Key{Kind: kind, ContentHash: contentHash, ArgsHash: argsHash, Version: Version}
	_ = e.cache.Put(ctx, key, payload, rows)
}

const defaultField = "content"

func fieldOrDefault(field string) string {
	if field == "" {
		return defaultField
	}
	return field
}
