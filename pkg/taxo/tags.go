package taxo

import (
	"context"
	"encoding/json"

	"github.com/taxolab/taxo/pkg/taxo/cache"
	"github.com/taxolab/taxo/pkg/taxo/corpus"
)

// TagsArgs configures Tags.
type TagsArgs struct {
	// Field holds the text to tag; empty means "content".
	Field string
	// Count is how many tags each record gets. Non-positive falls back to 5.
	Count int
}

// DefaultTagsArgs returns the documented defaults.
func DefaultTagsArgs() TagsArgs {
	return TagsArgs{Field: defaultField, Count: 5}
}

// corpusKey is the argument identity of a corpus artifact. The tag count
// is deliberately absent: the same corpus serves any count.
type corpusKey struct {
	Field string `json:"field"`
}

// Tags annotates each record with a "_tags" list holding its top TF-IDF
// terms, most distinctive first.
func (e *Engine) Tags(ctx context.Context, records []Record, args TagsArgs) ([]Record, error) {
	if len(records) == 0 {
		return []Record{}, nil
	}
	args.Field = fieldOrDefault(args.Field)
	if args.Count <= 0 {
		args.Count = 5
	}

	lists, err := e.tokenLists(ctx, records, args.Field)
	if err != nil {
		return nil, err
	}
	c := e.cachedCorpus(ctx, lists, args.Field)

	out := make([]Record, len(records))
	for i, r := range records {
		tags := make([]string, 0, args.Count)
		for _, tw := range c.TopTerms(i, args.Count) {
			tags = append(tags, tw.Term)
		}
		annotated := cloneRecord(r)
		annotated["_tags"] = tags
		out[i] = annotated
	}
	return out, nil
}

// cachedCorpus retrieves (or builds) the TF-IDF corpus for a token batch.
func (e *Engine) cachedCorpus(ctx context.Context, lists [][]string, field string) *corpus.Corpus {
	if e.cache == nil {
		return corpus.Build(lists)
	}

	contentHash := cache.ContentHash(lists)
	argsHash := cache.ArgsHash(corpusKey{Field: field})

	if payload, ok := e.cacheGet(ctx, cache.KindCorpus, contentHash, argsHash); ok {
		var c corpus.Corpus
		if json.Unmarshal(payload, &c) == nil && c.NumDocs() == len(lists) {
			return &c
		}
	}

	c := corpus.Build(lists)
	if payload, err := json.Marshal(c); err == nil {
		e.cachePut(ctx, cache.KindCorpus, contentHash, argsHash, payload, len(lists))
	}
	return c
}
