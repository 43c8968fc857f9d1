package taxo

import (
	"context"

	"github.com/taxolab/taxo/pkg/taxo/corpus"
	"github.com/taxolab/taxo/pkg/taxo/internalerr"
	"github.com/taxolab/taxo/pkg/taxo/nmf"
)

// TopicsArgs configures Topics.
type TopicsArgs struct {
	// Field holds the text to model; empty means "content".
	Field string
	// Topics is the number of topics to extract. Must be positive.
	Topics int
	// Terms is how many terms each topic reports. Non-positive falls
	// back to 10.
	Terms int
	// Iterations bounds the multiplicative updates. Non-positive falls
	// back to 200.
	Iterations int
	// VocabLimit caps the vocabulary by document frequency. Non-positive
	// falls back to 5000.
	VocabLimit int
	// Seed drives the factor initialization.
	Seed uint64
}

// DefaultTopicsArgs returns the documented defaults.
func DefaultTopicsArgs() TopicsArgs {
	return TopicsArgs{Field: defaultField, Topics: 5, Terms: 10, Iterations: 200, VocabLimit: 5000, Seed: 42}
}

// Topics factorizes the batch into latent topics via NMF and reports
// each topic's top terms plus every record's dominant topic. Factor
// initialization is seeded, so equal input and args reproduce the run.
func (e *Engine) Topics(ctx context.Context, records []Record, args TopicsArgs) (Record, error) {
	if len(records) == 0 {
		return nil, internalerr.Invalid("no records to extract topics from")
	}
	if args.Topics <= 0 {
		return nil, internalerr.Invalid("topic count must be positive, got %d", args.Topics)
	}
	args.Field = fieldOrDefault(args.Field)
	if args.Terms <= 0 {
		args.Terms = 10
	}
	if args.Iterations <= 0 {
		args.Iterations = 200
	}
	if args.VocabLimit <= 0 {
		args.VocabLimit = 5000
	}

	lists, err := e.tokenLists(ctx, records, args.Field)
	if err != nil {
		return nil, err
	}
	c := corpus.Build(lists)
	vectors := make([]map[string]float64, len(records))
	for i := range records {
		vectors[i] = c.TFIDFVector(i)
	}

	res, err := nmf.Factorize(vectors, nmf.Config{
		Topics:     args.Topics,
		MaxIter:    args.Iterations,
		VocabLimit: args.VocabLimit,
		Seed:       args.Seed,
	})
	if err != nil {
		return nil, err
	}

	dominant := res.DominantTopics()
	topics := make([]Record, args.Topics)
	for t := 0; t < args.Topics; t++ {
		var members []int
		for i, d := range dominant {
			if d == t {
				members = append(members, i)
			}
		}
		if members == nil {
			members = []int{}
		}
		terms := res.TopTerms(t, args.Terms)
		topics[t] = Record{
			"id":      t,
			"label":   termLabel(terms, 3),
			"size":    len(members),
			"terms":   termRecords(terms),
			"members": members,
		}
	}

	assignments := make([]Record, len(records))
	for i, d := range dominant {
		assignments[i] = Record{"item": i, "topic": d}
	}

	return Record{
		"num_topics":  args.Topics,
		"num_items":   len(records),
		"topics":      topics,
		"assignments": assignments,
	}, nil
}

// termLabel joins the top few terms into a display label.
func termLabel(terms []corpus.TermWeight, n int) string {
	if len(terms) < n {
		n = len(terms)
	}
	label := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			label += ", "
		}
		label += terms[i].Term
	}
	return label
}
