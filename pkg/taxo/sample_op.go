package taxo

import (
	"context"

	"github.com/taxolab/taxo/pkg/taxo/internalerr"
	"github.com/taxolab/taxo/pkg/taxo/sample"
)

// SampleArgs configures Sample.
type SampleArgs struct {
	// Size is how many records to draw. Non-positive falls back to 100.
	Size int
	// Strategy is one of random, stratified, systematic, reservoir.
	// Empty means random.
	Strategy string
	// Field is the stratum key for stratified sampling; other strategies
	// ignore it.
	Field string
	// Seed drives the generator. The same seed reproduces the sample.
	Seed uint64
}

// DefaultSampleArgs returns the documented defaults: 100 random records
// with seed 42.
func DefaultSampleArgs() SampleArgs {
	return SampleArgs{Size: 100, Strategy: "random", Seed: 42}
}

// Sample draws a deterministic subset of the records, preserving input
// order. Requesting at least the batch size returns every record.
func (e *Engine) Sample(ctx context.Context, records []Record, args SampleArgs) ([]Record, error) {
	if len(records) == 0 {
		return []Record{}, nil
	}
	if args.Size <= 0 {
		args.Size = 100
	}
	if args.Strategy == "" {
		args.Strategy = string(sample.StrategyRandom)
	}

	strategy, ok := sample.ParseStrategy(args.Strategy)
	if !ok {
		return nil, internalerr.Invalid("unknown strategy %q, use: %s", args.Strategy, strategyNames())
	}

	var indices []int
	switch strategy {
	case sample.StrategyRandom:
		indices = sample.Random(len(records), args.Size, args.Seed)
	case sample.StrategySystematic:
		indices = sample.Systematic(len(records), args.Size, args.Seed)
	case sample.StrategyReservoir:
		indices = sample.Reservoir(len(records), args.Size, args.Seed)
	case sample.StrategyStratified:
		if args.Field == "" {
			return nil, internalerr.InvalidField("field", "stratified sampling requires a stratum field")
		}
		strata := make(map[string][]int)
		for i, r := range records {
			key := textOf(r, args.Field)
			if key == "" {
				key = "unknown"
			}
			strata[key] = append(strata[key], i)
		}
		indices = sample.Stratified(strata, args.Size, args.Seed)
	}

	out := make([]Record, 0, len(indices))
	for _, i := range indices {
		out = append(out, cloneRecord(records[i]))
	}
	return out, nil
}

func strategyNames() string {
	names := ""
	for i, s := range sample.AllStrategies() {
		if i > 0 {
			names += ", "
		}
		names += string(s)
	}
	return names
}
