package taxo

import (
	"context"

	"github.com/taxolab/taxo/pkg/taxo/internalerr"
	"github.com/taxolab/taxo/pkg/taxo/strdist"
	"github.com/taxolab/taxo/pkg/taxo/urlnorm"
)

// SimilarityArgs configures Similarity.
type SimilarityArgs struct {
	// Metric is one of levenshtein, jaro-winkler, cosine (aliases
	// accepted). Empty means levenshtein.
	Metric string
	// All scores every metric at once, one result key per metric.
	All bool
}

// Similarity scores two strings under the chosen metric and returns
// {a, b, metric, similarity}, or one score per metric when All is set.
func (e *Engine) Similarity(ctx context.Context, a, b string, args SimilarityArgs) (Record, error) {
	if args.All {
		out := Record{"a": a, "b": b}
		for _, m := range strdist.AllMetrics() {
			out[string(m)] = strdist.Similarity(a, b, m)
		}
		return out, nil
	}

	if args.Metric == "" {
		args.Metric = string(strdist.Levenshtein)
	}
	metric, ok := strdist.ParseMetric(args.Metric)
	if !ok {
		return nil, internalerr.Invalid("unknown metric %q, use: %s", args.Metric, metricNames())
	}
	return Record{
		"a":          a,
		"b":          b,
		"metric":     args.Metric,
		"similarity": strdist.Similarity(a, b, metric),
	}, nil
}

// NormalizeURL canonicalizes a URL and returns {original, normalized,
// canonical_key}. Unparseable input passes through unchanged; the
// operation never fails.
func (e *Engine) NormalizeURL(ctx context.Context, rawURL string) (Record, error) {
	return Record{
		"original":      rawURL,
		"normalized":    urlnorm.Normalize(rawURL),
		"canonical_key": urlnorm.CanonicalKey(rawURL),
	}, nil
}

func metricNames() string {
	names := ""
	for i, m := range strdist.AllMetrics() {
		if i > 0 {
			names += ", "
		}
		names += string(m)
	}
	return names
}
