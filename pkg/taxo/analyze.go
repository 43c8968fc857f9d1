package taxo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// AnalyzeArgs configures Analyze.
type AnalyzeArgs struct {
	// Field restricts the analysis to one column. Empty analyzes every
	// column seen anywhere in the batch.
	Field string
}

// Analyze summarizes the shape of a record batch: row count, columns,
// and per-column statistics (null counts, cardinality, value lengths,
// type distribution, most frequent values). Columns are the sorted union
// of keys over all rows, so rows with divergent shapes are fully covered.
func (e *Engine) Analyze(ctx context.Context, records []Record, args AnalyzeArgs) (Record, error) {
	if len(records) == 0 {
		return Record{"total_rows": 0, "columns": []string{}, "fields": Record{}}, nil
	}

	var columns []string
	if args.Field != "" {
		columns = []string{args.Field}
	} else {
		seen := make(map[string]bool)
		for _, r := range records {
			for k := range r {
				seen[k] = true
			}
		}
		columns = make([]string, 0, len(seen))
		for k := range seen {
			columns = append(columns, k)
		}
		sort.Strings(columns)
	}

	fields := Record{}
	for _, col := range columns {
		fields[col] = columnStats(records, col)
	}

	return Record{
		"total_rows":  len(records),
		"columns":     columns,
		"num_columns": len(columns),
		"fields":      fields,
	}, nil
}

func columnStats(records []Record, col string) Record {
	nullCount := 0
	typeCounts := map[string]int{}
	valueCounts := map[string]int{}
	totalLen := 0
	minLen, maxLen := -1, 0

	for _, r := range records {
		v, ok := r[col]
		if !ok || v == nil {
			nullCount++
			continue
		}
		typeCounts[typeName(v)]++
		s := stringify(v)
		totalLen += len(s)
		if minLen < 0 || len(s) < minLen {
			minLen = len(s)
		}
		if len(s) > maxLen {
			maxLen = len(s)
		}
		valueCounts[s]++
	}

	nonNull := len(records) - nullCount
	if minLen < 0 {
		minLen = 0
	}

	uniqueness := 0.0
	avgLen := 0.0
	if nonNull > 0 {
		uniqueness = float64(len(valueCounts)) / float64(nonNull)
		avgLen = float64(totalLen) / float64(nonNull)
	}

	return Record{
		"non_null":    nonNull,
		"null_count":  nullCount,
		"cardinality": len(valueCounts),
		"uniqueness":  uniqueness,
		"avg_length":  avgLen,
		"min_length":  minLen,
		"max_length":  maxLen,
		"types":       sortedCounts(typeCounts, "type"),
		"top_values":  topValues(valueCounts, 5),
	}
}

// typeName reports the JSON type of a record value. Values arriving from
// encoding/json are float64/bool/string/[]any/map[string]any/nil; native
// Go numerics from in-process callers also count as numbers.
func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return "other"
}

// stringify renders a value the way it would appear in JSON output;
// strings stay raw so their lengths match what the user supplied.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func sortedCounts(counts map[string]int, key string) []Record {
	type pair struct {
		name  string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for name, count := range counts {
		pairs = append(pairs, pair{name, count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].name < pairs[j].name
	})
	out := make([]Record, len(pairs))
	for i, p := range pairs {
		out[i] = Record{key: p.name, "count": p.count}
	}
	return out
}

func topValues(counts map[string]int, n int) []Record {
	out := sortedCounts(counts, "value")
	if len(out) > n {
		out = out[:n]
	}
	return out
}
