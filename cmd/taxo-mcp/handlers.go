package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/taxolab/taxo/internal/recio"
	"github.com/taxolab/taxo/pkg/taxo"
	"github.com/taxolab/taxo/pkg/taxo/cache/sqlitecache"
)

// engineFor builds the per-call engine. The optional cache parameter
// opens the SQLite artifact store for the duration of the call.
func engineFor(ctx context.Context, req mcp.CallToolRequest) (*taxo.Engine, error) {
	opts := taxo.Options{}
	if path := req.GetString("cache", ""); path != "" {
		c, err := sqlitecache.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		opts.Cache = c
	}
	return taxo.New(opts), nil
}

// recordSetup parses the required records parameter and builds the
// engine. Callers own the engine and should defer Close.
func recordSetup(ctx context.Context, req mcp.CallToolRequest) ([]taxo.Record, *taxo.Engine, error) {
	raw, err := req.RequireString("records")
	if err != nil {
		return nil, nil, err
	}
	records, err := recio.DecodeBytes([]byte(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("parse records: %w", err)
	}
	eng, err := engineFor(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return records, eng, nil
}

// respond renders the tool result as pretty-printed JSON and logs one
// line per call. Operation failures come back as tool errors, not
// protocol errors.
func respond(logger *zap.Logger, req mcp.CallToolRequest, start time.Time, records int, result any, err error) (*mcp.CallToolResult, error) {
	elapsed := time.Since(start)
	if err == nil {
		var payload []byte
		payload, err = json.MarshalIndent(result, "", "  ")
		if err == nil {
			logger.Info("Tool call",
				zap.String("tool", req.Params.Name),
				zap.Int("records", records),
				zap.Duration("elapsed", elapsed),
			)
			return mcp.NewToolResultText(string(payload)), nil
		}
	}

	logger.Error("Tool call failed",
		zap.String("tool", req.Params.Name),
		zap.Int("records", records),
		zap.Duration("elapsed", elapsed),
		zap.Error(err),
	)
	return mcp.NewToolResultError(err.Error()), nil
}

func makeSampleTool(logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		records, eng, err := recordSetup(ctx, req)
		if err != nil {
			return respond(logger, req, start, 0, nil, err)
		}
		defer eng.Close()

		args := taxo.SampleArgs{
			Size:     req.GetInt("size", 100),
			Strategy: req.GetString("strategy", "random"),
			Field:    req.GetString("field", ""),
			Seed:     uint64(req.GetInt("seed", 42)),
		}
		out, err := eng.Sample(ctx, records, args)
		return respond(logger, req, start, len(records), out, err)
	}
}

func makeFingerprintTool(logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		records, eng, err := recordSetup(ctx, req)
		if err != nil {
			return respond(logger, req, start, 0, nil, err)
		}
		defer eng.Close()

		args := taxo.FingerprintArgs{
			Field:    req.GetString("field", "content"),
			Weighted: req.GetBool("weighted", false),
		}
		out, err := eng.Fingerprint(ctx, records, args)
		return respond(logger, req, start, len(records), out, err)
	}
}

func makeAnalyzeTool(logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		records, eng, err := recordSetup(ctx, req)
		if err != nil {
			return respond(logger, req, start, 0, nil, err)
		}
		defer eng.Close()

		args := taxo.AnalyzeArgs{Field: req.GetString("field", "")}
		out, err := eng.Analyze(ctx, records, args)
		return respond(logger, req, start, len(records), out, err)
	}
}

func makeSimilarityTool(logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		a, err := req.RequireString("a")
		if err != nil {
			return respond(logger, req, start, 0, nil, err)
		}
		b, err := req.RequireString("b")
		if err != nil {
			return respond(logger, req, start, 0, nil, err)
		}

		eng := taxo.New(taxo.Options{})
		defer eng.Close()

		args := taxo.SimilarityArgs{
			Metric: req.GetString("metric", "levenshtein"),
			All:    req.GetBool("all", false),
		}
		out, err := eng.Similarity(ctx, a, b, args)
		return respond(logger, req, start, 0, out, err)
	}
}

func makeNormalizeURLTool(logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		rawURL, err := req.RequireString("url")
		if err != nil {
			return respond(logger, req, start, 0, nil, err)
		}

		eng := taxo.New(taxo.Options{})
		defer eng.Close()

		out, err := eng.NormalizeURL(ctx, rawURL)
		return respond(logger, req, start, 0, out, err)
	}
}

func makeClassifyTool(logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		records, eng, err := recordSetup(ctx, req)
		if err != nil {
			return respond(logger, req, start, 0, nil, err)
		}
		defer eng.Close()

		args := taxo.ClassifyArgs{
			Field:        req.GetString("field", "content"),
			TaxonomyPath: req.GetString("taxonomy_path", ""),
			Clusters:     req.GetInt("clusters", 15),
			SampleSize:   req.GetInt("sample_size", 500),
			Linkage:      req.GetString("linkage", "ward"),
			Threshold:    req.GetFloat("threshold", 0.5),
			Seed:         uint64(req.GetInt("seed", 42)),
		}
		out, err := eng.Classify(ctx, records, args)
		return respond(logger, req, start, len(records), out, err)
	}
}

func makeGenerateTool(logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		records, eng, err := recordSetup(ctx, req)
		if err != nil {
			return respond(logger, req, start, 0, nil, err)
		}
		defer eng.Close()

		args := taxo.GenerateArgs{
			Field:    req.GetString("field", "content"),
			Depth:    req.GetInt("depth", 10),
			Linkage:  req.GetString("linkage", "ward"),
			TopTerms: req.GetInt("top_terms", 5),
		}
		out, err := eng.Generate(ctx, records, args)
		return respond(logger, req, start, len(records), out, err)
	}
}

func makeTagsTool(logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		records, eng, err := recordSetup(ctx, req)
		if err != nil {
			return respond(logger, req, start, 0, nil, err)
		}
		defer eng.Close()

		args := taxo.TagsArgs{
			Field: req.GetString("field", "content"),
			Count: req.GetInt("count", 5),
		}
		out, err := eng.Tags(ctx, records, args)
		return respond(logger, req, start, len(records), out, err)
	}
}

func makeTopicsTool(logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		records, eng, err := recordSetup(ctx, req)
		if err != nil {
			return respond(logger, req, start, 0, nil, err)
		}
		defer eng.Close()

		args := taxo.TopicsArgs{
			Field:      req.GetString("field", "content"),
			Topics:     req.GetInt("topics", 5),
			Terms:      req.GetInt("terms", 10),
			Iterations: req.GetInt("iterations", 200),
			VocabLimit: req.GetInt("vocab_limit", 5000),
			Seed:       uint64(req.GetInt("seed", 42)),
		}
		out, err := eng.Topics(ctx, records, args)
		return respond(logger, req, start, len(records), out, err)
	}
}

func makeDedupTool(logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		records, eng, err := recordSetup(ctx, req)
		if err != nil {
			return respond(logger, req, start, 0, nil, err)
		}
		defer eng.Close()

		args := taxo.DedupArgs{
			Field:     req.GetString("field", "content"),
			URLField:  req.GetString("url_field", "url"),
			Strategy:  req.GetString("strategy", "combined"),
			Threshold: req.GetInt("threshold", 3),
		}
		out, err := eng.Dedup(ctx, records, args)
		return respond(logger, req, start, len(records), out, err)
	}
}

func makeOrganizeTool(logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		records, eng, err := recordSetup(ctx, req)
		if err != nil {
			return respond(logger, req, start, 0, nil, err)
		}
		defer eng.Close()

		args := taxo.OrganizeArgs{
			Format:        req.GetString("format", "folders"),
			OutputDir:     req.GetString("output_dir", "./organized"),
			CategoryField: req.GetString("category_field", "_category"),
			NameField:     req.GetString("name_field", "id"),
		}
		out, err := eng.Organize(ctx, records, args)
		return respond(logger, req, start, len(records), out, err)
	}
}

func makeCacheInfoTool(logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		if _, err := req.RequireString("cache"); err != nil {
			return respond(logger, req, start, 0, nil, err)
		}
		eng, err := engineFor(ctx, req)
		if err != nil {
			return respond(logger, req, start, 0, nil, err)
		}
		defer eng.Close()

		out, err := eng.CacheInfo(ctx)
		return respond(logger, req, start, 0, out, err)
	}
}

func makeCacheClearTool(logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		if _, err := req.RequireString("cache"); err != nil {
			return respond(logger, req, start, 0, nil, err)
		}
		eng, err := engineFor(ctx, req)
		if err != nil {
			return respond(logger, req, start, 0, nil, err)
		}
		defer eng.Close()

		out, err := eng.CacheClear(ctx, req.GetString("kind", ""))
		return respond(logger, req, start, 0, out, err)
	}
}
