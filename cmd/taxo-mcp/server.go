package main

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/taxolab/taxo/pkg/taxo"
)

// newServer builds the stdio server: one tool per operation plus the
// cache helpers. Record-bearing tools take the batch as a JSON string
// and accept an optional cache path enabling the artifact store per call.
func newServer(logger *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer("taxo", taxo.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("sample",
		mcp.WithDescription("Draw a deterministic sample from a record batch, preserving input order"),
		mcp.WithString("records", mcp.Required(), mcp.Description("JSON array of records")),
		mcp.WithNumber("size", mcp.DefaultNumber(100), mcp.Description("Sample size")),
		mcp.WithString("strategy", mcp.DefaultString("random"), mcp.Enum("random", "stratified", "systematic", "reservoir"), mcp.Description("Sampling strategy")),
		mcp.WithString("field", mcp.Description("Stratum field for stratified sampling")),
		mcp.WithNumber("seed", mcp.DefaultNumber(42), mcp.Description("Random seed")),
		mcp.WithString("cache", mcp.Description("SQLite artifact cache path")),
	), makeSampleTool(logger))

	s.AddTool(mcp.NewTool("fingerprint",
		mcp.WithDescription("Annotate each record with the 16-hex-digit SimHash of its text"),
		mcp.WithString("records", mcp.Required(), mcp.Description("JSON array of records")),
		mcp.WithString("field", mcp.DefaultString("content"), mcp.Description("Text field to fingerprint")),
		mcp.WithBoolean("weighted", mcp.DefaultBool(false), mcp.Description("Weight tokens by TF-IDF over the batch")),
		mcp.WithString("cache", mcp.Description("SQLite artifact cache path")),
	), makeFingerprintTool(logger))

	s.AddTool(mcp.NewTool("analyze",
		mcp.WithDescription("Summarize a record batch: per-column null counts, cardinality, lengths, types and top values"),
		mcp.WithString("records", mcp.Required(), mcp.Description("JSON array of records")),
		mcp.WithString("field", mcp.Description("Restrict the analysis to one column")),
		mcp.WithString("cache", mcp.Description("SQLite artifact cache path")),
	), makeAnalyzeTool(logger))

	s.AddTool(mcp.NewTool("similarity",
		mcp.WithDescription("Score two strings under a string-distance metric"),
		mcp.WithString("a", mcp.Required(), mcp.Description("First string")),
		mcp.WithString("b", mcp.Required(), mcp.Description("Second string")),
		mcp.WithString("metric", mcp.DefaultString("levenshtein"), mcp.Enum("levenshtein", "jaro-winkler", "cosine"), mcp.Description("Metric")),
		mcp.WithBoolean("all", mcp.DefaultBool(false), mcp.Description("Score every metric at once")),
	), makeSimilarityTool(logger))

	s.AddTool(mcp.NewTool("normalize_url",
		mcp.WithDescription("Canonicalize a URL and report its normalized form and canonical key"),
		mcp.WithString("url", mcp.Required(), mcp.Description("URL to normalize")),
	), makeNormalizeURLTool(logger))

	s.AddTool(mcp.NewTool("classify",
		mcp.WithDescription("Assign each record to a taxonomy category; discovers a taxonomy from the batch when none is given"),
		mcp.WithString("records", mcp.Required(), mcp.Description("JSON array of records")),
		mcp.WithString("field", mcp.DefaultString("content"), mcp.Description("Text field to classify")),
		mcp.WithString("taxonomy_path", mcp.Description("Taxonomy file (JSON or YAML)")),
		mcp.WithNumber("clusters", mcp.DefaultNumber(15), mcp.Description("Category count for discovery")),
		mcp.WithNumber("sample_size", mcp.DefaultNumber(500), mcp.Description("Discovery sample size")),
		mcp.WithString("linkage", mcp.DefaultString("ward"), mcp.Enum("ward", "complete", "average", "single"), mcp.Description("Discovery linkage")),
		mcp.WithNumber("threshold", mcp.DefaultNumber(0.5), mcp.Description("Minimum score for an assignment")),
		mcp.WithNumber("seed", mcp.DefaultNumber(42), mcp.Description("Discovery sampling seed")),
		mcp.WithString("cache", mcp.Description("SQLite artifact cache path")),
	), makeClassifyTool(logger))

	s.AddTool(mcp.NewTool("generate",
		mcp.WithDescription("Generate a taxonomy by hierarchically clustering the whole batch"),
		mcp.WithString("records", mcp.Required(), mcp.Description("JSON array of records")),
		mcp.WithString("field", mcp.DefaultString("content"), mcp.Description("Text field to cluster")),
		mcp.WithNumber("depth", mcp.DefaultNumber(10), mcp.Description("Number of clusters to cut at")),
		mcp.WithString("linkage", mcp.DefaultString("ward"), mcp.Enum("ward", "complete", "average", "single"), mcp.Description("Linkage")),
		mcp.WithNumber("top_terms", mcp.DefaultNumber(5), mcp.Description("Keywords kept per category")),
		mcp.WithString("cache", mcp.Description("SQLite artifact cache path")),
	), makeGenerateTool(logger))

	s.AddTool(mcp.NewTool("tags",
		mcp.WithDescription("Annotate each record with its most distinctive TF-IDF terms"),
		mcp.WithString("records", mcp.Required(), mcp.Description("JSON array of records")),
		mcp.WithString("field", mcp.DefaultString("content"), mcp.Description("Text field to tag")),
		mcp.WithNumber("count", mcp.DefaultNumber(5), mcp.Description("Tags per record")),
		mcp.WithString("cache", mcp.Description("SQLite artifact cache path")),
	), makeTagsTool(logger))

	s.AddTool(mcp.NewTool("topics",
		mcp.WithDescription("Extract latent topics via seeded NMF and report every record's dominant topic"),
		mcp.WithString("records", mcp.Required(), mcp.Description("JSON array of records")),
		mcp.WithString("field", mcp.DefaultString("content"), mcp.Description("Text field to model")),
		mcp.WithNumber("topics", mcp.DefaultNumber(5), mcp.Description("Number of topics")),
		mcp.WithNumber("terms", mcp.DefaultNumber(10), mcp.Description("Terms reported per topic")),
		mcp.WithNumber("iterations", mcp.DefaultNumber(200), mcp.Description("Maximum update iterations")),
		mcp.WithNumber("vocab_limit", mcp.DefaultNumber(5000), mcp.Description("Vocabulary cap by document frequency")),
		mcp.WithNumber("seed", mcp.DefaultNumber(42), mcp.Description("Factor initialization seed")),
		mcp.WithString("cache", mcp.Description("SQLite artifact cache path")),
	), makeTopicsTool(logger))

	s.AddTool(mcp.NewTool("dedup",
		mcp.WithDescription("Group duplicate records by canonical URL, near-identical fingerprint, or both"),
		mcp.WithString("records", mcp.Required(), mcp.Description("JSON array of records")),
		mcp.WithString("field", mcp.DefaultString("content"), mcp.Description("Text field for fuzzy matching")),
		mcp.WithString("url_field", mcp.DefaultString("url"), mcp.Description("URL field for canonical matching")),
		mcp.WithString("strategy", mcp.DefaultString("combined"), mcp.Enum("url", "fuzzy", "combined"), mcp.Description("Strategy")),
		mcp.WithNumber("threshold", mcp.DefaultNumber(3), mcp.Description("Maximum Hamming distance for a fuzzy match")),
		mcp.WithString("cache", mcp.Description("SQLite artifact cache path")),
	), makeDedupTool(logger))

	s.AddTool(mcp.NewTool("organize",
		mcp.WithDescription("Annotate each record with an output path laying the batch out by category"),
		mcp.WithString("records", mcp.Required(), mcp.Description("JSON array of records")),
		mcp.WithString("format", mcp.DefaultString("folders"), mcp.Enum("flat", "folders", "nested"), mcp.Description("Layout format")),
		mcp.WithString("output_dir", mcp.DefaultString("./organized"), mcp.Description("Layout root")),
		mcp.WithString("category_field", mcp.DefaultString("_category"), mcp.Description("Field holding each record's category")),
		mcp.WithString("name_field", mcp.DefaultString("id"), mcp.Description("Field holding each record's name")),
		mcp.WithString("cache", mcp.Description("SQLite artifact cache path")),
	), makeOrganizeTool(logger))

	s.AddTool(mcp.NewTool("cache_info",
		mcp.WithDescription("Report artifact cache size and entry counts"),
		mcp.WithString("cache", mcp.Required(), mcp.Description("SQLite artifact cache path")),
	), makeCacheInfoTool(logger))

	s.AddTool(mcp.NewTool("cache_clear",
		mcp.WithDescription("Drop cached artifacts, optionally restricted to one kind"),
		mcp.WithString("cache", mcp.Required(), mcp.Description("SQLite artifact cache path")),
		mcp.WithString("kind", mcp.Description("Artifact kind to drop (corpus|dendrogram|taxonomy|fingerprints); empty drops all")),
	), makeCacheClearTool(logger))

	return s
}
