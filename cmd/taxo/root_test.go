package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execCLI runs the command tree against an in-memory stdin/stdout pair.
// Every call builds a fresh tree so flag state never leaks between tests.
func execCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	root.SetIn(strings.NewReader(stdin))
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func decodeRows(t *testing.T, out string) []map[string]any {
	t.Helper()
	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode output rows: %v\noutput: %s", err, out)
	}
	return rows
}

func decodeRecord(t *testing.T, out string) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("decode output record: %v\noutput: %s", err, out)
	}
	return rec
}

func TestSampleCommandReadsJSONLines(t *testing.T) {
	stdin := `{"id": 1}
{"id": 2}
{"id": 3}
{"id": 4}
{"id": 5}
`
	out, err := execCLI(t, stdin, "sample", "--size", "2", "--seed", "7")
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}

	rows := decodeRows(t, out)
	if len(rows) != 2 {
		t.Errorf("Expected 2 sampled rows, got %d", len(rows))
	}
}

func TestSampleCommandUnknownStrategy(t *testing.T) {
	_, err := execCLI(t, `[{"id": 1}]`, "sample", "--strategy", "bogus")
	if err == nil {
		t.Fatal("Expected an error for an unknown strategy")
	}
	if !strings.Contains(err.Error(), "reservoir") {
		t.Errorf("Expected the error to name the valid strategies, got %q", err)
	}
}

func TestMalformedStdinFails(t *testing.T) {
	_, err := execCLI(t, "not json at all", "sample")
	if err == nil {
		t.Fatal("Expected an error for malformed stdin")
	}
	if !strings.Contains(err.Error(), "read records") {
		t.Errorf("Expected a read records error, got %q", err)
	}
}

func TestSimilarityCommandScoresPositionalArgs(t *testing.T) {
	out, err := execCLI(t, "", "similarity", "kitten", "sitting")
	if err != nil {
		t.Fatalf("similarity failed: %v", err)
	}

	rec := decodeRecord(t, out)
	if rec["metric"] != "levenshtein" {
		t.Errorf("Expected default metric levenshtein, got %v", rec["metric"])
	}
	got, ok := rec["similarity"].(float64)
	if !ok {
		t.Fatalf("Expected a numeric similarity, got %T", rec["similarity"])
	}
	want := 1.0 - 3.0/7.0
	if got < want-1e-4 || got > want+1e-4 {
		t.Errorf("Expected similarity %.4f, got %.4f", want, got)
	}
}

func TestSimilarityCommandAllFlag(t *testing.T) {
	out, err := execCLI(t, "", "similarity", "same", "same", "--all")
	if err != nil {
		t.Fatalf("similarity --all failed: %v", err)
	}

	rec := decodeRecord(t, out)
	for _, metric := range []string{"levenshtein", "jaro-winkler", "cosine"} {
		if rec[metric] != 1.0 {
			t.Errorf("Expected %s = 1.0 for equal strings, got %v", metric, rec[metric])
		}
	}
}

func TestNormalizeURLCommand(t *testing.T) {
	out, err := execCLI(t, "", "normalize-url", "HTTPS://WWW.Example.COM:443/path/?utm_source=x&b=2&a=1#frag")
	if err != nil {
		t.Fatalf("normalize-url failed: %v", err)
	}

	rec := decodeRecord(t, out)
	if rec["normalized"] != "https://example.com/path?a=1&b=2" {
		t.Errorf("Unexpected normalized URL: %v", rec["normalized"])
	}
	if rec["canonical_key"] != "example.com/path?a=1&b=2" {
		t.Errorf("Unexpected canonical key: %v", rec["canonical_key"])
	}
}

func TestFingerprintCommandAnnotates(t *testing.T) {
	stdin := `[{"content": "rust memory safety"}, {"content": ""}]`
	out, err := execCLI(t, stdin, "fingerprint")
	if err != nil {
		t.Fatalf("fingerprint failed: %v", err)
	}

	if !strings.HasSuffix(out, "\n") {
		t.Error("Expected newline-terminated output")
	}
	if !strings.Contains(out, "\n  ") {
		t.Error("Expected indented JSON output")
	}

	rows := decodeRows(t, out)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	fp, ok := rows[0]["_fingerprint"].(string)
	if !ok || len(fp) != 16 {
		t.Errorf("Expected a 16-hex fingerprint, got %v", rows[0]["_fingerprint"])
	}
	if rows[1]["_fingerprint"] != "0000000000000000" {
		t.Errorf("Expected the zero fingerprint for empty text, got %v", rows[1]["_fingerprint"])
	}
}

func TestAnalyzeFieldFlagRestrictsColumns(t *testing.T) {
	stdin := `[{"title": "a", "body": "b"}, {"title": "c", "body": "d"}]`
	out, err := execCLI(t, stdin, "analyze", "--field", "title")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	rec := decodeRecord(t, out)
	cols, ok := rec["columns"].([]any)
	if !ok || len(cols) != 1 || cols[0] != "title" {
		t.Errorf("Expected columns [title], got %v", rec["columns"])
	}
}

func TestOrganizeCommandFlatFormat(t *testing.T) {
	stdin := `[{"_category": "Web Development", "id": "React Tutorial"}]`
	out, err := execCLI(t, stdin, "organize", "--format", "flat")
	if err != nil {
		t.Fatalf("organize failed: %v", err)
	}

	rows := decodeRows(t, out)
	if rows[0]["_output_path"] != "organized/web-development--react-tutorial" {
		t.Errorf("Unexpected output path: %v", rows[0]["_output_path"])
	}
}

func TestDedupCommandGroupsURLVariants(t *testing.T) {
	stdin := `[{"url": "https://example.com/a?utm_source=x"}, {"url": "http://www.example.com/a"}]`
	out, err := execCLI(t, stdin, "dedup", "--strategy", "url")
	if err != nil {
		t.Fatalf("dedup failed: %v", err)
	}

	rows := decodeRows(t, out)
	if rows[0]["_dup_group"] != 0.0 || rows[1]["_dup_group"] != 0.0 {
		t.Errorf("Expected both rows in group 0, got %v and %v", rows[0]["_dup_group"], rows[1]["_dup_group"])
	}
	if rows[0]["_is_primary"] != true || rows[1]["_is_primary"] != false {
		t.Errorf("Expected the first row to be primary, got %v and %v", rows[0]["_is_primary"], rows[1]["_is_primary"])
	}
}

func TestGenerateCommandDepthFlag(t *testing.T) {
	stdin := `[{"content": "rust memory borrow checker"},
{"content": "rust memory compiler cargo"},
{"content": "pasta sauce recipe kitchen"},
{"content": "bread flour recipe kitchen"}]`
	out, err := execCLI(t, stdin, "generate", "--depth", "2")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	rec := decodeRecord(t, out)
	if rec["num_clusters"] != 2.0 {
		t.Errorf("Expected 2 clusters, got %v", rec["num_clusters"])
	}
	if rec["linkage"] != "ward" {
		t.Errorf("Expected ward linkage, got %v", rec["linkage"])
	}
}

func TestConfigFileSuppliesFieldDefault(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "taxo.yaml")
	if err := os.WriteFile(cfgPath, []byte("field: body\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	stdin := `[{"body": "rust memory safety"}]`
	out, err := execCLI(t, stdin, "fingerprint", "--config", cfgPath)
	if err != nil {
		t.Fatalf("fingerprint failed: %v", err)
	}
	rows := decodeRows(t, out)
	if rows[0]["_fingerprint"] == "0000000000000000" {
		t.Error("Expected the config field default to pick up the body text")
	}

	// An explicit flag wins over the file.
	out, err = execCLI(t, stdin, "fingerprint", "--config", cfgPath, "--field", "content")
	if err != nil {
		t.Fatalf("fingerprint failed: %v", err)
	}
	rows = decodeRows(t, out)
	if rows[0]["_fingerprint"] != "0000000000000000" {
		t.Errorf("Expected the explicit --field to override the config, got %v", rows[0]["_fingerprint"])
	}
}

func TestConfigFileSuppliesSeedDefault(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "taxo.yaml")
	if err := os.WriteFile(cfgPath, []byte("seed: 7\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var stdin strings.Builder
	for i := 0; i < 10; i++ {
		stdin.WriteString(`{"id": `)
		stdin.WriteString(string(rune('0' + i)))
		stdin.WriteString("}\n")
	}

	withConfig, err := execCLI(t, stdin.String(), "sample", "--size", "3", "--config", cfgPath)
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}
	withFlag, err := execCLI(t, stdin.String(), "sample", "--size", "3", "--seed", "7")
	if err != nil {
		t.Fatalf("sample failed: %v", err)
	}

	if withConfig != withFlag {
		t.Errorf("Expected the config seed to match --seed 7:\n%s\nvs\n%s", withConfig, withFlag)
	}
}

func TestCacheFlagRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "cache.db")
	stdin := `[{"content": "rust memory safety"}, {"content": "pasta sauce recipe"}]`

	if _, err := execCLI(t, stdin, "tags", "--cache", cachePath); err != nil {
		t.Fatalf("tags failed: %v", err)
	}

	out, err := execCLI(t, "", "cache", "info", "--cache", cachePath)
	if err != nil {
		t.Fatalf("cache info failed: %v", err)
	}
	rec := decodeRecord(t, out)
	if rec["path"] != cachePath {
		t.Errorf("Expected cache path %q, got %v", cachePath, rec["path"])
	}
	entries, _ := rec["entries"].(float64)
	if entries < 1 {
		t.Errorf("Expected at least one cached artifact, got %v", rec["entries"])
	}

	out, err = execCLI(t, "", "cache", "clear", "--cache", cachePath)
	if err != nil {
		t.Fatalf("cache clear failed: %v", err)
	}
	cleared := decodeRecord(t, out)
	if cleared["kind"] != "all" {
		t.Errorf("Expected kind all, got %v", cleared["kind"])
	}
	if cleared["cleared"].(float64) < 1 {
		t.Errorf("Expected at least one cleared artifact, got %v", cleared["cleared"])
	}
}

func TestCacheInfoWithoutCacheFails(t *testing.T) {
	_, err := execCLI(t, "", "cache", "info")
	if err == nil {
		t.Fatal("Expected an error when no cache is configured")
	}
}
