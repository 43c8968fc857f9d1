// Package recio reads and writes the record batches the frontends
// exchange: a JSON array of objects, a single object, or JSON-lines,
// auto-detected. Unlike a bulk feed loader it is strict: one malformed
// record fails the whole read, because the batch is operation input.
package recio

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/taxolab/taxo/pkg/taxo/internalerr"
)

// Decode reads one record batch from r.
func Decode(r io.Reader) ([]map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, internalerr.IO(err)
	}
	return DecodeBytes(data)
}

// DecodeBytes parses a record batch. A leading '[' selects array form;
// otherwise the input is tried as a single object and falls back to
// JSON-lines. Empty input is an empty batch.
func DecodeBytes(data []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []map[string]any{}, nil
	}

	if trimmed[0] == '[' {
		var records []map[string]any
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, internalerr.Invalid("parse record array: %v", err)
		}
		return records, nil
	}

	var single map[string]any
	if err := json.Unmarshal(trimmed, &single); err == nil {
		return []map[string]any{single}, nil
	}
	return decodeLines(trimmed)
}

// ReadFile loads a record batch from a file.
func ReadFile(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, internalerr.IO(err)
	}
	return DecodeBytes(data)
}

// Write renders v as indented JSON followed by a newline.
func Write(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func decodeLines(data []byte) ([]map[string]any, error) {
	records := []map[string]any{}
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, internalerr.Invalid("parse record at line %d: %v", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
