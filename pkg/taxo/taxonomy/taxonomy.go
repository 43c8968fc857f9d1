// Package taxonomy holds the category model shared by discovery and
// classification, with JSON and YAML file formats.
package taxonomy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taxolab/taxo/pkg/taxo/internalerr"
)

// Keyword is a weighted term attached to a category. In taxonomy files a
// keyword may be given as a bare string, which decodes with weight 1.
type Keyword struct {
	Term   string  `json:"term" yaml:"term"`
	Weight float64 `json:"weight" yaml:"weight"`
}

func (k *Keyword) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		k.Weight = 1
		return json.Unmarshal(data, &k.Term)
	}
	type plain Keyword
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*k = Keyword(p)
	return nil
}

func (k *Keyword) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		k.Term = node.Value
		k.Weight = 1
		return nil
	}
	type plain Keyword
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*k = Keyword(p)
	return nil
}

// Category is one node of the taxonomy. Parent is nil for root categories.
type Category struct {
	ID       int       `json:"id" yaml:"id"`
	Label    string    `json:"label" yaml:"label"`
	Keywords []Keyword `json:"keywords" yaml:"keywords"`
	Parent   *int      `json:"parent" yaml:"parent"`
}

// Taxonomy is an ordered list of categories. Order matters: classification
// resolves score ties to the earliest category.
type Taxonomy struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// Parse decodes a JSON taxonomy and validates it.
func Parse(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, internalerr.TaxonomyLoad("parse taxonomy: %v", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func parseYAML(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, internalerr.TaxonomyLoad("parse taxonomy: %v", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Load reads a taxonomy file. The extension selects the format: .yaml and
// .yml decode as YAML, everything else as JSON.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, internalerr.TaxonomyLoad("read %s: %v", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return Parse(data)
	}
}

// Save writes the taxonomy as indented JSON.
func (t *Taxonomy) Save(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return internalerr.IO(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return internalerr.IO(err)
	}
	return nil
}

func (t *Taxonomy) validate() error {
	byID := make(map[int]bool, len(t.Categories))
	for _, c := range t.Categories {
		if c.Label == "" {
			return internalerr.TaxonomyLoad("category %d has no label", c.ID)
		}
		if byID[c.ID] {
			return internalerr.TaxonomyLoad("duplicate category id %d", c.ID)
		}
		byID[c.ID] = true
	}
	parents := make(map[int]*int, len(t.Categories))
	for i := range t.Categories {
		parents[t.Categories[i].ID] = t.Categories[i].Parent
	}
	for _, c := range t.Categories {
		if c.Parent != nil && !byID[*c.Parent] {
			return internalerr.TaxonomyLoad("category %d references unknown parent %d", c.ID, *c.Parent)
		}
		steps := 0
		for p := c.Parent; p != nil; p = parents[*p] {
			steps++
			if steps > len(t.Categories) {
				return internalerr.TaxonomyLoad("parent cycle involving category %d", c.ID)
			}
		}
	}
	return nil
}

// Category returns the category with the given id.
func (t *Taxonomy) Category(id int) (Category, bool) {
	for _, c := range t.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Path returns the labels from the root ancestor down to the category,
// joined with "/". Unknown ids yield an empty string.
func (t *Taxonomy) Path(id int) string {
	byID := make(map[int]*Category, len(t.Categories))
	for i := range t.Categories {
		byID[t.Categories[i].ID] = &t.Categories[i]
	}
	cur, ok := byID[id]
	if !ok {
		return ""
	}
	labels := []string{cur.Label}
	for cur.Parent != nil && len(labels) <= len(t.Categories) {
		next, ok := byID[*cur.Parent]
		if !ok {
			break
		}
		cur = next
		labels = append(labels, cur.Label)
	}
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return strings.Join(labels, "/")
}
