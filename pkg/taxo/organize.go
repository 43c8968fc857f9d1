package taxo

import (
	"context"
	"path"
	"strings"

	"github.com/taxolab/taxo/pkg/taxo/internalerr"
	"github.com/taxolab/taxo/pkg/taxo/urlnorm"
)

// Layout formats for Organize.
const (
	FormatFlat    = "flat"
	FormatFolders = "folders"
	FormatNested  = "nested"
)

// OrganizeArgs configures Organize.
type OrganizeArgs struct {
	// Format is one of flat, folders, nested. Empty means folders.
	Format string
	// OutputDir is the root the paths are laid out under. Empty means
	// "./organized".
	OutputDir string
	// CategoryField names the field holding each record's category.
	// Empty means "_category", which Classify writes.
	CategoryField string
	// NameField names the field holding each record's name. Empty
	// means "id".
	NameField string
}

// DefaultOrganizeArgs returns the documented defaults.
func DefaultOrganizeArgs() OrganizeArgs {
	return OrganizeArgs{Format: FormatFolders, OutputDir: "./organized", CategoryField: "_category", NameField: "id"}
}

// Organize annotates each record with an "_output_path" laying the batch
// out by category. Paths are layout values joined with "/", not OS paths,
// and nothing is written to disk.
func (e *Engine) Organize(ctx context.Context, records []Record, args OrganizeArgs) ([]Record, error) {
	if args.Format == "" {
		args.Format = FormatFolders
	}
	format := strings.ToLower(strings.TrimSpace(args.Format))
	switch format {
	case FormatFlat, FormatFolders, FormatNested:
	default:
		return nil, internalerr.Invalid("unknown organize format %q, use: %s, %s, %s", args.Format, FormatFlat, FormatFolders, FormatNested)
	}
	if args.OutputDir == "" {
		args.OutputDir = "./organized"
	}
	if args.CategoryField == "" {
		args.CategoryField = "_category"
	}
	if args.NameField == "" {
		args.NameField = "id"
	}

	out := make([]Record, len(records))
	for i, r := range records {
		category := textOf(r, args.CategoryField)
		if category == "" {
			category = "uncategorized"
		}
		name := textOf(r, args.NameField)
		if name == "" {
			name = "unknown"
		}

		var p string
		switch format {
		case FormatFlat:
			p = path.Join(args.OutputDir, urlnorm.Slugify(category)+"--"+urlnorm.Slugify(name))
		case FormatFolders:
			p = path.Join(args.OutputDir, urlnorm.Slugify(category), urlnorm.Slugify(name))
		case FormatNested:
			hierarchy := textOf(r, "_hierarchy")
			if hierarchy == "" {
				hierarchy = category
			}
			segments := []string{args.OutputDir}
			for _, seg := range strings.Split(hierarchy, "/") {
				if slug := urlnorm.Slugify(seg); slug != "" {
					segments = append(segments, slug)
				}
			}
			segments = append(segments, urlnorm.Slugify(name))
			p = path.Join(segments...)
		}

		annotated := cloneRecord(r)
		annotated["_output_path"] = p
		out[i] = annotated
	}
	return out, nil
}
