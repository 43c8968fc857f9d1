package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxolab/taxo/internal/recio"
	"github.com/taxolab/taxo/pkg/taxo"
)

func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Assign records to taxonomy categories",
		Long: `Read records from stdin and append _category, _hierarchy and _confidence
columns. A taxonomy file is used when given, otherwise one is discovered
from the records themselves.`,
		Args: cobra.NoArgs,
		RunE: makeClassifyRunner(),
	}

	cmd.Flags().StringP("field", "f", "content", "Text field to classify")
	cmd.Flags().String("taxonomy", "", "Taxonomy file (JSON or YAML)")
	cmd.Flags().Int("clusters", 15, "Category count for discovery")
	cmd.Flags().Int("sample-size", 500, "Discovery sample size")
	cmd.Flags().String("linkage", "ward", "Discovery linkage (ward|complete|average|single)")
	cmd.Flags().Float64("threshold", 0.5, "Minimum score for an assignment")
	cmd.Flags().Uint64("seed", 42, "Discovery sampling seed")
	return cmd
}

func makeClassifyRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		eng, s, err := setup(cmd)
		if err != nil {
			return err
		}
		defer eng.Close()

		records, err := recio.Decode(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read records: %w", err)
		}

		args := taxo.ClassifyArgs{Field: s.textField(cmd), Seed: s.seed(cmd)}
		args.TaxonomyPath, _ = cmd.Flags().GetString("taxonomy")
		args.Clusters, _ = cmd.Flags().GetInt("clusters")
		args.SampleSize, _ = cmd.Flags().GetInt("sample-size")
		args.Linkage, _ = cmd.Flags().GetString("linkage")
		args.Threshold, _ = cmd.Flags().GetFloat64("threshold")

		out, err := eng.Classify(cmd.Context(), records, args)
		if err != nil {
			return fmt.Errorf("classify: %w", err)
		}
		return recio.Write(cmd.OutOrStdout(), out)
	}
}
