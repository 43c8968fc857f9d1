package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxolab/taxo/internal/recio"
	"github.com/taxolab/taxo/pkg/taxo"
)

func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a taxonomy by clustering stdin records",
		Long:  `Cluster the whole batch hierarchically and print the resulting categories with keywords and member indices.`,
		Args:  cobra.NoArgs,
		RunE:  makeGenerateRunner(),
	}

	cmd.Flags().StringP("field", "f", "content", "Text field to cluster")
	cmd.Flags().Int("depth", 10, "Number of clusters to cut at")
	cmd.Flags().String("linkage", "ward", "Linkage (ward|complete|average|single)")
	cmd.Flags().Int("top-terms", 5, "Keywords kept per category")
	return cmd
}

func makeGenerateRunner() func(*cobra.Command, []string) error {
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

		args := taxo.GenerateArgs{Field: s.textField(cmd)}
		args.Depth, _ = cmd.Flags().GetInt("depth")
		args.Linkage, _ = cmd.Flags().GetString("linkage")
		args.TopTerms, _ = cmd.Flags().GetInt("top-terms")

		out, err := eng.Generate(cmd.Context(), records, args)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		return recio.Write(cmd.OutOrStdout(), out)
	}
}
