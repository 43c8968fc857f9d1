package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxolab/taxo/internal/recio"
	"github.com/taxolab/taxo/pkg/taxo"
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize the shape of stdin records",
		Long:  `Read records from stdin and report per-column statistics: null counts, cardinality, lengths, types and top values.`,
		Args:  cobra.NoArgs,
		RunE:  makeAnalyzeRunner(),
	}

	cmd.Flags().StringP("field", "f", "", "Restrict the analysis to one column")
	return cmd
}

func makeAnalyzeRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		eng, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer eng.Close()

		records, err := recio.Decode(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read records: %w", err)
		}

		var args taxo.AnalyzeArgs
		args.Field, _ = cmd.Flags().GetString("field")

		out, err := eng.Analyze(cmd.Context(), records, args)
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		return recio.Write(cmd.OutOrStdout(), out)
	}
}
