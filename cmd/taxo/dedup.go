package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxolab/taxo/internal/recio"
	"github.com/taxolab/taxo/pkg/taxo"
)

func NewDedupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedup",
		Short: "Group duplicate records",
		Long: `Read records from stdin and append _dup_group and _is_primary columns.
Duplicates share a canonical URL, a near-identical fingerprint, or both.`,
		Args: cobra.NoArgs,
		RunE: makeDedupRunner(),
	}

	cmd.Flags().StringP("field", "f", "content", "Text field for fuzzy matching")
	cmd.Flags().String("url-field", "url", "URL field for canonical matching")
	cmd.Flags().String("strategy", "combined", "Strategy (url|fuzzy|combined)")
	cmd.Flags().Int("threshold", 3, "Maximum Hamming distance for a fuzzy match")
	return cmd
}

func makeDedupRunner() func(*cobra.Command, []string) error {
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

		args := taxo.DedupArgs{Field: s.textField(cmd)}
		args.URLField, _ = cmd.Flags().GetString("url-field")
		args.Strategy, _ = cmd.Flags().GetString("strategy")
		args.Threshold, _ = cmd.Flags().GetInt("threshold")

		out, err := eng.Dedup(cmd.Context(), records, args)
		if err != nil {
			return fmt.Errorf("dedup: %w", err)
		}
		return recio.Write(cmd.OutOrStdout(), out)
	}
}
