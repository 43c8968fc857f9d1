package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxolab/taxo/internal/recio"
	"github.com/taxolab/taxo/pkg/taxo"
)

func NewFingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Annotate records with SimHash fingerprints",
		Long:  `Read records from stdin and append a 16-hex-digit _fingerprint column.`,
		Args:  cobra.NoArgs,
		RunE:  makeFingerprintRunner(),
	}

	cmd.Flags().StringP("field", "f", "content", "Text field to fingerprint")
	cmd.Flags().Bool("weighted", false, "Weight tokens by TF-IDF over the batch")
	return cmd
}

func makeFingerprintRunner() func(*cobra.Command, []string) error {
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

		args := taxo.FingerprintArgs{Field: s.textField(cmd)}
		args.Weighted, _ = cmd.Flags().GetBool("weighted")

		out, err := eng.Fingerprint(cmd.Context(), records, args)
		if err != nil {
			return fmt.Errorf("fingerprint: %w", err)
		}
		return recio.Write(cmd.OutOrStdout(), out)
	}
}
