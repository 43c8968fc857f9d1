package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxolab/taxo/internal/recio"
	"github.com/taxolab/taxo/pkg/taxo"
)

func NewSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw a deterministic sample from stdin records",
		Long:  `Read records from stdin and write a seeded sample, preserving input order.`,
		Args:  cobra.NoArgs,
		RunE:  makeSampleRunner(),
	}

	cmd.Flags().IntP("size", "n", 100, "Sample size")
	cmd.Flags().String("strategy", "random", "Sampling strategy (random|stratified|systematic|reservoir)")
	cmd.Flags().StringP("field", "f", "", "Stratum field for stratified sampling")
	cmd.Flags().Uint64("seed", 42, "Random seed")
	return cmd
}

func makeSampleRunner() func(*cobra.Command, []string) error {
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

		args := taxo.SampleArgs{Seed: s.seed(cmd)}
		args.Size, _ = cmd.Flags().GetInt("size")
		args.Strategy, _ = cmd.Flags().GetString("strategy")
		args.Field, _ = cmd.Flags().GetString("field")

		out, err := eng.Sample(cmd.Context(), records, args)
		if err != nil {
			return fmt.Errorf("sample: %w", err)
		}
		return recio.Write(cmd.OutOrStdout(), out)
	}
}
