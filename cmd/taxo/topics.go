package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxolab/taxo/internal/recio"
	"github.com/taxolab/taxo/pkg/taxo"
)

func NewTopicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Extract latent topics from stdin records",
		Long:  `Factorize the batch into topics via seeded NMF and print each topic's terms plus every record's dominant topic.`,
		Args:  cobra.NoArgs,
		RunE:  makeTopicsRunner(),
	}

	cmd.Flags().StringP("field", "f", "content", "Text field to model")
	cmd.Flags().Int("topics", 5, "Number of topics")
	cmd.Flags().Int("terms", 10, "Terms reported per topic")
	cmd.Flags().Int("iterations", 200, "Maximum update iterations")
	cmd.Flags().Int("vocab-limit", 5000, "Vocabulary cap by document frequency")
	cmd.Flags().Uint64("seed", 42, "Factor initialization seed")
	return cmd
}

func makeTopicsRunner() func(*cobra.Command, []string) error {
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

		args := taxo.TopicsArgs{Field: s.textField(cmd), Seed: s.seed(cmd)}
		args.Topics, _ = cmd.Flags().GetInt("topics")
		args.Terms, _ = cmd.Flags().GetInt("terms")
		args.Iterations, _ = cmd.Flags().GetInt("iterations")
		args.VocabLimit, _ = cmd.Flags().GetInt("vocab-limit")

		out, err := eng.Topics(cmd.Context(), records, args)
		if err != nil {
			return fmt.Errorf("topics: %w", err)
		}
		return recio.Write(cmd.OutOrStdout(), out)
	}
}
