package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxolab/taxo/internal/recio"
	"github.com/taxolab/taxo/pkg/taxo"
)

func NewSimilarityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similarity <a> <b>",
		Short: "Score the similarity of two strings",
		Long:  `Score two strings under a string-distance metric and print the result as JSON.`,
		Args:  cobra.ExactArgs(2),
		RunE:  makeSimilarityRunner(),
	}

	cmd.Flags().String("metric", "levenshtein", "Metric (levenshtein|jaro-winkler|cosine)")
	cmd.Flags().Bool("all", false, "Score every metric at once")
	return cmd
}

func makeSimilarityRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		eng, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer eng.Close()

		var simArgs taxo.SimilarityArgs
		simArgs.Metric, _ = cmd.Flags().GetString("metric")
		simArgs.All, _ = cmd.Flags().GetBool("all")

		out, err := eng.Similarity(cmd.Context(), args[0], args[1], simArgs)
		if err != nil {
			return fmt.Errorf("similarity: %w", err)
		}
		return recio.Write(cmd.OutOrStdout(), out)
	}
}

func NewNormalizeURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize-url <url>",
		Short: "Canonicalize a URL",
		Long:  `Normalize a URL and print the original, normalized form and canonical key as JSON.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeNormalizeURLRunner(),
	}
}

func makeNormalizeURLRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		eng, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer eng.Close()

		out, err := eng.NormalizeURL(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("normalize url: %w", err)
		}
		return recio.Write(cmd.OutOrStdout(), out)
	}
}
