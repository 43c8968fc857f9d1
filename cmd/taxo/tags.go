package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxolab/taxo/internal/recio"
	"github.com/taxolab/taxo/pkg/taxo"
)

func NewTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Annotate records with their most distinctive terms",
		Long:  `Read records from stdin and append a _tags column holding each record's top TF-IDF terms.`,
		Args:  cobra.NoArgs,
		RunE:  makeTagsRunner(),
	}

	cmd.Flags().StringP("field", "f", "content", "Text field to tag")
	cmd.Flags().IntP("count", "n", 5, "Tags per record")
	return cmd
}

func makeTagsRunner() func(*cobra.Command, []string) error {
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

		args := taxo.TagsArgs{Field: s.textField(cmd)}
		args.Count, _ = cmd.Flags().GetInt("count")

		out, err := eng.Tags(cmd.Context(), records, args)
		if err != nil {
			return fmt.Errorf("tags: %w", err)
		}
		return recio.Write(cmd.OutOrStdout(), out)
	}
}
