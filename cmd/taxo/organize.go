package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxolab/taxo/internal/recio"
	"github.com/taxolab/taxo/pkg/taxo"
)

func NewOrganizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Lay records out under category paths",
		Long:  `Read records from stdin and append an _output_path column placing each record under its category. Nothing is written to disk.`,
		Args:  cobra.NoArgs,
		RunE:  makeOrganizeRunner(),
	}

	cmd.Flags().String("format", "folders", "Layout format (flat|folders|nested)")
	cmd.Flags().String("output-dir", "./organized", "Layout root")
	cmd.Flags().String("category-field", "_category", "Field holding each record's category")
	cmd.Flags().String("name-field", "id", "Field holding each record's name")
	return cmd
}

func makeOrganizeRunner() func(*cobra.Command, []string) error {
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

		var args taxo.OrganizeArgs
		args.Format, _ = cmd.Flags().GetString("format")
		args.OutputDir, _ = cmd.Flags().GetString("output-dir")
		args.CategoryField, _ = cmd.Flags().GetString("category-field")
		args.NameField, _ = cmd.Flags().GetString("name-field")

		out, err := eng.Organize(cmd.Context(), records, args)
		if err != nil {
			return fmt.Errorf("organize: %w", err)
		}
		return recio.Write(cmd.OutOrStdout(), out)
	}
}
