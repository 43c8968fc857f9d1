package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxolab/taxo/internal/recio"
)

func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the artifact cache",
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(NewCacheInfoCmd(), NewCacheClearCmd())
	return cmd
}

func NewCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Report cache size and entry counts",
		Args:  cobra.NoArgs,
		RunE:  makeCacheInfoRunner(),
	}
}

func makeCacheInfoRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		eng, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer eng.Close()

		out, err := eng.CacheInfo(cmd.Context())
		if err != nil {
			return fmt.Errorf("cache info: %w", err)
		}
		return recio.Write(cmd.OutOrStdout(), out)
	}
}

func NewCacheClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop cached artifacts",
		Args:  cobra.NoArgs,
		RunE:  makeCacheClearRunner(),
	}

	cmd.Flags().String("kind", "", "Artifact kind to drop (corpus|dendrogram|taxonomy|fingerprints); empty drops all")
	return cmd
}

func makeCacheClearRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		eng, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer eng.Close()

		kind, _ := cmd.Flags().GetString("kind")
		out, err := eng.CacheClear(cmd.Context(), kind)
		if err != nil {
			return fmt.Errorf("cache clear: %w", err)
		}
		return recio.Write(cmd.OutOrStdout(), out)
	}
}
