package main

import (
	"github.com/spf13/cobra"

	"github.com/taxolab/taxo/pkg/taxo"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "taxo",
		Short:         "Content topology for record batches",
		Long:          `Sample, fingerprint, cluster, classify and deduplicate JSON record batches from the command line.`,
		Version:       taxo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)
	addSubcommands(rootCmd)

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("cache", "", "SQLite artifact cache path")
	cmd.PersistentFlags().String("config", "", "YAML config file supplying flag defaults")
}

func addSubcommands(root *cobra.Command) {
	root.AddCommand(
		NewSampleCmd(),
		NewFingerprintCmd(),
		NewAnalyzeCmd(),
		NewSimilarityCmd(),
		NewNormalizeURLCmd(),
		NewClassifyCmd(),
		NewGenerateCmd(),
		NewTagsCmd(),
		NewTopicsCmd(),
		NewDedupCmd(),
		NewOrganizeCmd(),
		NewCacheCmd(),
	)
}
