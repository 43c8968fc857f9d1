package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taxolab/taxo/pkg/taxo"
	"github.com/taxolab/taxo/pkg/taxo/cache/sqlitecache"
	"github.com/taxolab/taxo/pkg/taxo/token"
)

// fileConfig is the shape of the optional --config YAML file. Every
// entry supplies a default that an explicit flag overrides.
type fileConfig struct {
	Field     string   `yaml:"field"`
	Seed      uint64   `yaml:"seed"`
	Cache     string   `yaml:"cache"`
	Stopwords []string `yaml:"stopwords"`
}

// loadConfig loads flag defaults from a YAML file.
func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// settings resolves flag values against the optional config file.
type settings struct {
	cfg fileConfig
}

func resolveSettings(cmd *cobra.Command) (*settings, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return &settings{}, nil
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &settings{cfg: *cfg}, nil
}

// textField resolves the text field of a command: an explicit --field
// wins, then the config file, then the flag default. Commands whose
// --field means something else (sample strata, analyze restriction)
// read the flag directly instead.
func (s *settings) textField(cmd *cobra.Command) string {
	if !cmd.Flags().Changed("field") && s.cfg.Field != "" {
		return s.cfg.Field
	}
	v, _ := cmd.Flags().GetString("field")
	return v
}

// seed resolves a seed flag against the config default.
func (s *settings) seed(cmd *cobra.Command) uint64 {
	if !cmd.Flags().Changed("seed") && s.cfg.Seed != 0 {
		return s.cfg.Seed
	}
	v, _ := cmd.Flags().GetUint64("seed")
	return v
}

// cachePath resolves the persistent --cache flag against the config.
func (s *settings) cachePath(cmd *cobra.Command) string {
	if v, _ := cmd.Flags().GetString("cache"); v != "" {
		return v
	}
	return s.cfg.Cache
}

// setup builds the engine a runner uses: extra stopwords from the
// config feed the tokenizer and a cache path opens the SQLite store.
// Callers own the engine and should defer Close.
func setup(cmd *cobra.Command) (*taxo.Engine, *settings, error) {
	s, err := resolveSettings(cmd)
	if err != nil {
		return nil, nil, err
	}

	opts := taxo.Options{}
	if len(s.cfg.Stopwords) > 0 {
		tok := token.DefaultOptions()
		tok.ExtraStopwords = s.cfg.Stopwords
		opts.Tokenizer = &tok
	}
	if path := s.cachePath(cmd); path != "" {
		c, err := sqlitecache.Open(cmd.Context(), path)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		opts.Cache = c
	}

	return taxo.New(opts), s, nil
}
