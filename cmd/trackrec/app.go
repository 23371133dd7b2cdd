// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/trackrec/internal/config"
	"github.com/tomtom215/trackrec/internal/dataset"
	"github.com/tomtom215/trackrec/internal/logging"
	"github.com/tomtom215/trackrec/internal/pipeline"
	"github.com/tomtom215/trackrec/internal/recommend"
)

// app carries the state shared by the subcommands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	cfg        *config.Config
	logger     *zerolog.Logger
}

func newRootCommand(a *app) *cobra.Command {
	defaults := config.Defaults()
	root := &cobra.Command{
		Use:           "trackrec",
		Short:         "Content-based track recommendations from audio features",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file (default: $TRACKREC_CONFIG or ./trackrec.yaml)")
	pf.String("data", "", "dataset path (alternative to the positional argument)")
	pf.String("dataset-format", defaults.Dataset.Format, "dataset format: auto, csv, duckdb or sqlite")
	pf.String("delimiter", defaults.Dataset.Delimiter, "field delimiter for csv datasets")
	pf.String("table", defaults.Dataset.Table, "table name for sqlite datasets")
	pf.Int("subset", defaults.Dataset.Subset, "sample this many rows after cleaning; 0 keeps all")
	pf.Uint64("sample-seed", defaults.Dataset.SampleSeed, "seed for --subset sampling")
	pf.String("log-level", defaults.Logging.Level, "log level: trace, debug, info, warn, error")
	pf.String("log-format", defaults.Logging.Format, "log format: console or json")

	root.AddCommand(newRecommendCommand(a), newSearchCommand(a), newServeCommand(a))
	return root
}

// addEngineFlags registers the flags that tune the engine.
func addEngineFlags(cmd *cobra.Command) {
	defaults := config.Defaults()
	f := cmd.Flags()
	f.String("metric", defaults.Engine.Metric, "distance metric: cosine, euclidean or manhattan")
	f.String("index", defaults.Engine.Index, "neighbor index: brute or kdtree")
	f.Int("k", defaults.Engine.K, "neighbor budget per query")
	f.Bool("no-cache", false, "disable the result cache")
}

// setup loads the configuration for cmd and initializes logging. A non-empty
// dataPath overrides every other dataset path source.
func (a *app) setup(cmd *cobra.Command, dataPath string) error {
	opts := config.LoadOptions{ConfigPath: a.configPath, Flags: cmd.Flags()}
	if dataPath != "" {
		opts.Overrides = map[string]any{"dataset.path": dataPath}
	}
	cfg, err := config.Load(opts)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    a.stderr,
	})
	logger := logging.Logger()
	a.logger = &logger
	return nil
}

func (a *app) source() (dataset.Source, error) {
	if err := a.cfg.RequireDataset(); err != nil {
		return nil, err
	}
	src, err := dataset.NewSource(dataset.SourceConfig{
		Path:      a.cfg.Dataset.Path,
		Format:    a.cfg.Dataset.Format,
		Delimiter: a.cfg.Dataset.Delimiter,
		Table:     a.cfg.Dataset.Table,
	})
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	return src, nil
}

func (a *app) loadOptions() dataset.LoadOptions {
	opts := dataset.DefaultLoadOptions()
	opts.Subset = a.cfg.Dataset.Subset
	if a.cfg.Dataset.SampleSeed != 0 {
		opts.SampleSeed = a.cfg.Dataset.SampleSeed
	}
	return opts
}

func (a *app) runner() (*pipeline.Runner, *recommend.Engine, error) {
	engine, err := recommend.NewEngine(&recommend.Config{
		K:      a.cfg.Engine.K,
		Metric: a.cfg.Engine.Metric,
		Index:  a.cfg.Engine.Index,
		MaxN:   a.cfg.Engine.MaxN,
		Cache: recommend.CacheConfig{
			Enabled:    a.cfg.Cache.Enabled,
			MaxEntries: a.cfg.Cache.MaxEntries,
		},
	}, *a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create engine: %w", err)
	}
	return pipeline.NewRunner(dataset.NewLoader(*a.logger), engine, *a.logger), engine, nil
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
