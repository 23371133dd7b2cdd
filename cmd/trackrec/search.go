// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/trackrec/internal/config"
	"github.com/tomtom215/trackrec/internal/output"
	"github.com/tomtom215/trackrec/internal/pipeline"
	"github.com/tomtom215/trackrec/internal/search"
)

func newSearchCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [data-path] <query>",
		Short: "Find tracks whose name or artist contains the query",
		Long: `Find tracks whose name or artist contains the query, ignoring case.

With a single argument it is the query and the dataset comes from --data,
TRACKREC_DATA_PATH or the config file.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataPath, query := "", args[0]
			if len(args) == 2 {
				dataPath, query = args[0], args[1]
			}
			if err := a.setup(cmd, dataPath); err != nil {
				return err
			}
			return a.search(cmd, query, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", search.DefaultLimit, "maximum number of matches")
	cmd.Flags().String("format", config.Defaults().Output.Format, "stdout format: table, csv or json")
	return cmd
}

func (a *app) search(cmd *cobra.Command, query string, limit int) error {
	format, err := output.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return err
	}
	src, err := a.source()
	if err != nil {
		return err
	}
	runner, _, err := a.runner()
	if err != nil {
		return err
	}

	hits, err := runner.Search(cmd.Context(), src, a.loadOptions(), query, limit)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		return fmt.Errorf("%w: %q", pipeline.ErrNoTextMatch, query)
	}
	return output.WriteTracks(a.stdout, format, hits)
}
