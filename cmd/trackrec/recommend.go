// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/trackrec/internal/config"
	"github.com/tomtom215/trackrec/internal/dataset"
	"github.com/tomtom215/trackrec/internal/output"
	"github.com/tomtom215/trackrec/internal/pipeline"
)

type recommendFlags struct {
	seedID       string
	multiSeedIDs string
	seedQuery    string
}

func newRecommendCommand(a *app) *cobra.Command {
	var flags recommendFlags
	defaults := config.Defaults()

	cmd := &cobra.Command{
		Use:   "recommend [data-path]",
		Short: "Recommend tracks similar to one or more seed tracks",
		Long: `Recommend tracks similar to one or more seed tracks.

Seed selection, first match wins:
  --seed-id          one explicit track id
  --multi-seed-ids   comma-separated ids; their feature centroid is the query
  --seed-query       free text; the first track whose name or artist matches
  (none)             a track drawn at random with --fallback-seed`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, firstArg(args)); err != nil {
				return err
			}
			return a.recommend(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.seedID, "seed-id", "", "seed track id")
	f.StringVar(&flags.multiSeedIDs, "multi-seed-ids", "", "comma-separated seed track ids")
	f.StringVar(&flags.seedQuery, "seed-query", "", "free-text seed query over track and artist names")
	f.Int("top", defaults.Output.Top, "number of recommendations")
	f.Bool("include-seed", false, "keep the seed track in single-seed results")
	f.String("out", "", "also write the results as CSV to this path")
	f.String("format", defaults.Output.Format, "stdout format: table, csv or json")
	f.Uint64("fallback-seed", defaults.Engine.FallbackSeed, "seed for the random seed-track pick")
	addEngineFlags(cmd)

	return cmd
}

func (a *app) recommend(cmd *cobra.Command, flags recommendFlags) error {
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

	res, err := runner.Recommend(cmd.Context(), pipeline.Request{
		Source: src,
		Load:   a.loadOptions(),
		Seeds: pipeline.SeedRequest{
			SeedID:       flags.seedID,
			MultiSeedIDs: pipeline.ParseSeedIDs(flags.multiSeedIDs),
			SeedQuery:    flags.seedQuery,
		},
		Top:          a.cfg.Output.Top,
		IncludeSeed:  a.cfg.Output.IncludeSeed,
		FallbackSeed: a.cfg.Engine.FallbackSeed,
	})
	if err != nil {
		return err
	}

	if len(res.Seeds.Matches) > 0 {
		fmt.Fprintf(a.stderr, "Tracks matching %q (using the first):\n", flags.seedQuery)
		if err := output.WriteTracks(a.stderr, output.FormatTable, res.Seeds.Matches); err != nil {
			return err
		}
		fmt.Fprintln(a.stderr)
	}

	header := a.stdout
	if format != output.FormatTable {
		header = a.stderr
	}
	writeSeedHeader(header, res.Seeds.Kind, res.SeedTracks)

	if err := output.WriteRows(a.stdout, format, res.Rows, res.HasPopularity); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	if path := a.cfg.Output.Path; path != "" {
		if err := output.WriteCSVFile(path, res.Rows, res.HasPopularity); err != nil {
			return err
		}
		a.logger.Info().Str("path", path).Int("rows", len(res.Rows)).Msg("Results written")
	}
	return nil
}

// writeSeedHeader names the seed tracks above the results.
func writeSeedHeader(w io.Writer, kind pipeline.SeedKind, seeds []dataset.Track) {
	names := make([]string, len(seeds))
	for i, t := range seeds {
		names[i] = fmt.Sprintf("%s by %s (%s)", t.Name, t.Artist, t.ID)
	}

	prefix := "Recommendations for"
	if kind == pipeline.SeedRandom {
		prefix = "Recommendations for random seed"
	}
	fmt.Fprintf(w, "%s: %s\n\n", prefix, strings.Join(names, "; "))
}
