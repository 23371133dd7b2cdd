// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

// Package pipeline wires the loader, the engine and text search into the
// end-to-end flows used by the command line and the HTTP server.
package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/trackrec/internal/dataset"
	"github.com/tomtom215/trackrec/internal/metrics"
	"github.com/tomtom215/trackrec/internal/recommend"
	"github.com/tomtom215/trackrec/internal/search"
)

// Runner executes pipeline flows against one engine.
type Runner struct {
	loader *dataset.Loader
	engine *recommend.Engine
	logger zerolog.Logger
}

// NewRunner creates a Runner.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRunner(loader *dataset.Loader, engine *recommend.Engine, logger zerolog.Logger) *Runner {
	return &Runner{
		loader: loader,
		engine: engine,
		logger: logger.With().Str("component", "pipeline").Logger(),
	}
}

// Engine returns the runner's engine.
func (r *Runner) Engine() *recommend.Engine {
	return r.engine
}

// Request describes one recommendation run.
type Request struct {
	Source       dataset.Source
	Load         dataset.LoadOptions
	Seeds        SeedRequest
	Top          int
	IncludeSeed  bool
	FallbackSeed uint64
}

// Result is the outcome of a recommendation run.
type Result struct {
	Seeds         Seeds
	SeedTracks    []dataset.Track
	Rows          []recommend.Row
	HasPopularity bool
	LoadStats     dataset.LoadStats

	// Reinjected counts seed rows added back after subsampling.
	Reinjected int
}

// Recommend loads the source, resolves the seeds, fits the engine and
// queries it. A single seed id goes through RecommendByIdentifier, more than
// one through RecommendFromMultiple.
//
// When the load is subsampled and an explicit seed id fell out of the
// sample, the full source is loaded once more and the missing seed rows are
// appended to the sample before fitting.
//
// With a seed query that matches nothing the error wraps ErrNoTextMatch and
// the result is nil.
func (r *Runner) Recommend(ctx context.Context, req Request) (*Result, error) {
	corpus, stats, err := r.load(ctx, req.Source, req.Load)
	if err != nil {
		return nil, err
	}

	seeds, err := ResolveSeeds(corpus, req.Seeds, req.FallbackSeed)
	if err != nil {
		return nil, err
	}
	res := &Result{Seeds: seeds, LoadStats: stats}
	r.logger.Info().
		Str("seed_kind", string(seeds.Kind)).
		Strs("seed_ids", seeds.IDs).
		Msg("seeds resolved")

	if req.Load.Subset > 0 {
		corpus, res.Reinjected, err = r.reinject(ctx, req, corpus, seeds.IDs)
		if err != nil {
			return nil, err
		}
	}

	if err := r.engine.Fit(ctx, corpus); err != nil {
		return nil, fmt.Errorf("fit engine: %w", err)
	}

	if len(seeds.IDs) == 1 {
		res.Rows, err = r.engine.RecommendByIdentifier(ctx, seeds.IDs[0], req.Top, req.IncludeSeed)
	} else {
		res.Rows, err = r.engine.RecommendFromMultiple(ctx, seeds.IDs, req.Top)
	}
	if err != nil {
		return nil, err
	}

	for _, id := range seeds.IDs {
		t, err := r.engine.Track(id)
		if err != nil {
			return nil, err
		}
		res.SeedTracks = append(res.SeedTracks, t)
	}
	res.HasPopularity = corpus.HasPopularity()
	return res, nil
}

// reinject restores seed rows that subsampling dropped. The full source is
// only read when at least one seed is missing.
func (r *Runner) reinject(ctx context.Context, req Request, subset *dataset.Corpus, ids []string) (*dataset.Corpus, int, error) {
	missing := slices.ContainsFunc(ids, func(id string) bool { return !subset.Contains(id) })
	if !missing {
		return subset, 0, nil
	}

	fullOpts := req.Load
	fullOpts.Subset = 0
	full, _, err := r.load(ctx, req.Source, fullOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("load full dataset for seed re-injection: %w", err)
	}

	out := dataset.Reinject(subset, full, ids)
	added := out.Len() - subset.Len()
	if added > 0 {
		r.logger.Info().Int("rows", added).Msg("re-injected seed rows into subset")
	}
	return out, added, nil
}

// LoadAndFit loads the source and fits the engine on it. It is the startup
// path of the HTTP server.
func (r *Runner) LoadAndFit(ctx context.Context, src dataset.Source, opts dataset.LoadOptions) (dataset.LoadStats, error) {
	corpus, stats, err := r.load(ctx, src, opts)
	if err != nil {
		return stats, err
	}
	if err := r.engine.Fit(ctx, corpus); err != nil {
		return stats, fmt.Errorf("fit engine: %w", err)
	}
	return stats, nil
}

// Search loads the source and returns up to limit tracks matching query.
func (r *Runner) Search(ctx context.Context, src dataset.Source, opts dataset.LoadOptions, query string, limit int) ([]dataset.Track, error) {
	corpus, _, err := r.load(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	return search.Search(corpus.Tracks(), query, limit), nil
}

func (r *Runner) load(ctx context.Context, src dataset.Source, opts dataset.LoadOptions) (*dataset.Corpus, dataset.LoadStats, error) {
	start := time.Now()
	corpus, stats, err := r.loader.Load(ctx, src, opts)
	if err != nil {
		return nil, stats, fmt.Errorf("load dataset: %w", err)
	}
	metrics.RecordDatasetLoad(time.Since(start), stats.Kept, stats.DroppedMissing, stats.DroppedDuplicate)
	return corpus, stats, nil
}
