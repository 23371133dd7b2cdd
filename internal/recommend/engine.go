// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/trackrec/internal/dataset"
	"github.com/tomtom215/trackrec/internal/features"
	"github.com/tomtom215/trackrec/internal/index"
	"github.com/tomtom215/trackrec/internal/metrics"
)

// Engine answers nearest-neighbor recommendation queries over a fitted corpus.
// It is safe for concurrent use: queries read an immutable model snapshot and
// never block, while fits are serialised.
type Engine struct {
	// Configuration
	config *Config
	logger zerolog.Logger
	metric index.Metric
	kind   index.Kind

	// Fitted state
	fitMu      sync.Mutex
	state      atomic.Pointer[model]
	generation atomic.Uint64

	// Metrics
	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64

	cache *resultCache
}

// model is everything one successful fit produces. It is never modified
// after it is published.
type model struct {
	generation  uint64
	corpus      *dataset.Corpus
	scaler      *features.Standardizer
	embed       *mat.Dense
	index       index.Index
	fittedAt    time.Time
	fitDuration time.Duration
}

// NewEngine creates an unfitted engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	metric, err := index.ParseMetric(cfg.Metric)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	kind, err := index.ParseKind(cfg.Index)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cache, err := newResultCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		metric: metric,
		kind:   kind,
		cache:  cache,
	}, nil
}

// Fit standardizes the corpus features, embeds every track and builds the
// neighbor index. On success the new model replaces the old one and the
// result cache is cleared. On failure the engine is left unfitted.
//
// Queries keep running against the previous model while a fit is in
// progress. A second concurrent Fit returns ErrFitInProgress.
func (e *Engine) Fit(ctx context.Context, corpus *dataset.Corpus) error {
	if !e.fitMu.TryLock() {
		return ErrFitInProgress
	}
	defer e.fitMu.Unlock()

	start := time.Now()
	e.logger.Info().
		Int("rows", corpus.Len()).
		Str("metric", e.metric.Name()).
		Str("index", string(e.kind)).
		Int("k", e.config.K).
		Msg("fitting engine")

	m, err := e.fit(ctx, corpus)
	duration := time.Since(start)
	if err != nil {
		e.state.Store(nil)
		e.cache.purge()
		metrics.RecordFit(duration, 0, err)
		e.logger.Error().Err(err).Msg("fit failed, engine is unfitted")
		return err
	}

	m.generation = e.generation.Add(1)
	m.fittedAt = time.Now()
	m.fitDuration = duration
	e.state.Store(m)
	e.cache.purge()
	metrics.RecordFit(duration, corpus.Len(), nil)

	e.logger.Info().
		Int("rows", corpus.Len()).
		Int("k_cap", m.index.KCap()).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("engine fitted")
	return nil
}

// fit runs the three fit phases, checking ctx between them.
func (e *Engine) fit(ctx context.Context, corpus *dataset.Corpus) (*model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if corpus.Len() == 0 {
		return nil, fmt.Errorf("fit: %w", index.ErrEmptyCorpus)
	}

	raw := corpus.FeatureMatrix()
	scaler := features.NewStandardizer(dataset.NumFeatures)
	if err := scaler.Fit(raw); err != nil {
		return nil, fmt.Errorf("fit standardizer: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	embed, err := scaler.TransformMatrix(raw)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx, err := index.Build(embed, e.config.K, index.WithMetric(e.metric), index.WithKind(e.kind))
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	return &model{
		corpus: corpus,
		scaler: scaler,
		embed:  embed,
		index:  idx,
	}, nil
}

// RecommendByIdentifier returns up to n tracks nearest to the track with the
// given id, ranked from 1. The seed itself is dropped unless includeSeed is
// set. Only the kCap nearest neighbors are considered, so fewer than n rows
// may come back.
func (e *Engine) RecommendByIdentifier(ctx context.Context, id string, n int, includeSeed bool) ([]Row, error) {
	start := time.Now()
	e.requestCount.Add(1)

	rows, err := e.recommendByIdentifier(ctx, id, n, includeSeed)
	e.observe(metrics.ModeSingle, start, err)
	return rows, err
}

func (e *Engine) recommendByIdentifier(ctx context.Context, id string, n int, includeSeed bool) ([]Row, error) {
	m, err := e.prepare(ctx, n)
	if err != nil {
		return nil, err
	}

	pos, ok := m.corpus.Position(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}

	logger := e.logger.With().Str("seed", id).Int("n", n).Bool("include_seed", includeSeed).Logger()
	key := cacheKey(m.generation, []string{id}, n, includeSeed)
	if rows, ok := e.lookup(key, logger); ok {
		return rows, nil
	}

	var exclude []int
	if !includeSeed {
		exclude = []int{pos}
	}
	rows, err := e.query(ctx, m, m.embed.RawRowView(pos), exclude, n, []string{id})
	if err != nil {
		return nil, err
	}

	e.cache.put(key, rows)
	logger.Debug().Int("returned", len(rows)).Msg("recommendation complete")
	return rows, nil
}

// RecommendFromMultiple returns up to n tracks nearest to the centroid of the
// seeds' standardized feature vectors. Every seed is excluded from the
// result. A repeated id weights the centroid once per occurrence. If any id is unknown the whole request
// fails with a *NotFoundError naming the first unknown id in input order.
func (e *Engine) RecommendFromMultiple(ctx context.Context, ids []string, n int) ([]Row, error) {
	start := time.Now()
	e.requestCount.Add(1)

	rows, err := e.recommendFromMultiple(ctx, ids, n)
	e.observe(metrics.ModeMultiple, start, err)
	return rows, err
}

func (e *Engine) recommendFromMultiple(ctx context.Context, ids []string, n int) ([]Row, error) {
	m, err := e.prepare(ctx, n)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, &NotFoundError{ID: ""}
	}

	positions := make([]int, 0, len(ids))
	for _, id := range ids {
		pos, ok := m.corpus.Position(id)
		if !ok {
			return nil, &NotFoundError{ID: id}
		}
		positions = append(positions, pos)
	}
	slices.Sort(positions)

	logger := e.logger.With().Strs("seeds", ids).Int("n", n).Logger()
	key := cacheKey(m.generation, ids, n, false)
	if rows, ok := e.lookup(key, logger); ok {
		return rows, nil
	}

	rows, err := e.query(ctx, m, centroid(m.embed, positions), positions, n, ids)
	if err != nil {
		return nil, err
	}

	e.cache.put(key, rows)
	logger.Debug().Int("returned", len(rows)).Msg("recommendation complete")
	return rows, nil
}

// centroid is the per-dimension mean of the given rows, one term per entry.
// Rows are summed in ascending position order so equal seed lists give
// bit-identical centroids.
func centroid(embed *mat.Dense, positions []int) []float64 {
	_, dims := embed.Dims()
	c := make([]float64, dims)
	for _, pos := range positions {
		floats.Add(c, embed.RawRowView(pos))
	}
	if len(positions) > 1 {
		floats.Scale(1/float64(len(positions)), c)
	}
	return c
}

// prepare checks the request preconditions shared by every query and returns
// the model snapshot to answer it from.
func (e *Engine) prepare(ctx context.Context, n int) (*model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := e.state.Load()
	if m == nil {
		return nil, ErrNotFitted
	}
	if n <= 0 || n > e.config.MaxN {
		return nil, fmt.Errorf("%w: n must be between 1 and %d, got %d", ErrInvalidN, e.config.MaxN, n)
	}
	return m, nil
}

// query searches the kCap nearest neighbors of v, drops the excluded
// positions and keeps the first n.
func (e *Engine) query(ctx context.Context, m *model, v []float64, exclude []int, n int, seeds []string) ([]Row, error) {
	neighbors, err := m.index.Query(v, m.index.KCap())
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, min(n, len(neighbors)))
	for _, nb := range neighbors {
		if slices.Contains(exclude, nb.Pos) {
			continue
		}
		t := m.corpus.Track(nb.Pos)
		rows = append(rows, Row{
			Rank:       len(rows) + 1,
			TrackName:  t.Name,
			ArtistName: t.Artist,
			TrackID:    t.ID,
			Popularity: t.Popularity,
			Similarity: m.index.Metric().Similarity(nb.Distance),
			Distance:   nb.Distance,
			Position:   nb.Pos,
		})
		if len(rows) == n {
			break
		}
	}

	if len(rows) == 0 {
		return nil, &InsufficientResultsError{Seeds: slices.Clone(seeds), KCap: m.index.KCap()}
	}
	return rows, nil
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (e *Engine) lookup(key string, logger zerolog.Logger) ([]Row, bool) {
	if e.cache == nil {
		return nil, false
	}
	rows, ok := e.cache.get(key)
	metrics.RecordCache(ok)
	if ok {
		e.cacheHits.Add(1)
		logger.Debug().Msg("cache hit")
		return rows, true
	}
	e.cacheMisses.Add(1)
	return nil, false
}

func (e *Engine) observe(mode string, start time.Time, err error) {
	outcome := outcomeOf(err)
	if outcome == metrics.OutcomeError {
		e.errorCount.Add(1)
		e.logger.Error().Err(err).Str("mode", mode).Msg("recommendation failed")
	}
	metrics.RecordRecommend(mode, outcome, time.Since(start))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrInsufficientResults):
		return metrics.OutcomeInsufficient
	case errors.Is(err, ErrNotFitted):
		return metrics.OutcomeNotFitted
	case errors.Is(err, ErrInvalidN):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}

// Fitted reports whether a fitted model is installed.
func (e *Engine) Fitted() bool {
	return e.state.Load() != nil
}

// Corpus returns the fitted corpus, or nil before a successful fit.
func (e *Engine) Corpus() *dataset.Corpus {
	if m := e.state.Load(); m != nil {
		return m.corpus
	}
	return nil
}

// Track looks up a track in the fitted corpus.
func (e *Engine) Track(id string) (dataset.Track, error) {
	m := e.state.Load()
	if m == nil {
		return dataset.Track{}, ErrNotFitted
	}
	pos, ok := m.corpus.Position(id)
	if !ok {
		return dataset.Track{}, &NotFoundError{ID: id}
	}
	return m.corpus.Track(pos), nil
}

// Standardizer returns the fitted feature standardizer.
func (e *Engine) Standardizer() (*features.Standardizer, error) {
	m := e.state.Load()
	if m == nil {
		return nil, ErrNotFitted
	}
	return m.scaler, nil
}

// Stats returns a snapshot of engine state and counters.
func (e *Engine) Stats() Stats {
	s := Stats{
		Metric:       e.metric.Name(),
		Index:        string(e.kind),
		Queries:      e.requestCount.Load(),
		Errors:       e.errorCount.Load(),
		CacheEnabled: e.cache != nil,
		CacheEntries: e.cache.len(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
	}
	if m := e.state.Load(); m != nil {
		s.Fitted = true
		s.Rows = m.corpus.Len()
		s.KCap = m.index.KCap()
		s.HasPopularity = m.corpus.HasPopularity()
		s.FittedAt = m.fittedAt
		s.FitDurationMS = m.fitDuration.Milliseconds()
	}
	return s
}

// GetConfig returns a copy of the engine configuration.
func (e *Engine) GetConfig() Config {
	return *e.config
}
