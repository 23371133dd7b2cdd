// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tomtom215/trackrec/internal/dataset"
	"github.com/tomtom215/trackrec/internal/recommend"
	"github.com/tomtom215/trackrec/internal/search"
	"github.com/tomtom215/trackrec/internal/validation"
)

// Recommender is the engine surface the handlers use.
type Recommender interface {
	RecommendByIdentifier(ctx context.Context, id string, n int, includeSeed bool) ([]recommend.Row, error)
	RecommendFromMultiple(ctx context.Context, ids []string, n int) ([]recommend.Row, error)
	Track(id string) (dataset.Track, error)
	Corpus() *dataset.Corpus
	Fitted() bool
	Stats() recommend.Stats
}

// DefaultN is the result count when a request does not set n.
const DefaultN = 10

// Handler serves the HTTP API for one engine.
type Handler struct {
	engine    Recommender
	logger    zerolog.Logger
	version   string
	defaultN  int
	startTime time.Time
}

// NewHandler creates a handler. defaultN <= 0 uses DefaultN.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(engine Recommender, logger zerolog.Logger, version string, defaultN int) *Handler {
	if defaultN <= 0 {
		defaultN = DefaultN
	}
	return &Handler{
		engine:    engine,
		logger:    logger.With().Str("component", "api").Logger(),
		version:   version,
		defaultN:  defaultN,
		startTime: time.Now(),
	}
}

// Health reports readiness. It answers 503 until the engine has a model.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.Stats()
	resp := HealthResponse{
		Status:  "ok",
		Fitted:  stats.Fitted,
		Rows:    stats.Rows,
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}
	rw := NewResponseWriter(w, r)
	if !stats.Fitted {
		resp.Status = "starting"
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeNotFitted, "Recommendation engine is not fitted yet", resp)
		return
	}
	rw.Success(resp)
}

// Stats returns engine statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.engine.Stats())
}

// GetTrack returns one track by id.
func (h *Handler) GetTrack(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	t, err := h.engine.Track(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}
	rw.Success(newTrackResponse(&t))
}

// Similar recommends tracks close to one seed.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	p, err := parseSimilarParams(r)
	if err != nil {
		h.badRequest(rw, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	rows, err := h.engine.RecommendByIdentifier(r.Context(), id, h.n(p.N), p.IncludeSeed)
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}
	rw.SuccessList(RecommendResponse{SeedIDs: []string{id}, Recommendations: rows}, len(rows))
}

// Recommend serves POST /recommend. A single seed id uses the single-seed
// path with the seed excluded.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req, err := decodeRecommendRequest(w, r)
	if err != nil {
		h.badRequest(rw, r, err)
		return
	}

	var rows []recommend.Row
	if len(req.SeedIDs) == 1 {
		rows, err = h.engine.RecommendByIdentifier(r.Context(), req.SeedIDs[0], h.n(req.N), false)
	} else {
		rows, err = h.engine.RecommendFromMultiple(r.Context(), req.SeedIDs, h.n(req.N))
	}
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}
	rw.SuccessList(RecommendResponse{SeedIDs: req.SeedIDs, Recommendations: rows}, len(rows))
}

// Search finds tracks by name or artist in the fitted corpus.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	p, err := parseSearchParams(r)
	if err != nil {
		h.badRequest(rw, r, err)
		return
	}

	corpus := h.engine.Corpus()
	if corpus == nil {
		writeEngineError(rw, r, recommend.ErrNotFitted)
		return
	}
	hits := search.Search(corpus.Tracks(), p.Query, p.Limit)
	out := make([]TrackResponse, len(hits))
	for i := range hits {
		out[i] = newTrackResponse(&hits[i])
	}
	rw.SuccessList(out, len(out))
}

func (h *Handler) n(requested int) int {
	if requested <= 0 {
		return h.defaultN
	}
	return requested
}

func (h *Handler) badRequest(rw *ResponseWriter, r *http.Request, err error) {
	var ve *validation.RequestValidationError
	if errors.As(err, &ve) {
		writeEngineError(rw, r, err)
		return
	}
	rw.BadRequest(err.Error())
}
