// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/trackrec/internal/dataset"
	"github.com/tomtom215/trackrec/internal/recommend"
	"github.com/tomtom215/trackrec/internal/validation"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 64 << 10

// RecommendRequest is the body of POST /api/v1/recommend.
type RecommendRequest struct {
	SeedIDs []string `json:"seed_ids" validate:"required,min=1,max=50,dive,trackid"`
	N       int      `json:"n" validate:"omitempty,gte=1"`
}

// SimilarParams are the query parameters of GET /tracks/{id}/similar.
type SimilarParams struct {
	N           int  `json:"n" validate:"omitempty,gte=1"`
	IncludeSeed bool `json:"include_seed"`
}

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	Query string `json:"q" validate:"required"`
	Limit int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// RecommendResponse is the data payload for recommendation endpoints.
type RecommendResponse struct {
	SeedIDs         []string        `json:"seed_ids"`
	Recommendations []recommend.Row `json:"recommendations"`
}

// TrackResponse is a track with its features keyed by column name.
type TrackResponse struct {
	TrackID    string             `json:"track_id"`
	TrackName  string             `json:"track_name"`
	ArtistName string             `json:"artist_name"`
	Popularity *float64           `json:"popularity,omitempty"`
	Features   map[string]float64 `json:"features"`
}

// HealthResponse is the data payload of GET /health.
type HealthResponse struct {
	Status  string  `json:"status"`
	Fitted  bool    `json:"fitted"`
	Rows    int     `json:"rows"`
	Version string  `json:"version"`
	Uptime  float64 `json:"uptime_seconds"`
}

func newTrackResponse(t *dataset.Track) TrackResponse {
	feats := make(map[string]float64, dataset.NumFeatures)
	for i, name := range dataset.FeatureColumns {
		feats[name] = t.Features[i]
	}
	return TrackResponse{
		TrackID:    t.ID,
		TrackName:  t.Name,
		ArtistName: t.Artist,
		Popularity: t.Popularity,
		Features:   feats,
	}
}

// decodeRecommendRequest reads and validates a JSON recommend body.
func decodeRecommendRequest(w http.ResponseWriter, r *http.Request) (*RecommendRequest, error) {
	var req RecommendRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

// parseSimilarParams reads n and include_seed from the query string.
func parseSimilarParams(r *http.Request) (*SimilarParams, error) {
	q := r.URL.Query()
	var p SimilarParams
	var err error
	if p.N, err = intParam(q.Get("n"), "n"); err != nil {
		return nil, err
	}
	if v := q.Get("include_seed"); v != "" {
		if p.IncludeSeed, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("include_seed must be a boolean: %q", v)
		}
	}
	if verr := validation.ValidateStruct(&p); verr != nil {
		return nil, verr
	}
	return &p, nil
}

// parseSearchParams reads q and limit from the query string.
func parseSearchParams(r *http.Request) (*SearchParams, error) {
	q := r.URL.Query()
	p := SearchParams{Query: q.Get("q")}
	var err error
	if p.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		return nil, err
	}
	if verr := validation.ValidateStruct(&p); verr != nil {
		return nil, verr
	}
	return &p, nil
}

func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %q", name, v)
	}
	return n, nil
}
