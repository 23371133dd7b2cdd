// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package recommend

import (
	"time"
)

// Row is one ranked recommendation.
type Row struct {
	// Rank is 1-based and contiguous within a result.
	Rank int `json:"rank"`

	TrackName  string `json:"track_name"`
	ArtistName string `json:"artist_name"`
	TrackID    string `json:"track_id"`

	// Popularity is nil when the corpus has no popularity column.
	Popularity *float64 `json:"popularity,omitempty"`

	// Similarity is derived from Distance by the metric: 1 - d for cosine,
	// 1 / (1 + d) for euclidean and manhattan. Larger is more similar.
	Similarity float64 `json:"similarity"`

	// Distance is measured in the standardized feature space.
	Distance float64 `json:"distance"`

	// Position is the row's index in the fitted corpus.
	Position int `json:"-"`
}

// Stats is a point-in-time snapshot of engine state.
type Stats struct {
	Fitted        bool      `json:"fitted"`
	Rows          int       `json:"rows"`
	KCap          int       `json:"k_cap"`
	Metric        string    `json:"metric"`
	Index         string    `json:"index"`
	HasPopularity bool      `json:"has_popularity"`
	FittedAt      time.Time `json:"fitted_at"`
	FitDurationMS int64     `json:"fit_duration_ms"`
	Queries       int64     `json:"queries"`
	Errors        int64     `json:"errors"`
	CacheEnabled  bool      `json:"cache_enabled"`
	CacheEntries  int       `json:"cache_entries"`
	CacheHits     int64     `json:"cache_hits"`
	CacheMisses   int64     `json:"cache_misses"`
}
