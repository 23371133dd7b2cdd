// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

// Package dataset loads track records from tabular sources and cleans them
// into a Corpus: schema checked, rows with missing audio features dropped,
// duplicate track ids removed (first occurrence wins), optionally subsampled
// with a fixed seed.
//
// A Corpus is positionally indexed 0..n-1. Positions are only meaningful
// within one Corpus value; callers that need a stable key use Track.ID.
package dataset

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// NumFeatures is the width of every feature vector.
const NumFeatures = 9

// Column names understood by the loader.
const (
	ColTrackID    = "track_id"
	ColTrackName  = "track_name"
	ColArtistName = "artist_name"
	ColPopularity = "popularity"
)

// FeatureColumns lists the audio features in vector order.
var FeatureColumns = [NumFeatures]string{
	"danceability",
	"energy",
	"acousticness",
	"instrumentalness",
	"liveness",
	"speechiness",
	"valence",
	"tempo",
	"loudness",
}

// RequiredColumns returns the columns a source must provide.
func RequiredColumns() []string {
	cols := []string{ColTrackID, ColTrackName, ColArtistName}
	return append(cols, FeatureColumns[:]...)
}

// OptionalColumns returns the columns kept when present.
func OptionalColumns() []string {
	return []string{ColPopularity}
}

// Track is one cleaned record. It is treated as immutable once loaded.
type Track struct {
	ID         string               `json:"track_id"`
	Name       string               `json:"track_name"`
	Artist     string               `json:"artist_name"`
	Features   [NumFeatures]float64 `json:"features"`
	Popularity *float64             `json:"popularity,omitempty"`
}

// Corpus is an ordered, deduplicated set of tracks.
type Corpus struct {
	tracks        []Track
	hasPopularity bool

	posOnce   sync.Once
	positions map[string]int
}

// NewCorpus wraps tracks without copying. Track ids must already be unique.
func NewCorpus(tracks []Track, hasPopularity bool) *Corpus {
	return &Corpus{tracks: tracks, hasPopularity: hasPopularity}
}

// Len returns the number of tracks.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tracks)
}

// Tracks returns the tracks in positional order. Callers must not modify it.
func (c *Corpus) Tracks() []Track {
	return c.tracks
}

// Track returns the track at pos.
func (c *Corpus) Track(pos int) Track {
	return c.tracks[pos]
}

// HasPopularity reports whether the source carried a popularity column.
func (c *Corpus) HasPopularity() bool {
	return c.hasPopularity
}

// Position resolves a track id to its position in this corpus.
func (c *Corpus) Position(id string) (int, bool) {
	c.posOnce.Do(func() {
		c.positions = make(map[string]int, len(c.tracks))
		for i := range c.tracks {
			c.positions[c.tracks[i].ID] = i
		}
	})
	pos, ok := c.positions[id]
	return pos, ok
}

// Contains reports whether id is present.
func (c *Corpus) Contains(id string) bool {
	_, ok := c.Position(id)
	return ok
}

// FeatureMatrix returns the raw n×NumFeatures feature matrix.
// It returns nil for an empty corpus, since gonum has no zero-row Dense.
func (c *Corpus) FeatureMatrix() *mat.Dense {
	n := c.Len()
	if n == 0 {
		return nil
	}
	data := make([]float64, 0, n*NumFeatures)
	for i := range c.tracks {
		data = append(data, c.tracks[i].Features[:]...)
	}
	return mat.NewDense(n, NumFeatures, data)
}
