// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package dataset

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSampleSeed seeds subsampling when LoadOptions leaves it zero.
const DefaultSampleSeed uint64 = 42

// LoadOptions controls schema checking and sampling.
type LoadOptions struct {
	// Required columns must all be present. Defaults to RequiredColumns().
	Required []string

	// Optional columns are kept when present. Defaults to OptionalColumns().
	Optional []string

	// Subset samples this many rows when smaller than the cleaned row count.
	// Zero keeps every row.
	Subset int

	// SampleSeed makes the subsample reproducible. Zero means DefaultSampleSeed.
	SampleSeed uint64
}

// DefaultLoadOptions returns options with the standard column sets.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Required:   RequiredColumns(),
		Optional:   OptionalColumns(),
		SampleSeed: DefaultSampleSeed,
	}
}

// LoadStats summarises what cleaning did to a source.
type LoadStats struct {
	RowsRead         int  `json:"rows_read"`
	DroppedMissing   int  `json:"dropped_missing"`
	DroppedDuplicate int  `json:"dropped_duplicate"`
	Kept             int  `json:"kept"`
	Sampled          bool `json:"sampled"`
}

// Loader turns a Source into a cleaned Corpus.
type Loader struct {
	logger zerolog.Logger
}

// NewLoader creates a Loader that logs under the "dataset" component.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logger.With().Str("component", "dataset").Logger()}
}

// Load reads src and returns the cleaned corpus.
//
// It fails with *SchemaError when a required column is absent and with
// *EmptyCorpusError when nothing survives cleaning. The returned stats are
// valid whenever the table could be read.
func (l *Loader) Load(ctx context.Context, src Source, opts LoadOptions) (*Corpus, LoadStats, error) {
	start := time.Now()
	if len(opts.Required) == 0 {
		opts.Required = RequiredColumns()
	}
	if opts.Optional == nil {
		opts.Optional = OptionalColumns()
	}
	if opts.SampleSeed == 0 {
		opts.SampleSeed = DefaultSampleSeed
	}

	if err := ctx.Err(); err != nil {
		return nil, LoadStats{}, err
	}
	tbl, err := src.Read(ctx)
	if err != nil {
		return nil, LoadStats{}, err
	}

	cols, err := resolveColumns(src.Name(), tbl.Columns, opts)
	if err != nil {
		return nil, LoadStats{}, err
	}

	tracks, stats := clean(tbl, cols)
	if len(tracks) == 0 {
		return nil, stats, &EmptyCorpusError{Source: src.Name(), Stats: stats}
	}

	corpus := NewCorpus(tracks, cols.popularity >= 0)
	if opts.Subset > 0 && opts.Subset < corpus.Len() {
		corpus = Subsample(corpus, opts.Subset, opts.SampleSeed)
		stats.Sampled = true
		stats.Kept = corpus.Len()
	}

	l.logger.Info().
		Str("source", src.Name()).
		Int("rows_read", stats.RowsRead).
		Int("dropped_missing", stats.DroppedMissing).
		Int("dropped_duplicate", stats.DroppedDuplicate).
		Int("kept", stats.Kept).
		Bool("sampled", stats.Sampled).
		Dur("duration", time.Since(start)).
		Msg("Dataset loaded")

	return corpus, stats, nil
}

// columnIndex holds the source positions of every column the loader uses.
// popularity is -1 when the column is absent.
type columnIndex struct {
	id, name, artist int
	features         [NumFeatures]int
	popularity       int
}

func resolveColumns(source string, header []string, opts LoadOptions) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	var missing []string
	for _, c := range opts.Required {
		if _, ok := pos[c]; !ok {
			missing = append(missing, c)
		}
	}
	// The standard columns are needed to build a Track even if a caller
	// passed a narrower Required list.
	for _, c := range RequiredColumns() {
		if _, ok := pos[c]; !ok && !contains(missing, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return columnIndex{}, &SchemaError{Source: source, Missing: missing}
	}

	idx := columnIndex{
		id:         pos[ColTrackID],
		name:       pos[ColTrackName],
		artist:     pos[ColArtistName],
		popularity: -1,
	}
	for j, c := range FeatureColumns {
		idx.features[j] = pos[c]
	}
	if contains(opts.Optional, ColPopularity) {
		if p, ok := pos[ColPopularity]; ok {
			idx.popularity = p
		}
	}
	return idx, nil
}

// clean drops rows with a missing feature or id, then drops repeated ids
// keeping the first surviving occurrence.
func clean(tbl *Table, cols columnIndex) ([]Track, LoadStats) {
	stats := LoadStats{RowsRead: len(tbl.Rows)}
	tracks := make([]Track, 0, len(tbl.Rows))
	seen := make(map[string]struct{}, len(tbl.Rows))

	for _, row := range tbl.Rows {
		t, ok := parseTrack(row, cols)
		if !ok {
			stats.DroppedMissing++
			continue
		}
		if _, dup := seen[t.ID]; dup {
			stats.DroppedDuplicate++
			continue
		}
		seen[t.ID] = struct{}{}
		tracks = append(tracks, t)
	}
	stats.Kept = len(tracks)
	return tracks, stats
}

func parseTrack(row []Field, cols columnIndex) (Track, bool) {
	id := strings.TrimSpace(row[cols.id].Value)
	if !row[cols.id].Valid || id == "" {
		return Track{}, false
	}

	t := Track{
		ID:     id,
		Name:   row[cols.name].Value,
		Artist: row[cols.artist].Value,
	}
	for j, c := range cols.features {
		v, ok := parseNumber(row[c])
		if !ok {
			return Track{}, false
		}
		t.Features[j] = v
	}
	if cols.popularity >= 0 {
		if v, ok := parseNumber(row[cols.popularity]); ok {
			t.Popularity = &v
		}
	}
	return t, true
}

// parseNumber returns false for missing markers, unparseable text and
// non-finite values.
func parseNumber(f Field) (float64, bool) {
	if !f.Valid {
		return 0, false
	}
	s := strings.TrimSpace(f.Value)
	if isMissingMarker(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isMissingMarker(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "n/a", "#n/a", "nan", "-nan", "null", "none", "<na>":
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
