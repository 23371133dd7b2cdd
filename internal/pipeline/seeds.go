// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package pipeline

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/tomtom215/trackrec/internal/dataset"
	"github.com/tomtom215/trackrec/internal/index"
	"github.com/tomtom215/trackrec/internal/search"
)

// DefaultFallbackSeed seeds the random seed-track pick when none is configured.
const DefaultFallbackSeed uint64 = 7

// ErrNoTextMatch is returned when a seed query matches no track.
var ErrNoTextMatch = errors.New("no tracks match the seed query")

// SeedKind records which input selected the seeds.
type SeedKind string

const (
	SeedExplicit SeedKind = "id"
	SeedMultiple SeedKind = "multi"
	SeedQuery    SeedKind = "query"
	SeedRandom   SeedKind = "random"
)

// SeedRequest carries the user's seed inputs. The first non-empty field in
// declaration order wins.
type SeedRequest struct {
	SeedID       string
	MultiSeedIDs []string
	SeedQuery    string
}

// Seeds is the resolved seed selection.
type Seeds struct {
	Kind SeedKind
	IDs  []string

	// Matches holds the text search hits when Kind is SeedQuery. The first
	// hit is the seed.
	Matches []dataset.Track
}

// ParseSeedIDs splits a comma-separated id list, trimming blanks and
// dropping empty entries.
func ParseSeedIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// ResolveSeeds picks the seed ids for a request. Explicit ids are returned
// as given, without checking that the corpus holds them. A query takes its
// first match from corpus. With no input at all a track is drawn uniformly
// from corpus with a PCG source seeded by fallbackSeed (zero means
// DefaultFallbackSeed).
func ResolveSeeds(corpus *dataset.Corpus, req SeedRequest, fallbackSeed uint64) (Seeds, error) {
	if id := strings.TrimSpace(req.SeedID); id != "" {
		return Seeds{Kind: SeedExplicit, IDs: []string{id}}, nil
	}
	if len(req.MultiSeedIDs) > 0 {
		ids := make([]string, 0, len(req.MultiSeedIDs))
		for _, id := range req.MultiSeedIDs {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			return Seeds{Kind: SeedMultiple, IDs: ids}, nil
		}
	}
	if strings.TrimSpace(req.SeedQuery) != "" {
		matches := search.Search(corpus.Tracks(), req.SeedQuery, search.DefaultLimit)
		if len(matches) == 0 {
			return Seeds{Kind: SeedQuery}, fmt.Errorf("%w: %q", ErrNoTextMatch, req.SeedQuery)
		}
		return Seeds{Kind: SeedQuery, IDs: []string{matches[0].ID}, Matches: matches}, nil
	}

	if corpus.Len() == 0 {
		return Seeds{}, fmt.Errorf("pick random seed: %w", index.ErrEmptyCorpus)
	}
	if fallbackSeed == 0 {
		fallbackSeed = DefaultFallbackSeed
	}
	rng := rand.New(rand.NewPCG(fallbackSeed, fallbackSeed)) //nolint:gosec // reproducible pick, not security sensitive
	pos := rng.IntN(corpus.Len())
	return Seeds{Kind: SeedRandom, IDs: []string{corpus.Track(pos).ID}}, nil
}
