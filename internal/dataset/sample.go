// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package dataset

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// Subsample draws size tracks without replacement. The same seed over the
// same corpus always yields the same tracks in the same order. When size is
// not smaller than the corpus, c is returned unchanged.
func Subsample(c *Corpus, size int, seed uint64) *Corpus {
	if size <= 0 || size >= c.Len() {
		return c
	}

	idxs := make([]int, size)
	sampleuv.WithoutReplacement(idxs, c.Len(), rand.NewPCG(seed, seed))

	tracks := make([]Track, size)
	for i, pos := range idxs {
		tracks[i] = c.tracks[pos]
	}
	return NewCorpus(tracks, c.hasPopularity)
}

// Reinject returns subset extended with the rows of full for every id that
// subset lacks. Ids absent from full as well are skipped; the caller's seed
// resolution reports them. The original subset is not modified.
func Reinject(subset, full *Corpus, ids []string) *Corpus {
	var extra []Track
	added := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if subset.Contains(id) {
			continue
		}
		if _, dup := added[id]; dup {
			continue
		}
		pos, ok := full.Position(id)
		if !ok {
			continue
		}
		added[id] = struct{}{}
		extra = append(extra, full.tracks[pos])
	}
	if len(extra) == 0 {
		return subset
	}

	tracks := make([]Track, 0, subset.Len()+len(extra))
	tracks = append(tracks, subset.tracks...)
	tracks = append(tracks, extra...)
	return NewCorpus(tracks, subset.hasPopularity || full.hasPopularity)
}
