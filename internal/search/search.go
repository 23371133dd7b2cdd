// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

// Package search finds tracks by free text over track and artist names.
package search

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/tomtom215/trackrec/internal/dataset"
)

// DefaultLimit is used when a caller passes a non-positive limit.
const DefaultLimit = 10

// Search returns the tracks whose name or artist contains query, ignoring
// case. Matches keep corpus order and are truncated to limit. Surrounding
// whitespace in query is ignored and an empty query matches nothing.
func Search(tracks []dataset.Track, query string, limit int) []dataset.Track {
	if limit <= 0 {
		limit = DefaultLimit
	}
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return []dataset.Track{}
	}

	hits := make([]dataset.Track, 0, min(limit, 16))
	for i := range tracks {
		if matches(fold, tracks[i].Name, q) || matches(fold, tracks[i].Artist, q) {
			hits = append(hits, tracks[i])
			if len(hits) == limit {
				break
			}
		}
	}
	return hits
}

func matches(fold cases.Caser, field, q string) bool {
	return strings.Contains(fold.String(field), q)
}
