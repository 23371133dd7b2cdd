// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

/*
Package recommend provides content-based track recommendations.

The Engine embeds every track of a corpus in a standardized nine-dimensional
audio feature space and answers "more like this" queries with a nearest
neighbor search in that space.

# Lifecycle

An Engine starts unfitted. Fit runs three phases:

 1. Fit a z-score standardizer on the raw feature matrix.
 2. Transform the corpus into the embedding matrix.
 3. Build a neighbor index (brute force or k-d tree) over the embeddings,
    capped at kCap = min(K, rows) neighbors per query.

A successful fit atomically replaces the previous model and clears the
result cache. A failed fit leaves the engine unfitted, and every query then
returns ErrNotFitted until the next successful fit.

# Queries

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
	if err != nil {
	    return err
	}
	if err := engine.Fit(ctx, corpus); err != nil {
	    return err
	}
	rows, err := engine.RecommendByIdentifier(ctx, "4uLU6hMCjMI75M1A2tKUQC", 10, false)

RecommendByIdentifier queries at the seed's own embedding.
RecommendFromMultiple queries at the centroid of several seeds and always
excludes the seeds. Both consider only the kCap nearest neighbors, then drop
excluded rows and keep the first n, so a result may be shorter than n.

Rows are ordered by ascending distance with ties broken by corpus position.
Row.Similarity is derived from the distance by the configured metric.

# Errors

  - ErrNotFitted: query before a successful fit
  - *NotFoundError (ErrNotFound): unknown seed id
  - *InsufficientResultsError (ErrInsufficientResults): nothing left after exclusion
  - ErrInvalidN: n outside 1..MaxN
  - ErrFitInProgress: concurrent Fit

# Thread Safety

Queries read an immutable model through an atomic pointer and never block.
Fit calls are serialised. The result cache is a thread-safe LRU.
*/
package recommend
