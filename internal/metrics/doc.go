// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
are exposed by the API server at /metrics:

	curl http://localhost:8089/metrics

# Available Metrics

Dataset Metrics:
  - trackrec_dataset_rows: Tracks in the last loaded corpus (gauge)
  - trackrec_dataset_rows_dropped_total: Dropped rows (counter)
    Labels: reason (missing, duplicate)
  - trackrec_dataset_load_duration_seconds: Load latency (histogram)

Engine Metrics:
  - trackrec_engine_fit_duration_seconds: Fit latency (histogram)
  - trackrec_engine_fit_errors_total: Failed fits (counter)
  - trackrec_engine_fitted: 1 while a fitted model is installed (gauge)
  - trackrec_engine_corpus_rows: Indexed tracks (gauge)
  - trackrec_recommend_requests_total: Queries (counter)
    Labels: mode (single, multiple), outcome
  - trackrec_recommend_duration_seconds: Query latency (histogram)
    Labels: mode
  - trackrec_recommend_cache_hits_total / _misses_total: Result cache (counter)

HTTP Metrics:
  - trackrec_http_requests_total: Requests (counter)
    Labels: method, route, status
  - trackrec_http_request_duration_seconds: Request latency (histogram)
    Labels: method, route
  - trackrec_http_requests_in_flight: Active requests (gauge)

# Usage

	start := time.Now()
	rows, err := engine.RecommendByIdentifier(ctx, id, n, false)
	metrics.RecordRecommend(metrics.ModeSingle, outcome, time.Since(start))

Route labels use the chi route pattern (for example /api/v1/tracks/{id}),
never the raw path, to keep label cardinality bounded.
*/
package metrics
