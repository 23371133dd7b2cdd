// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

/*
Package api serves the recommendation engine over HTTP.

The router is built on Chi with production middleware from its ecosystem:
request ids with zerolog access logging, go-chi/cors, go-chi/httprate per-IP
rate limiting, Prometheus request metrics and panic recovery.

# Endpoints

	GET  /api/v1/health                    503 until the engine is fitted
	GET  /api/v1/stats                     engine statistics
	GET  /api/v1/tracks/{id}               one track
	GET  /api/v1/tracks/{id}/similar       ?n=10&include_seed=false
	POST /api/v1/recommend                 {"seed_ids": ["..."], "n": 10}
	GET  /api/v1/search                    ?q=shape+of+you&limit=10
	GET  /metrics                          Prometheus exposition

# Response Format

Every API response uses one envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "NOT_FOUND", "message": "...", "request_id": "..."},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 1}
	}

Engine errors map to fixed status codes:

	NotFound              404 NOT_FOUND
	InsufficientResults   422 INSUFFICIENT_RESULTS
	NotFitted             503 NOT_FITTED
	Validation / bad n    400 VALIDATION_ERROR

The engine is shared read-only between requests; handlers never refit it.
*/
package api
