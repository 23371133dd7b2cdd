// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation modes used as the "mode" label.
const (
	ModeSingle   = "single"
	ModeMultiple = "multiple"
)

// Query outcomes used as the "outcome" label.
const (
	OutcomeOK           = "ok"
	OutcomeNotFound     = "not_found"
	OutcomeInsufficient = "insufficient"
	OutcomeNotFitted    = "not_fitted"
	OutcomeInvalid      = "invalid"
	OutcomeError        = "error"
)

var (
	// Dataset Metrics
	DatasetRowsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trackrec_dataset_rows",
			Help: "Number of tracks in the most recently loaded corpus",
		},
	)

	DatasetRowsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trackrec_dataset_rows_dropped_total",
			Help: "Rows dropped while cleaning a dataset",
		},
		[]string{"reason"}, // "missing", "duplicate"
	)

	DatasetLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trackrec_dataset_load_duration_seconds",
			Help:    "Duration of dataset loads in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Engine Metrics
	EngineFitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trackrec_engine_fit_duration_seconds",
			Help:    "Duration of engine fits in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	EngineFitErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trackrec_engine_fit_errors_total",
			Help: "Total number of failed engine fits",
		},
	)

	EngineFitted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trackrec_engine_fitted",
			Help: "Whether the engine currently holds a fitted model (0 or 1)",
		},
	)

	EngineCorpusRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trackrec_engine_corpus_rows",
			Help: "Number of tracks indexed by the fitted engine",
		},
	)

	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trackrec_recommend_requests_total",
			Help: "Total number of recommendation queries",
		},
		[]string{"mode", "outcome"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trackrec_recommend_duration_seconds",
			Help:    "Duration of recommendation queries in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"mode"},
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trackrec_recommend_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trackrec_recommend_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trackrec_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trackrec_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trackrec_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trackrec_app_info",
			Help: "Application version information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordDatasetLoad records the outcome of a dataset load.
func RecordDatasetLoad(duration time.Duration, kept, droppedMissing, droppedDuplicate int) {
	DatasetLoadDuration.Observe(duration.Seconds())
	DatasetRowsLoaded.Set(float64(kept))
	DatasetRowsDropped.WithLabelValues("missing").Add(float64(droppedMissing))
	DatasetRowsDropped.WithLabelValues("duplicate").Add(float64(droppedDuplicate))
}

// RecordFit records an engine fit. rows is ignored when err is non-nil.
func RecordFit(duration time.Duration, rows int, err error) {
	EngineFitDuration.Observe(duration.Seconds())
	if err != nil {
		EngineFitErrors.Inc()
		EngineFitted.Set(0)
		EngineCorpusRows.Set(0)
		return
	}
	EngineFitted.Set(1)
	EngineCorpusRows.Set(float64(rows))
}

// RecordRecommend records one recommendation query.
func RecordRecommend(mode, outcome string, duration time.Duration) {
	RecommendRequests.WithLabelValues(mode, outcome).Inc()
	RecommendDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordCache records a result cache lookup.
func RecordCache(hit bool) {
	if hit {
		RecommendCacheHits.Inc()
	} else {
		RecommendCacheMisses.Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, route string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetAppInfo publishes the build version.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}
