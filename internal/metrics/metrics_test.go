// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDatasetLoad(t *testing.T) {
	missingBefore := testutil.ToFloat64(DatasetRowsDropped.WithLabelValues("missing"))
	dupBefore := testutil.ToFloat64(DatasetRowsDropped.WithLabelValues("duplicate"))

	RecordDatasetLoad(20*time.Millisecond, 100, 3, 2)

	if got := testutil.ToFloat64(DatasetRowsLoaded); got != 100 {
		t.Errorf("rows gauge = %v, want 100", got)
	}
	if got := testutil.ToFloat64(DatasetRowsDropped.WithLabelValues("missing")) - missingBefore; got != 3 {
		t.Errorf("missing delta = %v, want 3", got)
	}
	if got := testutil.ToFloat64(DatasetRowsDropped.WithLabelValues("duplicate")) - dupBefore; got != 2 {
		t.Errorf("duplicate delta = %v, want 2", got)
	}
}

func TestRecordFit(t *testing.T) {
	tests := []struct {
		name       string
		rows       int
		err        error
		wantFitted float64
		wantRows   float64
		wantErrInc float64
	}{
		{name: "success", rows: 42, wantFitted: 1, wantRows: 42},
		{name: "failure", rows: 42, err: errors.New("boom"), wantFitted: 0, wantRows: 0, wantErrInc: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(EngineFitErrors)
			RecordFit(time.Millisecond, tt.rows, tt.err)

			if got := testutil.ToFloat64(EngineFitted); got != tt.wantFitted {
				t.Errorf("fitted = %v, want %v", got, tt.wantFitted)
			}
			if got := testutil.ToFloat64(EngineCorpusRows); got != tt.wantRows {
				t.Errorf("rows = %v, want %v", got, tt.wantRows)
			}
			if got := testutil.ToFloat64(EngineFitErrors) - before; got != tt.wantErrInc {
				t.Errorf("fit errors delta = %v, want %v", got, tt.wantErrInc)
			}
		})
	}
}

func TestRecordRecommend(t *testing.T) {
	c := RecommendRequests.WithLabelValues(ModeMultiple, OutcomeNotFound)
	before := testutil.ToFloat64(c)

	RecordRecommend(ModeMultiple, OutcomeNotFound, 3*time.Millisecond)
	RecordRecommend(ModeMultiple, OutcomeNotFound, 5*time.Millisecond)

	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Errorf("requests delta = %v, want 2", got)
	}
}

func TestRecordCache(t *testing.T) {
	hits := testutil.ToFloat64(RecommendCacheHits)
	misses := testutil.ToFloat64(RecommendCacheMisses)

	RecordCache(true)
	RecordCache(false)
	RecordCache(false)

	if got := testutil.ToFloat64(RecommendCacheHits) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(RecommendCacheMisses) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	c := APIRequestsTotal.WithLabelValues("GET", "/api/v1/tracks/{id}", "404")
	before := testutil.ToFloat64(c)

	RecordAPIRequest("GET", "/api/v1/tracks/{id}", 404, time.Millisecond)

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("requests delta = %v, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests) - before; got != 2 {
		t.Errorf("after inc delta = %v, want 2", got)
	}

	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}
