// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package index

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Metric is a distance over equal-length vectors.
//
// Similarity maps a distance to a score where larger means closer. The
// mapping is metric-specific: only Cosine uses 1 - d, which is meaningful
// because cosine distance lies in [0, 2]. Unbounded metrics use 1 / (1 + d).
// Every mapping is strictly decreasing, so ranking by similarity and by
// distance agree.
type Metric interface {
	Name() string
	Distance(a, b []float64) float64
	Similarity(d float64) float64
}

// Supported metrics.
var (
	Cosine    Metric = cosine{}
	Euclidean Metric = euclidean{}
	Manhattan Metric = manhattan{}
)

// ParseMetric resolves a metric by name; the empty string selects Cosine.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cosine":
		return Cosine, nil
	case "euclidean", "l2":
		return Euclidean, nil
	case "manhattan", "l1", "cityblock":
		return Manhattan, nil
	default:
		return nil, fmt.Errorf("unknown metric %q", name)
	}
}

type cosine struct{}

func (cosine) Name() string { return "cosine" }

// Distance is 1 - cos(a, b), clamped to [0, 2]. A zero vector has no
// direction and is treated as orthogonal to everything, giving 1.
func (cosine) Distance(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 1
	}
	d := 1 - floats.Dot(a, b)/(na*nb)
	switch {
	case d < 0:
		return 0
	case d > 2:
		return 2
	}
	return d
}

func (cosine) Similarity(d float64) float64 { return 1 - d }

type euclidean struct{}

func (euclidean) Name() string { return "euclidean" }

func (euclidean) Distance(a, b []float64) float64 { return floats.Distance(a, b, 2) }

func (euclidean) Similarity(d float64) float64 { return 1 / (1 + d) }

type manhattan struct{}

func (manhattan) Name() string { return "manhattan" }

func (manhattan) Distance(a, b []float64) float64 { return floats.Distance(a, b, 1) }

func (manhattan) Similarity(d float64) float64 { return 1 / (1 + d) }
