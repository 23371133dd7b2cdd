// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

// Package index answers exact k-nearest-neighbor queries over the rows of
// a matrix.
//
// Two implementations share one contract: a linear scan (KindBrute) and a
// k-d tree (KindKDTree). Both return neighbors ordered by ascending
// distance with ties broken by ascending row position, and both return
// identical results for the same input. An Index is immutable after Build
// and safe for concurrent queries.
package index

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmptyCorpus is returned when querying an index over zero rows.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrUnsupportedMetric is returned by Build when the index kind cannot
	// search exactly under the requested metric.
	ErrUnsupportedMetric = errors.New("metric not supported by index kind")
)

// Neighbor is one query result: a row position and its distance to the query.
type Neighbor struct {
	Pos      int
	Distance float64
}

// Kind selects the index implementation.
type Kind string

// Index kinds.
const (
	KindBrute  Kind = "brute"
	KindKDTree Kind = "kdtree"
)

// ParseKind resolves an index kind by name; the empty string selects KindBrute.
func ParseKind(name string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case "", KindBrute:
		return KindBrute, nil
	case KindKDTree, "kd-tree", "kd_tree":
		return KindKDTree, nil
	default:
		return "", fmt.Errorf("unknown index kind %q", name)
	}
}

// Index is a read-only k-nearest-neighbor structure.
type Index interface {
	// Query returns up to min(k, KCap()) nearest rows to v.
	Query(v []float64, k int) ([]Neighbor, error)

	// Len is the number of indexed rows.
	Len() int

	// KCap is the most neighbors a single query can return.
	KCap() int

	Metric() Metric
	Kind() Kind
}

type options struct {
	metric Metric
	kind   Kind
}

// Option configures Build.
type Option func(*options)

// WithMetric sets the distance metric. The default is Cosine.
func WithMetric(m Metric) Option {
	return func(o *options) {
		if m != nil {
			o.metric = m
		}
	}
}

// WithKind selects the implementation. The default is KindBrute.
func WithKind(k Kind) Option {
	return func(o *options) {
		if k != "" {
			o.kind = k
		}
	}
}

// Build indexes the rows of m. kCap is the configured neighbor budget and is
// lowered to the row count. A nil m builds an empty index whose queries fail
// with ErrEmptyCorpus.
func Build(m mat.Matrix, kCap int, opts ...Option) (Index, error) {
	o := options{metric: Cosine, kind: KindBrute}
	for _, opt := range opts {
		opt(&o)
	}
	if kCap < 1 {
		return nil, fmt.Errorf("k must be at least 1, got %d", kCap)
	}

	b := newBase(m, kCap, o.metric)
	switch o.kind {
	case KindBrute:
		return &bruteIndex{base: b}, nil
	case KindKDTree:
		return newKDTreeIndex(b)
	default:
		return nil, fmt.Errorf("unknown index kind %q", o.kind)
	}
}

// base holds what every implementation needs: copied rows and limits.
type base struct {
	rows   [][]float64
	dims   int
	kCap   int
	metric Metric
}

func newBase(m mat.Matrix, kCap int, metric Metric) base {
	b := base{metric: metric}
	if m == nil {
		return b
	}
	r, c := m.Dims()
	b.dims = c
	b.rows = make([][]float64, r)
	for i := range b.rows {
		b.rows[i] = mat.Row(nil, i, m)
	}
	b.kCap = min(kCap, r)
	return b
}

func (b *base) Len() int       { return len(b.rows) }
func (b *base) KCap() int      { return b.kCap }
func (b *base) Metric() Metric { return b.metric }

// check validates a query and returns the effective k (0 means empty result).
func (b *base) check(v []float64, k int) (int, error) {
	if len(b.rows) == 0 {
		return 0, ErrEmptyCorpus
	}
	if len(v) != b.dims {
		return 0, fmt.Errorf("query has %d dimensions, index has %d", len(v), b.dims)
	}
	if k <= 0 {
		return 0, nil
	}
	return min(k, b.kCap), nil
}
