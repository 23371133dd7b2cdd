// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package index

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

var allKinds = []Kind{KindBrute, KindKDTree}

func buildOrFatal(t *testing.T, m mat.Matrix, kCap int, kind Kind, metric Metric) Index {
	t.Helper()
	idx, err := Build(m, kCap, WithKind(kind), WithMetric(metric))
	if err != nil {
		t.Fatalf("Build(%s, %s) error = %v", kind, metric.Name(), err)
	}
	return idx
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "cosine", false},
		{"Cosine", "cosine", false},
		{"l2", "euclidean", false},
		{"cityblock", "manhattan", false},
		{"hamming", "", true},
	}
	for _, tt := range tests {
		m, err := ParseMetric(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMetric(%q) = %v, want error", tt.in, m)
			}
			continue
		}
		if err != nil || m.Name() != tt.want {
			t.Errorf("ParseMetric(%q) = %v, %v; want %s", tt.in, m, err, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(""); err != nil || k != KindBrute {
		t.Errorf("ParseKind(\"\") = %q, %v", k, err)
	}
	if k, err := ParseKind("KD-Tree"); err != nil || k != KindKDTree {
		t.Errorf("ParseKind(KD-Tree) = %q, %v", k, err)
	}
	if _, err := ParseKind("hnsw"); err == nil {
		t.Error("ParseKind(hnsw) = nil error")
	}
}

func TestMetricDistances(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}
	c := []float64{-2, 0}
	zero := []float64{0, 0}

	tests := []struct {
		name   string
		metric Metric
		x, y   []float64
		want   float64
	}{
		{"cosine orthogonal", Cosine, a, b, 1},
		{"cosine identical", Cosine, a, []float64{3, 0}, 0},
		{"cosine opposite", Cosine, a, c, 2},
		{"cosine zero vector", Cosine, a, zero, 1},
		{"euclidean", Euclidean, a, b, math.Sqrt2},
		{"manhattan", Manhattan, a, c, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.metric.Distance(tt.x, tt.y); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Distance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetricSimilarity(t *testing.T) {
	if got := Cosine.Similarity(0.25); got != 0.75 {
		t.Errorf("Cosine.Similarity(0.25) = %v, want 0.75", got)
	}
	if got := Euclidean.Similarity(1); got != 0.5 {
		t.Errorf("Euclidean.Similarity(1) = %v, want 0.5", got)
	}
	for _, m := range []Metric{Cosine, Euclidean, Manhattan} {
		if m.Similarity(0.1) <= m.Similarity(0.2) {
			t.Errorf("%s.Similarity is not decreasing", m.Name())
		}
	}
}

func TestBuildValidation(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 0, 0, 1})

	if _, err := Build(m, 0); err == nil {
		t.Error("Build(k=0) = nil error")
	}
	if _, err := Build(m, 5, WithKind("ball")); err == nil {
		t.Error("Build(kind=ball) = nil error")
	}
	_, err := Build(m, 5, WithKind(KindKDTree), WithMetric(Manhattan))
	if !errors.Is(err, ErrUnsupportedMetric) {
		t.Errorf("Build(kdtree, manhattan) error = %v, want ErrUnsupportedMetric", err)
	}

	idx, err := Build(m, 5)
	if err != nil {
		t.Fatal(err)
	}
	if idx.KCap() != 2 {
		t.Errorf("KCap() = %d, want min(5, 2) = 2", idx.KCap())
	}
	if idx.Kind() != KindBrute || idx.Metric().Name() != "cosine" {
		t.Errorf("defaults = %s/%s, want brute/cosine", idx.Kind(), idx.Metric().Name())
	}
}

func TestQueryEmptyIndex(t *testing.T) {
	for _, kind := range allKinds {
		idx := buildOrFatal(t, nil, 10, kind, Cosine)
		if idx.Len() != 0 || idx.KCap() != 0 {
			t.Errorf("%s: Len/KCap = %d/%d, want 0/0", kind, idx.Len(), idx.KCap())
		}
		if _, err := idx.Query([]float64{1, 2}, 3); !errors.Is(err, ErrEmptyCorpus) {
			t.Errorf("%s: Query() error = %v, want ErrEmptyCorpus", kind, err)
		}
	}
}

func TestQueryDimensionMismatch(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	for _, kind := range allKinds {
		idx := buildOrFatal(t, m, 2, kind, Cosine)
		if _, err := idx.Query([]float64{1, 2}, 1); err == nil {
			t.Errorf("%s: Query(short vector) = nil error", kind)
		}
	}
}

func TestQueryOrderingAndTies(t *testing.T) {
	// Rows 1, 2 and 4 point the same way as the query, row 3 is orthogonal,
	// row 0 is opposite.
	m := mat.NewDense(5, 2, []float64{
		-1, 0,
		2, 0,
		1, 0,
		0, 1,
		5, 0,
	})

	for _, kind := range allKinds {
		t.Run(string(kind), func(t *testing.T) {
			idx := buildOrFatal(t, m, 10, kind, Cosine)

			got, err := idx.Query([]float64{1, 0}, 5)
			if err != nil {
				t.Fatal(err)
			}
			wantPos := []int{1, 2, 4, 3, 0}
			wantDist := []float64{0, 0, 0, 1, 2}
			if len(got) != len(wantPos) {
				t.Fatalf("len = %d, want %d", len(got), len(wantPos))
			}
			for i := range got {
				if got[i].Pos != wantPos[i] || math.Abs(got[i].Distance-wantDist[i]) > 1e-12 {
					t.Errorf("result[%d] = %+v, want {%d %v}", i, got[i], wantPos[i], wantDist[i])
				}
			}

			top2, err := idx.Query([]float64{1, 0}, 2)
			if err != nil {
				t.Fatal(err)
			}
			if len(top2) != 2 || top2[0].Pos != 1 || top2[1].Pos != 2 {
				t.Errorf("Query(k=2) = %+v, want positions [1 2]", top2)
			}

			none, err := idx.Query([]float64{1, 0}, 0)
			if err != nil || len(none) != 0 {
				t.Errorf("Query(k=0) = %+v, %v; want empty", none, err)
			}
		})
	}
}

func TestQueryRespectsKCap(t *testing.T) {
	m := mat.NewDense(6, 2, []float64{1, 1, 2, 1, 3, 1, 4, 1, 5, 1, 6, 1})
	for _, kind := range allKinds {
		idx := buildOrFatal(t, m, 3, kind, Euclidean)
		got, err := idx.Query([]float64{0, 0}, 100)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 3 {
			t.Errorf("%s: len = %d, want kCap 3", kind, len(got))
		}
	}
}

func TestCosineZeroRowsAndQuery(t *testing.T) {
	m := mat.NewDense(4, 2, []float64{
		0, 0,
		1, 1,
		0, 0,
		-1, -1,
	})
	for _, kind := range allKinds {
		t.Run(string(kind), func(t *testing.T) {
			idx := buildOrFatal(t, m, 4, kind, Cosine)

			got, err := idx.Query([]float64{2, 2}, 4)
			if err != nil {
				t.Fatal(err)
			}
			wantPos := []int{1, 0, 2, 3}
			for i, n := range got {
				if n.Pos != wantPos[i] {
					t.Errorf("result[%d].Pos = %d, want %d (%+v)", i, n.Pos, wantPos[i], got)
				}
			}

			zq, err := idx.Query([]float64{0, 0}, 3)
			if err != nil {
				t.Fatal(err)
			}
			for i, n := range zq {
				if n.Pos != i || n.Distance != 1 {
					t.Errorf("zero query result[%d] = %+v, want {%d 1}", i, n, i)
				}
			}
		})
	}
}

// randomMatrix draws coarse values so that exact distance ties are common.
func randomMatrix(rng *rand.Rand, rows, cols int) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(rng.IntN(5) - 2)
	}
	return mat.NewDense(rows, cols, data)
}

func TestKDTreeMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for _, metric := range []Metric{Cosine, Euclidean} {
		t.Run(metric.Name(), func(t *testing.T) {
			for trial := 0; trial < 5; trial++ {
				m := randomMatrix(rng, 300, 4)
				brute := buildOrFatal(t, m, 50, KindBrute, metric)
				tree := buildOrFatal(t, m, 50, KindKDTree, metric)

				for q := 0; q < 20; q++ {
					query := mat.Row(nil, rng.IntN(300), m)
					if q%3 == 0 {
						query[0] += 0.5
					}
					k := 1 + rng.IntN(50)

					want, err := brute.Query(query, k)
					if err != nil {
						t.Fatal(err)
					}
					got, err := tree.Query(query, k)
					if err != nil {
						t.Fatal(err)
					}
					if len(got) != len(want) {
						t.Fatalf("trial %d query %d: len %d, want %d", trial, q, len(got), len(want))
					}
					for i := range want {
						if got[i] != want[i] {
							t.Fatalf("trial %d query %d k=%d: result[%d] = %+v, want %+v",
								trial, q, k, i, got[i], want[i])
						}
					}
				}
			}
		})
	}
}

func TestResultsSortedProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	m := randomMatrix(rng, 200, 9)

	for _, kind := range allKinds {
		idx := buildOrFatal(t, m, 200, kind, Cosine)
		got, err := idx.Query(mat.Row(nil, 0, m), 200)
		if err != nil {
			t.Fatal(err)
		}
		for i := 1; i < len(got); i++ {
			prev, cur := got[i-1], got[i]
			if cur.Distance < prev.Distance || (cur.Distance == prev.Distance && cur.Pos < prev.Pos) {
				t.Fatalf("%s: result %d (%+v) out of order after %+v", kind, i, cur, prev)
			}
		}
	}
}
