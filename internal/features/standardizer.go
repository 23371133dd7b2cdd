// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

// Package features standardizes raw audio feature vectors to zero mean and
// unit variance per feature.
//
// Parameters use the population standard deviation (divide by n), so a
// transformed corpus matches sklearn's StandardScaler exactly. A constant
// feature has std 0 and always transforms to 0.
package features

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrNotFitted is returned by Transform calls made before Fit.
var ErrNotFitted = errors.New("standardizer is not fitted")

// Params holds the per-feature mean and standard deviation of a corpus.
// A Params value is never modified after Fit returns it.
type Params struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Dims returns the number of features the parameters cover.
func (p *Params) Dims() int { return len(p.Mean) }

// Fit computes per-column parameters of m. It fails when m has no rows or
// its width differs from dims (pass 0 to accept any width).
func Fit(m mat.Matrix, dims int) (*Params, error) {
	if m == nil {
		return nil, fmt.Errorf("fit: empty matrix")
	}
	r, c := m.Dims()
	if r == 0 {
		return nil, fmt.Errorf("fit: empty matrix")
	}
	if dims > 0 && c != dims {
		return nil, fmt.Errorf("fit: matrix has %d columns, want %d", c, dims)
	}

	p := &Params{Mean: make([]float64, c), Std: make([]float64, c)}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		p.Mean[j], p.Std[j] = stat.PopMeanStdDev(col, nil)
	}
	return p, nil
}

// Transform standardizes one vector. It never modifies v.
func (p *Params) Transform(v []float64) ([]float64, error) {
	if len(v) != len(p.Mean) {
		return nil, fmt.Errorf("transform: vector has %d features, want %d", len(v), len(p.Mean))
	}
	out := make([]float64, len(v))
	p.transformInto(out, v)
	return out, nil
}

// TransformMatrix standardizes every row of m into a new matrix.
func (p *Params) TransformMatrix(m mat.Matrix) (*mat.Dense, error) {
	r, c := m.Dims()
	if c != len(p.Mean) {
		return nil, fmt.Errorf("transform: matrix has %d columns, want %d", c, len(p.Mean))
	}
	out := mat.NewDense(r, c, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, m)
		p.transformInto(out.RawRowView(i), row)
	}
	return out, nil
}

func (p *Params) transformInto(dst, src []float64) {
	for j, x := range src {
		if p.Std[j] == 0 {
			dst[j] = 0
			continue
		}
		dst[j] = (x - p.Mean[j]) / p.Std[j]
	}
}

// Standardizer is the stateful wrapper used by the engine: Fit once, then
// Transform many times. It is not safe to Fit concurrently with Transform;
// callers that share one across goroutines fit before sharing.
type Standardizer struct {
	dims   int
	params *Params
}

// NewStandardizer creates an unfitted standardizer for vectors of width dims.
func NewStandardizer(dims int) *Standardizer {
	return &Standardizer{dims: dims}
}

// Fit computes and stores the parameters of m, replacing any previous fit.
// On error the standardizer is left unfitted.
func (s *Standardizer) Fit(m mat.Matrix) error {
	p, err := Fit(m, s.dims)
	s.params = p
	return err
}

// Fitted reports whether Fit has succeeded.
func (s *Standardizer) Fitted() bool { return s.params != nil }

// Params returns the fitted parameters, or ErrNotFitted.
func (s *Standardizer) Params() (*Params, error) {
	if s.params == nil {
		return nil, ErrNotFitted
	}
	return s.params, nil
}

// Transform standardizes v with the fitted parameters.
func (s *Standardizer) Transform(v []float64) ([]float64, error) {
	if s.params == nil {
		return nil, ErrNotFitted
	}
	return s.params.Transform(v)
}

// TransformMatrix standardizes m with the fitted parameters.
func (s *Standardizer) TransformMatrix(m mat.Matrix) (*mat.Dense, error) {
	if s.params == nil {
		return nil, ErrNotFitted
	}
	return s.params.TransformMatrix(m)
}
