// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package features

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const eps = 1e-12

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func TestFitPopulationStd(t *testing.T) {
	// Column 0: 1,2,3,4 -> mean 2.5, population std sqrt(1.25).
	// Column 1: constant 7.
	m := mat.NewDense(4, 2, []float64{
		1, 7,
		2, 7,
		3, 7,
		4, 7,
	})

	p, err := Fit(m, 2)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !approx(p.Mean[0], 2.5) || !approx(p.Std[0], math.Sqrt(1.25)) {
		t.Errorf("column 0 = (%v, %v), want (2.5, %v)", p.Mean[0], p.Std[0], math.Sqrt(1.25))
	}
	if p.Mean[1] != 7 || p.Std[1] != 0 {
		t.Errorf("column 1 = (%v, %v), want (7, 0)", p.Mean[1], p.Std[1])
	}
	if p.Dims() != 2 {
		t.Errorf("Dims() = %d, want 2", p.Dims())
	}
}

func TestFitErrors(t *testing.T) {
	if _, err := Fit(nil, 0); err == nil {
		t.Error("Fit(nil) = nil error")
	}
	if _, err := Fit(mat.NewDense(1, 3, nil), 9); err == nil {
		t.Error("Fit(width 3, dims 9) = nil error")
	}
}

func TestTransformMeanIsZero(t *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		0.1, 120, -5,
		0.5, 90, -9,
		0.9, 150, -3,
	})
	p, err := Fit(m, 3)
	if err != nil {
		t.Fatal(err)
	}

	z, err := p.Transform(p.Mean)
	if err != nil {
		t.Fatal(err)
	}
	for j, v := range z {
		if !approx(v, 0) {
			t.Errorf("Transform(mean)[%d] = %v, want 0", j, v)
		}
	}
}

func TestTransformMatrixUnitVariance(t *testing.T) {
	m := mat.NewDense(5, 2, []float64{
		1, 3,
		2, 3,
		3, 3,
		4, 3,
		10, 3,
	})
	p, err := Fit(m, 2)
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.TransformMatrix(m)
	if err != nil {
		t.Fatal(err)
	}

	refit, err := Fit(out, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(refit.Mean[0], 0) || math.Abs(refit.Std[0]-1) > 1e-9 {
		t.Errorf("standardized column 0 = (%v, %v), want (0, 1)", refit.Mean[0], refit.Std[0])
	}
	for i := 0; i < 5; i++ {
		if out.At(i, 1) != 0 {
			t.Errorf("constant column row %d = %v, want 0", i, out.At(i, 1))
		}
	}
	if m.At(4, 0) != 10 {
		t.Error("TransformMatrix modified its input")
	}
}

func TestTransformWidthMismatch(t *testing.T) {
	p := &Params{Mean: []float64{0, 0}, Std: []float64{1, 1}}
	if _, err := p.Transform([]float64{1}); err == nil {
		t.Error("Transform(short vector) = nil error")
	}
	if _, err := p.TransformMatrix(mat.NewDense(1, 3, nil)); err == nil {
		t.Error("TransformMatrix(wide matrix) = nil error")
	}
}

func TestStandardizerLifecycle(t *testing.T) {
	s := NewStandardizer(2)

	if s.Fitted() {
		t.Error("Fitted() = true before Fit")
	}
	if _, err := s.Transform([]float64{1, 2}); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Transform() before Fit error = %v, want ErrNotFitted", err)
	}
	if _, err := s.TransformMatrix(mat.NewDense(1, 2, nil)); !errors.Is(err, ErrNotFitted) {
		t.Errorf("TransformMatrix() before Fit error = %v, want ErrNotFitted", err)
	}
	if _, err := s.Params(); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Params() before Fit error = %v, want ErrNotFitted", err)
	}

	if err := s.Fit(mat.NewDense(2, 2, []float64{0, 0, 2, 4})); err != nil {
		t.Fatal(err)
	}
	got, err := s.Transform([]float64{2, 4})
	if err != nil {
		t.Fatal(err)
	}
	if !approx(got[0], 1) || !approx(got[1], 1) {
		t.Errorf("Transform() = %v, want [1 1]", got)
	}

	if err := s.Fit(mat.NewDense(1, 3, nil)); err == nil {
		t.Fatal("Fit(wrong width) = nil error")
	}
	if s.Fitted() {
		t.Error("failed refit should leave the standardizer unfitted")
	}
}
