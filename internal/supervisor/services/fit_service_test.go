// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/trackrec/internal/dataset"
)

var _ suture.Service = (*FitService)(nil)

type fakeSource struct{}

func (fakeSource) Name() string { return "fake.csv" }

func (fakeSource) Read(context.Context) (*dataset.Table, error) {
	return nil, errors.New("not used")
}

// fakeFitter fails its first failFirst calls.
type fakeFitter struct {
	failFirst int32
	calls     atomic.Int32
}

func (f *fakeFitter) LoadAndFit(ctx context.Context, _ dataset.Source, _ dataset.LoadOptions) (dataset.LoadStats, error) {
	if err := ctx.Err(); err != nil {
		return dataset.LoadStats{}, err
	}
	if n := f.calls.Add(1); n <= f.failFirst {
		return dataset.LoadStats{}, errors.New("load failed")
	}
	return dataset.LoadStats{RowsRead: 3, Kept: 3}, nil
}

func TestFitServiceInitialFit(t *testing.T) {
	fitter := &fakeFitter{}
	svc := NewFitService(fitter, FitServiceConfig{Source: fakeSource{}}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.After(time.Second)
	for svc.Fits() == 0 {
		select {
		case <-deadline:
			t.Fatal("engine was not fitted")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if got := fitter.calls.Load(); got != 1 {
		t.Errorf("LoadAndFit calls = %d, want 1 with no reload interval", got)
	}
}

func TestFitServiceInitialFailure(t *testing.T) {
	fitter := &fakeFitter{failFirst: 1}
	svc := NewFitService(fitter, FitServiceConfig{Source: fakeSource{}}, zerolog.Nop())

	if err := svc.Serve(context.Background()); err == nil {
		t.Fatal("Serve() = nil, want initial fit error")
	}
	if svc.Fits() != 0 {
		t.Errorf("Fits() = %d, want 0", svc.Fits())
	}
}

func TestFitServiceReload(t *testing.T) {
	fitter := &fakeFitter{}
	svc := NewFitService(fitter, FitServiceConfig{
		Source:         fakeSource{},
		ReloadInterval: 10 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	for svc.Fits() < 3 {
		select {
		case err := <-errCh:
			t.Fatalf("Serve returned early: %v", err)
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-errCh
}

func TestFitServiceRestartedBySupervisor(t *testing.T) {
	fitter := &fakeFitter{failFirst: 2}
	svc := NewFitService(fitter, FitServiceConfig{Source: fakeSource{}}, zerolog.Nop())

	sup := suture.New("test", suture.Spec{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	errCh := sup.ServeBackground(ctx)

	for svc.Fits() == 0 {
		select {
		case <-ctx.Done():
			t.Fatal("service never fitted after restarts")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-errCh

	if got := fitter.calls.Load(); got != 3 {
		t.Errorf("LoadAndFit calls = %d, want 3", got)
	}
}
