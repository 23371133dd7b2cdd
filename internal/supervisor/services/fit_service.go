// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/trackrec/internal/dataset"
)

// DatasetFitter loads a source and fits the engine on it.
// *pipeline.Runner satisfies it.
type DatasetFitter interface {
	LoadAndFit(ctx context.Context, src dataset.Source, opts dataset.LoadOptions) (dataset.LoadStats, error)
}

// FitServiceConfig configures a FitService.
type FitServiceConfig struct {
	Source dataset.Source
	Load   dataset.LoadOptions

	// ReloadInterval refits on this period. Zero fits once.
	ReloadInterval time.Duration

	// FitTimeout bounds one load-and-fit cycle. Zero means 10 minutes.
	FitTimeout time.Duration
}

// FitService loads the dataset and fits the engine when it starts, then
// optionally refits on a schedule.
//
// A failed initial fit is returned so that the supervisor restarts the
// service with backoff. Once a fit has succeeded, scheduled failures are
// logged and the service keeps running.
type FitService struct {
	fitter DatasetFitter
	config FitServiceConfig
	logger zerolog.Logger
	fits   atomic.Int64
}

// NewFitService creates a fit service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewFitService(fitter DatasetFitter, cfg FitServiceConfig, logger zerolog.Logger) *FitService {
	if cfg.FitTimeout <= 0 {
		cfg.FitTimeout = 10 * time.Minute
	}
	return &FitService{
		fitter: fitter,
		config: cfg,
		logger: logger.With().Str("service", "fit").Logger(),
	}
}

// Serve implements suture.Service.
func (s *FitService) Serve(ctx context.Context) error {
	if s.fits.Load() == 0 {
		if err := s.fit(ctx); err != nil {
			return fmt.Errorf("initial fit: %w", err)
		}
	}

	if s.config.ReloadInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.ReloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.fit(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("Scheduled refit failed")
			}
		}
	}
}

func (s *FitService) fit(ctx context.Context) error {
	fitCtx, cancel := context.WithTimeout(ctx, s.config.FitTimeout)
	defer cancel()

	start := time.Now()
	stats, err := s.fitter.LoadAndFit(fitCtx, s.config.Source, s.config.Load)
	if err != nil {
		return err
	}
	s.fits.Add(1)

	s.logger.Info().
		Str("source", s.config.Source.Name()).
		Int("rows", stats.Kept).
		Int("dropped_missing", stats.DroppedMissing).
		Int("dropped_duplicate", stats.DroppedDuplicate).
		Dur("duration", time.Since(start)).
		Msg("Engine fitted")
	return nil
}

// Fits returns the number of successful fits.
func (s *FitService) Fits() int64 {
	return s.fits.Load()
}

// String names the service in suture events.
func (s *FitService) String() string {
	return "fit-service"
}
