// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package recommend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/trackrec/internal/features"
)

var (
	// ErrNotFitted is returned by every query made before a successful Fit.
	ErrNotFitted = features.ErrNotFitted

	// ErrNotFound matches *NotFoundError.
	ErrNotFound = errors.New("track not found")

	// ErrInsufficientResults matches *InsufficientResultsError.
	ErrInsufficientResults = errors.New("insufficient results")

	// ErrInvalidN is returned when the requested result count is out of range.
	ErrInvalidN = errors.New("invalid result count")

	// ErrFitInProgress is returned when Fit is called while another fit runs.
	ErrFitInProgress = errors.New("fit already in progress")
)

// NotFoundError reports a seed id that is not in the fitted corpus.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("track %q not found", e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InsufficientResultsError reports a query that left nothing to return once
// the seeds were excluded.
type InsufficientResultsError struct {
	Seeds []string
	KCap  int
}

func (e *InsufficientResultsError) Error() string {
	return fmt.Sprintf("no recommendations for seed(s) %s within the %d nearest neighbors",
		strings.Join(e.Seeds, ","), e.KCap)
}

// Is reports whether target is ErrInsufficientResults.
func (e *InsufficientResultsError) Is(target error) bool {
	return target == ErrInsufficientResults
}
