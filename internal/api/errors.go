// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/trackrec/internal/logging"
	"github.com/tomtom215/trackrec/internal/recommend"
	"github.com/tomtom215/trackrec/internal/validation"
)

// writeEngineError maps engine errors to status codes. Unknown errors are
// logged and reported as 500 without their message.
func writeEngineError(rw *ResponseWriter, r *http.Request, err error) {
	var nf *recommend.NotFoundError
	var ie *recommend.InsufficientResultsError
	var ve *validation.RequestValidationError

	switch {
	case errors.As(err, &nf):
		rw.ErrorWithDetails(http.StatusNotFound, ErrCodeNotFound, err.Error(), map[string]any{"track_id": nf.ID})
	case errors.As(err, &ie):
		rw.ErrorWithDetails(http.StatusUnprocessableEntity, ErrCodeInsufficientResults, err.Error(),
			map[string]any{"seed_ids": ie.Seeds, "k_cap": ie.KCap})
	case errors.Is(err, recommend.ErrNotFitted):
		rw.Error(http.StatusServiceUnavailable, ErrCodeNotFitted, "Recommendation engine is not fitted yet")
	case errors.Is(err, recommend.ErrInvalidN):
		rw.ValidationError(err.Error(), map[string]any{"field": "n"})
	case errors.As(err, &ve):
		apiErr := ve.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Request canceled")
		rw.Error(http.StatusServiceUnavailable, ErrCodeInternalError, "Request canceled")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Unhandled engine error")
		rw.InternalError("An internal error occurred")
	}
}
