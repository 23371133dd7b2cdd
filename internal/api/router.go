// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the Chi router for a Handler.
type Router struct {
	handler    *Handler
	middleware *ChiMiddleware
}

// NewRouter creates a router. A nil config uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, config *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:    handler,
		middleware: NewChiMiddleware(config),
	}
}

// SetupChi returns the complete route tree.
//
// Middleware order: request id and logger first so every later layer can
// log with them, then recovery, access log, CORS and security headers.
// Rate limiting applies to /api/v1 only.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging(h.logger))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(AccessLog())
	r.Use(router.middleware.CORS())
	r.Use(APISecurityHeaders())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())

		r.Get("/health", h.Health)
		r.Get("/stats", h.Stats)
		r.Get("/search", h.Search)
		r.Post("/recommend", h.Recommend)

		r.Get("/tracks/{id}", h.GetTrack)
		r.Get("/tracks/{id}/similar", h.Similar)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
