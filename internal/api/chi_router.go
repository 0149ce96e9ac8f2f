// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/enjaz-platform/formgate/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
// This allows our existing middleware to work with Chi's r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router wires handlers to routes with the middleware stack.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router over the given handler set.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// Setup configures all HTTP routes using Chi router.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())      // Add X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// Health endpoints. Permissive rate limiting so monitoring tools are
	// never starved by the shared read limit.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// Prometheus metrics endpoint.
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Read endpoints: schemas, option catalogs, token status, dashboards.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitRead())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/forms", router.handler.Forms)
		r.Get("/forms/{form_type}/schema", router.handler.FormSchema)
		r.Get("/options", router.handler.Options)
		r.Get("/options/{field}", router.handler.FieldOptions)
		r.Get("/status", router.handler.Status)
		r.Post("/tokens/validate", router.handler.ValidateToken)
		r.Post("/sessions/invalidate", router.handler.InvalidateSession)
		r.Get("/requests/{token}", router.handler.RequestByToken)
		r.Get("/dashboard/enterprises", router.handler.DashboardEnterprises)
		r.Get("/audit/submissions", router.handler.AuditSubmissions)
	})

	// Submission endpoint. Strict rate limiting, writes to the store.
	r.Route("/api/v1/submit", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitSubmit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Post("/{form_type}", router.handler.Submit)
	})

	return r
}
