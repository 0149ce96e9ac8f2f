// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package api

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/enjaz-platform/formgate/internal/config"
	"github.com/enjaz-platform/formgate/internal/logging"
	"github.com/enjaz-platform/formgate/internal/metrics"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	// CORS configuration
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSExposedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int // seconds

	// Rate limiting configuration
	RateLimitSubmit   RateLimitConfig
	RateLimitRead     RateLimitConfig
	RateLimitDisabled bool
}

// RateLimitConfig defines rate limit parameters for a group of endpoints.
type RateLimitConfig struct {
	// Requests is the number of requests allowed in the window
	Requests int
	// Window is the time window for rate limiting
	Window time.Duration
}

// RateLimitHealth is permissive rate limiting for health endpoints. Health
// checks run frequently from monitoring tools and should never be starved by
// the read limit shared with the data endpoints.
var RateLimitHealth = RateLimitConfig{Requests: 1000, Window: time.Minute}

// DefaultChiMiddlewareConfig returns a secure default configuration.
// CORS origins default to empty, requiring explicit configuration.
// This prevents accidental deployment with insecure wildcard CORS.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins:   []string{}, // Empty by default - requires explicit configuration
		CORSAllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		CORSExposedHeaders:   []string{},
		CORSAllowCredentials: false,
		CORSMaxAge:           86400,

		RateLimitSubmit:   RateLimitConfig{Requests: 20, Window: time.Minute},
		RateLimitRead:     RateLimitConfig{Requests: 300, Window: time.Minute},
		RateLimitDisabled: false,
	}
}

// NewChiMiddlewareConfig builds a middleware configuration from the loaded
// application config.
func NewChiMiddlewareConfig(cfg *config.Config) *ChiMiddlewareConfig {
	mc := DefaultChiMiddlewareConfig()
	mc.CORSAllowedOrigins = cfg.CORS.AllowedOrigins
	mc.CORSAllowedMethods = cfg.CORS.AllowedMethods
	mc.CORSAllowedHeaders = cfg.CORS.AllowedHeaders
	mc.CORSAllowCredentials = cfg.CORS.AllowCredentials
	mc.CORSMaxAge = cfg.CORS.MaxAge
	mc.RateLimitSubmit = RateLimitConfig{Requests: cfg.RateLimit.SubmitRequests, Window: cfg.RateLimit.SubmitWindow}
	mc.RateLimitRead = RateLimitConfig{Requests: cfg.RateLimit.ReadRequests, Window: cfg.RateLimit.ReadWindow}
	mc.RateLimitDisabled = cfg.RateLimit.Disabled
	return mc
}

// ChiMiddleware provides Chi-compatible middleware factories.
// This uses production-hardened implementations from the Chi ecosystem.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates a new Chi middleware factory with the given configuration.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   config.CORSAllowedOrigins,
		AllowedMethods:   config.CORSAllowedMethods,
		AllowedHeaders:   config.CORSAllowedHeaders,
		ExposedHeaders:   config.CORSExposedHeaders,
		AllowCredentials: config.CORSAllowCredentials,
		MaxAge:           config.CORSMaxAge,
	})

	return &ChiMiddleware{
		config: config,
		cors:   corsHandler,
	}
}

// CORS returns a Chi-compatible CORS middleware using go-chi/cors.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimitCustom returns an IP-keyed rate limiter with custom parameters.
// Rejected requests are recorded in the rate limit metrics before the 429 is
// written.
func (m *ChiMiddleware) RateLimitCustom(endpoint string, config RateLimitConfig) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordRateLimitHit(endpoint)
			WriteError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rate limit exceeded")
		}),
	)
}

// RateLimitSubmit returns the strict rate limiter for submission endpoints.
// Submissions write to the store and fan out file attachments; floods here
// are the most expensive abuse vector.
func (m *ChiMiddleware) RateLimitSubmit() func(http.Handler) http.Handler {
	return m.RateLimitCustom("submit", m.config.RateLimitSubmit)
}

// RateLimitRead returns the rate limiter for read endpoints (schemas,
// options, status polling).
func (m *ChiMiddleware) RateLimitRead() func(http.Handler) http.Handler {
	return m.RateLimitCustom("read", m.config.RateLimitRead)
}

// RateLimitHealth returns a rate limiter for health endpoints.
// Prevents abuse while allowing frequent monitoring checks.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	return m.RateLimitCustom("health", RateLimitHealth)
}

// RequestIDWithLogging returns a middleware that adds request ID to the context
// and integrates with the logging package for distributed tracing.
// This wraps chi's RequestID middleware and adds correlation_id and request_id
// to the logging context, enabling structured logging with request tracing.
func RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		chiRequestID := chimiddleware.RequestID(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get the request ID that chi will set (from header or generated)
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				// chi will generate one, but we need it for logging context
				// so we generate our own that chi will then use
				requestID = logging.GenerateRequestID()
				r.Header.Set("X-Request-ID", requestID)
			}

			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			ctx = logging.ContextWithNewCorrelationID(ctx)

			chiRequestID.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// APISecurityHeaders returns a middleware that adds security headers to API responses.
//
// Headers added:
//   - X-Content-Type-Options: nosniff (prevents MIME type sniffing)
//   - X-Frame-Options: DENY (prevents clickjacking)
//   - Referrer-Policy: strict-origin-when-cross-origin (limits referrer information)
//
// HSTS is added conditionally when the request is over HTTPS.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// Check X-Forwarded-Proto for reverse proxy setups
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
