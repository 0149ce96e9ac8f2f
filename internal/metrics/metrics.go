// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Submission Metrics
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Total number of form submissions",
		},
		[]string{"form_type", "result"}, // result: "created", "validation_failed", "error"
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "form_submission_duration_seconds",
			Help:    "End-to-end form submission processing time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"form_type"},
	)

	ChildTableRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_child_table_rows_total",
			Help: "Total number of child table rows built from submissions",
		},
		[]string{"form_type", "table"},
	)

	// File Upload Metrics
	FileUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_uploads_total",
			Help: "Total number of file uploads processed",
		},
		[]string{"field", "result"}, // result: "attached", "rejected", "duplicate", "error"
	)

	FileUploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "file_upload_bytes_total",
			Help: "Total bytes of accepted file uploads",
		},
	)

	// Token Metrics
	TokensGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "submission_tokens_generated_total",
			Help: "Total number of submission tokens generated",
		},
	)

	TokenCollisionRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "submission_token_collision_retries_total",
			Help: "Total number of token regeneration attempts after a collision",
		},
	)

	TokenValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submission_token_validations_total",
			Help: "Total number of token validation requests",
		},
		[]string{"result"}, // "valid", "invalid_format", "not_found"
	)

	// Session Cache Metrics
	SessionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "token_session_cache_hits_total",
			Help: "Total number of token session cache hits",
		},
	)

	SessionCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "token_session_cache_misses_total",
			Help: "Total number of token session cache misses",
		},
	)

	SessionActiveCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "token_sessions_active",
			Help: "Current number of active token sessions",
		},
	)

	// Store Metrics
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "doctype"},
	)

	StoreOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of document store operation errors",
		},
		[]string{"operation", "doctype"},
	)

	// Audit Metrics
	AuditEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_total",
			Help: "Total number of audit events recorded",
		},
		[]string{"severity"},
	)

	AuditEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_events_dropped_total",
			Help: "Total number of audit events dropped due to a full buffer",
		},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rate limit rejection for an endpoint group.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordSubmission records the outcome of a form submission.
func RecordSubmission(formType, result string, duration time.Duration) {
	SubmissionsTotal.WithLabelValues(formType, result).Inc()
	SubmissionDuration.WithLabelValues(formType).Observe(duration.Seconds())
}

// RecordChildTableRows records the number of rows built for a child table.
func RecordChildTableRows(formType, table string, rows int) {
	if rows > 0 {
		ChildTableRowsTotal.WithLabelValues(formType, table).Add(float64(rows))
	}
}

// RecordFileUpload records a processed file upload.
func RecordFileUpload(field, result string, sizeBytes int64) {
	FileUploadsTotal.WithLabelValues(field, result).Inc()
	if result == "attached" && sizeBytes > 0 {
		FileUploadBytes.Add(float64(sizeBytes))
	}
}

// RecordStoreOp records a document store operation.
func RecordStoreOp(operation, doctype string, duration time.Duration, err error) {
	StoreOpDuration.WithLabelValues(operation, doctype).Observe(duration.Seconds())
	if err != nil {
		StoreOpErrors.WithLabelValues(operation, doctype).Inc()
	}
}
