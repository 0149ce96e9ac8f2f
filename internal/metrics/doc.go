// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package instruments the gateway using the Prometheus client library,
exposing metrics for request throughput, submission outcomes, file upload
processing, token lifecycle, session cache efficiency, and document store
performance.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8480/metrics

# Conventions

All metrics use promauto registration against the default registry, so this
package has no initialization step. Label cardinality is kept bounded: form
types and child table names are closed sets driven by the form registry, and
endpoint labels use route patterns rather than raw URLs.
*/
package metrics
