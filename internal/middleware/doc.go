// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

/*
Package middleware provides HTTP middleware in http.HandlerFunc style.

These middlewares are adapted to Chi's func(http.Handler) http.Handler
signature at route setup in the api package. CORS, rate limiting and request
id propagation use the go-chi packages directly and live with the router
configuration rather than here.

Provided middleware:
  - PrometheusMetrics: request count, latency, and in-flight instrumentation
*/
package middleware
