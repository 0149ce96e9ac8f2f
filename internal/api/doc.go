// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

// Package api provides the HTTP surface of the gateway: the chi router,
// middleware factories, request parsing and the standardized response
// envelope.
package api
