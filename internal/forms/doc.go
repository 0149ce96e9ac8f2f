// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

// Package forms maps public form submissions onto stored enterprise
// documents. It owns the per-form-type validation rules, the field and
// child-table mapping engine, and the submission orchestrator that ties
// token checks, mapping, persistence and file attachment together.
package forms
