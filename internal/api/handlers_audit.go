// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package api

import (
	"net/http"
	"strconv"

	"github.com/enjaz-platform/formgate/internal/audit"
	"github.com/enjaz-platform/formgate/internal/logging"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 500
)

// AuditSubmissions handles GET /api/v1/audit/submissions. Returns recorded
// submission-lifecycle events, newest first.
//
// Query parameters: type (repeatable), severity, form_type, limit, offset.
func (h *Handler) AuditSubmissions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.audit == nil {
		rw.NotFound("Audit logging is disabled")
		return
	}

	filter, err := parseAuditFilter(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	events, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		logging.Error().Err(err).Msg("audit query failed")
		rw.InternalError("Failed to query audit events")
		return
	}

	total, err := h.audit.Count(r.Context(), audit.QueryFilter{
		Types:    filter.Types,
		Severity: filter.Severity,
		FormType: filter.FormType,
	})
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("audit count failed")
	}

	rw.Success(map[string]interface{}{
		"events": events,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

func parseAuditFilter(r *http.Request) (audit.QueryFilter, error) {
	q := r.URL.Query()

	filter := audit.QueryFilter{
		Severity: audit.Severity(q.Get("severity")),
		FormType: q.Get("form_type"),
		Limit:    auditDefaultLimit,
	}
	for _, t := range q["type"] {
		filter.Types = append(filter.Types, audit.EventType(t))
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return filter, errInvalidParam("limit", raw)
		}
		if n > auditMaxLimit {
			n = auditMaxLimit
		}
		filter.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, errInvalidParam("offset", raw)
		}
		filter.Offset = n
	}
	return filter, nil
}

type paramError struct {
	name, value string
}

func (e *paramError) Error() string {
	return "invalid " + e.name + " parameter: " + e.value
}

func errInvalidParam(name, value string) error {
	return &paramError{name: name, value: value}
}
