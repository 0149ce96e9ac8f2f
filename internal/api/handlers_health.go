// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package api

import (
	"net/http"
	"time"
)

// Version is the reported gateway version.
const Version = "1.0.0"

// HealthStatus is the payload of the full health endpoint.
type HealthStatus struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	StoreConnected bool    `json:"store_connected"`
	AuditEnabled   bool    `json:"audit_enabled"`
	ActiveSessions int     `json:"active_sessions"`
	Uptime         float64 `json:"uptime_seconds"`
}

// Health handles GET /api/v1/health. Reports overall status including store
// connectivity and session cache size.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	storeConnected := h.storeReachable(r)

	status := "healthy"
	if !storeConnected {
		status = "degraded"
	}

	active := 0
	if h.sessions != nil {
		_, _, active = h.sessions.Stats()
	}

	rw.Success(HealthStatus{
		Status:         status,
		Version:        Version,
		StoreConnected: storeConnected,
		AuditEnabled:   h.audit != nil,
		ActiveSessions: active,
		Uptime:         time.Since(h.startTime).Seconds(),
	})
}

// HealthLive handles GET /api/v1/health/live. Returns 200 whenever the
// process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"status": "alive",
	})
}

// HealthReady handles GET /api/v1/health/ready. Returns 503 until the
// document store answers queries.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if !h.storeReachable(r) {
		rw.Error(http.StatusServiceUnavailable, ErrCodeInternalError, "Document store not ready")
		return
	}
	rw.Success(map[string]interface{}{
		"status": "ready",
	})
}

// storeReachable probes the store with a cheap count query.
func (h *Handler) storeReachable(r *http.Request) bool {
	if h.store == nil {
		return false
	}
	_, err := h.store.Count(r.Context(), "Micro Enterprise Request")
	return err == nil
}
