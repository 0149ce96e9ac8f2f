// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/enjaz-platform/formgate/internal/audit"
	"github.com/enjaz-platform/formgate/internal/cache"
	"github.com/enjaz-platform/formgate/internal/config"
	"github.com/enjaz-platform/formgate/internal/forms"
	"github.com/enjaz-platform/formgate/internal/logging"
	"github.com/enjaz-platform/formgate/internal/session"
	"github.com/enjaz-platform/formgate/internal/store"
	"github.com/enjaz-platform/formgate/internal/token"
	"github.com/enjaz-platform/formgate/internal/validation"
)

// dashboardCacheTTL bounds how stale the enterprise counts may get. The
// dashboard polls, the counts change rarely.
const dashboardCacheTTL = 5 * time.Minute

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, form/submission endpoints
//   - handlers_health.go: health and monitoring endpoints
//   - handlers_audit.go: audit review endpoints
//   - options.go: field option catalogs
//   - requests.go: request body parsing
type Handler struct {
	service   *forms.Service
	sessions  *session.Manager
	audit     *audit.Logger
	store     store.Store
	cache     *cache.Cache
	config    *config.Config
	startTime time.Time
}

// NewHandler creates the API handler set. The audit logger may be nil when
// auditing is disabled.
func NewHandler(svc *forms.Service, sessions *session.Manager, auditLog *audit.Logger, st store.Store, cfg *config.Config) *Handler {
	return &Handler{
		service:   svc,
		sessions:  sessions,
		audit:     auditLog,
		store:     st,
		cache:     cache.New(dashboardCacheTTL),
		config:    cfg,
		startTime: time.Now(),
	}
}

// Forms handles GET /api/v1/forms. Lists the supported form types with their
// stored record types and descriptions.
func (h *Handler) Forms(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"forms": forms.SupportedForms(),
	})
}

// FormSchema handles GET /api/v1/forms/{form_type}/schema.
func (h *Handler) FormSchema(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	formType := chi.URLParam(r, "form_type")

	schema := forms.SchemaFor(formType)
	if schema == nil {
		rw.NotFound("Unknown form type")
		return
	}
	rw.Success(schema)
}

// Submit handles POST /api/v1/submit/{form_type}. Accepts JSON bodies and
// multipart bodies carrying a "data" JSON part plus file parts.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	formType := chi.URLParam(r, "form_type")

	req, err := h.parseSubmission(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req.FormType = formType

	result, err := h.service.Submit(r.Context(), req)
	if err != nil {
		h.writeSubmitError(rw, err)
		return
	}

	// Best-effort session so the frontend can poll status immediately.
	if h.sessions != nil && result.Token != "" {
		if _, serr := h.sessions.Create(r.Context(), result.Token, &session.RequestInfo{
			IPAddress: req.SourceIP,
			UserAgent: r.UserAgent(),
			Origin:    r.Header.Get("Origin"),
		}); serr != nil {
			logging.Ctx(r.Context()).Debug().Err(serr).Msg("session creation after submit failed")
		}
	}

	rw.Created(result)
}

// writeSubmitError maps submission pipeline errors to API responses. Business
// rejections never surface as 500s.
func (h *Handler) writeSubmitError(rw *ResponseWriter, err error) {
	var ve *forms.ValidationError
	if errors.As(err, &ve) {
		rw.ValidationError("Submission failed validation", map[string]interface{}{
			"field_errors":       ve.FieldErrors,
			"child_table_errors": ve.ChildTableErrors,
		})
		return
	}

	var fe *forms.FileError
	if errors.As(err, &fe) {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeFileUploadFailed, "File validation failed", map[string]interface{}{
			"file_errors": fe.Errors,
		})
		return
	}

	var te *forms.TokenError
	if errors.As(err, &te) {
		if te.Duplicate {
			rw.Conflict(ErrCodeTokenError, te.Error())
			return
		}
		rw.Error(http.StatusBadRequest, ErrCodeTokenError, te.Error())
		return
	}

	if errors.Is(err, forms.ErrUnknownFormType) {
		rw.BadRequest(err.Error())
		return
	}

	logging.Error().Err(err).Msg("submission failed")
	rw.InternalError("Failed to process submission")
}

// Status handles GET /api/v1/status?token=. Returns the cached session view
// of the caller's request, recreating it from the store when expired.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	tok := r.URL.Query().Get("token")
	if tok == "" {
		rw.BadRequest("token query parameter is required")
		return
	}

	sess, err := h.sessions.Get(r.Context(), tok)
	if err != nil {
		rw.NotFound("No request found for token")
		return
	}
	rw.Success(sess)
}

// tokenRequest is the body of the token-scoped endpoints.
type tokenRequest struct {
	Token string `json:"token" validate:"required,min=1"`
}

// ValidateToken handles POST /api/v1/tokens/validate. Reports whether a token
// is well formed, whether a submission exists for it, and whether it matches
// the server-generated token format.
func (h *Handler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var body tokenRequest
	if err := decodeJSON(r, &body); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if ve := validation.ValidateStruct(&body); ve != nil {
		rw.ValidationError("Invalid request", ve.FieldErrors())
		return
	}

	valid := token.ValidateLookup(body.Token, h.config.Token.MinLength)
	exists := false
	if valid {
		if _, err := h.service.FindByToken(r.Context(), body.Token); err == nil {
			exists = true
		}
	}

	if h.audit != nil {
		h.audit.LogTokenValidation(r.Context(), body.Token, clientIP(r), valid && exists)
	}

	rw.Success(map[string]interface{}{
		"valid":     valid,
		"exists":    exists,
		"generated": token.ValidateFormat(body.Token),
	})
}

// InvalidateSession handles POST /api/v1/sessions/invalidate. Dropping a
// missing session is not an error.
func (h *Handler) InvalidateSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var body tokenRequest
	if err := decodeJSON(r, &body); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if ve := validation.ValidateStruct(&body); ve != nil {
		rw.ValidationError("Invalid request", ve.FieldErrors())
		return
	}

	h.sessions.Invalidate(body.Token)
	rw.Success(map[string]interface{}{
		"invalidated": true,
	})
}

// RequestByToken handles GET /api/v1/requests/{token}. Returns a summary of
// the stored submission and its attachments.
func (h *Handler) RequestByToken(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	tok := chi.URLParam(r, "token")

	doc, err := h.service.FindByToken(r.Context(), tok)
	if err != nil {
		var te *forms.TokenError
		if errors.As(err, &te) {
			rw.Error(http.StatusBadRequest, ErrCodeTokenError, te.Error())
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("No request found for token")
			return
		}
		logging.Error().Err(err).Msg("request lookup failed")
		rw.InternalError("Failed to look up request")
		return
	}

	attachments, err := h.service.Attachments(r.Context(), doc.Doctype, doc.Name)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("attachment listing failed")
	}

	rw.Success(map[string]interface{}{
		"record_id":   doc.Name,
		"doctype":     doc.Doctype,
		"status":      doc.Fields["status"],
		"created":     doc.Created,
		"fields":      doc.Fields,
		"tables":      doc.Tables,
		"attachments": attachments,
	})
}

// DashboardEnterprises handles GET /api/v1/dashboard/enterprises. Counts per
// stored record type, TTL cached.
func (h *Handler) DashboardEnterprises(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	const cacheKey = "dashboard:enterprises"
	if v, ok := h.cache.Get(cacheKey); ok {
		rw.Success(v)
		return
	}

	counts, err := h.service.CountByDoctype(r.Context())
	if err != nil {
		logging.Error().Err(err).Msg("dashboard counts failed")
		rw.InternalError("Failed to compute dashboard counts")
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	payload := map[string]interface{}{
		"counts": counts,
		"total":  total,
	}
	h.cache.Set(cacheKey, payload)
	rw.Success(payload)
}

// clientIP returns the request source address. The RealIP middleware has
// already resolved X-Forwarded-For into RemoteAddr.
func clientIP(r *http.Request) string {
	return r.RemoteAddr
}
