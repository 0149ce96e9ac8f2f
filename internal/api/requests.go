// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package api

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/enjaz-platform/formgate/internal/files"
	"github.com/enjaz-platform/formgate/internal/forms"
)

// multipartMemoryLimit is the in-memory parse threshold; larger parts spill
// to temp files.
const multipartMemoryLimit = 8 << 20

// decodeJSON decodes a JSON request body into dst, enforcing the configured
// body size limit via the server's MaxBytesReader wrapping.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

// parseSubmission reads one form submission from the request. Two encodings
// are accepted:
//
//   - application/json: the body is the submission data object. Inline files
//     ride along as "<field>_base64" keys.
//   - multipart/form-data: a "data" part carries the submission JSON and any
//     file parts attach under their field names.
//
// The submission token comes from the "token" data key or, for forms that
// collect it as an applicant field, from "idNumber".
func (h *Handler) parseSubmission(r *http.Request) (*forms.SubmitRequest, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, h.config.Server.MaxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var (
		data    map[string]any
		uploads map[string][]*files.Upload
	)

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		var err error
		data, uploads, err = parseMultipartSubmission(r)
		if err != nil {
			return nil, err
		}
	default:
		if err := decodeJSON(r, &data); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	if data == nil {
		data = make(map[string]any)
	}

	return &forms.SubmitRequest{
		Data:     data,
		Files:    uploads,
		Token:    extractToken(data),
		SourceIP: clientIP(r),
	}, nil
}

// parseMultipartSubmission splits a multipart body into the "data" JSON part
// and per-field file uploads.
func parseMultipartSubmission(r *http.Request) (map[string]any, map[string][]*files.Upload, error) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		return nil, nil, fmt.Errorf("invalid multipart body: %w", err)
	}

	var data map[string]any
	if raw := r.FormValue("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, nil, fmt.Errorf("invalid JSON in data part: %w", err)
		}
	} else {
		// No data part: treat simple form values as flat fields.
		data = make(map[string]any)
		for key, vals := range r.MultipartForm.Value {
			if len(vals) > 0 {
				data[key] = vals[0]
			}
		}
	}

	uploads := make(map[string][]*files.Upload)
	for field, headers := range r.MultipartForm.File {
		for _, hdr := range headers {
			f, err := hdr.Open()
			if err != nil {
				return nil, nil, fmt.Errorf("reading file part %q: %w", field, err)
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, nil, fmt.Errorf("reading file part %q: %w", field, err)
			}
			uploads[field] = append(uploads[field], &files.Upload{
				FileName: hdr.Filename,
				Content:  content,
			})
		}
	}
	if len(uploads) == 0 {
		uploads = nil
	}
	return data, uploads, nil
}

// extractToken pulls the submission token out of the data map. A dedicated
// "token" key is consumed; the applicant-field fallback "idNumber" stays in
// the data because it also maps to a stored field.
func extractToken(data map[string]any) string {
	if v, ok := data["token"].(string); ok && strings.TrimSpace(v) != "" {
		delete(data, "token")
		return strings.TrimSpace(v)
	}
	if v, ok := data["idNumber"].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
