// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package files

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/enjaz-platform/formgate/internal/logging"
	"github.com/enjaz-platform/formgate/internal/metrics"
	"github.com/enjaz-platform/formgate/internal/store"
)

// Upload is one file received with a submission.
type Upload struct {
	FileName string `json:"filename"`
	Content  []byte `json:"content"`
}

// Result describes one processed upload.
type Result struct {
	Field        string `json:"field"`
	AttachmentID string `json:"attachment_id"`
	FileName     string `json:"file_name"`
	MimeType     string `json:"mime_type"`
	SHA256       string `json:"sha256"`
	Size         int64  `json:"size"`
	Reused       bool   `json:"reused"`
}

// FieldError describes a rejected upload.
type FieldError struct {
	Field    string `json:"field"`
	FileName string `json:"filename,omitempty"`
	Index    int    `json:"file_index,omitempty"`
	Reason   string `json:"error"`
}

// AttachResults aggregates the outcome of attaching a submission's files.
// Success is false when any file was rejected; accepted files are still
// attached.
type AttachResults struct {
	Success  bool        `json:"success"`
	Attached []Result    `json:"attached_files"`
	Errors   []FieldError `json:"errors,omitempty"`
}

// AttachmentStore is the subset of the document store the upload pipeline
// needs.
type AttachmentStore interface {
	PutAttachment(ctx context.Context, att *store.Attachment) error
	FindAttachmentByHash(ctx context.Context, doctype, docName, sha string) (*store.Attachment, error)
	ListAttachments(ctx context.Context, doctype, docName string) ([]*store.Attachment, error)
}

// Manager validates uploads and attaches them to stored documents.
type Manager struct {
	store AttachmentStore
}

// NewManager creates an attachment manager over the given store.
func NewManager(s AttachmentStore) *Manager {
	return &Manager{store: s}
}

// ProcessUpload validates and stores a single file. Duplicate content on the
// same document reuses the existing attachment.
func (m *Manager) ProcessUpload(ctx context.Context, up *Upload, field, doctype, docName string) (*Result, error) {
	if up == nil || up.FileName == "" || len(up.Content) == 0 {
		metrics.RecordFileUpload(field, "rejected", 0)
		return nil, fmt.Errorf("file data is incomplete")
	}

	mimeType, err := ValidateType(up.Content, up.FileName, field)
	if err != nil {
		metrics.RecordFileUpload(field, "rejected", 0)
		return nil, err
	}
	if err := ValidateSize(up.Content, field); err != nil {
		metrics.RecordFileUpload(field, "rejected", 0)
		return nil, err
	}
	if strings.HasPrefix(mimeType, "image/") {
		if err := ValidateImage(up.Content, field); err != nil {
			metrics.RecordFileUpload(field, "rejected", 0)
			return nil, err
		}
	}
	if err := ScanContent(up.Content); err != nil {
		metrics.RecordFileUpload(field, "rejected", 0)
		return nil, err
	}

	sum := sha256.Sum256(up.Content)
	contentHash := hex.EncodeToString(sum[:])

	if existing, err := m.store.FindAttachmentByHash(ctx, doctype, docName, contentHash); err == nil {
		metrics.RecordFileUpload(field, "duplicate", 0)
		return &Result{
			Field:        field,
			AttachmentID: existing.ID,
			FileName:     existing.FileName,
			MimeType:     existing.MimeType,
			SHA256:       contentHash,
			Size:         existing.Size,
			Reused:       true,
		}, nil
	}

	att := &store.Attachment{
		ID:       uuid.New().String(),
		Doctype:  doctype,
		DocName:  docName,
		Field:    field,
		FileName: SecureFilename(up.FileName),
		MimeType: mimeType,
		SHA256:   contentHash,
		Size:     int64(len(up.Content)),
		Content:  up.Content,
	}
	if err := m.store.PutAttachment(ctx, att); err != nil {
		metrics.RecordFileUpload(field, "error", 0)
		return nil, fmt.Errorf("storing attachment: %w", err)
	}

	metrics.RecordFileUpload(field, "attached", att.Size)
	return &Result{
		Field:        field,
		AttachmentID: att.ID,
		FileName:     att.FileName,
		MimeType:     att.MimeType,
		SHA256:       contentHash,
		Size:         att.Size,
	}, nil
}

// ProcessMultiple validates and stores up to the field's MaxFiles uploads.
// Individual failures are collected; accepted files are kept.
func (m *Manager) ProcessMultiple(ctx context.Context, uploads []*Upload, field, doctype, docName string) ([]Result, []FieldError) {
	config := ConfigForField(field)
	if config == nil {
		return nil, []FieldError{{Field: field, Reason: fmt.Sprintf("no file configuration for field %q", field)}}
	}
	if len(uploads) > config.MaxFiles {
		return nil, []FieldError{{
			Field:  field,
			Reason: fmt.Sprintf("too many files, maximum %d files allowed", config.MaxFiles),
		}}
	}

	var results []Result
	var errs []FieldError
	for i, up := range uploads {
		res, err := m.ProcessUpload(ctx, up, field, doctype, docName)
		if err != nil {
			name := ""
			if up != nil {
				name = up.FileName
			}
			errs = append(errs, FieldError{Field: field, FileName: name, Index: i, Reason: err.Error()})
			continue
		}
		results = append(results, *res)
	}
	return results, errs
}

// AttachToDocument processes every file field the form type defines. Upload
// failures never fail the submission; they are reported alongside the
// attached files.
func (m *Manager) AttachToDocument(ctx context.Context, doctype, docName, formType string, uploads map[string][]*Upload) *AttachResults {
	results := &AttachResults{Success: true}

	for _, field := range FieldsForForm(formType) {
		ups := uploads[field]
		if len(ups) == 0 {
			continue
		}

		var attached []Result
		var errs []FieldError
		if config := ConfigForField(field); config != nil && config.MaxFiles > 1 {
			attached, errs = m.ProcessMultiple(ctx, ups, field, doctype, docName)
		} else {
			res, err := m.ProcessUpload(ctx, ups[0], field, doctype, docName)
			if err != nil {
				errs = []FieldError{{Field: field, FileName: ups[0].FileName, Reason: err.Error()}}
			} else {
				attached = []Result{*res}
			}
		}

		results.Attached = append(results.Attached, attached...)
		if len(errs) > 0 {
			results.Errors = append(results.Errors, errs...)
			results.Success = false
			for _, fe := range errs {
				logging.Ctx(ctx).Warn().
					Str("field", fe.Field).
					Str("filename", fe.FileName).
					Str("reason", fe.Reason).
					Msg("file upload rejected")
			}
		}
	}
	return results
}

// ListForDocument returns attachment metadata for a stored document.
func (m *Manager) ListForDocument(ctx context.Context, doctype, docName string) ([]*store.Attachment, error) {
	return m.store.ListAttachments(ctx, doctype, docName)
}
