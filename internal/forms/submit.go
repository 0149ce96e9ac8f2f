// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package forms

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/enjaz-platform/formgate/internal/audit"
	"github.com/enjaz-platform/formgate/internal/files"
	"github.com/enjaz-platform/formgate/internal/logging"
	"github.com/enjaz-platform/formgate/internal/metrics"
	"github.com/enjaz-platform/formgate/internal/store"
	"github.com/enjaz-platform/formgate/internal/token"
)

// Attacher is the slice of the file pipeline the submission service needs.
type Attacher interface {
	AttachToDocument(ctx context.Context, doctype, docName, formType string, uploads map[string][]*files.Upload) *files.AttachResults
	ListForDocument(ctx context.Context, doctype, docName string) ([]*store.Attachment, error)
}

// Service orchestrates form submissions: token checks, validation, field
// mapping, persistence and best-effort file attachment.
type Service struct {
	store          store.Store
	attacher       Attacher
	audit          *audit.Logger
	tokens         *token.Generator
	tokenMinLength int
}

// NewService wires a submission service. The audit logger may be nil when
// auditing is disabled.
func NewService(s store.Store, attacher Attacher, auditLog *audit.Logger, tokenMinLength int) *Service {
	if tokenMinLength <= 0 {
		tokenMinLength = 5
	}
	svc := &Service{store: s, attacher: attacher, audit: auditLog, tokenMinLength: tokenMinLength}
	svc.tokens = token.NewGenerator(func(ctx context.Context, tok string) (bool, error) {
		_, err := svc.FindByToken(ctx, tok)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	})
	return svc
}

// SubmitRequest is one parsed form submission.
type SubmitRequest struct {
	FormType string
	Data     map[string]any
	Files    map[string][]*files.Upload
	Token    string
	SourceIP string
}

// SubmitResult reports a stored submission.
type SubmitResult struct {
	RecordID    string               `json:"record_id"`
	Doctype     string               `json:"doctype"`
	Status      string               `json:"status"`
	Token       string               `json:"token_id,omitempty"`
	Attachments *files.AttachResults `json:"attachments,omitempty"`
}

// Submit processes one form submission end to end. Validation, token and
// pre-storage file failures return typed errors with nothing persisted;
// attachment failures after the record exists degrade the result without
// failing the stored document.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	start := time.Now()

	proc, err := ProcessorFor(req.FormType)
	if err != nil {
		return nil, err
	}

	data := req.Data
	if data == nil {
		data = make(map[string]any)
	}
	uploads := extractInlineFiles(data, req.Files)
	// File presence markers so required file fields pass validation.
	for field, ups := range uploads {
		if _, set := data[field]; !set && len(ups) > 0 {
			data[field] = ups[0].FileName
		}
	}

	// File and token checks run before any mapping so a rejected
	// submission leaves no record behind.
	if ferrs := files.ValidateUploads(req.FormType, uploads); len(ferrs) > 0 {
		if s.audit != nil {
			for _, fe := range ferrs {
				s.audit.LogFileRejected(ctx, req.FormType, "", fe.Field, fe.Reason)
			}
		}
		metrics.RecordSubmission(req.FormType, "validation_failed", time.Since(start))
		return nil, &FileError{Errors: ferrs}
	}

	tok := strings.TrimSpace(req.Token)
	if tok != "" {
		if !token.ValidateLookup(tok, s.tokenMinLength) {
			metrics.RecordSubmission(req.FormType, "validation_failed", time.Since(start))
			return nil, &TokenError{Token: tok, Reason: "token id is malformed"}
		}
		exists, err := s.store.ExistsByField(ctx, proc.Doctype, "token_id", tok)
		if err != nil {
			return nil, fmt.Errorf("checking token: %w", err)
		}
		if exists {
			existing, _ := s.store.GetByField(ctx, proc.Doctype, "token_id", tok)
			name := ""
			if existing != nil {
				name = existing.Name
			}
			logging.Ctx(ctx).Warn().
				Str("form_type", req.FormType).
				Str("existing", name).
				Msg("duplicate token submission rejected")
			metrics.RecordSubmission(req.FormType, "validation_failed", time.Since(start))
			return nil, &TokenError{Token: tok, Duplicate: true, Existing: name}
		}
	}

	if ve := proc.Validate(data); ve != nil {
		if s.audit != nil {
			s.audit.LogSubmissionRejected(ctx, req.FormType, req.SourceIP, ve.FieldErrors)
		}
		metrics.RecordSubmission(req.FormType, "validation_failed", time.Since(start))
		return nil, ve
	}

	// Submissions without a caller-supplied token get a generated one so
	// every stored record is reachable by token lookup.
	if tok == "" {
		generated, err := s.tokens.Generate(ctx)
		if err != nil {
			metrics.RecordSubmission(req.FormType, "error", time.Since(start))
			return nil, fmt.Errorf("generating token: %w", err)
		}
		tok = generated
	}

	mainFields, tables := proc.Map(data)
	mainFields["token_id"] = tok

	doc := &store.Document{
		Doctype: proc.Doctype,
		Name:    newRecordName(req.FormType),
		Fields:  mainFields,
		Tables:  tables,
		Created: time.Now().UTC(),
		Indexes: map[string]string{"token_id": tok},
	}

	if err := s.store.Put(ctx, doc); err != nil {
		metrics.RecordSubmission(req.FormType, "error", time.Since(start))
		return nil, fmt.Errorf("storing submission: %w", err)
	}
	for name, rows := range tables {
		metrics.RecordChildTableRows(req.FormType, name, len(rows))
	}

	result := &SubmitResult{
		RecordID: doc.Name,
		Doctype:  proc.Doctype,
		Status:   statusOf(mainFields),
		Token:    tok,
	}

	if s.attacher != nil && len(uploads) > 0 {
		attached := s.attacher.AttachToDocument(ctx, proc.Doctype, doc.Name, req.FormType, uploads)
		result.Attachments = attached
		if s.audit != nil {
			for _, fe := range attached.Errors {
				s.audit.LogFileRejected(ctx, req.FormType, doc.Name, fe.Field, fe.Reason)
			}
		}
	}

	if s.audit != nil {
		s.audit.LogSubmissionAccepted(ctx, req.FormType, doc.Name, tok, req.SourceIP)
	}
	metrics.RecordSubmission(req.FormType, "created", time.Since(start))

	logging.Ctx(ctx).Info().
		Str("form_type", req.FormType).
		Str("record_id", doc.Name).
		Int("child_tables", len(tables)).
		Msg("form submission stored")
	return result, nil
}

// FindByToken looks up a stored submission by its token across every
// registered doctype, in registration order.
func (s *Service) FindByToken(ctx context.Context, tok string) (*store.Document, error) {
	tok = strings.TrimSpace(tok)
	if !token.ValidateLookup(tok, s.tokenMinLength) {
		return nil, &TokenError{Token: tok, Reason: "token id is malformed"}
	}
	for _, ft := range processorOrder {
		doc, err := s.store.GetByField(ctx, processors[ft].Doctype, "token_id", tok)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	return nil, store.ErrNotFound
}

// CountByDoctype reports how many documents each form type has stored.
func (s *Service) CountByDoctype(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(processorOrder))
	for _, ft := range processorOrder {
		n, err := s.store.Count(ctx, processors[ft].Doctype)
		if err != nil {
			return nil, err
		}
		counts[processors[ft].Doctype] = n
	}
	return counts, nil
}

// Attachments lists the stored attachment metadata for a document.
func (s *Service) Attachments(ctx context.Context, doctype, docName string) ([]*store.Attachment, error) {
	if s.attacher == nil {
		return nil, nil
	}
	return s.attacher.ListForDocument(ctx, doctype, docName)
}

// extractInlineFiles pulls "<field>_base64" values out of the submission
// data and merges them with the multipart uploads. Undecodable payloads
// are dropped; the file pipeline reports its own errors for bad content.
func extractInlineFiles(data map[string]any, multipart map[string][]*files.Upload) map[string][]*files.Upload {
	uploads := make(map[string][]*files.Upload, len(multipart))
	for field, ups := range multipart {
		uploads[field] = append(uploads[field], ups...)
	}

	for key, raw := range data {
		field, ok := strings.CutSuffix(key, "_base64")
		if !ok || field == "" {
			continue
		}
		encoded, ok := raw.(string)
		if !ok || encoded == "" {
			continue
		}
		// Data URLs carry a "data:<mime>;base64," prefix.
		if idx := strings.Index(encoded, ";base64,"); idx >= 0 {
			encoded = encoded[idx+len(";base64,"):]
		}
		content, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			continue
		}

		name := field
		if fn, ok := data[field+"_filename"].(string); ok && strings.TrimSpace(fn) != "" {
			name = strings.TrimSpace(fn)
		}
		uploads[field] = append(uploads[field], &files.Upload{FileName: name, Content: content})
		delete(data, key)
		delete(data, field+"_filename")
	}
	return uploads
}

func newRecordName(formType string) string {
	return fmt.Sprintf("%s-%s", formType, uuid.New().String())
}

func statusOf(fields map[string]any) string {
	if s, ok := fields["status"].(string); ok && s != "" {
		return s
	}
	return "Open"
}
