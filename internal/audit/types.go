// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

// Package audit records submission-lifecycle events for compliance review.
package audit

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// EventType categorizes audit events.
type EventType string

const (
	// Submission events
	EventTypeSubmissionAccepted EventType = "submission.accepted"
	EventTypeSubmissionRejected EventType = "submission.rejected"
	EventTypeSubmissionFailed   EventType = "submission.failed"

	// File pipeline events
	EventTypeFileAttached EventType = "file.attached"
	EventTypeFileRejected EventType = "file.rejected"
	EventTypeFileDuplicate EventType = "file.duplicate"

	// Token events
	EventTypeTokenIssued         EventType = "token.issued"
	EventTypeTokenValidated      EventType = "token.validated"
	EventTypeTokenValidationFail EventType = "token.validation_failed"

	// Session events
	EventTypeSessionCreated     EventType = "session.created"
	EventTypeSessionInvalidated EventType = "session.invalidated"
)

// Severity indicates the severity level of an audit event.
type Severity string

const (
	SeverityDebug    Severity = "debug"
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Outcome indicates whether an action succeeded or failed.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event is one recorded submission-lifecycle event.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Severity  Severity  `json:"severity"`
	Outcome   Outcome   `json:"outcome"`

	// FormType is the submitted form type, when applicable.
	FormType string `json:"form_type,omitempty"`

	// DocName is the stored document name, when one was created.
	DocName string `json:"doc_name,omitempty"`

	// Token carries the submission token for lifecycle correlation.
	Token string `json:"token,omitempty"`

	// Source of the request.
	SourceIP  string `json:"source_ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`

	Action      string `json:"action"`
	Description string `json:"description"`

	// Metadata holds event-specific details (rejected field names, file
	// metadata, validation errors).
	Metadata json.RawMessage `json:"metadata,omitempty"`

	CorrelationID string `json:"correlation_id,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
}

// QueryFilter selects events for review endpoints.
type QueryFilter struct {
	Types     []EventType `json:"types,omitempty"`
	Severity  Severity    `json:"severity,omitempty"`
	FormType  string      `json:"form_type,omitempty"`
	StartTime time.Time   `json:"start_time,omitempty"`
	EndTime   time.Time   `json:"end_time,omitempty"`
	Limit     int         `json:"limit,omitempty"`
	Offset    int         `json:"offset,omitempty"`
}

// Store persists audit events.
type Store interface {
	// Save persists an event.
	Save(ctx context.Context, event *Event) error

	// Query retrieves events matching the filter, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Count returns the number of events matching the filter.
	Count(ctx context.Context, filter QueryFilter) (int64, error)

	// Delete removes events older than cutoff, returning the count removed.
	Delete(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases store resources.
	Close() error
}
