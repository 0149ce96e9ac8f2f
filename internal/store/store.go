// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package store

import (
	"context"
	"errors"
	"time"
)

// Common store errors.
var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrConflict indicates a document with the same name already exists.
	ErrConflict = errors.New("document already exists")
)

// Document is a stored form submission or related record. Fields holds flat
// parent fields; Tables holds child table rows keyed by table field name.
type Document struct {
	Doctype string                      `json:"doctype"`
	Name    string                      `json:"name"`
	Fields  map[string]any              `json:"fields"`
	Tables  map[string][]map[string]any `json:"tables,omitempty"`
	Created time.Time                   `json:"created"`

	// Indexes maps field names to values that must be findable via
	// GetByField. The submission token is indexed this way.
	Indexes map[string]string `json:"indexes,omitempty"`
}

// Attachment is stored file content linked to a document field.
type Attachment struct {
	ID        string    `json:"id"`
	Doctype   string    `json:"doctype"`
	DocName   string    `json:"doc_name"`
	Field     string    `json:"field"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SHA256    string    `json:"sha256"`
	Size      int64     `json:"size"`
	Content   []byte    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the document persistence port. Implementations must be safe for
// concurrent use.
type Store interface {
	// Put stores a new document. Returns ErrConflict when a document with
	// the same doctype and name exists.
	Put(ctx context.Context, doc *Document) error

	// Get retrieves a document by doctype and name.
	Get(ctx context.Context, doctype, name string) (*Document, error)

	// GetByField retrieves a document via an indexed field value.
	GetByField(ctx context.Context, doctype, field, value string) (*Document, error)

	// ExistsByField reports whether any document of the doctype carries the
	// indexed field value. Used for token uniqueness checks.
	ExistsByField(ctx context.Context, doctype, field, value string) (bool, error)

	// Count returns the number of documents of a doctype.
	Count(ctx context.Context, doctype string) (int64, error)

	// PutAttachment stores file content linked to a document.
	PutAttachment(ctx context.Context, att *Attachment) error

	// FindAttachmentByHash returns an existing attachment with the same
	// content hash on the same document, or ErrNotFound.
	FindAttachmentByHash(ctx context.Context, doctype, docName, sha256 string) (*Attachment, error)

	// ListAttachments returns attachment metadata for a document, content
	// omitted.
	ListAttachments(ctx context.Context, doctype, docName string) ([]*Attachment, error)

	// Close releases the underlying storage.
	Close() error
}
