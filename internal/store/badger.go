// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/enjaz-platform/formgate/internal/metrics"
)

// Key prefixes for BadgerDB storage. Index keys map an indexed field value to
// the document name so token lookups avoid a full scan.
const (
	docKeyPrefix  = "doc:"
	idxKeyPrefix  = "idx:"
	attKeyPrefix  = "att:"
	hashKeyPrefix = "att_hash:"
)

// BadgerStore implements Store using BadgerDB for durable storage.
type BadgerStore struct {
	db      *badger.DB
	ownedDB bool
}

// Open opens a BadgerDB at path and wraps it in a BadgerStore. An empty path
// with inMemory set runs without persistence.
func Open(path string, inMemory bool) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger at %q: %w", path, err)
	}
	return &BadgerStore{db: db, ownedDB: true}, nil
}

// NewBadgerStore wraps an existing BadgerDB handle. The caller retains
// ownership of the handle and must close it.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// DB exposes the underlying handle so other subsystems (audit) can share one
// database file.
func (s *BadgerStore) DB() *badger.DB {
	return s.db
}

func docKey(doctype, name string) []byte {
	return []byte(docKeyPrefix + doctype + ":" + name)
}

func idxKey(doctype, field, value string) []byte {
	return []byte(idxKeyPrefix + doctype + ":" + field + ":" + value)
}

func attKey(doctype, docName, id string) []byte {
	return []byte(attKeyPrefix + doctype + ":" + docName + ":" + id)
}

func hashKey(doctype, docName, sha string) []byte {
	return []byte(hashKeyPrefix + doctype + ":" + docName + ":" + sha)
}

// Put stores a new document and its index entries in one transaction.
func (s *BadgerStore) Put(ctx context.Context, doc *Document) error {
	start := time.Now()
	if doc.Created.IsZero() {
		doc.Created = time.Now().UTC()
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		key := docKey(doc.Doctype, doc.Name)
		if _, err := txn.Get(key); err == nil {
			return ErrConflict
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check existing document: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set document: %w", err)
		}
		for field, value := range doc.Indexes {
			if err := txn.Set(idxKey(doc.Doctype, field, value), []byte(doc.Name)); err != nil {
				return fmt.Errorf("set index %s: %w", field, err)
			}
		}
		return nil
	})
	metrics.RecordStoreOp("put", doc.Doctype, time.Since(start), err)
	return err
}

// Get retrieves a document by doctype and name.
func (s *BadgerStore) Get(ctx context.Context, doctype, name string) (*Document, error) {
	start := time.Now()
	var doc Document
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey(doctype, name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get document: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	metrics.RecordStoreOp("get", doctype, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetByField resolves an index entry to its document.
func (s *BadgerStore) GetByField(ctx context.Context, doctype, field, value string) (*Document, error) {
	var name string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idxKey(doctype, field, value))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get index: %w", err)
		}
		return item.Value(func(val []byte) error {
			name = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, doctype, name)
}

// ExistsByField reports whether an index entry exists for the field value.
func (s *BadgerStore) ExistsByField(ctx context.Context, doctype, field, value string) (bool, error) {
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(idxKey(doctype, field, value))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get index: %w", err)
		}
		found = true
		return nil
	})
	return found, err
}

// Count iterates document keys for a doctype without prefetching values.
func (s *BadgerStore) Count(ctx context.Context, doctype string) (int64, error) {
	var count int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(docKeyPrefix + doctype + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", doctype, err)
	}
	return count, nil
}

// PutAttachment stores attachment content and its hash marker.
func (s *BadgerStore) PutAttachment(ctx context.Context, att *Attachment) error {
	start := time.Now()
	if att.CreatedAt.IsZero() {
		att.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(att)
	if err != nil {
		return fmt.Errorf("marshal attachment: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(attKey(att.Doctype, att.DocName, att.ID), data); err != nil {
			return fmt.Errorf("set attachment: %w", err)
		}
		if err := txn.Set(hashKey(att.Doctype, att.DocName, att.SHA256), []byte(att.ID)); err != nil {
			return fmt.Errorf("set attachment hash: %w", err)
		}
		return nil
	})
	metrics.RecordStoreOp("put_attachment", att.Doctype, time.Since(start), err)
	return err
}

// FindAttachmentByHash returns an attachment on the document with matching
// content hash, used to skip duplicate uploads.
func (s *BadgerStore) FindAttachmentByHash(ctx context.Context, doctype, docName, sha string) (*Attachment, error) {
	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(hashKey(doctype, docName, sha))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get attachment hash: %w", err)
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	var att Attachment
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(attKey(doctype, docName, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get attachment: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &att)
		})
	})
	if err != nil {
		return nil, err
	}
	return &att, nil
}

// ListAttachments returns attachment metadata for a document. Content bytes
// are dropped to keep responses small.
func (s *BadgerStore) ListAttachments(ctx context.Context, doctype, docName string) ([]*Attachment, error) {
	var atts []*Attachment
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(attKeyPrefix + doctype + ":" + docName + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var att Attachment
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &att)
			})
			if err != nil {
				return err
			}
			att.Content = nil
			atts = append(atts, &att)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	return atts, nil
}

// Close closes the database when this store opened it.
func (s *BadgerStore) Close() error {
	if !s.ownedDB {
		return nil
	}
	return s.db.Close()
}
