// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// auditKeyPrefix namespaces audit keys within a shared BadgerDB.
const auditKeyPrefix = "audit:"

// BadgerStore persists audit events in BadgerDB. Keys embed a zero-padded
// nanosecond timestamp so lexicographic iteration is time-ordered.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore wraps an existing BadgerDB handle. The handle is shared with
// the document store and closed by its owner.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func eventKey(ts time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", auditKeyPrefix, ts.UnixNano(), id))
}

// Save persists an event.
func (s *BadgerStore) Save(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(eventKey(event.Timestamp, event.ID), data)
	})
}

// matches applies the filter to a decoded event. Time bounds are handled by
// the iterator; this covers type, severity, and form type.
func matches(event *Event, filter QueryFilter) bool {
	if len(filter.Types) > 0 {
		found := false
		for _, t := range filter.Types {
			if event.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Severity != "" && event.Severity != filter.Severity {
		return false
	}
	if filter.FormType != "" && event.FormType != filter.FormType {
		return false
	}
	if !filter.StartTime.IsZero() && event.Timestamp.Before(filter.StartTime) {
		return false
	}
	if !filter.EndTime.IsZero() && event.Timestamp.After(filter.EndTime) {
		return false
	}
	return true
}

// Query retrieves events matching the filter, newest first.
func (s *BadgerStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var events []Event
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(auditKeyPrefix)
		// Reverse iteration starts past the last audit key.
		seek := []byte(auditKeyPrefix + "\xff")
		skipped := 0
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			var event Event
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &event)
			})
			if err != nil {
				return err
			}
			if !matches(&event, filter) {
				continue
			}
			if skipped < filter.Offset {
				skipped++
				continue
			}
			events = append(events, event)
			if len(events) >= limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	return events, nil
}

// Count returns the number of events matching the filter.
func (s *BadgerStore) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	var count int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(auditKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var event Event
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &event)
			})
			if err != nil {
				return err
			}
			if matches(&event, filter) {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return count, nil
}

// Delete removes events older than cutoff.
func (s *BadgerStore) Delete(ctx context.Context, cutoff time.Time) (int64, error) {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(auditKeyPrefix)
		end := eventKey(cutoff, "")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if string(key) >= string(end) {
				break
			}
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan expired audit events: %w", err)
	}

	var deleted int64
	for _, key := range keys {
		err := s.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(key)
		})
		if err != nil {
			continue
		}
		deleted++
	}
	return deleted, nil
}

// Close is a no-op; the shared database handle is closed by its owner.
func (s *BadgerStore) Close() error {
	return nil
}
