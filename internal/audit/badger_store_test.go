// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package audit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("opening in-memory badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerStore(db)
}

func seedEvents(t *testing.T, s *BadgerStore, n int, base time.Time) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		event := &Event{
			ID:        fmt.Sprintf("ev-%03d", i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Type:      EventTypeSubmissionAccepted,
			Severity:  SeverityInfo,
			Outcome:   OutcomeSuccess,
			FormType:  "contact-form",
		}
		if i%2 == 1 {
			event.Type = EventTypeSubmissionRejected
			event.Severity = SeverityWarning
			event.FormType = "training-program"
		}
		if err := s.Save(ctx, event); err != nil {
			t.Fatalf("Save(%d) error = %v", i, err)
		}
	}
}

func TestQueryNewestFirst(t *testing.T) {
	s := newTestBadgerStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedEvents(t, s, 6, base)

	events, err := s.Query(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(events) != 6 {
		t.Fatalf("len(events) = %d, want 6", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.After(events[i-1].Timestamp) {
			t.Errorf("events not newest-first at index %d", i)
		}
	}
}

func TestQueryFilters(t *testing.T) {
	s := newTestBadgerStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedEvents(t, s, 6, base)
	ctx := context.Background()

	byType, err := s.Query(ctx, QueryFilter{Types: []EventType{EventTypeSubmissionRejected}})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(byType) != 3 {
		t.Errorf("rejected events = %d, want 3", len(byType))
	}

	byForm, err := s.Query(ctx, QueryFilter{FormType: "contact-form"})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(byForm) != 3 {
		t.Errorf("contact-form events = %d, want 3", len(byForm))
	}

	byTime, err := s.Query(ctx, QueryFilter{StartTime: base.Add(3 * time.Minute)})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(byTime) != 3 {
		t.Errorf("events after start = %d, want 3", len(byTime))
	}
}

func TestQueryLimitOffset(t *testing.T) {
	s := newTestBadgerStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedEvents(t, s, 10, base)

	page, err := s.Query(context.Background(), QueryFilter{Limit: 4, Offset: 4})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(page) != 4 {
		t.Fatalf("page size = %d, want 4", len(page))
	}
	// Newest first: offset 4 of 10 starts at the 6th newest, ev-005.
	if page[0].ID != "ev-005" {
		t.Errorf("page[0].ID = %q, want ev-005", page[0].ID)
	}
}

func TestCountEvents(t *testing.T) {
	s := newTestBadgerStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedEvents(t, s, 6, base)

	total, err := s.Count(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if total != 6 {
		t.Errorf("Count() = %d, want 6", total)
	}

	warnings, err := s.Count(context.Background(), QueryFilter{Severity: SeverityWarning})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if warnings != 3 {
		t.Errorf("warning count = %d, want 3", warnings)
	}
}

func TestDeleteRetention(t *testing.T) {
	s := newTestBadgerStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedEvents(t, s, 6, base)

	cutoff := base.Add(3 * time.Minute)
	deleted, err := s.Delete(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	remaining, err := s.Count(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if remaining != 3 {
		t.Errorf("remaining = %d, want 3", remaining)
	}
}
