// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

// Package session tracks applicant sessions keyed by submission token.
//
// Sessions are a read-side convenience: a frontend that holds a valid token
// gets a cached view of its request (applicant name, project name, status)
// without hitting the document store on every poll. Sessions expire on a TTL
// and are recreated transparently from the token.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/enjaz-platform/formgate/internal/cache"
	"github.com/enjaz-platform/formgate/internal/logging"
	"github.com/enjaz-platform/formgate/internal/metrics"
)

// ErrNoSession indicates no session exists and none could be recreated.
var ErrNoSession = errors.New("no session for token")

// Session is the cached per-token view of a submitted request.
type Session struct {
	Token         string    `json:"token"`
	DocumentName  string    `json:"document_name"`
	ApplicantName string    `json:"applicant_name"`
	ProjectName   string    `json:"project_name,omitempty"`
	Status        string    `json:"status,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	LastAccessed  time.Time `json:"last_accessed"`

	// Request metadata captured at creation.
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Origin    string `json:"origin,omitempty"`
}

// RequestInfo carries client metadata into a new session.
type RequestInfo struct {
	IPAddress string
	UserAgent string
	Origin    string
}

// Resolver recreates a session's document view from a token. Implemented by
// the submission pipeline over the document store.
type Resolver func(ctx context.Context, tok string) (*Session, error)

// Manager owns the session cache.
type Manager struct {
	cache   *cache.Cache
	resolve Resolver
	ttl     time.Duration
}

// NewManager creates a session manager. The TTL applies per session and is
// refreshed on access.
func NewManager(ttl time.Duration, resolve Resolver) *Manager {
	return &Manager{
		cache:   cache.New(ttl),
		resolve: resolve,
		ttl:     ttl,
	}
}

// Create builds a session for a token, overwriting any existing one.
func (m *Manager) Create(ctx context.Context, tok string, info *RequestInfo) (*Session, error) {
	sess, err := m.resolve(ctx, tok)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sess.Token = tok
	sess.CreatedAt = now
	sess.LastAccessed = now
	if info != nil {
		sess.IPAddress = info.IPAddress
		sess.UserAgent = info.UserAgent
		sess.Origin = info.Origin
	}

	m.cache.Set(tok, sess)
	metrics.SessionActiveCount.Set(float64(m.cache.Len()))
	logging.Ctx(ctx).Debug().Str("document", sess.DocumentName).Msg("session created")
	return sess, nil
}

// Get returns the session for a token, recreating it from the document store
// when the cache entry has expired. Access refreshes the TTL.
func (m *Manager) Get(ctx context.Context, tok string) (*Session, error) {
	if v, ok := m.cache.Get(tok); ok {
		metrics.SessionCacheHits.Inc()
		sess := v.(*Session)
		sess.LastAccessed = time.Now().UTC()
		m.cache.Set(tok, sess)
		return sess, nil
	}

	metrics.SessionCacheMisses.Inc()
	sess, err := m.Create(ctx, tok, nil)
	if err != nil {
		return nil, ErrNoSession
	}
	return sess, nil
}

// Invalidate drops the session for a token. Missing sessions are not an
// error.
func (m *Manager) Invalidate(tok string) {
	m.cache.Delete(tok)
	metrics.SessionActiveCount.Set(float64(m.cache.Len()))
}

// Valid reports whether a session exists or can be recreated for the token.
func (m *Manager) Valid(ctx context.Context, tok string) bool {
	_, err := m.Get(ctx, tok)
	return err == nil
}

// Stats exposes cache efficiency counters for the status endpoint.
func (m *Manager) Stats() (hits, misses int64, active int) {
	h, ms, _, _ := m.cache.GetStats()
	return h, ms, m.cache.Len()
}
