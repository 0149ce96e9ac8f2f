// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

// Package token generates and validates submission tokens.
//
// Generated tokens are derived from a UUID, random bytes, and a timestamp,
// hashed and formatted as XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX (32 uppercase
// hex characters in five hyphen groups). Client-supplied tokens on lookups
// are checked against a looser charset before touching the store.
package token

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/enjaz-platform/formgate/internal/logging"
	"github.com/enjaz-platform/formgate/internal/metrics"
)

// maxRetries bounds regeneration attempts after a collision.
const maxRetries = 5

// ErrGenerationFailed is returned when no unique token could be produced
// within the retry limit.
var ErrGenerationFailed = errors.New("failed to generate unique token after multiple attempts")

var (
	// generatedPattern matches the exact format of generated tokens.
	generatedPattern = regexp.MustCompile(`^[A-F0-9]{8}-[A-F0-9]{4}-[A-F0-9]{4}-[A-F0-9]{4}-[A-F0-9]{12}$`)

	// lookupPattern is the loose charset accepted for client-supplied
	// tokens. Length is checked separately against the configured minimum.
	lookupPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ExistsFunc reports whether a token is already assigned to a document.
type ExistsFunc func(ctx context.Context, token string) (bool, error)

// Generator produces unique submission tokens.
type Generator struct {
	exists ExistsFunc
}

// NewGenerator creates a Generator that checks uniqueness via exists.
func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{exists: exists}
}

// Generate returns a new unique token, retrying on collision. A collision is
// astronomically unlikely but the store check keeps the invariant explicit.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			metrics.TokenCollisionRetries.Inc()
		}

		tok, err := newToken()
		if err != nil {
			logging.Err(err).Int("attempt", attempt+1).Msg("token generation attempt failed")
			continue
		}

		taken, err := g.exists(ctx, tok)
		if err != nil {
			logging.Err(err).Int("attempt", attempt+1).Msg("token uniqueness check failed")
			continue
		}
		if !taken {
			metrics.TokensGenerated.Inc()
			return tok, nil
		}
	}
	return "", ErrGenerationFailed
}

// newToken builds one candidate token.
func newToken() (string, error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}

	seed := uuid.New().String() + "-" + hex.EncodeToString(randomBytes) + "-" +
		strconv.FormatInt(time.Now().Unix(), 10)

	sum := sha256.Sum256([]byte(seed))
	h := strings.ToUpper(hex.EncodeToString(sum[:]))[:32]

	return h[:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:32], nil
}

// ValidateFormat reports whether tok matches the generated token format.
func ValidateFormat(tok string) bool {
	return generatedPattern.MatchString(tok)
}

// ValidateLookup reports whether a client-supplied token is safe to use for
// a store lookup: at least minLength characters from [A-Za-z0-9_-].
func ValidateLookup(tok string, minLength int) bool {
	if len(tok) < minLength {
		return false
	}
	return lookupPattern.MatchString(tok)
}
