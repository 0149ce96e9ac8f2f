// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package cache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", "value")
	got, ok := c.Get("key")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != "value" {
		t.Errorf("got %v, want value", got)
	}
}

func TestCache_GetMissing(t *testing.T) {
	c := New(time.Minute)

	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := New(time.Minute)

	c.SetWithTTL("ephemeral", 1, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("ephemeral"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestCache_Delete(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", 1)
	c.Delete("key")
	if _, ok := c.Get("key"); ok {
		t.Error("expected miss after delete")
	}

	// Deleting a missing key must not panic.
	c.Delete("absent")
}

func TestCache_Clear(t *testing.T) {
	c := New(time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", c.Len())
	}
}

func TestCache_Stats(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", 1)
	c.Get("key")
	c.Get("missing")

	hits, misses, _, totalKeys := c.GetStats()
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
	if misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}
	if totalKeys != 1 {
		t.Errorf("totalKeys = %d, want 1", totalKeys)
	}
	if rate := c.HitRate(); rate != 50 {
		t.Errorf("HitRate() = %v, want 50", rate)
	}
}

func TestGenerateKey_Deterministic(t *testing.T) {
	params := map[string]string{"form_type": "contact-form"}

	k1 := GenerateKey("stats", params)
	k2 := GenerateKey("stats", params)
	if k1 != k2 {
		t.Errorf("keys differ: %q vs %q", k1, k2)
	}

	k3 := GenerateKey("stats", map[string]string{"form_type": "training-program"})
	if k1 == k3 {
		t.Error("different params produced the same key")
	}
}
