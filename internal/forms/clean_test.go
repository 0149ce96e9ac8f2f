// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package forms

import (
	"fmt"
	"testing"
	"time"
)

func TestCleanValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"plain string", "hello", "hello"},
		{"padded string", "  hello  ", "hello"},
		{"blank string", "   ", nil},
		{"empty string", "", nil},
		{"number passes through", 42.5, 42.5},
		{"bool passes through", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanValue(tt.in); got != tt.want {
				t.Errorf("CleanValue(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseWorkerCount(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"valid count", "5", "5"},
		{"numeric json value", float64(5), "5"},
		{"negative clamps to zero", "-3", "0"},
		{"unparseable keeps raw text", "five or so", "five or so"},
		{"unparseable trims", "  five  ", "five"},
		{"empty", "", nil},
		{"nil", nil, nil},
		{"zero is absent", float64(0), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseWorkerCount(tt.in); got != tt.want {
				t.Errorf("ParseWorkerCount(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"plain amount", "5000", 5000.0},
		{"thousands separators", "1,250,000", 1250000.0},
		{"internal spaces", "1 250 000.50", 1250000.5},
		{"float input", 99.9, 99.9},
		{"negative rejected", "-100", nil},
		{"garbage rejected", "lots", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCurrency(tt.in); got != tt.want {
				t.Errorf("ParseCurrency(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseYear(t *testing.T) {
	maxYear := time.Now().Year() + 10

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"valid year", "2015", 2015},
		{"lower bound", "1950", 1950},
		{"below range", "1949", nil},
		{"upper bound", fmt.Sprintf("%d", maxYear), maxYear},
		{"above range", fmt.Sprintf("%d", maxYear+1), nil},
		{"garbage", "sometime", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseYear(tt.in); got != tt.want {
				t.Errorf("ParseYear(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"integer quantity", "12", 12.0},
		{"decimal quantity", "2.5", 2.5},
		{"comma separated", "1,000", 1000.0},
		{"negative rejected", "-1", nil},
		{"garbage rejected", "many", nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseQuantity(tt.in); got != tt.want {
				t.Errorf("ParseQuantity(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTrimOrNil(t *testing.T) {
	if got := TrimOrNil("  name  "); got != "name" {
		t.Errorf("TrimOrNil = %v, want %q", got, "name")
	}
	if got := TrimOrNil("   "); got != nil {
		t.Errorf("TrimOrNil(blank) = %v, want nil", got)
	}
	if got := TrimOrNil(nil); got != nil {
		t.Errorf("TrimOrNil(nil) = %v, want nil", got)
	}
}
