// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CleanValue normalizes a raw form value for storage. Strings are trimmed
// and empty strings become nil; every other type passes through unchanged.
func CleanValue(v any) any {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return nil
		}
		return trimmed
	}
	return v
}

// TrimOrNil returns the trimmed string, or nil when the value is absent or
// blank.
func TrimOrNil(v any) any {
	if isEmpty(v) {
		return nil
	}
	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return nil
	}
	return s
}

// ParseWorkerCount normalizes a workers-count value. Valid integers are
// returned as their decimal string with negatives clamped to "0".
// Unparseable values fall back to the trimmed original text so the raw
// input is preserved for review.
func ParseWorkerCount(v any) any {
	if isEmpty(v) {
		return nil
	}
	s := strings.TrimSpace(stringify(v))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return "0"
		}
		return strconv.Itoa(n)
	}
	if s == "" {
		return nil
	}
	return s
}

// ParseCurrency parses a monetary amount, stripping commas and spaces.
// Negative or unparseable amounts yield nil.
func ParseCurrency(v any) any {
	if isEmpty(v) {
		return nil
	}
	s := strings.TrimSpace(stringify(v))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return nil
	}
	return f
}

// ParseYear parses a graduation year and bounds it to a plausible range.
// Anything outside [1950, current year + 10] yields nil.
func ParseYear(v any) any {
	if isEmpty(v) {
		return nil
	}
	s := strings.TrimSpace(stringify(v))
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	if n < 1950 || n > time.Now().Year()+10 {
		return nil
	}
	return n
}

// ParseQuantity parses a non-negative quantity, stripping commas.
// Negative or unparseable values yield nil.
func ParseQuantity(v any) any {
	if isEmpty(v) {
		return nil
	}
	s := strings.TrimSpace(strings.ReplaceAll(stringify(v), ",", ""))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return nil
	}
	return f
}

// isEmpty mirrors loose falsiness for form values: nil, blank strings and
// numeric zero all count as absent.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case float64:
		return t == 0
	case int:
		return t == 0
	case bool:
		return !t
	default:
		return false
	}
}

// stringify renders a scalar form value as text. JSON numbers arrive as
// float64, so integral values drop the trailing ".0".
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// truthy reports whether a form value carries usable content once trimmed.
// Unlike isEmpty it treats any non-blank string and non-zero number as set.
func truthy(v any) bool {
	return !isEmpty(v)
}
