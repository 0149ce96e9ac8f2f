// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package forms

import (
	"errors"
	"fmt"

	"github.com/enjaz-platform/formgate/internal/files"
)

// ErrUnknownFormType indicates the requested form type has no registered
// processor.
var ErrUnknownFormType = errors.New("unsupported form type")

// ValidationError carries the per-field and per-row errors produced while
// validating a submission. FieldErrors keys are form field names;
// ChildTableErrors keys follow the "<table>_row_<idx>" convention.
type ValidationError struct {
	FieldErrors      map[string][]string `json:"field_errors,omitempty"`
	ChildTableErrors map[string][]string `json:"child_table_errors,omitempty"`
}

func (e *ValidationError) Error() string {
	n := len(e.FieldErrors) + len(e.ChildTableErrors)
	return fmt.Sprintf("form validation failed: %d field(s) invalid", n)
}

// Empty reports whether no errors were collected.
func (e *ValidationError) Empty() bool {
	return len(e.FieldErrors) == 0 && len(e.ChildTableErrors) == 0
}

func (e *ValidationError) addField(field, msg string) {
	if e.FieldErrors == nil {
		e.FieldErrors = make(map[string][]string)
	}
	e.FieldErrors[field] = append(e.FieldErrors[field], msg)
}

// FileError indicates one or more uploaded files failed validation before
// the record was created; nothing is persisted.
type FileError struct {
	Errors []files.FieldError `json:"file_errors"`
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file validation failed: %d file(s) rejected", len(e.Errors))
}

// TokenError indicates the submission token was malformed or already used.
type TokenError struct {
	Token     string
	Duplicate bool
	Existing  string
	Reason    string
}

func (e *TokenError) Error() string {
	if e.Duplicate {
		return "this token has already been used for registration"
	}
	return e.Reason
}
