// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

// Package validation provides struct validation using go-playground/validator v10.
// A thread-safe singleton validator instance is shared process-wide; struct
// metadata is cached by the library after the first use.
//
// Request envelopes and the simple form payloads declare validate tags:
//
//	type ContactFormRequest struct {
//	    FullName string `validate:"required,min=1"`
//	    Phone    string `validate:"required,min=9"`
//	}
//
// Validation failures translate into per-field messages compatible with the
// API's field_errors format.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure.
type FieldError struct {
	field   string
	tag     string
	param   string
	message string
}

// Field returns the struct field name that failed validation.
func (e *FieldError) Field() string { return e.field }

// Tag returns the validation tag that failed.
func (e *FieldError) Tag() string { return e.tag }

// Error returns a human-readable message.
func (e *FieldError) Error() string { return e.message }

// StructError is a collection of field validation failures for one struct.
type StructError struct {
	errors []FieldError
}

// Errors returns the individual field errors.
func (ve *StructError) Errors() []FieldError { return ve.errors }

// Error implements the error interface with a combined message.
func (ve *StructError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i, err := range ve.errors {
		messages[i] = err.message
	}
	return strings.Join(messages, "; ")
}

// FieldErrors converts the failures into the API's field_errors shape:
// field name to ordered message list.
func (ve *StructError) FieldErrors() map[string][]string {
	out := make(map[string][]string, len(ve.errors))
	for _, err := range ve.errors {
		out[err.field] = append(out[err.field], err.message)
	}
	return out
}

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes.
func ValidateStruct(s interface{}) *StructError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &StructError{errors: []FieldError{{
			field:   "unknown",
			tag:     "unknown",
			message: err.Error(),
		}}}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fieldErrors[i] = FieldError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			message: translateError(fe),
		}
	}
	return &StructError{errors: fieldErrors}
}

var simpleTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"datetime": "%s must be a valid date/time",
	"numeric":  "%s must be a valid number",
}

var paramTemplates = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := simpleTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := paramTemplates[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	isString := fe.Kind().String() == "string"
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	}

	return fmt.Sprintf("%s failed validation (%s)", field, tag)
}
