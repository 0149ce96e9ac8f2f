// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package forms

import (
	"fmt"
	"strings"
	"time"
)

// MapSubmission runs the full mapping for a form type: direct main fields,
// computed fields (which win over direct mappings of the same target),
// then child tables.
func MapSubmission(m *MappingConfig, submission map[string]any) (map[string]any, map[string][]map[string]any) {
	main := MapMainFields(m, submission)
	tables := ProcessChildTables(m, submission)
	return main, tables
}

// MapMainFields maps the top-level document fields. Direct mappings are
// applied in declaration order with string cleaning; computed fields run
// afterwards and overwrite direct results on the same target.
func MapMainFields(m *MappingConfig, submission map[string]any) map[string]any {
	mapped := make(map[string]any)
	if m == nil {
		return mapped
	}

	for _, fm := range m.MainFields {
		raw, present := submission[fm.Source]
		if !present || raw == nil {
			continue
		}
		if cleaned := CleanValue(raw); cleaned != nil {
			mapped[fm.Target] = cleaned
		}
	}

	for _, cf := range m.ComputedFields {
		if v := applyComputation(cf.Computation, submission[cf.Source], submission); v != nil {
			mapped[cf.Target] = v
		}
	}
	return mapped
}

// ageToBirthDate converts an age into an approximate January 1st birth
// date. Ages outside (0, 150] yield nil.
func ageToBirthDate(v any) any {
	age, ok := asInt(v)
	if !ok || age <= 0 || age > 150 {
		return nil
	}
	return fmt.Sprintf("%d-01-01", time.Now().Year()-age)
}

// extractFirstName returns the first whitespace-separated token of a name.
func extractFirstName(v any) any {
	if v == nil {
		return nil
	}
	name := strings.TrimSpace(stringify(v))
	if name == "" {
		return nil
	}
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return name
	}
	return parts[0]
}

// buildFullName joins the name parts present in the submission.
func buildFullName(submission map[string]any) any {
	var parts []string
	for _, field := range []string{"firstName", "middleName", "lastName"} {
		if s, ok := TrimOrNil(submission[field]).(string); ok {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return strings.Join(parts, " ")
}

// processProjectDescription cleans a project description and appends the
// submission's products when they are not already part of the text.
func processProjectDescription(v any, submission map[string]any) any {
	if isEmpty(v) {
		return nil
	}
	description := strings.TrimSpace(stringify(v))
	if description == "" {
		return nil
	}

	if products, ok := TrimOrNil(submission["products"]).(string); ok {
		if !strings.Contains(description, products) {
			description = description + "\n\nProducts: " + products
		}
	}
	return description
}

// hasEducationData reports whether any flat education field carries a
// value.
func hasEducationData(submission map[string]any) bool {
	for _, field := range []string{"educationPlace", "educationMajor", "graduationYear"} {
		if truthy(submission[field]) {
			return true
		}
	}
	return false
}
