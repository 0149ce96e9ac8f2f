// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package files

// FieldConfig defines upload constraints for one form field.
type FieldConfig struct {
	Field        string   `json:"field"`
	AllowedMIMEs []string `json:"allowed_types"`
	Extensions   []string `json:"extensions"`
	MaxSize      int64    `json:"max_size"`
	MaxFiles     int      `json:"max_files"`
	Description  string   `json:"description"`
}

const defaultMaxSize = 10 * 1024 * 1024

// fieldConfigs holds per-field upload constraints. Keys are the frontend
// field names.
var fieldConfigs = map[string]*FieldConfig{
	"idCardImage": {
		Field:        "idCardImage",
		AllowedMIMEs: []string{"image/jpeg", "image/png"},
		Extensions:   []string{".jpg", ".jpeg", ".png"},
		MaxSize:      defaultMaxSize,
		MaxFiles:     1,
		Description:  "ID Card Image",
	},
	"cvFile": {
		Field: "cvFile",
		AllowedMIMEs: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		Extensions:  []string{".pdf", ".doc", ".docx"},
		MaxSize:     defaultMaxSize,
		MaxFiles:    1,
		Description: "CV File",
	},
	"files": {
		Field:        "files",
		AllowedMIMEs: []string{"image/jpeg", "image/png"},
		Extensions:   []string{".jpg", ".jpeg", ".png"},
		MaxSize:      defaultMaxSize,
		MaxFiles:     3,
		Description:  "Product Images",
	},
}

// formFileFields maps form types to their file-carrying fields. Forms not
// listed accept no uploads.
var formFileFields = map[string][]string{
	"small-project-register": {"idCardImage"},
	"contract-opportunity":   {"cvFile"},
	"promote-project":        {"files"},
}

// ConfigForField returns the upload constraints for a field, or nil when the
// field accepts no uploads.
func ConfigForField(field string) *FieldConfig {
	return fieldConfigs[field]
}

// FieldsForForm returns the file fields for a form type.
func FieldsForForm(formType string) []string {
	return formFileFields[formType]
}
