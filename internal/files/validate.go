// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package files

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"path/filepath"
	"strings"
)

// Image dimension bounds for image fields.
const (
	minImageDimension = 100
	maxImageDimension = 5000
)

// suspiciousPatterns are script fragments that have no business inside an
// uploaded image or document.
var suspiciousPatterns = [][]byte{
	[]byte("<script"),
	[]byte("javascript:"),
	[]byte("vbscript:"),
	[]byte("onload="),
	[]byte("onerror="),
	[]byte("<?php"),
	[]byte("<%"),
	[]byte("eval("),
	[]byte("exec("),
}

// executableSignatures are magic bytes of native executables.
var executableSignatures = [][]byte{
	{0x4d, 0x5a},             // PE
	{0x7f, 0x45, 0x4c, 0x46}, // ELF
	{0xca, 0xfe, 0xba, 0xbe}, // Mach-O
}

// extMIMEs maps extensions to the MIME type assumed when sniffing is
// inconclusive (http.DetectContentType cannot identify legacy Office files).
var extMIMEs = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ValidateType checks the extension and sniffed MIME type against the field
// config, returning the accepted MIME type.
func ValidateType(content []byte, filename, field string) (string, error) {
	config := ConfigForField(field)
	if config == nil {
		return "", fmt.Errorf("no file configuration for field %q", field)
	}

	if err := checkExtension(config, filename); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))

	detected := http.DetectContentType(content)
	// Strip any charset suffix before matching.
	if idx := strings.Index(detected, ";"); idx >= 0 {
		detected = strings.TrimSpace(detected[:idx])
	}
	if detected == "application/octet-stream" || detected == "text/plain" {
		// Sniffing was inconclusive; trust the extension mapping. Office
		// documents are zip or OLE containers the sniffer cannot name.
		if mapped, ok := extMIMEs[ext]; ok {
			detected = mapped
		}
	}
	// DOCX sniffs as a zip archive.
	if detected == "application/zip" && ext == ".docx" {
		detected = extMIMEs[ext]
	}

	for _, allowed := range config.AllowedMIMEs {
		if detected == allowed {
			return detected, nil
		}
	}
	return "", fmt.Errorf("%s has invalid file type, expected %s, got %s",
		config.Description, strings.Join(config.AllowedMIMEs, ", "), detected)
}

func checkExtension(config *FieldConfig, filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range config.Extensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of: %s", config.Description, strings.Join(config.Extensions, ", "))
}

// ValidateUploads runs the checks that must pass before a submission may
// create a record: each file field the form accepts gets its file count,
// filenames, extensions and sizes verified. Content inspection stays with
// the attach pipeline, which runs after the record exists.
func ValidateUploads(formType string, uploads map[string][]*Upload) []FieldError {
	var errs []FieldError
	for _, field := range FieldsForForm(formType) {
		ups := uploads[field]
		if len(ups) == 0 {
			continue
		}
		config := ConfigForField(field)
		if config == nil {
			errs = append(errs, FieldError{Field: field, Reason: fmt.Sprintf("no file configuration for field %q", field)})
			continue
		}
		if len(ups) > config.MaxFiles {
			errs = append(errs, FieldError{
				Field:  field,
				Reason: fmt.Sprintf("too many files, maximum %d files allowed", config.MaxFiles),
			})
			continue
		}
		for i, up := range ups {
			if up == nil || up.FileName == "" || len(up.Content) == 0 {
				errs = append(errs, FieldError{Field: field, Index: i, Reason: "file data is incomplete"})
				continue
			}
			if err := checkExtension(config, up.FileName); err != nil {
				errs = append(errs, FieldError{Field: field, FileName: up.FileName, Index: i, Reason: err.Error()})
				continue
			}
			if err := ValidateSize(up.Content, field); err != nil {
				errs = append(errs, FieldError{Field: field, FileName: up.FileName, Index: i, Reason: err.Error()})
			}
		}
	}
	return errs
}

// ValidateSize checks content length against the field limit. Empty files
// are rejected.
func ValidateSize(content []byte, field string) error {
	config := ConfigForField(field)
	if config == nil {
		return fmt.Errorf("no file configuration for field %q", field)
	}
	size := int64(len(content))
	if size == 0 {
		return fmt.Errorf("%s is empty", config.Description)
	}
	if size > config.MaxSize {
		return fmt.Errorf("%s size (%.1fMB) exceeds maximum allowed size (%.1fMB)",
			config.Description,
			float64(size)/(1024*1024),
			float64(config.MaxSize)/(1024*1024))
	}
	return nil
}

// ValidateImage decodes image headers and checks dimension bounds. Non-image
// fields pass through.
func ValidateImage(content []byte, field string) error {
	config := ConfigForField(field)
	if config == nil || !strings.HasPrefix(config.AllowedMIMEs[0], "image/") {
		return nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("%s is corrupted or invalid: %w", config.Description, err)
	}
	if cfg.Width < minImageDimension || cfg.Height < minImageDimension {
		return fmt.Errorf("%s dimensions too small, minimum %dx%d pixels required",
			config.Description, minImageDimension, minImageDimension)
	}
	if cfg.Width > maxImageDimension || cfg.Height > maxImageDimension {
		return fmt.Errorf("%s dimensions too large, maximum %dx%d pixels allowed",
			config.Description, maxImageDimension, maxImageDimension)
	}
	return nil
}

// ScanContent rejects content with executable signatures or embedded script
// fragments.
func ScanContent(content []byte) error {
	for _, sig := range executableSignatures {
		if bytes.HasPrefix(content, sig) {
			return fmt.Errorf("executable files are not allowed")
		}
	}
	lower := bytes.ToLower(content)
	for _, pattern := range suspiciousPatterns {
		if bytes.Contains(lower, pattern) {
			return fmt.Errorf("file contains suspicious content and cannot be uploaded")
		}
	}
	return nil
}

// SecureFilename strips path components and characters unsafe for storage,
// falling back to a placeholder when nothing survives.
func SecureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "uploaded_file"
	}
	return cleaned
}
