// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package files

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/enjaz-platform/formgate/internal/store"
)

// pngBytes encodes a solid image of the given size as PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("encoding jpeg: %v", err)
	}
	return buf.Bytes()
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")

// memAttachmentStore is an in-memory AttachmentStore.
type memAttachmentStore struct {
	atts []*store.Attachment
}

func (m *memAttachmentStore) PutAttachment(ctx context.Context, att *store.Attachment) error {
	m.atts = append(m.atts, att)
	return nil
}

func (m *memAttachmentStore) FindAttachmentByHash(ctx context.Context, doctype, docName, sha string) (*store.Attachment, error) {
	for _, att := range m.atts {
		if att.Doctype == doctype && att.DocName == docName && att.SHA256 == sha {
			return att, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memAttachmentStore) ListAttachments(ctx context.Context, doctype, docName string) ([]*store.Attachment, error) {
	var out []*store.Attachment
	for _, att := range m.atts {
		if att.Doctype == doctype && att.DocName == docName {
			out = append(out, att)
		}
	}
	return out, nil
}

// ============================================================================
// Validation
// ============================================================================

func TestValidateType(t *testing.T) {
	png := pngBytes(t, 120, 120)
	jpg := jpegBytes(t, 120, 120)

	tests := []struct {
		name     string
		content  []byte
		filename string
		field    string
		wantMIME string
		wantErr  bool
	}{
		{"png id card", png, "id.png", "idCardImage", "image/png", false},
		{"jpeg id card", jpg, "id.jpg", "idCardImage", "image/jpeg", false},
		{"pdf cv", pdfBytes, "cv.pdf", "cvFile", "application/pdf", false},
		{"wrong extension", png, "id.gif", "idCardImage", "", true},
		{"extension mismatch content", pdfBytes, "id.png", "idCardImage", "", true},
		{"pdf on image field", pdfBytes, "cv.pdf", "idCardImage", "", true},
		{"unknown field", png, "x.png", "somethingElse", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, err := ValidateType(tt.content, tt.filename, tt.field)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateType() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && mime != tt.wantMIME {
				t.Errorf("mime = %q, want %q", mime, tt.wantMIME)
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	if err := ValidateSize([]byte{}, "idCardImage"); err == nil {
		t.Error("empty file accepted")
	}
	if err := ValidateSize(make([]byte, 11*1024*1024), "idCardImage"); err == nil {
		t.Error("oversized file accepted")
	}
	if err := ValidateSize(make([]byte, 1024), "idCardImage"); err != nil {
		t.Errorf("1KB file rejected: %v", err)
	}
}

func TestValidateImageDimensions(t *testing.T) {
	if err := ValidateImage(pngBytes(t, 120, 120), "idCardImage"); err != nil {
		t.Errorf("120x120 rejected: %v", err)
	}
	if err := ValidateImage(pngBytes(t, 50, 50), "idCardImage"); err == nil {
		t.Error("50x50 accepted, want minimum dimension rejection")
	}
	if err := ValidateImage(pngBytes(t, 5001, 120), "idCardImage"); err == nil {
		t.Error("5001px wide accepted, want maximum dimension rejection")
	}
	if err := ValidateImage([]byte("not an image"), "idCardImage"); err == nil {
		t.Error("garbage accepted as image")
	}
	// Non-image fields skip image validation.
	if err := ValidateImage(pdfBytes, "cvFile"); err != nil {
		t.Errorf("cvFile triggered image validation: %v", err)
	}
}

func TestScanContent(t *testing.T) {
	if err := ScanContent([]byte{0x4d, 0x5a, 0x90, 0x00}); err == nil {
		t.Error("PE executable accepted")
	}
	if err := ScanContent([]byte{0x7f, 0x45, 0x4c, 0x46, 0x02}); err == nil {
		t.Error("ELF executable accepted")
	}
	if err := ScanContent([]byte("hello <SCRIPT>alert(1)</script>")); err == nil {
		t.Error("embedded script accepted")
	}
	if err := ScanContent([]byte("plain document body")); err != nil {
		t.Errorf("benign content rejected: %v", err)
	}
}

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"id.png", "id.png"},
		{"../../etc/passwd", "passwd"},
		{"my photo (1).png", "my_photo__1_.png"},
		{"..\\..\\boot.ini", "boot.ini"},
		{"///", "uploaded_file"},
		{"....", "uploaded_file"},
	}
	for _, tt := range tests {
		if got := SecureFilename(tt.in); got != tt.want {
			t.Errorf("SecureFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ============================================================================
// Upload pipeline
// ============================================================================

func TestProcessUpload(t *testing.T) {
	ms := &memAttachmentStore{}
	m := NewManager(ms)
	ctx := context.Background()

	up := &Upload{FileName: "id card.png", Content: pngBytes(t, 200, 150)}
	res, err := m.ProcessUpload(ctx, up, "idCardImage", "Small Project Register", "SPR-0001")
	if err != nil {
		t.Fatalf("ProcessUpload() error = %v", err)
	}
	if res.MimeType != "image/png" {
		t.Errorf("MimeType = %q", res.MimeType)
	}
	if res.FileName != "id_card.png" {
		t.Errorf("FileName = %q, want sanitized id_card.png", res.FileName)
	}
	if res.Reused {
		t.Error("fresh upload marked reused")
	}
	if len(ms.atts) != 1 {
		t.Fatalf("stored attachments = %d, want 1", len(ms.atts))
	}
}

func TestProcessUploadDeduplicates(t *testing.T) {
	ms := &memAttachmentStore{}
	m := NewManager(ms)
	ctx := context.Background()

	content := pngBytes(t, 200, 150)
	first, err := m.ProcessUpload(ctx, &Upload{FileName: "a.png", Content: content},
		"idCardImage", "Small Project Register", "SPR-0001")
	if err != nil {
		t.Fatalf("first upload error = %v", err)
	}

	second, err := m.ProcessUpload(ctx, &Upload{FileName: "b.png", Content: content},
		"idCardImage", "Small Project Register", "SPR-0001")
	if err != nil {
		t.Fatalf("second upload error = %v", err)
	}
	if !second.Reused {
		t.Error("duplicate content not marked reused")
	}
	if second.AttachmentID != first.AttachmentID {
		t.Error("duplicate created a new attachment")
	}
	if len(ms.atts) != 1 {
		t.Errorf("stored attachments = %d, want 1", len(ms.atts))
	}
}

func TestProcessMultipleEnforcesMax(t *testing.T) {
	ms := &memAttachmentStore{}
	m := NewManager(ms)
	ctx := context.Background()

	uploads := []*Upload{
		{FileName: "1.png", Content: pngBytes(t, 120, 120)},
		{FileName: "2.png", Content: pngBytes(t, 130, 130)},
		{FileName: "3.png", Content: pngBytes(t, 140, 140)},
		{FileName: "4.png", Content: pngBytes(t, 150, 150)},
	}
	results, errs := m.ProcessMultiple(ctx, uploads, "files", "Promote Project", "PP-0001")
	if len(results) != 0 {
		t.Errorf("results = %d, want 0 when over max", len(results))
	}
	if len(errs) != 1 || !strings.Contains(errs[0].Reason, "maximum 3") {
		t.Errorf("errs = %+v, want single max-files error", errs)
	}
}

func TestProcessMultiplePartialFailure(t *testing.T) {
	ms := &memAttachmentStore{}
	m := NewManager(ms)
	ctx := context.Background()

	uploads := []*Upload{
		{FileName: "good.png", Content: pngBytes(t, 120, 120)},
		{FileName: "bad.png", Content: []byte("not an image at all")},
	}
	results, errs := m.ProcessMultiple(ctx, uploads, "files", "Promote Project", "PP-0001")
	if len(results) != 1 {
		t.Errorf("results = %d, want 1", len(results))
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %d, want 1", len(errs))
	}
	if errs[0].Index != 1 {
		t.Errorf("error index = %d, want 1", errs[0].Index)
	}
}

func TestAttachToDocument(t *testing.T) {
	ms := &memAttachmentStore{}
	m := NewManager(ms)
	ctx := context.Background()

	uploads := map[string][]*Upload{
		"idCardImage": {{FileName: "id.png", Content: pngBytes(t, 200, 200)}},
		// A field the form does not define must be ignored.
		"cvFile": {{FileName: "cv.pdf", Content: pdfBytes}},
	}
	results := m.AttachToDocument(ctx, "Small Project Register", "SPR-0001", "small-project-register", uploads)
	if !results.Success {
		t.Errorf("Success = false, errors: %+v", results.Errors)
	}
	if len(results.Attached) != 1 {
		t.Fatalf("attached = %d, want 1 (cvFile not in form mapping)", len(results.Attached))
	}
	if results.Attached[0].Field != "idCardImage" {
		t.Errorf("attached field = %q", results.Attached[0].Field)
	}
}

func TestAttachToDocumentBestEffort(t *testing.T) {
	ms := &memAttachmentStore{}
	m := NewManager(ms)
	ctx := context.Background()

	uploads := map[string][]*Upload{
		"idCardImage": {{FileName: "id.exe", Content: []byte{0x4d, 0x5a, 0x00}}},
	}
	results := m.AttachToDocument(ctx, "Small Project Register", "SPR-0001", "small-project-register", uploads)
	if results.Success {
		t.Error("Success = true with rejected file")
	}
	if len(results.Errors) != 1 {
		t.Errorf("errors = %d, want 1", len(results.Errors))
	}
	if len(results.Attached) != 0 {
		t.Errorf("attached = %d, want 0", len(results.Attached))
	}
}

func TestFieldsForForm(t *testing.T) {
	if got := FieldsForForm("contract-opportunity"); len(got) != 1 || got[0] != "cvFile" {
		t.Errorf("FieldsForForm(contract-opportunity) = %v", got)
	}
	if got := FieldsForForm("contact-form"); got != nil {
		t.Errorf("FieldsForForm(contact-form) = %v, want nil", got)
	}
}

func TestValidateUploads(t *testing.T) {
	good := &Upload{FileName: "id-card.png", Content: pngBytes(t, 120, 120)}

	if errs := ValidateUploads("small-project-register", map[string][]*Upload{"idCardImage": {good}}); len(errs) != 0 {
		t.Errorf("valid upload rejected: %+v", errs)
	}

	tests := []struct {
		name    string
		uploads map[string][]*Upload
	}{
		{"bad extension", map[string][]*Upload{
			"idCardImage": {{FileName: "malware.exe", Content: []byte("MZ")}},
		}},
		{"oversize", map[string][]*Upload{
			"idCardImage": {{FileName: "big.png", Content: make([]byte, 11*1024*1024)}},
		}},
		{"missing name", map[string][]*Upload{
			"idCardImage": {{Content: []byte("x")}},
		}},
		{"empty content", map[string][]*Upload{
			"idCardImage": {{FileName: "id.png"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateUploads("small-project-register", tt.uploads)
			if len(errs) != 1 {
				t.Fatalf("errors = %+v, want 1", errs)
			}
			if errs[0].Field != "idCardImage" {
				t.Errorf("field = %q", errs[0].Field)
			}
		})
	}

	// Fields the form does not accept are ignored here; the attach
	// pipeline drops them later.
	if errs := ValidateUploads("small-project-register", map[string][]*Upload{"cvFile": {good}}); len(errs) != 0 {
		t.Errorf("foreign field reported: %+v", errs)
	}

	// Content-level problems are left to the attach pipeline.
	exe := &Upload{FileName: "id-card.png", Content: []byte("MZ\x90\x00")}
	if errs := ValidateUploads("small-project-register", map[string][]*Upload{"idCardImage": {exe}}); len(errs) != 0 {
		t.Errorf("content scanning ran before storage: %+v", errs)
	}
}

func TestValidateUploadsTooManyFiles(t *testing.T) {
	img := pngBytes(t, 120, 120)
	ups := []*Upload{
		{FileName: "a.png", Content: img},
		{FileName: "b.png", Content: img},
		{FileName: "c.png", Content: img},
		{FileName: "d.png", Content: img},
	}
	errs := ValidateUploads("promote-project", map[string][]*Upload{"files": ups})
	if len(errs) != 1 || !strings.Contains(errs[0].Reason, "maximum 3") {
		t.Errorf("errors = %+v, want max-files rejection", errs)
	}
}
