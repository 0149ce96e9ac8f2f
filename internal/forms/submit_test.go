// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package forms

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/enjaz-platform/formgate/internal/files"
	"github.com/enjaz-platform/formgate/internal/store"
	"github.com/enjaz-platform/formgate/internal/token"
)

func newTestService(t *testing.T) (*Service, *store.BadgerStore) {
	t.Helper()
	s, err := store.Open("", true)
	if err != nil {
		t.Fatalf("opening in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewService(s, files.NewManager(s), nil, 5), s
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 120))
	for x := 0; x < 120; x++ {
		for y := 0; y < 120; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestSubmitStoresDocument(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	res, err := svc.Submit(ctx, &SubmitRequest{
		FormType: "small-project-register",
		Data:     smallProjectSubmission(),
		Token:    "TOKEN-12345",
		SourceIP: "203.0.113.7",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.Doctype != "Micro Enterprise Request" {
		t.Errorf("doctype = %q", res.Doctype)
	}
	if res.Status != "Open" {
		t.Errorf("status = %q, want Open", res.Status)
	}

	doc, err := st.GetByField(ctx, "Micro Enterprise Request", "token_id", "TOKEN-12345")
	if err != nil {
		t.Fatalf("token lookup after submit: %v", err)
	}
	if doc.Name != res.RecordID {
		t.Errorf("looked up %q, submitted %q", doc.Name, res.RecordID)
	}
	if doc.Fields["token_id"] != "TOKEN-12345" {
		t.Errorf("token_id = %v", doc.Fields["token_id"])
	}
	if len(doc.Tables["project"]) != 1 || len(doc.Tables["address_details"]) != 1 {
		t.Errorf("child tables = %v", doc.Tables)
	}
}

func TestSubmitDuplicateTokenRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := func() *SubmitRequest {
		return &SubmitRequest{
			FormType: "small-project-register",
			Data:     smallProjectSubmission(),
			Token:    "TOKEN-12345",
		}
	}
	if _, err := svc.Submit(ctx, req()); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err := svc.Submit(ctx, req())
	var te *TokenError
	if !errors.As(err, &te) {
		t.Fatalf("second submit error = %v, want TokenError", err)
	}
	if !te.Duplicate {
		t.Error("TokenError.Duplicate = false")
	}
	if te.Existing == "" {
		t.Error("TokenError.Existing is empty")
	}
}

func TestSubmitMalformedToken(t *testing.T) {
	svc, _ := newTestService(t)

	for _, tok := range []string{"ab", "token with spaces", "tok;drop"} {
		_, err := svc.Submit(context.Background(), &SubmitRequest{
			FormType: "contact-form",
			Data:     map[string]any{"fullName": "A", "phone": "777123456", "subject": "s", "message": "m"},
			Token:    tok,
		})
		var te *TokenError
		if !errors.As(err, &te) || te.Duplicate {
			t.Errorf("token %q: error = %v, want format TokenError", tok, err)
		}
	}
}

func TestSubmitUnknownFormType(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Submit(context.Background(), &SubmitRequest{FormType: "no-such-form"})
	if !errors.Is(err, ErrUnknownFormType) {
		t.Errorf("error = %v, want ErrUnknownFormType", err)
	}
}

func TestSubmitValidationFailure(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, &SubmitRequest{
		FormType: "small-project-register",
		Data:     map[string]any{"email": "bad"},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(ve.FieldErrors) == 0 {
		t.Error("no field errors collected")
	}

	// Nothing was persisted.
	n, err := st.Count(ctx, "Micro Enterprise Request")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("stored documents = %d, want 0", n)
	}
}

func TestSubmitInlineBase64Attachment(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	data := smallProjectSubmission()
	data["idCardImage_base64"] = base64.StdEncoding.EncodeToString(testPNG(t))
	data["idCardImage_filename"] = "id-card.png"

	res, err := svc.Submit(ctx, &SubmitRequest{
		FormType: "small-project-register",
		Data:     data,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.Attachments == nil || !res.Attachments.Success {
		t.Fatalf("attachments = %+v", res.Attachments)
	}
	if len(res.Attachments.Attached) != 1 {
		t.Fatalf("attached = %d, want 1", len(res.Attachments.Attached))
	}
	if res.Attachments.Attached[0].FileName != "id-card.png" {
		t.Errorf("file name = %q", res.Attachments.Attached[0].FileName)
	}

	atts, err := svc.Attachments(ctx, res.Doctype, res.RecordID)
	if err != nil {
		t.Fatalf("Attachments: %v", err)
	}
	if len(atts) != 1 {
		t.Errorf("stored attachments = %d, want 1", len(atts))
	}
}

func TestSubmitRejectsInvalidFileBeforeStoring(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	data := smallProjectSubmission()
	data["idCardImage_base64"] = base64.StdEncoding.EncodeToString([]byte("MZ\x90\x00 payload"))
	data["idCardImage_filename"] = "malware.exe"

	_, err := svc.Submit(ctx, &SubmitRequest{
		FormType: "small-project-register",
		Data:     data,
	})
	var fe *FileError
	if !errors.As(err, &fe) {
		t.Fatalf("Submit() error = %v, want FileError", err)
	}
	if len(fe.Errors) != 1 || fe.Errors[0].Field != "idCardImage" {
		t.Errorf("file errors = %+v", fe.Errors)
	}

	// Nothing was persisted.
	n, _ := st.Count(ctx, "Micro Enterprise Request")
	if n != 0 {
		t.Errorf("stored documents = %d, want 0", n)
	}
}

func TestSubmitRejectsOversizeFile(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	data := smallProjectSubmission()
	data["idCardImage_base64"] = base64.StdEncoding.EncodeToString(make([]byte, 11*1024*1024))
	data["idCardImage_filename"] = "id-card.png"

	_, err := svc.Submit(ctx, &SubmitRequest{
		FormType: "small-project-register",
		Data:     data,
	})
	var fe *FileError
	if !errors.As(err, &fe) {
		t.Fatalf("Submit() error = %v, want FileError", err)
	}

	n, _ := st.Count(ctx, "Micro Enterprise Request")
	if n != 0 {
		t.Errorf("stored documents = %d, want 0", n)
	}
}

func TestSubmitBadAttachmentDegrades(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	data := smallProjectSubmission()
	// Executable content masquerading as an image.
	data["idCardImage_base64"] = base64.StdEncoding.EncodeToString([]byte("MZ\x90\x00 definitely not a png"))
	data["idCardImage_filename"] = "id-card.png"

	res, err := svc.Submit(ctx, &SubmitRequest{
		FormType: "small-project-register",
		Data:     data,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v, attachment failures must not fail the submission", err)
	}
	if res.Attachments == nil || res.Attachments.Success {
		t.Errorf("attachments = %+v, want rejection recorded", res.Attachments)
	}

	n, _ := st.Count(ctx, "Micro Enterprise Request")
	if n != 1 {
		t.Errorf("stored documents = %d, want 1", n)
	}
}

func TestSubmitDataURLPrefix(t *testing.T) {
	uploads := extractInlineFiles(map[string]any{
		"idCardImage_base64": "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("payload")),
	}, nil)

	ups := uploads["idCardImage"]
	if len(ups) != 1 {
		t.Fatalf("uploads = %d, want 1", len(ups))
	}
	if string(ups[0].Content) != "payload" {
		t.Errorf("content = %q", ups[0].Content)
	}
	if ups[0].FileName != "idCardImage" {
		t.Errorf("fallback file name = %q", ups[0].FileName)
	}
}

func TestSubmitGeneratesTokenWhenNoneSupplied(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Submit(ctx, &SubmitRequest{
		FormType: "contact-form",
		Data:     map[string]any{"fullName": "A", "phone": "777123456", "subject": "s", "message": "m"},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.Token == "" {
		t.Fatal("no token assigned")
	}
	if !token.ValidateFormat(res.Token) {
		t.Errorf("token %q does not match the generated format", res.Token)
	}

	doc, err := svc.FindByToken(ctx, res.Token)
	if err != nil {
		t.Fatalf("FindByToken(%q): %v", res.Token, err)
	}
	if doc.Name != res.RecordID {
		t.Errorf("found %q, want %q", doc.Name, res.RecordID)
	}
	if doc.Fields["token_id"] != res.Token {
		t.Errorf("token_id = %v", doc.Fields["token_id"])
	}
}

func TestFindByToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Submit(ctx, &SubmitRequest{
		FormType: "small-project-register",
		Data:     smallProjectSubmission(),
		Token:    "TOKEN-ABCDE",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	doc, err := svc.FindByToken(ctx, "TOKEN-ABCDE")
	if err != nil {
		t.Fatalf("FindByToken: %v", err)
	}
	if doc.Name != res.RecordID {
		t.Errorf("found %q, want %q", doc.Name, res.RecordID)
	}

	if _, err := svc.FindByToken(ctx, "TOKEN-MISSING"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing token error = %v, want ErrNotFound", err)
	}

	var te *TokenError
	if _, err := svc.FindByToken(ctx, "x"); !errors.As(err, &te) {
		t.Errorf("short token error = %v, want TokenError", err)
	}
}

func TestCountByDoctype(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Submit(ctx, &SubmitRequest{
			FormType: "contact-form",
			Data:     map[string]any{"fullName": "A", "phone": "777123456", "subject": "s", "message": "m"},
		}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	counts, err := svc.CountByDoctype(ctx)
	if err != nil {
		t.Fatalf("CountByDoctype: %v", err)
	}
	if counts["Contact Inquiry"] != 2 {
		t.Errorf("Contact Inquiry count = %d, want 2", counts["Contact Inquiry"])
	}
	if counts["Micro Enterprise Request"] != 0 {
		t.Errorf("Micro Enterprise Request count = %d, want 0", counts["Micro Enterprise Request"])
	}
}
