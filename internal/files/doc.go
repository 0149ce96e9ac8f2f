// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

/*
Package files validates and stores file uploads attached to submissions.

Each file field has a closed configuration (allowed MIME types, extensions,
size limit, file count). Validation layers, in order: extension check, MIME
sniffing of the actual content, size bounds, image header decode with
dimension bounds, and a scan for executable signatures and embedded script
fragments.

Accepted content is hashed with SHA-256; identical content re-uploaded to the
same document reuses the stored attachment instead of writing a copy.

Attachment is best effort. A rejected file never fails an otherwise valid
submission; rejections are reported in the response and recorded in the audit
trail by the caller.
*/
package files
