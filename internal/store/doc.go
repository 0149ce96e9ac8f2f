// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

/*
Package store persists form submissions as documents in BadgerDB.

A Document carries flat parent fields plus child table rows. Selected fields
(the submission token) are written as index entries alongside the document,
so token lookups and uniqueness checks are point reads rather than scans.

Attachments are stored separately from documents with a per-document content
hash marker that lets the upload pipeline skip duplicate file content.

The Store interface is the persistence port consumed by the submission
pipeline; BadgerStore is the production implementation. Tests use an
in-memory BadgerDB via Open("", true).
*/
package store
