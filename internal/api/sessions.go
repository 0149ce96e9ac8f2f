// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package api

import (
	"context"

	"github.com/enjaz-platform/formgate/internal/forms"
	"github.com/enjaz-platform/formgate/internal/session"
)

// NewSessionResolver builds the session recreation function over the
// submission pipeline. The resolved view carries the applicant name, the
// first project name when one exists, and the record status.
func NewSessionResolver(svc *forms.Service) session.Resolver {
	return func(ctx context.Context, tok string) (*session.Session, error) {
		doc, err := svc.FindByToken(ctx, tok)
		if err != nil {
			return nil, err
		}

		sess := &session.Session{
			DocumentName: doc.Name,
		}
		if v, ok := doc.Fields["full_name"].(string); ok {
			sess.ApplicantName = v
		} else if v, ok := doc.Fields["family_name"].(string); ok {
			sess.ApplicantName = v
		}
		if v, ok := doc.Fields["status"].(string); ok {
			sess.Status = v
		}
		if rows := doc.Tables["project"]; len(rows) > 0 {
			if v, ok := rows[0]["project_name"].(string); ok {
				sess.ProjectName = v
			}
		}
		return sess, nil
	}
}
