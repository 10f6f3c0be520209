// Package service holds the business rules: every operation consults the
// authorization matrix before touching the repositories.
package service

import (
	"context"

	"forum/internal/authz"
	"forum/internal/models"
	"forum/internal/observability"
)

// authorize records the decision and turns a denial into Forbidden.
func authorize(ctx context.Context, id *models.Identity, action authz.Action, res authz.Resource) error {
	allowed := authz.CanPerform(id, action, res)

	decision := "deny"
	if allowed {
		decision = "allow"
	}
	observability.AuthzDecisions.WithLabelValues(action.String(), decision).Inc()
	observability.RecordDecision(ctx, action.String(), allowed)

	if !allowed {
		return models.NewForbiddenError()
	}
	return nil
}

// authorizeRead applies the published/draft visibility rule to a loaded post.
func authorizeRead(ctx context.Context, id *models.Identity, post *models.Post) error {
	action := authz.ActionReadDraft
	if post.IsPublished() {
		action = authz.ActionReadPublished
	}
	return authorize(ctx, id, action, authz.Owned(post.AuthorID))
}

func requireIdentity(id *models.Identity) error {
	if id == nil {
		return models.NewUnauthenticatedError(models.MsgAuthRequired)
	}
	return nil
}
