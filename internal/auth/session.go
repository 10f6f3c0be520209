package auth

import (
	"context"

	"forum/internal/models"
)

// UserLookup loads an account by id. Missing accounts yield a NotFound AppError.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// SessionResolver derives the request identity from a session token.
type SessionResolver struct {
	tokens *TokenCodec
	users  UserLookup
}

func NewSessionResolver(tokens *TokenCodec, users UserLookup) *SessionResolver {
	return &SessionResolver{tokens: tokens, users: users}
}

// Resolve returns (nil, nil) for an empty token, meaning an anonymous caller.
// Any verification failure is Unauthenticated. The role comes from the token;
// storage is not consulted.
func (r *SessionResolver) Resolve(token string) (*models.Identity, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := r.tokens.Verify(token)
	if err != nil {
		return nil, &models.AppError{
			Kind:    models.KindUnauthenticated,
			Message: models.MsgInvalidToken,
			Err:     err,
		}
	}
	return &models.Identity{SubjectID: claims.Subject, Role: claims.Role}, nil
}

// ResolveUser resolves the token and then confirms the subject still exists.
// A token whose account was deleted is Unauthenticated.
func (r *SessionResolver) ResolveUser(ctx context.Context, token string) (*models.User, error) {
	identity, err := r.Resolve(token)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, models.NewUnauthenticatedError(models.MsgAuthRequired)
	}

	user, err := r.users.GetByID(ctx, identity.SubjectID)
	if err != nil {
		if models.IsKind(err, models.KindNotFound) {
			return nil, models.NewUnauthenticatedError(models.MsgInvalidToken)
		}
		return nil, err
	}
	return user, nil
}
