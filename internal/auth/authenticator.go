package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"forum/internal/models"
	"forum/internal/observability"
	"forum/internal/validation"
)

// CredentialStore is the subset of the user repository the authenticator needs.
// GetByUsername returns (nil, nil) when no account matches.
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// Session is the outcome of a successful login.
type Session struct {
	Token     string
	User      models.PublicUser
	ExpiresAt time.Time
}

// Authenticator registers accounts and exchanges credentials for session tokens.
type Authenticator struct {
	users  CredentialStore
	hasher Hasher
	tokens *TokenCodec

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAuthenticator(users CredentialStore, hasher Hasher, tokens *TokenCodec) *Authenticator {
	return &Authenticator{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a user-role account and returns its id.
func (a *Authenticator) Register(ctx context.Context, username, password string) (uint, error) {
	if err := (validation.Credentials{Username: username, Password: password}).Validate(); err != nil {
		observability.AuthAttempts.WithLabelValues("register", "invalid").Inc()
		return 0, models.NewValidationError(err.Error())
	}

	existing, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		observability.AuthAttempts.WithLabelValues("register", "conflict").Inc()
		return 0, models.NewConflictError("Username already taken")
	}

	digest, err := a.hasher.Hash(password)
	if err != nil {
		return 0, models.NewInternalError(err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: digest,
		Role:         models.RoleUser,
	}
	// A concurrent registration of the same name surfaces here as Conflict.
	if err := a.users.Create(ctx, user); err != nil {
		if models.IsKind(err, models.KindConflict) {
			observability.AuthAttempts.WithLabelValues("register", "conflict").Inc()
		}
		return 0, err
	}

	observability.AuthAttempts.WithLabelValues("register", "success").Inc()
	slog.InfoContext(ctx, "user registered", slog.Uint64("user_id", uint64(user.ID)))
	return user.ID, nil
}

// Login verifies credentials and issues a session token carrying the stored role.
// Unknown usernames and wrong passwords fail identically.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if user == nil {
		// Spend the same bcrypt work as a real comparison.
		a.hasher.Verify(password, a.placeholderDigest())
		observability.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, models.NewInvalidCredentialsError()
	}
	if !a.hasher.Verify(password, user.PasswordHash) {
		observability.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, models.NewInvalidCredentialsError()
	}

	claims := a.tokens.ClaimsFor(user.ID, user.Role)
	token, err := a.tokens.Issue(claims)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	observability.AuthAttempts.WithLabelValues("login", "success").Inc()
	return &Session{
		Token:     token,
		User:      models.NewPublicUser(user),
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

func (a *Authenticator) placeholderDigest() string {
	a.dummyOnce.Do(func() {
		digest, err := a.hasher.Hash("placeholder-password")
		if err == nil {
			a.dummyDigest = digest
		}
	})
	return a.dummyDigest
}
