package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"forum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memoryUsers is an in-memory CredentialStore and UserLookup.
type memoryUsers struct {
	mu     sync.Mutex
	nextID uint
	byName map[string]*models.User

	getByUsernameErr error
	createErr        error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byName: map[string]*models.User{}}
}

func (m *memoryUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getByUsernameErr != nil {
		return nil, m.getByUsernameErr
	}
	u, ok := m.byName[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memoryUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byName {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.NewNotFoundError("User", id)
}

func (m *memoryUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byName[user.Username]; ok {
		return models.NewConflictError("Username already taken")
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	cp := *user
	m.byName[user.Username] = &cp
	return nil
}

func (m *memoryUsers) delete(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byName, username)
}

func newTestAuthenticator(t *testing.T) (*Authenticator, *memoryUsers, *TokenCodec) {
	t.Helper()
	users := newMemoryUsers()
	codec, err := NewTokenCodec(testSecret, time.Hour, WithIssuer("forum-api"))
	require.NoError(t, err)
	return NewAuthenticator(users, NewBcryptHasher(bcrypt.MinCost), codec), users, codec
}

func assertKind(t *testing.T, err error, kind models.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T", err)
	assert.Equal(t, kind, appErr.Kind)
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	t.Parallel()
	a, users, codec := newTestAuthenticator(t)
	ctx := context.Background()

	id, err := a.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.NotZero(t, id)

	stored, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, stored.Role)
	assert.NotEqual(t, "pw1", stored.PasswordHash)

	session, err := a.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, models.PublicUser{ID: id, Username: "alice", Role: models.RoleUser}, session.User)

	claims, err := codec.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Subject)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.True(t, claims.ExpiresAt.Equal(session.ExpiresAt))
}

func TestLoginCarriesStoredRole(t *testing.T) {
	t.Parallel()
	a, users, codec := newTestAuthenticator(t)
	ctx := context.Background()

	_, err := a.Register(ctx, "root", "pw")
	require.NoError(t, err)
	users.mu.Lock()
	users.byName["root"].Role = models.RoleAdmin
	users.mu.Unlock()

	session, err := a.Login(ctx, "root", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, session.User.Role)

	claims, err := codec.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()
	a, _, _ := newTestAuthenticator(t)
	ctx := context.Background()

	_, err := a.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = a.Register(ctx, "alice", "other")
	assertKind(t, err, models.KindConflict)
}

func TestRegisterUsernameIsCaseSensitive(t *testing.T) {
	t.Parallel()
	a, _, _ := newTestAuthenticator(t)
	ctx := context.Background()

	first, err := a.Register(ctx, "Alice", "pw")
	require.NoError(t, err)
	second, err := a.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestRegisterRaceLoserGetsConflict(t *testing.T) {
	t.Parallel()
	a, users, _ := newTestAuthenticator(t)
	users.createErr = models.NewConflictError("Username already taken")

	_, err := a.Register(context.Background(), "alice", "pw")
	assertKind(t, err, models.KindConflict)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	a, _, _ := newTestAuthenticator(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pw"},
		{"empty password", "alice", ""},
		{"both empty", "", ""},
		{"padded username", " alice ", "pw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(context.Background(), tt.username, tt.password)
			assertKind(t, err, models.KindValidation)
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()
	a, _, _ := newTestAuthenticator(t)
	ctx := context.Background()

	_, err := a.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, wrongPassword := a.Login(ctx, "alice", "nope")
	_, unknownUser := a.Login(ctx, "bob", "pw1")

	assertKind(t, wrongPassword, models.KindInvalidCredentials)
	assertKind(t, unknownUser, models.KindInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginPropagatesStorageFailure(t *testing.T) {
	t.Parallel()
	a, users, _ := newTestAuthenticator(t)
	users.getByUsernameErr = models.NewStorageError(errors.New("connection refused"))

	_, err := a.Login(context.Background(), "alice", "pw")
	assertKind(t, err, models.KindStorage)
}
