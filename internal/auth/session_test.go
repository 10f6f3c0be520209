package auth

import (
	"context"
	"testing"
	"time"

	"forum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAnonymous(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t, &fakeClock{t: time.Now()})
	r := NewSessionResolver(codec, newMemoryUsers())

	identity, err := r.Resolve("")
	assert.NoError(t, err)
	assert.Nil(t, identity)
}

func TestResolveValidToken(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t, &fakeClock{t: time.Now()})
	r := NewSessionResolver(codec, newMemoryUsers())

	token, err := codec.Issue(codec.ClaimsFor(5, models.RoleModerator))
	require.NoError(t, err)

	identity, err := r.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, &models.Identity{SubjectID: 5, Role: models.RoleModerator}, identity)
}

func TestResolveRejectsExpiredAndGarbage(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Now()}
	codec := newTestCodec(t, clock)
	r := NewSessionResolver(codec, newMemoryUsers())

	token, err := codec.Issue(codec.ClaimsFor(5, models.RoleUser))
	require.NoError(t, err)
	clock.t = clock.t.Add(25 * time.Hour)

	for _, tok := range []string{token, "garbage"} {
		identity, err := r.Resolve(tok)
		assert.Nil(t, identity)
		assertKind(t, err, models.KindUnauthenticated)
		assert.Equal(t, models.MsgInvalidToken, err.(*models.AppError).Message)
	}
}

func TestResolveUser(t *testing.T) {
	t.Parallel()
	users := newMemoryUsers()
	codec := newTestCodec(t, &fakeClock{t: time.Now()})
	r := NewSessionResolver(codec, users)
	ctx := context.Background()

	alice := &models.User{Username: "alice", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, users.Create(ctx, alice))
	token, err := codec.Issue(codec.ClaimsFor(alice.ID, alice.Role))
	require.NoError(t, err)

	got, err := r.ResolveUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = r.ResolveUser(ctx, "")
	assertKind(t, err, models.KindUnauthenticated)

	users.delete("alice")
	_, err = r.ResolveUser(ctx, token)
	assertKind(t, err, models.KindUnauthenticated)
}
