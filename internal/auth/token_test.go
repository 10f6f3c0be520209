package auth

import (
	"strings"
	"testing"
	"time"

	"forum/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestCodec(t *testing.T, clock *fakeClock, opts ...CodecOption) *TokenCodec {
	t.Helper()
	opts = append([]CodecOption{WithIssuer("forum-api"), WithClock(clock.Now)}, opts...)
	codec, err := NewTokenCodec(testSecret, 24*time.Hour, opts...)
	require.NoError(t, err)
	return codec
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, clock)

	for _, role := range models.AllRoles() {
		claims := codec.ClaimsFor(42, role)
		token, err := codec.Issue(claims)
		require.NoError(t, err)

		got, err := codec.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, uint(42), got.Subject)
		assert.Equal(t, role, got.Role)
		assert.True(t, claims.IssuedAt.Equal(got.IssuedAt))
		assert.True(t, clock.t.Add(24*time.Hour).Equal(got.ExpiresAt))
	}
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, clock)

	token, err := codec.Issue(codec.ClaimsFor(7, models.RoleUser))
	require.NoError(t, err)

	clock.t = clock.t.Add(24 * time.Hour)
	_, err = codec.Verify(token)
	assert.NoError(t, err, "a token is valid at exactly its expiry instant")

	clock.t = clock.t.Add(time.Second)
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenTampered(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Now()}
	codec := newTestCodec(t, clock)

	token, err := codec.Issue(codec.ClaimsFor(7, models.RoleUser))
	require.NoError(t, err)

	// Re-sign an elevated payload with a different key.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "7",
		"role": "admin",
		"iss":  "forum-api",
		"iat":  clock.t.Unix(),
		"exp":  clock.t.Add(time.Hour).Unix(),
	})
	forgedToken, err := forged.SignedString([]byte("another-secret"))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forgedParts := strings.Split(forgedToken, ".")
	spliced := parts[0] + "." + forgedParts[1] + "." + parts[2]

	tests := map[string]string{
		"wrong key":        forgedToken,
		"swapped payload":  spliced,
		"truncated":        token[:len(token)-4],
		"garbage":          "not.a.token",
		"missing segments": parts[0] + "." + parts[1],
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Verify(tok)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Now()}
	codec := newTestCodec(t, clock)

	claims := jwt.MapClaims{
		"sub":  "7",
		"role": "admin",
		"iss":  "forum-api",
		"iat":  clock.t.Unix(),
		"exp":  clock.t.Add(time.Hour).Unix(),
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = codec.Verify(hs512)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = codec.Verify(none)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenRejectsBadClaims(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Now()}
	codec := newTestCodec(t, clock)

	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub":  "7",
			"role": "user",
			"iss":  "forum-api",
			"iat":  clock.t.Unix(),
			"exp":  clock.t.Add(time.Hour).Unix(),
		}
	}

	tests := []struct {
		name   string
		mutate func(jwt.MapClaims)
	}{
		{"unknown role", func(c jwt.MapClaims) { c["role"] = "superuser" }},
		{"missing role", func(c jwt.MapClaims) { delete(c, "role") }},
		{"zero subject", func(c jwt.MapClaims) { c["sub"] = "0" }},
		{"non numeric subject", func(c jwt.MapClaims) { c["sub"] = "alice" }},
		{"missing exp", func(c jwt.MapClaims) { delete(c, "exp") }},
		{"missing iat", func(c jwt.MapClaims) { delete(c, "iat") }},
		{"foreign issuer", func(c jwt.MapClaims) { c["iss"] = "someone-else" }},
		{"issued in the future", func(c jwt.MapClaims) { c["iat"] = clock.t.Add(time.Hour).Unix() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := base()
			tt.mutate(claims)
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
			require.NoError(t, err)

			_, err = codec.Verify(token)
			assert.Error(t, err)
		})
	}
}

func TestTokenAcceptsLegacyModeratorRole(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Now()}
	codec := newTestCodec(t, clock)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "9",
		"role": "mod",
		"iss":  "forum-api",
		"iat":  clock.t.Unix(),
		"exp":  clock.t.Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, claims.Role)
}

func TestIssueRejectsInvalidClaims(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t, &fakeClock{t: time.Now()})

	_, err := codec.Issue(codec.ClaimsFor(0, models.RoleUser))
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = codec.Issue(codec.ClaimsFor(1, models.Role(0)))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewTokenCodecRequiresSecret(t *testing.T) {
	t.Parallel()
	_, err := NewTokenCodec("", time.Hour)
	assert.Error(t, err)

	codec, err := NewTokenCodec("s", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, codec.TTL())
}
