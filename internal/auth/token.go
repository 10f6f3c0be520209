package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"forum/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the session lifetime when none is configured.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the payload carried by a session token.
type Claims struct {
	Subject   uint
	Role      models.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type jwtClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenCodec signs and verifies HS256 session tokens. It holds no mutable state
// and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// CodecOption customizes a TokenCodec.
type CodecOption func(*TokenCodec)

// WithIssuer sets the iss claim written and required by the codec.
func WithIssuer(issuer string) CodecOption {
	return func(c *TokenCodec) { c.issuer = issuer }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) { c.now = now }
}

func NewTokenCodec(secret string, ttl time.Duration, opts ...CodecOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	c := &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL is the lifetime of issued tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// ClaimsFor builds claims for a fresh session starting now.
func (c *TokenCodec) ClaimsFor(subject uint, role models.Role) Claims {
	now := c.now().UTC().Truncate(time.Second)
	return Claims{
		Subject:   subject,
		Role:      role,
		IssuedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}
}

// Issue signs claims into a compact JWT.
func (c *TokenCodec) Issue(claims Claims) (string, error) {
	if claims.Subject == 0 {
		return "", fmt.Errorf("%w: subject must be set", ErrTokenInvalid)
	}
	if !claims.Role.IsValid() {
		return "", fmt.Errorf("%w: unknown role", ErrTokenInvalid)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(claims.Subject), 10),
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			ID:        uuid.NewString(),
		},
		Role: claims.Role.String(),
	})
	return token.SignedString(c.secret)
}

// Verify checks signature, algorithm, issuer, and expiry, and decodes the claims.
// A token stays valid up to and including its expiry instant.
func (c *TokenCodec) Verify(tokenString string) (Claims, error) {
	var parsed jwtClaims
	_, err := jwt.ParseWithClaims(tokenString, &parsed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// Time claims are checked below with zero leeway and the injected clock.
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if parsed.ExpiresAt == nil || parsed.IssuedAt == nil {
		return Claims{}, fmt.Errorf("%w: missing time claims", ErrTokenInvalid)
	}
	now := c.now()
	if now.After(parsed.ExpiresAt.Time) {
		return Claims{}, ErrTokenExpired
	}
	if parsed.IssuedAt.Time.After(now) {
		return Claims{}, fmt.Errorf("%w: issued in the future", ErrTokenInvalid)
	}
	if c.issuer != "" && parsed.Issuer != c.issuer {
		return Claims{}, fmt.Errorf("%w: unexpected issuer %q", ErrTokenInvalid, parsed.Issuer)
	}

	subject, err := strconv.ParseUint(parsed.Subject, 10, 0)
	if err != nil || subject == 0 {
		return Claims{}, fmt.Errorf("%w: bad subject", ErrTokenInvalid)
	}
	role, ok := models.ParseRole(parsed.Role)
	if !ok {
		return Claims{}, fmt.Errorf("%w: unknown role %q", ErrTokenInvalid, parsed.Role)
	}

	return Claims{
		Subject:   uint(subject),
		Role:      role,
		IssuedAt:  parsed.IssuedAt.Time.UTC(),
		ExpiresAt: parsed.ExpiresAt.Time.UTC(),
	}, nil
}
