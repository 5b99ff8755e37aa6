package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPurpose distinguishes short-lived access tokens from long-lived
// refresh tokens. A token is only valid for the purpose it was issued with.
type TokenPurpose string

const (
	PurposeAccess  TokenPurpose = "access"
	PurposeRefresh TokenPurpose = "refresh"
)

// Claims is the JWT payload used across the service.
type Claims struct {
	Purpose TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed, expiring tokens. The signing key and
// TTLs are fixed at construction; the codec is safe for concurrent use.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	leeway     time.Duration

	// now is swappable for tests
	now func() time.Time
}

// NewTokenCodec builds a codec with independent access/refresh TTLs and an
// optional clock-skew leeway. A leeway of zero means exact expiry comparison.
func NewTokenCodec(secret []byte, accessTTL, refreshTTL, leeway time.Duration) *TokenCodec {
	return &TokenCodec{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		leeway:     leeway,
		now:        time.Now,
	}
}

// Issue signs a token binding subject to a validity window derived from the
// purpose's TTL.
func (c *TokenCodec) Issue(subject uuid.UUID, purpose TokenPurpose) (string, error) {
	ttl := c.accessTTL
	if purpose == PurposeRefresh {
		ttl = c.refreshTTL
	}

	now := c.now().UTC()
	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the subject and purpose.
// Expired tokens yield ErrTokenExpired; everything else that fails validation
// yields ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (uuid.UUID, TokenPurpose, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithLeeway(c.leeway), jwt.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, "", ErrTokenExpired
		}
		return uuid.Nil, "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return uuid.Nil, "", ErrInvalidToken
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}

	return subject, claims.Purpose, nil
}

// VerifyPurpose is Verify plus a purpose check, rejecting tokens presented
// for the wrong use (e.g. an access token sent to the refresh endpoint).
func (c *TokenCodec) VerifyPurpose(tokenString string, want TokenPurpose) (uuid.UUID, error) {
	subject, purpose, err := c.Verify(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	if purpose != want {
		return uuid.Nil, ErrInvalidToken
	}
	return subject, nil
}
