package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken    = errors.New("invalid or expired session")
	ErrMissingToken    = errors.New("session cookie required")
	ErrUnauthenticated = errors.New("you must be logged in to perform this action")
)

// DefaultSessionTTL is the lifetime of a freshly issued session.
const DefaultSessionTTL = time.Hour

// Claims are the identity attributes embedded in a session token.
// Only UserID and Email are authoritative; profile fields are carried for
// display and must be re-read from the user record for anything sensitive.
type Claims struct {
	UserID      string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	PhotoURL    string `json:"picture,omitempty"`
	Guest       bool   `json:"guest,omitempty"`
	jwt.RegisteredClaims
}

// Validate rejects tokens whose payload does not have the expected shape.
// It is called by the jwt parser after the registered claims are checked.
func (c *Claims) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("missing uid claim")
	}
	if strings.TrimSpace(c.Email) == "" {
		return errors.New("missing email claim")
	}
	if c.Guest != IsGuestID(c.UserID) {
		return errors.New("guest flag does not match uid")
	}
	return nil
}

// ExpiresAtTime returns the absolute expiry, or the zero time if unset.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Codec issues and verifies signed session tokens.
type Codec struct {
	secretKey []byte
	issuer    string
	now       func() time.Time
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithClock overrides the time source. Used by tests to advance time.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.now = now
	}
}

// WithIssuer sets the iss claim written and required by the codec.
func WithIssuer(issuer string) CodecOption {
	return func(c *Codec) {
		c.issuer = issuer
	}
}

// NewCodec creates a codec signing with HMAC-SHA256.
// secretKey should be a strong random string (e.g., 32 bytes).
func NewCodec(secretKey string, opts ...CodecOption) *Codec {
	c := &Codec{
		secretKey: []byte(secretKey),
		issuer:    "budgetwise",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue signs claims with an absolute expiry of now+ttl (UTC) and returns
// the token together with that expiry.
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, time.Time, error) {
	now := c.now().UTC()
	expiresAt := now.Add(ttl)

	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	tokenString, err := token.SignedString(c.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	// The exp claim has second precision; report what was actually signed.
	return tokenString, claims.ExpiresAt.Time, nil
}

// Verify parses and validates a token. Any failure (malformed, bad
// signature, other key, expired, wrong shape) yields ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			return c.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// VerifySession implements Verifier with in-process verification.
func (c *Codec) VerifySession(_ context.Context, tokenString string) (*Claims, error) {
	return c.Verify(tokenString)
}
