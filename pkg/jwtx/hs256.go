package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spendwise-app/spendwise/pkg/idx"
)

var (
	// ErrMalformed is returned for tokens that do not parse as JWTs at all.
	ErrMalformed = errors.New("jwtx: malformed token")
	// ErrExpired is returned for well-formed tokens past their expiry.
	ErrExpired = errors.New("jwtx: token expired")
	// ErrInvalid covers bad signatures and every other verification failure.
	ErrInvalid = errors.New("jwtx: invalid token")
)

// Codec signs and verifies session tokens with a shared HMAC secret.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewCodec builds a Codec. The ttl bounds every token it issues.
func NewCodec(secret []byte, issuer string, ttl time.Duration) *Codec {
	return &Codec{secret: secret, issuer: issuer, ttl: ttl}
}

// TTL reports the lifetime applied to issued tokens.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Sign issues a session token for the given account email.
func (c *Codec) Sign(email string, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        idx.New().String(),
			Issuer:    c.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a session token, returning its claims.
func (c *Codec) Verify(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return c.secret, nil
	},
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	switch {
	case err == nil:
		return &claims, nil
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	default:
		return nil, ErrInvalid
	}
}
