// Package jwtx issues and verifies the HS256 session tokens used by the
// API. Tokens carry the account email as subject and nothing else secret;
// authorization decisions always go back to the store.
package jwtx

import "github.com/golang-jwt/jwt/v5"

// Claims is the session token payload. Subject holds the account email.
type Claims struct {
	jwt.RegisteredClaims
}

// Email returns the account email the token was issued for.
func (c *Claims) Email() string {
	return c.Subject
}
