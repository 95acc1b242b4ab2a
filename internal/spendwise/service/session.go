package service

import (
	"time"

	"github.com/spendwise-app/spendwise/pkg/jwtx"
)

// SessionService issues and inspects the session tokens that back both the
// cookie and the bearer header.
type SessionService struct {
	Codec *jwtx.Codec
}

// Issue signs a session token for the account.
func (s *SessionService) Issue(email string) (string, error) {
	return s.Codec.Sign(email, time.Now())
}

// TTL reports the issued token lifetime, used to bound the session cookie.
func (s *SessionService) TTL() time.Duration {
	return s.Codec.TTL()
}

// ExtractSubject returns the account email a token was issued for.
// Malformed input reports jwtx.ErrMalformed.
func (s *SessionService) ExtractSubject(token string) (string, error) {
	claims, err := s.Codec.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.Email(), nil
}

// Validate reports whether a token is live and bound to the given email.
func (s *SessionService) Validate(token, email string) bool {
	subject, err := s.ExtractSubject(token)
	return err == nil && subject == email
}
