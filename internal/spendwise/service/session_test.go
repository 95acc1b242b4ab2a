package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spendwise-app/spendwise/pkg/jwtx"
)

func newSessions(ttl time.Duration) *SessionService {
	return &SessionService{Codec: jwtx.NewCodec([]byte("session-test-secret"), "spendwise", ttl)}
}

func TestSessionValidate(t *testing.T) {
	svc := newSessions(time.Hour)

	token, err := svc.Issue("user@x.com")
	require.NoError(t, err)

	require.True(t, svc.Validate(token, "user@x.com"))

	t.Run("subject mismatch", func(t *testing.T) {
		require.False(t, svc.Validate(token, "other@y.com"))
	})

	t.Run("garbage token", func(t *testing.T) {
		require.False(t, svc.Validate("not-a-token", "user@x.com"))
	})

	t.Run("expired", func(t *testing.T) {
		short := newSessions(-time.Minute)
		stale, err := short.Issue("user@x.com")
		require.NoError(t, err)
		require.False(t, short.Validate(stale, "user@x.com"))
	})
}

func TestSessionExtractSubject(t *testing.T) {
	svc := newSessions(time.Hour)

	token, err := svc.Issue("user@x.com")
	require.NoError(t, err)

	subject, err := svc.ExtractSubject(token)
	require.NoError(t, err)
	require.Equal(t, "user@x.com", subject)

	_, err = svc.ExtractSubject("not-a-token")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}
