package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spendwise-app/spendwise/internal/spendwise/store/drivers/sqlite"
)

type sentMail struct {
	kind string
	to   string
	code string
}

// fakeSender records every delivery and can be told to fail.
type fakeSender struct {
	sent []sentMail
	fail error
}

func (f *fakeSender) SendWelcome(_ context.Context, to, _ string) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, sentMail{kind: "welcome", to: to})
	return nil
}

func (f *fakeSender) SendVerifyOTP(_ context.Context, to, code string) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, sentMail{kind: "verify", to: to, code: code})
	return nil
}

func (f *fakeSender) SendResetOTP(_ context.Context, to, code string) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, sentMail{kind: "reset", to: to, code: code})
	return nil
}

func (f *fakeSender) last(t *testing.T) sentMail {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func newIdentity(t *testing.T) (*IdentityService, *fakeSender) {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	sender := &fakeSender{}
	return &IdentityService{Store: s, Mail: sender}, sender
}

func register(t *testing.T, svc *IdentityService, email string) {
	t.Helper()
	_, err := svc.Register(context.Background(), "Alice", email, "s3cret-pass")
	require.NoError(t, err)
}

func TestRegister(t *testing.T) {
	svc, sender := newIdentity(t)
	ctx := context.Background()

	profile, err := svc.Register(ctx, "Alice", "Alice@Example.com", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", profile.Email)
	require.Equal(t, "Alice", profile.Name)
	require.False(t, profile.Verified)
	require.Equal(t, "welcome", sender.last(t).kind)

	_, err = svc.Register(ctx, "Other", "alice@example.com", "another-pass")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	svc, sender := newIdentity(t)
	sender.fail = errors.New("relay down")

	profile, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", profile.Email)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newIdentity(t)
	ctx := context.Background()
	register(t, svc, "alice@example.com")

	user, err := svc.Authenticate(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown accounts report the same error as bad passwords.
	_, err = svc.Authenticate(ctx, "nobody@example.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyOTPFlow(t *testing.T) {
	svc, sender := newIdentity(t)
	ctx := context.Background()
	register(t, svc, "alice@example.com")

	require.NoError(t, svc.SendVerifyOTP(ctx, "alice@example.com"))
	code := sender.last(t).code
	require.Len(t, code, 6)

	require.ErrorIs(t, svc.VerifyOTP(ctx, "alice@example.com", "000000"), ErrOTPMismatch)
	require.NoError(t, svc.VerifyOTP(ctx, "alice@example.com", code))

	profile, err := svc.Profile(ctx, "alice@example.com")
	require.NoError(t, err)
	require.True(t, profile.Verified)

	// The code is single use.
	require.ErrorIs(t, svc.VerifyOTP(ctx, "alice@example.com", code), ErrNoOTPPending)

	// Verified accounts are a no-op, no new mail.
	before := len(sender.sent)
	require.NoError(t, svc.SendVerifyOTP(ctx, "alice@example.com"))
	require.Len(t, sender.sent, before)
}

func TestVerifyOTPErrors(t *testing.T) {
	svc, sender := newIdentity(t)
	ctx := context.Background()
	register(t, svc, "alice@example.com")

	require.ErrorIs(t, svc.SendVerifyOTP(ctx, "nobody@example.com"), ErrNotFound)
	require.ErrorIs(t, svc.VerifyOTP(ctx, "nobody@example.com", "123456"), ErrNotFound)
	require.ErrorIs(t, svc.VerifyOTP(ctx, "alice@example.com", "123456"), ErrNoOTPPending)

	require.NoError(t, svc.SendVerifyOTP(ctx, "alice@example.com"))
	code := sender.last(t).code

	// Past the 24h expiry. Mismatch still wins over expiry for wrong codes.
	svc.Now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	require.ErrorIs(t, svc.VerifyOTP(ctx, "alice@example.com", "000000"), ErrOTPMismatch)
	require.ErrorIs(t, svc.VerifyOTP(ctx, "alice@example.com", code), ErrOTPExpired)
}

func TestSendVerifyOTPMailFailureKeepsCode(t *testing.T) {
	svc, sender := newIdentity(t)
	ctx := context.Background()
	register(t, svc, "alice@example.com")

	sender.fail = errors.New("relay down")
	require.ErrorIs(t, svc.SendVerifyOTP(ctx, "alice@example.com"), ErrNotificationFailed)

	// The stored code survives the failed delivery: a retry replaces it and
	// a mismatching guess reports mismatch, not "none pending".
	require.ErrorIs(t, svc.VerifyOTP(ctx, "alice@example.com", "000000"), ErrOTPMismatch)

	sender.fail = nil
	require.NoError(t, svc.SendVerifyOTP(ctx, "alice@example.com"))
	require.NoError(t, svc.VerifyOTP(ctx, "alice@example.com", sender.last(t).code))
}

func TestResetPasswordFlow(t *testing.T) {
	svc, sender := newIdentity(t)
	ctx := context.Background()
	register(t, svc, "alice@example.com")

	require.NoError(t, svc.SendResetOTP(ctx, "alice@example.com"))
	code := sender.last(t).code

	require.NoError(t, svc.ResetPassword(ctx, "alice@example.com", code, "brand-new-pass"))

	_, err := svc.Authenticate(ctx, "alice@example.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "alice@example.com", "brand-new-pass")
	require.NoError(t, err)

	// The code is single use.
	require.ErrorIs(t, svc.ResetPassword(ctx, "alice@example.com", code, "yet-another-pass"), ErrNoOTPPending)
}

func TestResetPasswordErrors(t *testing.T) {
	svc, sender := newIdentity(t)
	ctx := context.Background()
	register(t, svc, "alice@example.com")

	require.ErrorIs(t, svc.SendResetOTP(ctx, "nobody@example.com"), ErrNotFound)
	require.ErrorIs(t, svc.ResetPassword(ctx, "nobody@example.com", "123456", "brand-new-pass"), ErrNotFound)
	require.ErrorIs(t, svc.ResetPassword(ctx, "alice@example.com", "123456", "brand-new-pass"), ErrNoOTPPending)

	require.NoError(t, svc.SendResetOTP(ctx, "alice@example.com"))
	code := sender.last(t).code

	// Weak passwords report as weak regardless of the code supplied.
	require.ErrorIs(t, svc.ResetPassword(ctx, "alice@example.com", code, "abc"), ErrWeakPassword)
	require.ErrorIs(t, svc.ResetPassword(ctx, "alice@example.com", "000000", "abc"), ErrWeakPassword)

	require.ErrorIs(t, svc.ResetPassword(ctx, "alice@example.com", "000000", "brand-new-pass"), ErrOTPMismatch)

	// Past the 10 minute expiry.
	svc.Now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	require.ErrorIs(t, svc.ResetPassword(ctx, "alice@example.com", code, "brand-new-pass"), ErrOTPExpired)
}
