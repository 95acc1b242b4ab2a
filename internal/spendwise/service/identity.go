package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spendwise-app/spendwise/internal/spendwise/domain"
	"github.com/spendwise-app/spendwise/internal/spendwise/mail"
	"github.com/spendwise-app/spendwise/internal/spendwise/store"
	"github.com/spendwise-app/spendwise/pkg/cryptox"
	"github.com/spendwise-app/spendwise/pkg/idx"
	"github.com/spendwise-app/spendwise/pkg/slogx"
)

const (
	// MinPasswordLength is the floor below which a password is rejected.
	MinPasswordLength = 6

	// VerifyOTPTTL bounds account verification codes.
	VerifyOTPTTL = 24 * time.Hour
	// ResetOTPTTL bounds password reset codes.
	ResetOTPTTL = 10 * time.Minute
)

// IdentityService owns the account lifecycle: registration, login
// credentials, email verification and password reset. OTP codes are single
// use, stored as fingerprints with an absolute epoch-millisecond expiry.
type IdentityService struct {
	Store store.Store
	Mail  mail.Sender

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (s *IdentityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Register creates a new unverified account. The welcome mail is best
// effort: a delivery failure is logged and the registration still succeeds.
func (s *IdentityService) Register(ctx context.Context, name, email, password string) (domain.Profile, error) {
	l := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	// 1. Hash the password
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Profile{}, err
	}

	// 2. Insert the account, relying on the unique email constraint
	user := domain.User{
		ID:           idx.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.Store.Users().Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Profile{}, ErrEmailTaken
		}
		return domain.Profile{}, err
	}

	// 3. Welcome mail, best effort
	if err := s.Mail.SendWelcome(ctx, email, name); err != nil {
		l.Warn("welcome mail failed", slog.String("email", email), "error", err)
	}

	l.Info("account registered", slog.String("user_id", user.ID.String()))
	return user.Profile(), nil
}

// Authenticate checks login credentials. Unknown email and wrong password
// collapse into the same error so callers cannot enumerate accounts.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.Store.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if cryptox.VerifyPassword(password, user.PasswordHash) != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Profile returns the client-facing view of an account.
func (s *IdentityService) Profile(ctx context.Context, email string) (domain.Profile, error) {
	user, err := s.Store.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, ErrNotFound
		}
		return domain.Profile{}, err
	}
	return user.Profile(), nil
}

// SendVerifyOTP issues a fresh verification code, replacing any pending
// one, and emails it. Already-verified accounts are a silent no-op. When
// the mail bounces the stored code stays valid and ErrNotificationFailed
// is returned.
func (s *IdentityService) SendVerifyOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if user.Verified {
		return nil
	}

	code, err := cryptox.GenerateOTP()
	if err != nil {
		return err
	}

	expiresAt := s.now().Add(VerifyOTPTTL).UnixMilli()
	if err := s.Store.Users().SetVerifyOTP(ctx, email, cryptox.FingerprintToken(code), expiresAt); err != nil {
		return err
	}

	if err := s.Mail.SendVerifyOTP(ctx, email, code); err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	return nil
}

// VerifyOTP consumes a verification code and marks the account verified.
// Validation order: account exists, a code is pending, the code matches,
// the code has not expired.
func (s *IdentityService) VerifyOTP(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if user.VerifyOTPHash == "" {
		return ErrNoOTPPending
	}
	if cryptox.FingerprintToken(strings.TrimSpace(code)) != user.VerifyOTPHash {
		return ErrOTPMismatch
	}
	if s.now().UnixMilli() > user.VerifyOTPExpiresAt {
		return ErrOTPExpired
	}

	if err := s.Store.Users().ConsumeVerifyOTP(ctx, email); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("account verified", slog.String("user_id", user.ID.String()))
	return nil
}

// SendResetOTP issues a password reset code. Reset codes are issued whether
// or not the account has verified its email.
func (s *IdentityService) SendResetOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	if _, err := s.Store.Users().GetByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	code, err := cryptox.GenerateOTP()
	if err != nil {
		return err
	}

	expiresAt := s.now().Add(ResetOTPTTL).UnixMilli()
	if err := s.Store.Users().SetResetOTP(ctx, email, cryptox.FingerprintToken(code), expiresAt); err != nil {
		return err
	}

	if err := s.Mail.SendResetOTP(ctx, email, code); err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	return nil
}

// ResetPassword consumes a reset code and replaces the password. The
// strength check runs before the OTP chain so a weak password always
// reports as weak, even alongside a bad or expired code.
func (s *IdentityService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if len(strings.TrimSpace(newPassword)) < MinPasswordLength {
		return ErrWeakPassword
	}

	if user.ResetOTPHash == "" {
		return ErrNoOTPPending
	}
	if cryptox.FingerprintToken(strings.TrimSpace(code)) != user.ResetOTPHash {
		return ErrOTPMismatch
	}
	if s.now().UnixMilli() > user.ResetOTPExpiresAt {
		return ErrOTPExpired
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.Users().ConsumeResetOTP(ctx, email, hash); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("password reset", slog.String("user_id", user.ID.String()))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
