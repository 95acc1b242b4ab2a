package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/spendwise-app/spendwise/internal/spendwise/domain"
	"github.com/spendwise-app/spendwise/internal/spendwise/store"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, name, email, password_hash, verified,
	verify_otp_hash, verify_otp_expires_at, reset_otp_hash, reset_otp_expires_at,
	created_at, updated_at`

func (r *usersRepo) Create(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, verified,
			verify_otp_hash, verify_otp_expires_at, reset_otp_hash, reset_otp_expires_at,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Name, u.Email, u.PasswordHash, u.Verified,
		u.VerifyOTPHash, u.VerifyOTPExpiresAt, u.ResetOTPHash, u.ResetOTPExpiresAt,
		u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) SetVerifyOTP(ctx context.Context, email, otpHash string, expiresAt int64) error {
	return r.exec(ctx, `
		UPDATE users
		SET verify_otp_hash = ?, verify_otp_expires_at = ?, updated_at = ?
		WHERE email = ?`,
		otpHash, expiresAt, time.Now().UTC(), email)
}

func (r *usersRepo) ConsumeVerifyOTP(ctx context.Context, email string) error {
	return r.exec(ctx, `
		UPDATE users
		SET verified = 1, verify_otp_hash = '', verify_otp_expires_at = 0, updated_at = ?
		WHERE email = ?`,
		time.Now().UTC(), email)
}

func (r *usersRepo) SetResetOTP(ctx context.Context, email, otpHash string, expiresAt int64) error {
	return r.exec(ctx, `
		UPDATE users
		SET reset_otp_hash = ?, reset_otp_expires_at = ?, updated_at = ?
		WHERE email = ?`,
		otpHash, expiresAt, time.Now().UTC(), email)
}

func (r *usersRepo) ConsumeResetOTP(ctx context.Context, email, passwordHash string) error {
	return r.exec(ctx, `
		UPDATE users
		SET password_hash = ?, reset_otp_hash = '', reset_otp_expires_at = 0, updated_at = ?
		WHERE email = ?`,
		passwordHash, time.Now().UTC(), email)
}

func (r *usersRepo) ClearExpiredOTPs(ctx context.Context, cutoff int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET verify_otp_hash = CASE WHEN verify_otp_expires_at > 0 AND verify_otp_expires_at < ?1 THEN '' ELSE verify_otp_hash END,
		    verify_otp_expires_at = CASE WHEN verify_otp_expires_at > 0 AND verify_otp_expires_at < ?1 THEN 0 ELSE verify_otp_expires_at END,
		    reset_otp_hash = CASE WHEN reset_otp_expires_at > 0 AND reset_otp_expires_at < ?1 THEN '' ELSE reset_otp_hash END,
		    reset_otp_expires_at = CASE WHEN reset_otp_expires_at > 0 AND reset_otp_expires_at < ?1 THEN 0 ELSE reset_otp_expires_at END
		WHERE (verify_otp_expires_at > 0 AND verify_otp_expires_at < ?1)
		   OR (reset_otp_expires_at > 0 AND reset_otp_expires_at < ?1)`,
		cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// exec runs an UPDATE keyed by email and maps a zero row count to
// store.ErrNotFound.
func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var id string
	err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &u.Verified,
		&u.VerifyOTPHash, &u.VerifyOTPExpiresAt, &u.ResetOTPHash, &u.ResetOTPExpiresAt,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.ID, err = parseID(id)
	return u, err
}
