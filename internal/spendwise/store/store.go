// Package store defines the persistence boundary. Drivers live under
// drivers/ and satisfy these interfaces; services only ever see this
// package.
package store

import (
	"context"
	"errors"

	"github.com/spendwise-app/spendwise/internal/spendwise/domain"
	"github.com/spendwise-app/spendwise/pkg/idx"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrAlreadyExists is returned on unique constraint violations.
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root persistence handle.
type Store interface {
	Users() UserRepo
	Records() RecordRepo

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// UserRepo persists accounts and drives the OTP lifecycle. The consume
// operations are single statements so an OTP can never be half-cleared.
type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// SetVerifyOTP stores a pending verification code fingerprint with its
	// absolute expiry in epoch milliseconds.
	SetVerifyOTP(ctx context.Context, email, otpHash string, expiresAt int64) error
	// ConsumeVerifyOTP marks the account verified and clears the pending
	// verification code in one statement.
	ConsumeVerifyOTP(ctx context.Context, email string) error

	SetResetOTP(ctx context.Context, email, otpHash string, expiresAt int64) error
	// ConsumeResetOTP replaces the password hash and clears the pending
	// reset code in one statement.
	ConsumeResetOTP(ctx context.Context, email, passwordHash string) error

	// ClearExpiredOTPs clears verify and reset codes whose expiry lapsed
	// before the cutoff, returning how many accounts were touched.
	ClearExpiredOTPs(ctx context.Context, cutoff int64) (int64, error)
}

// Aggregate holds per-collection summary figures. Min and Max are nil when
// the owner has no records of that kind.
type Aggregate struct {
	Total float64
	Min   *float64
	Max   *float64
}

// RecordRepo persists expense and income entries. Every read and write is
// scoped to an owning account.
type RecordRepo interface {
	Create(ctx context.Context, r *domain.Record, kind domain.Kind) error
	Get(ctx context.Context, kind domain.Kind, owner, id idx.ID) (domain.Record, error)
	ListByOwner(ctx context.Context, kind domain.Kind, owner idx.ID) ([]domain.Record, error)
	ListByOwnerBetween(ctx context.Context, kind domain.Kind, owner idx.ID, from, to domain.Date) ([]domain.Record, error)
	Update(ctx context.Context, r *domain.Record, kind domain.Kind) error
	Delete(ctx context.Context, kind domain.Kind, owner, id idx.ID) error

	// Aggregate computes sum, min and max of amounts for one collection.
	Aggregate(ctx context.Context, kind domain.Kind, owner idx.ID) (Aggregate, error)
	// LatestByDate returns the most recent record of a kind, ErrNotFound
	// when the collection is empty.
	LatestByDate(ctx context.Context, kind domain.Kind, owner idx.ID) (domain.Record, error)
}
