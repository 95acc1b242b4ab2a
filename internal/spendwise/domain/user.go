// Package domain holds the core value types shared by the store, service
// and HTTP layers. Types carry no behaviour beyond simple derivations.
package domain

import (
	"time"

	"github.com/spendwise-app/spendwise/pkg/idx"
)

// User is a registered account. OTP codes are stored as fingerprints with an
// absolute epoch-millisecond expiry; hash and expiry are set and cleared
// together, so a zero expiry means no code is pending.
type User struct {
	ID           idx.ID
	Name         string
	Email        string
	PasswordHash string
	Verified     bool

	VerifyOTPHash      string
	VerifyOTPExpiresAt int64
	ResetOTPHash       string
	ResetOTPExpiresAt  int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the client-facing view of a User.
type Profile struct {
	ID       idx.ID `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// Profile projects the account into its client-facing view.
func (u User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Verified: u.Verified}
}
