// Package service implements the application logic between the HTTP layer
// and the store. Each failure mode is a sentinel the HTTP layer matches
// with errors.Is.
package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
	ErrNotFound           = errors.New("not_found")

	ErrNoOTPPending = errors.New("no_otp_pending")
	ErrOTPMismatch  = errors.New("otp_mismatch")
	ErrOTPExpired   = errors.New("otp_expired")

	ErrWeakPassword       = errors.New("weak_password")
	ErrNotificationFailed = errors.New("notification_failed")

	ErrRecordNotFound = errors.New("record_not_found")
	ErrInvalidRecord  = errors.New("invalid_record")
)
