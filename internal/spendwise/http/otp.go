package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/spendwise-app/spendwise/internal/spendwise/service"
)

func (rt *Router) registerOTP() {
	rt.Mux.Handle("POST /send-otp", rt.credential(http.HandlerFunc(rt.handleSendVerifyOTP)))
	rt.Mux.Handle("POST /verify-otp", rt.credential(http.HandlerFunc(rt.handleVerifyOTP)))
	rt.Mux.Handle("POST /send-reset-otp", rt.credential(http.HandlerFunc(rt.handleSendResetOTP)))
	rt.Mux.Handle("POST /reset-password", rt.credential(http.HandlerFunc(rt.handleResetPassword)))
}

// handleSendVerifyOTP godoc
//
//	@Summary	Email a verification code to an account
//	@Tags		OTP
//	@Produce	json
//	@Param		email	query		string	true	"Account email"
//	@Success	200		{object}	statusResponse
//	@Failure	404		{object}	statusResponse	"Unknown account"
//	@Failure	500		{object}	statusResponse	"Delivery failure"
//	@Router		/send-otp [post].
func (rt *Router) handleSendVerifyOTP(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeStatus(w, r, http.StatusBadRequest, false, "Email is required")
		return
	}

	err := rt.Identity.SendVerifyOTP(r.Context(), email)
	switch {
	case err == nil:
		writeStatus(w, r, http.StatusOK, true, "OTP sent successfully to your email")
	case errors.Is(err, service.ErrNotFound):
		writeStatus(w, r, http.StatusNotFound, false, "User not found")
	case errors.Is(err, service.ErrNotificationFailed):
		writeStatus(w, r, http.StatusInternalServerError, false, "Unable to send email")
	default:
		writeInternal(w, r, err, "Failed to send OTP")
	}
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// handleVerifyOTP godoc
//
//	@Summary	Verify an account with an emailed code
//	@Tags		OTP
//	@Accept		json
//	@Produce	json
//	@Param		request	body		verifyOTPRequest	true	"Email and code"
//	@Success	200		{object}	statusResponse
//	@Failure	400		{object}	statusResponse	"Missing, wrong or expired code"
//	@Router		/verify-otp [post].
func (rt *Router) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeStatus(w, r, http.StatusBadRequest, false, "Malformed request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeStatus(w, r, http.StatusBadRequest, false, "Email is required")
		return
	}
	if strings.TrimSpace(req.OTP) == "" {
		writeStatus(w, r, http.StatusBadRequest, false, "OTP is required")
		return
	}

	err := rt.Identity.VerifyOTP(r.Context(), req.Email, req.OTP)
	switch {
	case err == nil:
		writeStatus(w, r, http.StatusOK, true, "Account verified successfully")
	case errors.Is(err, service.ErrNotFound):
		writeStatus(w, r, http.StatusNotFound, false, "User not found")
	case errors.Is(err, service.ErrNoOTPPending):
		writeStatus(w, r, http.StatusBadRequest, false, "No OTP found. Please request a new OTP.")
	case errors.Is(err, service.ErrOTPMismatch):
		writeStatus(w, r, http.StatusBadRequest, false, "Invalid OTP. Please check and try again.")
	case errors.Is(err, service.ErrOTPExpired):
		writeStatus(w, r, http.StatusBadRequest, false, "OTP has expired. Please request a new OTP.")
	default:
		writeInternal(w, r, err, "Failed to verify OTP")
	}
}

// handleSendResetOTP godoc
//
//	@Summary	Email a password reset code to an account
//	@Tags		OTP
//	@Produce	json
//	@Param		email	query		string	true	"Account email"
//	@Success	200		{object}	statusResponse
//	@Failure	404		{object}	statusResponse	"Unknown account"
//	@Failure	500		{object}	statusResponse	"Delivery failure"
//	@Router		/send-reset-otp [post].
func (rt *Router) handleSendResetOTP(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeStatus(w, r, http.StatusBadRequest, false, "Email is required")
		return
	}

	err := rt.Identity.SendResetOTP(r.Context(), email)
	switch {
	case err == nil:
		writeStatus(w, r, http.StatusOK, true, "OTP sent successfully to your email")
	case errors.Is(err, service.ErrNotFound):
		writeStatus(w, r, http.StatusNotFound, false, "User not found")
	case errors.Is(err, service.ErrNotificationFailed):
		writeStatus(w, r, http.StatusInternalServerError, false, "Unable to send the email. Please try again.")
	default:
		writeInternal(w, r, err, "Failed to send OTP")
	}
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// handleResetPassword godoc
//
//	@Summary	Reset a password with an emailed code
//	@Tags		OTP
//	@Accept		json
//	@Produce	json
//	@Param		request	body		resetPasswordRequest	true	"Email, code, new password"
//	@Success	200		{object}	statusResponse
//	@Failure	400		{object}	statusResponse	"Weak password, missing, wrong or expired code"
//	@Router		/reset-password [post].
func (rt *Router) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeStatus(w, r, http.StatusBadRequest, false, "Malformed request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeStatus(w, r, http.StatusBadRequest, false, "Email is required")
		return
	}
	if strings.TrimSpace(req.OTP) == "" {
		writeStatus(w, r, http.StatusBadRequest, false, "OTP is required")
		return
	}

	err := rt.Identity.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword)
	switch {
	case err == nil:
		writeStatus(w, r, http.StatusOK, true, "Password reset successfully")
	case errors.Is(err, service.ErrNotFound):
		writeStatus(w, r, http.StatusNotFound, false, "User not found")
	case errors.Is(err, service.ErrWeakPassword):
		writeStatus(w, r, http.StatusBadRequest, false, "Password must be at least 6 characters long")
	case errors.Is(err, service.ErrNoOTPPending):
		writeStatus(w, r, http.StatusBadRequest, false, "No OTP found. Please request a new OTP.")
	case errors.Is(err, service.ErrOTPMismatch):
		writeStatus(w, r, http.StatusBadRequest, false, "Invalid OTP. Please check and try again.")
	case errors.Is(err, service.ErrOTPExpired):
		writeStatus(w, r, http.StatusBadRequest, false, "OTP has expired. Please request a new OTP.")
	default:
		writeInternal(w, r, err, "Failed to reset password")
	}
}
