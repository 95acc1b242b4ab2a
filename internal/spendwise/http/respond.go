package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spendwise-app/spendwise/internal/spendwise/domain"
	"github.com/spendwise-app/spendwise/internal/spendwise/store"
	"github.com/spendwise-app/spendwise/pkg/httpx"
	"github.com/spendwise-app/spendwise/pkg/slogx"
)

// errorResponse is the {error, message} envelope used by the account
// endpoints.
type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// statusResponse is the {success, message} envelope used by the OTP
// endpoints.
type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	httpx.WriteJSON(w, r, status, errorResponse{Error: true, Message: message})
}

func writeStatus(w http.ResponseWriter, r *http.Request, status int, ok bool, message string) {
	httpx.WriteJSON(w, r, status, statusResponse{Success: ok, Message: message})
}

// writeInternal logs the underlying failure and hides it behind a generic
// message.
func writeInternal(w http.ResponseWriter, r *http.Request, err error, message string) {
	slogx.FromContext(r.Context()).Error("request failed", "error", err)
	writeError(w, r, http.StatusInternalServerError, message)
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// sessionUser resolves the authenticated account. Routes behind RequireAuth
// always have a session email; a missing row at this point means the
// account vanished under a live token.
func (rt *Router) sessionUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	email, ok := httpx.SessionEmail(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "User not authenticated")
		return domain.User{}, false
	}

	user, err := rt.store.Users().GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, r, http.StatusUnauthorized, "User not authenticated")
		} else {
			writeInternal(w, r, err, "Something went wrong")
		}
		return domain.User{}, false
	}
	return user, true
}
