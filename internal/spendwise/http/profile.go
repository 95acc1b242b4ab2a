package http

import (
	"errors"
	"net/http"

	"github.com/spendwise-app/spendwise/internal/spendwise/service"
	"github.com/spendwise-app/spendwise/pkg/httpx"
)

func (rt *Router) registerProfile() {
	rt.Mux.Handle("POST /register", rt.credential(http.HandlerFunc(rt.handleRegister)))
	rt.Mux.Handle("GET /profile", rt.protected(http.HandlerFunc(rt.handleProfile)))
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister godoc
//
//	@Summary	Create a new account
//	@Tags		Profile
//	@Accept		json
//	@Produce	json
//	@Param		request	body		registerRequest	true	"New account"
//	@Success	201		{object}	map[string]any	"error=false, message, data=profile"
//	@Failure	409		{object}	errorResponse	"Email already registered"
//	@Router		/register [post].
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}

	profile, err := rt.Identity.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, r, http.StatusConflict, "Email already exists")
		default:
			writeInternal(w, r, err, "Failed to create user")
		}
		return
	}

	httpx.WriteJSON(w, r, http.StatusCreated, map[string]any{
		"error":   false,
		"message": "Registration successful",
		"data":    profile,
	})
}

// handleProfile godoc
//
//	@Summary	Get the authenticated account's profile
//	@Tags		Profile
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	map[string]any	"error=false, data=profile"
//	@Failure	401	{object}	map[string]any
//	@Router		/profile [get].
func (rt *Router) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := rt.sessionUser(w, r)
	if !ok {
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, r, http.StatusOK, map[string]any{
		"error": false,
		"data":  user.Profile(),
	})
}
