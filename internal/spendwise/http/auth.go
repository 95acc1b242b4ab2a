package http

import (
	"errors"
	"net/http"

	"github.com/spendwise-app/spendwise/internal/spendwise/service"
	"github.com/spendwise-app/spendwise/pkg/httpx"
	"github.com/spendwise-app/spendwise/pkg/slogx"
)

func (rt *Router) registerAuth() {
	rt.Mux.Handle("POST /login", rt.credential(http.HandlerFunc(rt.handleLogin)))
	rt.Mux.Handle("POST /logout", http.HandlerFunc(rt.handleLogout))
	rt.Mux.Handle("GET /is-authenticated", http.HandlerFunc(rt.handleIsAuthenticated))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// handleLogin godoc
//
//	@Summary	Log in with email and password
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		loginRequest	true	"Credentials"
//	@Success	200		{object}	loginResponse	"Session token, also set as cookie"
//	@Failure	400		{object}	errorResponse	"Invalid credentials"
//	@Router		/login [post].
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}

	user, err := rt.Identity.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Info("login rejected", "email", req.Email)
			writeError(w, r, http.StatusBadRequest, "Email or password is incorrect")
			return
		}
		writeInternal(w, r, err, "Authentication failed")
		return
	}

	token, err := rt.Sessions.Issue(user.Email)
	if err != nil {
		writeInternal(w, r, err, "Authentication failed")
		return
	}

	rt.setSessionCookie(w, token)
	httpx.NoCache(w)
	httpx.WriteJSON(w, r, http.StatusOK, loginResponse{Email: user.Email, Token: token})
}

// handleLogout godoc
//
//	@Summary	Clear the session cookie
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	statusResponse
//	@Router		/logout [post].
func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	rt.clearSessionCookie(w)
	writeStatus(w, r, http.StatusOK, true, "Logged out successfully")
}

// handleIsAuthenticated godoc
//
//	@Summary	Report whether the request carries a live session
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	map[string]any	"authenticated flag, email when authenticated"
//	@Router		/is-authenticated [get].
func (rt *Router) handleIsAuthenticated(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{"authenticated": false}
	if email, ok := httpx.SessionEmail(r.Context()); ok {
		response["authenticated"] = true
		response["email"] = email
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, r, http.StatusOK, response)
}

func (rt *Router) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     rt.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(rt.Sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   rt.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (rt *Router) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     rt.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   rt.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
