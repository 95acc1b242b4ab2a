package httpx

import (
	"net/http"
	"strings"

	"github.com/spendwise-app/spendwise/pkg/jwtx"
	"github.com/spendwise-app/spendwise/pkg/slogx"
)

// SessionCookie is the cookie that carries the session token for browser
// clients. API clients use the Authorization header instead.
const SessionCookie = "jwt"

// TokenVerifier validates a session token and yields its claims.
type TokenVerifier interface {
	Verify(token string) (*jwtx.Claims, error)
}

// SessionMiddleware resolves the session token, Authorization bearer first
// and then the session cookie, and stamps the account email onto the
// request context. It never rejects: unauthenticated requests pass through
// untouched and RequireAuth decides per route. An empty cookieName falls
// back to SessionCookie.
func SessionMiddleware(verifier TokenVerifier, cookieName string) Middleware {
	if cookieName == "" {
		cookieName = SessionCookie
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if c, err := r.Cookie(cookieName); err == nil {
					token = c.Value
				}
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				slogx.FromContext(r.Context()).Debug("session token rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithSessionEmail(r.Context(), claims.Email())
			ctx = slogx.WithContext(ctx, slogx.FromContext(ctx).With("session_email", claims.Email()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carry no authenticated session with the
// uniform 401 envelope clients key off.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionEmail(r.Context()); !ok {
			WriteJSON(w, r, http.StatusUnauthorized, map[string]any{
				"error":          true,
				"authentication": false,
				"message":        "Authentication is required to access this resource",
				"path":           r.URL.Path,
				"status":         http.StatusUnauthorized,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
