package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spendwise-app/spendwise/pkg/jwtx"
)

func sessionHandler(t *testing.T) (http.Handler, *jwtx.Codec) {
	t.Helper()
	codec := jwtx.NewCodec([]byte("test-secret"), "spendwise", time.Hour)

	var inner http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, _ := SessionEmail(r.Context())
		WriteJSON(w, r, http.StatusOK, map[string]string{"email": email})
	})
	return Chain(inner, SessionMiddleware(codec, ""), RequireAuth), codec
}

func TestSessionFromBearerHeader(t *testing.T) {
	h, codec := sessionHandler(t)
	token, err := codec.Sign("alice@example.com", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/expense/all", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "alice@example.com", body["email"])
}

func TestSessionFromCookie(t *testing.T) {
	h, codec := sessionHandler(t)
	token, err := codec.Sign("bob@example.com", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/expense/all", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerHeaderWinsOverCookie(t *testing.T) {
	h, codec := sessionHandler(t)
	headerToken, err := codec.Sign("header@example.com", time.Now())
	require.NoError(t, err)
	cookieToken, err := codec.Sign("cookie@example.com", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/expense/all", nil)
	req.Header.Set("Authorization", "Bearer "+headerToken)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookieToken})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "header@example.com", body["email"])
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	h, _ := sessionHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/expense/all", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, true, body["error"])
	require.Equal(t, false, body["authentication"])
	require.Equal(t, "/expense/all", body["path"])
	require.EqualValues(t, http.StatusUnauthorized, body["status"])
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	h, _ := sessionHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/expense/all", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
