package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spendwise-app/spendwise/internal/spendwise/service"
	"github.com/spendwise-app/spendwise/internal/spendwise/store/drivers/sqlite"
	"github.com/spendwise-app/spendwise/pkg/httpx"
	"github.com/spendwise-app/spendwise/pkg/jwtx"
)

type sentMail struct {
	kind string
	to   string
	code string
}

type fakeSender struct {
	sent []sentMail
}

func (f *fakeSender) SendWelcome(_ context.Context, to, _ string) error {
	f.sent = append(f.sent, sentMail{kind: "welcome", to: to})
	return nil
}

func (f *fakeSender) SendVerifyOTP(_ context.Context, to, code string) error {
	f.sent = append(f.sent, sentMail{kind: "verify", to: to, code: code})
	return nil
}

func (f *fakeSender) SendResetOTP(_ context.Context, to, code string) error {
	f.sent = append(f.sent, sentMail{kind: "reset", to: to, code: code})
	return nil
}

func (f *fakeSender) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1].code
}

type fixture struct {
	router *Router
	sender *fakeSender

	// requests get distinct client IPs so the per-IP rate limit never
	// interferes with test flows
	nextIP int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })

	sender := &fakeSender{}
	codec := jwtx.NewCodec([]byte("test-secret"), "spendwise", 24*time.Hour)

	rt := NewRouter("test", st, httpx.NewRateLimiter(stop), slog.New(slog.DiscardHandler))
	rt.Identity = &service.IdentityService{Store: st, Mail: sender}
	rt.Sessions = &service.SessionService{Codec: codec}
	rt.Records = &service.RecordService{Store: st}
	rt.Stats = &service.StatsService{Store: st}
	rt.ApplyRoutes()

	return &fixture{router: rt, sender: sender}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	f.nextIP++
	req.RemoteAddr = fmt.Sprintf("10.1.%d.%d:4000", f.nextIP/250, f.nextIP%250)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (f *fixture) registerAccount(t *testing.T, email string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/register", "", map[string]string{
		"name": "Alice", "email": email, "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func (f *fixture) login(t *testing.T, email string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": email, "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	return decodeBody(t, rec)["token"].(string)
}

func TestRegisterEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, false, body["error"])
	require.Equal(t, "Registration successful", body["message"])
	data := body["data"].(map[string]any)
	require.Equal(t, "alice@example.com", data["email"])
	require.Equal(t, false, data["verified"])

	rec = f.do(t, http.MethodPost, "/register", "", map[string]string{
		"name": "Other", "email": "alice@example.com", "password": "another-pass",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Email already exists", decodeBody(t, rec)["message"])
}

func TestLoginEndpoint(t *testing.T) {
	f := newFixture(t)
	f.registerAccount(t, "alice@example.com")

	rec := f.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "alice@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "alice@example.com", body["email"])
	require.NotEmpty(t, body["token"])

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == httpx.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	require.Equal(t, 86400, cookie.MaxAge)

	for _, password := range []string{"wrong-pass", ""} {
		rec := f.do(t, http.MethodPost, "/login", "", map[string]string{
			"email": "alice@example.com", "password": password,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Email or password is incorrect", decodeBody(t, rec)["message"])
	}

	// Unknown accounts get the same message.
	rec = f.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "nobody@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Email or password is incorrect", decodeBody(t, rec)["message"])
}

func TestIsAuthenticatedEndpoint(t *testing.T) {
	f := newFixture(t)
	f.registerAccount(t, "alice@example.com")

	rec := f.do(t, http.MethodGet, "/is-authenticated", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, decodeBody(t, rec)["authenticated"])

	token := f.login(t, "alice@example.com")
	rec = f.do(t, http.MethodGet, "/is-authenticated", token, nil)
	body := decodeBody(t, rec)
	require.Equal(t, true, body["authenticated"])
	require.Equal(t, "alice@example.com", body["email"])
}

func TestLogoutEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Logged out successfully", decodeBody(t, rec)["message"])

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == httpx.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.Empty(t, cookie.Value)
	require.Negative(t, cookie.MaxAge)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/profile", "/expense/all", "/income/all", "/stats", "/stats/chart"} {
		rec := f.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)

		body := decodeBody(t, rec)
		require.Equal(t, true, body["error"])
		require.Equal(t, false, body["authentication"])
		require.Equal(t, path, body["path"])
		require.EqualValues(t, http.StatusUnauthorized, body["status"])
	}
}

func TestProfileEndpoint(t *testing.T) {
	f := newFixture(t)
	f.registerAccount(t, "alice@example.com")
	token := f.login(t, "alice@example.com")

	rec := f.do(t, http.MethodGet, "/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, false, body["error"])
	data := body["data"].(map[string]any)
	require.Equal(t, "Alice", data["name"])
	require.Equal(t, "alice@example.com", data["email"])
}

func TestVerifyOTPEndpoints(t *testing.T) {
	f := newFixture(t)
	f.registerAccount(t, "alice@example.com")

	rec := f.do(t, http.MethodPost, "/send-otp?email=alice@example.com", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OTP sent successfully to your email", decodeBody(t, rec)["message"])
	code := f.sender.lastCode(t)

	rec = f.do(t, http.MethodPost, "/send-otp?email=nobody@example.com", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/verify-otp", "", map[string]string{"email": "alice@example.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "OTP is required", decodeBody(t, rec)["message"])

	rec = f.do(t, http.MethodPost, "/verify-otp", "", map[string]string{"otp": code})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Email is required", decodeBody(t, rec)["message"])

	rec = f.do(t, http.MethodPost, "/verify-otp", "", map[string]string{
		"email": "alice@example.com", "otp": "000000",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid OTP. Please check and try again.", decodeBody(t, rec)["message"])

	rec = f.do(t, http.MethodPost, "/verify-otp", "", map[string]string{
		"email": "alice@example.com", "otp": code,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Account verified successfully", decodeBody(t, rec)["message"])

	// Consumed: a replay reports no pending code.
	rec = f.do(t, http.MethodPost, "/verify-otp", "", map[string]string{
		"email": "alice@example.com", "otp": code,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "No OTP found. Please request a new OTP.", decodeBody(t, rec)["message"])
}

func TestResetPasswordEndpoints(t *testing.T) {
	f := newFixture(t)
	f.registerAccount(t, "alice@example.com")

	rec := f.do(t, http.MethodPost, "/send-reset-otp?email=alice@example.com", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	code := f.sender.lastCode(t)

	rec = f.do(t, http.MethodPost, "/reset-password", "", map[string]string{
		"email": "alice@example.com", "otp": code, "newPassword": "abc",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Password must be at least 6 characters long", decodeBody(t, rec)["message"])

	rec = f.do(t, http.MethodPost, "/reset-password", "", map[string]string{
		"email": "alice@example.com", "otp": code, "newPassword": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Password reset successfully", decodeBody(t, rec)["message"])

	// Old password no longer works, new one does.
	rec = f.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "alice@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "alice@example.com", "password": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestExpenseCRUDEndpoints(t *testing.T) {
	f := newFixture(t)
	f.registerAccount(t, "alice@example.com")
	token := f.login(t, "alice@example.com")

	rec := f.do(t, http.MethodPost, "/expense", token, map[string]any{
		"title": "Groceries", "category": "food", "date": "2026-08-20", "amount": 4250,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	id := created["id"].(string)
	require.NotEmpty(t, id)
	require.Equal(t, "2026-08-20", created["date"])

	rec = f.do(t, http.MethodPost, "/expense", token, map[string]any{
		"title": "", "date": "2026-08-20", "amount": 100,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/expense/all", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = f.do(t, http.MethodGet, "/expense/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPut, "/expense/"+id, token, map[string]any{
		"title": "Weekly groceries", "category": "food", "date": "2026-08-21", "amount": 4600,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Weekly groceries", decodeBody(t, rec)["title"])

	rec = f.do(t, http.MethodDelete, "/expense/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/expense/"+id, token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Expense not found", decodeBody(t, rec)["message"])

	rec = f.do(t, http.MethodGet, "/expense/not-a-real-id", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordsAreOwnerScoped(t *testing.T) {
	f := newFixture(t)
	f.registerAccount(t, "alice@example.com")
	f.registerAccount(t, "bob@example.com")
	aliceToken := f.login(t, "alice@example.com")
	bobToken := f.login(t, "bob@example.com")

	rec := f.do(t, http.MethodPost, "/income", aliceToken, map[string]any{
		"title": "Salary", "date": "2026-08-01", "amount": 500000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody(t, rec)["id"].(string)

	rec = f.do(t, http.MethodGet, "/income/"+id, bobToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/income/all", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Empty(t, list)
}

func TestStatsEndpoints(t *testing.T) {
	f := newFixture(t)
	f.registerAccount(t, "alice@example.com")
	token := f.login(t, "alice@example.com")

	rec := f.do(t, http.MethodGet, "/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decodeBody(t, rec)
	require.EqualValues(t, 0, empty["income"])
	require.EqualValues(t, 0, empty["balance"])
	require.Nil(t, empty["minIncome"])

	today := time.Now().UTC().Format("2006-01-02")
	rec = f.do(t, http.MethodPost, "/income", token, map[string]any{
		"title": "Salary", "date": today, "amount": 500000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = f.do(t, http.MethodPost, "/expense", token, map[string]any{
		"title": "Rent", "date": today, "amount": 180000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/stats", token, nil)
	body := decodeBody(t, rec)
	require.EqualValues(t, 500000, body["income"])
	require.EqualValues(t, 180000, body["expense"])
	require.EqualValues(t, 320000, body["balance"])
	require.Equal(t, "Salary", body["latestIncome"].(map[string]any)["title"])

	rec = f.do(t, http.MethodGet, "/stats/chart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	chart := decodeBody(t, rec)
	require.Len(t, chart["expenseList"], 1)
	require.Len(t, chart["incomeList"], 1)

	rec = f.do(t, http.MethodGet, "/stats/chart/30", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/stats/chart/abc", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = f.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody(t, rec)["database"])
}
