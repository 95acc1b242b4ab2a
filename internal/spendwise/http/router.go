// Package http wires the public API surface. Routes use Go 1.22 method
// patterns on a plain ServeMux; cross-cutting behaviour lives in pkg/httpx
// middlewares.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spendwise-app/spendwise/internal/spendwise/service"
	"github.com/spendwise-app/spendwise/internal/spendwise/store"
	"github.com/spendwise-app/spendwise/pkg/httpx"
	"github.com/spendwise-app/spendwise/pkg/slogx"

	_ "github.com/spendwise-app/spendwise/api/spendwise" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	Identity *service.IdentityService
	Sessions *service.SessionService
	Records  *service.RecordService
	Stats    *service.StatsService

	CookieName   string
	CookieSecure bool

	limiter *httpx.RateLimiter
}

func NewRouter(
	buildVersion string,
	st store.Store,
	limiter *httpx.RateLimiter,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		limiter:      limiter,
		logger:       logger,
		CookieName:   httpx.SessionCookie,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	// The session gate is soft: it binds the account when a valid token is
	// present and leaves rejection to RequireAuth on protected groups.
	r.middlewares = append(r.middlewares,
		httpx.SessionMiddleware(r.Sessions.Codec, r.CookieName))

	r.registerAuth()
	r.registerProfile()
	r.registerOTP()
	r.registerRecords()
	r.registerStats()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Spendwise API
//	@version		0.1.0
//	@description	Personal finance tracker backend: accounts with email OTP
//	@description	verification, password reset, expense and income tracking
//	@description	and dashboard statistics.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// protected wraps a handler with the auth requirement and the default rate
// limit.
func (r *Router) protected(h http.Handler) http.Handler {
	return httpx.Chain(h,
		r.limiter.Limit(httpx.DefaultLimit),
		httpx.RequireAuth,
	)
}

// credential wraps a handler with the tight limit used on endpoints that
// accept passwords or OTP codes.
func (r *Router) credential(h http.Handler) http.Handler {
	return httpx.Chain(h, r.limiter.Limit(httpx.StrictLimit))
}
