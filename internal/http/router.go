package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cloudnotes/cloudnotes/internal/service"
	"github.com/cloudnotes/cloudnotes/internal/store"
	"github.com/cloudnotes/cloudnotes/pkg/httpx"
	"github.com/cloudnotes/cloudnotes/pkg/jwtx"
	"github.com/cloudnotes/cloudnotes/pkg/slogx"

	_ "github.com/cloudnotes/cloudnotes/api/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/oauth2"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       *jwtx.Signer
	prod         bool
	clientOrigin string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	OtpService        *service.OtpService
	UserService       *service.UserService
	NotesService      *service.NotesService
	FederationService *service.FederationService
	GoogleOAuth       *oauth2.Config // nil when federation is not configured
}

func NewRouter(
	signer *jwtx.Signer,
	prod bool,
	clientOrigin, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		prod:         prod,
		clientOrigin: clientOrigin,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORSMiddleware(httpx.CORSConfig{
			AllowedOrigins: []string{clientOrigin},
			AllowLocalhost: !prod,
		}),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerGoogle()
	r.registerNotes()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			CloudNotes API
//	@version		0.1.0
//	@description	Passwordless authentication (emailed one-time codes and Google login)
//	@description	with cookie-delivered JWT sessions, plus per-user notes.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:5000
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	signup := &SignupHandler{Otp: r.OtpService, Signer: r.signer, Prod: r.prod}
	login := &LoginHandler{Otp: r.OtpService, Signer: r.signer, Prod: r.prod}
	session := &SessionHandler{Users: r.UserService, Prod: r.prod}

	// The start/verify endpoints are the brute-force surface; strict IP
	// limits on all of them.
	r.Mux.Handle("POST /auth/signup/start",
		httpx.Chain(http.HandlerFunc(signup.HandleStart),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/signup/verify",
		httpx.Chain(http.HandlerFunc(signup.HandleVerify),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/login/start",
		httpx.Chain(http.HandlerFunc(login.HandleStart),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /auth/login/verify",
		httpx.Chain(http.HandlerFunc(login.HandleVerify),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Logout works without a session; it only clears the cookie.
	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(http.HandlerFunc(session.HandleLogout),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /auth/me",
		httpx.Chain(http.HandlerFunc(session.HandleMe),
			httpx.AuthnMiddleware(r.signer, SessionCookieName),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerGoogle() {
	h := &GoogleHandler{
		Federation:   r.FederationService,
		Signer:       r.signer,
		OAuth:        r.GoogleOAuth,
		ClientOrigin: r.clientOrigin,
		Prod:         r.prod,
	}

	r.Mux.Handle("GET /auth/google",
		httpx.Chain(http.HandlerFunc(h.HandleRedirect),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /auth/google/callback",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerNotes() {
	h := &NotesHandler{Notes: r.NotesService}

	secured := func(handler http.HandlerFunc) http.Handler {
		return httpx.Chain(handler,
			httpx.AuthnMiddleware(r.signer, SessionCookieName),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /notes", secured(h.HandleList))
	r.Mux.Handle("POST /notes", secured(h.HandleCreate))
	r.Mux.Handle("PUT /notes/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /notes/{id}", secured(h.HandleDelete))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /health",
		httpx.Chain(HealthHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
