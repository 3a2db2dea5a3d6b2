package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/internal/notes/store"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/aussiebroadwan/notes/pkg/slogx"

	_ "github.com/aussiebroadwan/notes/api/notes" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeyManager
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *httpx.Metrics

	store        store.Store
	AuthService  *service.AuthService
	NotesService *service.NotesService

	// CookieSecure marks the session cookie Secure. Enable behind TLS.
	CookieSecure bool
}

func NewRouter(
	keys *jwtx.KeyManager,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	metrics *httpx.Metrics,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		metrics:      metrics,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerNotes()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Notes API
//	@version		0.1.0
//	@description	Personal notes with cookie sessions and short-lived bearer tokens.
//	@description
//	@description				Sign in to obtain a session cookie, then call POST /auth/issue for an EdDSA bearer token.
//	@description				Tokens can be verified against the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/notes
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers h under pattern, instrumented with the pattern as the
// route label.
func (r *Router) handle(pattern string, h http.Handler) {
	if r.metrics != nil {
		h = r.metrics.Instrument(pattern, h)
	}
	r.Mux.Handle(pattern, h)
}

func (r *Router) registerSession() {
	h := &AuthHandler{
		AuthService: r.AuthService,
		cookies:     cookieConfig{Secure: r.CookieSecure},
	}

	// Credential endpoints are limited by IP + email to slow down guessing.
	r.handle("POST /api/auth/sign-up/email",
		httpx.Chain(http.HandlerFunc(h.HandleSignUp),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.handle("POST /api/auth/sign-in/email",
		httpx.Chain(http.HandlerFunc(h.HandleSignIn),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)

	// Each anonymous sign-in creates a user row.
	r.handle("POST /api/auth/sign-in/anonymous",
		httpx.Chain(http.HandlerFunc(h.HandleSignInAnonymous),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.handle("GET /api/auth/get-session",
		httpx.Chain(http.HandlerFunc(h.HandleGetSession),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.handle("POST /api/auth/sign-out",
		httpx.Chain(http.HandlerFunc(h.HandleSignOut),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.handle("POST /auth/issue",
		httpx.Chain(http.HandlerFunc(h.HandleIssue),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerNotes() {
	h := &NotesHandler{NotesService: r.NotesService}
	verifier := r.keys.Verifier

	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(verifier),
			httpx.RequireAnyScope(service.ScopeNotesRead),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}
	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(verifier),
			httpx.RequireAnyScope(service.ScopeNotesWrite),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.handle("GET /api/notes", read(h.HandleGet))
	r.handle("POST /api/notes", write(h.HandleCreate))
	r.handle("PUT /api/notes", write(h.HandleUpdate))
	r.handle("DELETE /api/notes", write(h.HandleDelete))
	r.handle("POST /api/search", read(h.HandleSearch))
}

func (r *Router) registerSystem() {
	r.handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys.KeySet),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// Probes are polled by orchestrators.
	r.handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
