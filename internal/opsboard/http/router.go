package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/access"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/service"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/store"
	"github.com/aussiebroadwan/opsboard/pkg/httpx"
	"github.com/aussiebroadwan/opsboard/pkg/jwtx"
	"github.com/aussiebroadwan/opsboard/pkg/slogx"
	"github.com/aussiebroadwan/opsboard/pkg/tracex"

	_ "github.com/aussiebroadwan/opsboard/api/opsboard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	Access            *access.Resolver
	InvitationService *service.InvitationService
	SessionService    *service.SessionService
	BootstrapService  *service.BootstrapService

	// LoginPath is where the route guard sends signed-out callers.
	LoginPath string

	// Rate limits per route profile. NewRouter starts them at the httpx defaults.
	StrictLimit   httpx.RateLimitConfig
	ModerateLimit httpx.RateLimitConfig
	LenientLimit  httpx.RateLimitConfig
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		keys:          keys,
		verifier:      verifier,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		store:         st,
		logger:        logger,
		StrictLimit:   httpx.StrictLimit,
		ModerateLimit: httpx.ModerateLimit,
		LenientLimit:  httpx.LenientLimit,
	}

	// Tracing runs first so the request logger can pick up the trace id.
	r.middlewares = []httpx.Middleware{
		tracex.HTTPMiddleware("github.com/aussiebroadwan/opsboard/internal/opsboard/http"),
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvitations()
	r.registerAccess()
	r.registerSessions()
	r.registerBootstrap()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Opsboard API
//	@version		0.1.0
//	@description	Operations dashboard access control: role catalog, navigation gating and the invitation onboarding flow.
//	@description
//	@description				Access tokens are EdDSA-signed JWTs carrying the account's role.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/opsboard
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

// requireAdmin admits roles at or above the administrative level.
func (r *Router) requireAdmin() httpx.Middleware {
	level := service.DefaultAdminLevel
	if r.InvitationService != nil && r.InvitationService.AdminLevel > 0 {
		level = r.InvitationService.AdminLevel
	}
	return httpx.RequireRole(func(role string) bool {
		return r.Access.HasRoleLevel(role, level)
	})
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InvitationService: r.InvitationService}

	// Authenticated management endpoints - moderate rate limit by user.
	// Per-invitation authorization happens in the service.
	secured := func(fn http.HandlerFunc, mws ...httpx.Middleware) http.Handler {
		chain := append([]httpx.Middleware{httpx.AuthnMiddleware(r.verifier)}, mws...)
		chain = append(chain, httpx.RateLimitByUser(r.ModerateLimit))
		return httpx.Chain(fn, chain...)
	}

	r.Mux.Handle("POST /v1/invitations", secured(h.HandleIssue))
	r.Mux.Handle("GET /v1/invitations", secured(h.HandleList))
	r.Mux.Handle("POST /v1/invitations/{id}/revoke", secured(h.HandleRevoke))
	r.Mux.Handle("POST /v1/invitations/bulk-delete", secured(h.HandleBulkDelete))
	r.Mux.Handle("POST /v1/invitations/cleanup", secured(h.HandleCleanup, r.requireAdmin()))

	// Public acceptance flow - strict rate limit by IP to slow token guessing
	r.Mux.Handle("GET /v1/invitations/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleGetByToken),
			httpx.RateLimitByIP(r.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/invitations/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept),
			httpx.RateLimitByIP(r.StrictLimit),
		),
	)
}

func (r *Router) registerAccess() {
	h := &AccessHandler{Access: r.Access, LoginPath: r.LoginPath}
	if r.InvitationService != nil {
		h.AdminLevel = r.InvitationService.AdminLevel
	}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(r.LenientLimit),
		)
	}

	r.Mux.Handle("GET /v1/roles", secured(h.HandleRoles))
	r.Mux.Handle("GET /v1/navigation", secured(h.HandleNavigation))
	r.Mux.Handle("GET /v1/feature-access", secured(h.HandleFeatureAccess))
	r.Mux.Handle("GET /v1/quick-actions", secured(h.HandleQuickActions))

	// Route checks also answer for signed-out callers
	r.Mux.Handle("POST /v1/route-check",
		httpx.Chain(http.HandlerFunc(h.HandleRouteCheck),
			httpx.OptionalAuthn(r.verifier),
			httpx.RateLimitByIP(r.LenientLimit),
		),
	)
}

func (r *Router) registerSessions() {
	// POST /sessions - strict rate limit by IP (password attempts)
	r.Mux.Handle("POST /v1/sessions",
		httpx.Chain(&SessionHandler{SessionService: r.SessionService},
			httpx.RateLimitByIP(r.StrictLimit),
		),
	)
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - strict rate limit by IP (one-time setup endpoint)
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(&BootstrapHandler{BootstrapService: r.BootstrapService},
			httpx.RateLimitByIP(r.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(r.LenientLimit),
		),
	)
}
