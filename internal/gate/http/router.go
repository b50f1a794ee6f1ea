package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gate/internal/gate/channels"
	"github.com/aussiebroadwan/gate/internal/gate/service"
	"github.com/aussiebroadwan/gate/internal/gate/shield"
	"github.com/aussiebroadwan/gate/internal/gate/store"
	"github.com/aussiebroadwan/gate/pkg/eventbus"
	"github.com/aussiebroadwan/gate/pkg/httpx"
	"github.com/aussiebroadwan/gate/pkg/jwtx"
	"github.com/aussiebroadwan/gate/pkg/slogx"

	_ "github.com/aussiebroadwan/gate/api/gate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	// verifier is nil when callers are not authenticated.
	verifier     jwtx.Verifier
	keys         *jwtx.KeySet
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Gateway *service.Gateway
	Vault   *service.VaultService
	Catalog *channels.Catalog
	Shield  *shield.Shield
	Events  eventbus.Publisher
}

// NewRouter builds a router. A nil verifier serves every route without
// authentication and takes user_id from the request; keys may be nil in
// that case.
func NewRouter(
	verifier jwtx.Verifier,
	keys *jwtx.KeySet,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Events:       eventbus.Nop{},
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerChannels()
	r.registerTools()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Gate API
//	@version		0.1.0
//	@description	Credential vault, parked actions and abuse mitigation for the broker console.
//	@description
//	@description	Tool results for sessions above the clear threat tier are degraded; the tier is reported in X-Threat-Level.
//
//	@contact.name	AussieBroadWAN Team
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				EdDSA JWT access token when GATE_AUTH_MODE=jwt. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured prepends authentication when a verifier is configured, then
// limits by caller (or by IP when unauthenticated).
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	if r.verifier == nil {
		return httpx.Chain(h, httpx.RateLimitByIP(limit))
	}
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerChannels() {
	h := &ChannelsHandler{Vault: r.Vault, Catalog: r.Catalog}

	// Credential writes - strict
	r.Mux.Handle("POST /v1/channels/configure", r.secured(http.HandlerFunc(h.HandleConfigure), httpx.StrictLimit))
	r.Mux.Handle("GET /v1/channels", r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))

	// The catalog holds no secrets and is public.
	r.Mux.Handle("GET /v1/channels/catalog",
		httpx.Chain(http.HandlerFunc(h.HandleCatalog),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerTools() {
	tools := &ToolsHandler{Gateway: r.Gateway, Shield: r.Shield, Events: r.Events}
	resume := &ResumeHandler{Gateway: r.Gateway}

	r.Mux.Handle("POST /v1/tools/{name}", r.secured(tools, httpx.ModerateLimit))

	// The resume token is the credential here, so no authentication.
	r.Mux.Handle("POST /v1/actions/resume",
		httpx.Chain(resume,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
