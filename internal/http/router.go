// Package http wires the JSON API: authentication endpoints, scope-gated CRUD
// for the mining domain, and the health probes.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"github.com/screfinery/screfinery/internal/service"
	"github.com/screfinery/screfinery/internal/store"
	"github.com/screfinery/screfinery/pkg/httpx"
	"github.com/screfinery/screfinery/pkg/jwtx"
	"github.com/screfinery/screfinery/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier      jwtx.Verifier
	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger
	defaultScopes []string

	store                store.Store
	AuthService          *service.AuthService
	UserService          *service.UserService
	FriendshipService    *service.FriendshipService
	OreService           *service.OreService
	StationService       *service.StationService
	MethodService        *service.MethodService
	MiningSessionService *service.MiningSessionService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	defaultScopes []string,
	corsOrigins []string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		verifier:      verifier,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		defaultScopes: defaultScopes,
		store:         st,
		logger:        logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	if len(corsOrigins) > 0 {
		r.middlewares = append(r.middlewares, cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerFriends()
	r.registerOres()
	r.registerStations()
	r.registerMethods()
	r.registerMiningSessions()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured builds the standard protected chain: bearer authn, one concrete
// scope, per-user rate limit.
func (r *Router) secured(h http.Handler, requiredScope string, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireScope(requiredScope),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	login := &LoginHandler{AuthService: r.AuthService}
	google := &GoogleLoginHandler{AuthService: r.AuthService}

	// Login attempts are limited per client IP to slow brute force. The
	// credentials arrive as JSON, so form-field keying would see nothing.
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(login,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/login/google",
		httpx.Chain(google,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	userinfo := &UserInfoHandler{UserService: r.UserService}
	r.Mux.Handle("GET /v1/userinfo",
		httpx.Chain(userinfo,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// Public: what a fresh account will be allowed to do.
	r.Mux.Handle("GET /v1/default_scopes",
		httpx.Chain(DefaultScopesHandler(r.defaultScopes),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/users", r.secured(http.HandlerFunc(h.HandleList), "user.read", httpx.LenientLimit))
	r.Mux.Handle("POST /v1/users", r.secured(http.HandlerFunc(h.HandleCreate), "user.create", httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/users/{id}", r.secured(http.HandlerFunc(h.HandleGet), "user.read", httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/users/{id}", r.secured(http.HandlerFunc(h.HandleUpdate), "user.update", httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/users/{id}", r.secured(http.HandlerFunc(h.HandleDelete), "user.delete", httpx.ModerateLimit))
}

func (r *Router) registerFriends() {
	h := &FriendsHandler{FriendshipService: r.FriendshipService}

	r.Mux.Handle("GET /v1/users/{id}/friends",
		r.secured(http.HandlerFunc(h.HandleList), "friendship.read", httpx.LenientLimit))
	r.Mux.Handle("POST /v1/users/{id}/friends",
		r.secured(http.HandlerFunc(h.HandleRequest), "friendship.create", httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/users/{id}/friends/{friend_id}",
		r.secured(http.HandlerFunc(h.HandleConfirm), "friendship.update", httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/users/{id}/friends/{friend_id}",
		r.secured(http.HandlerFunc(h.HandleDelete), "friendship.delete", httpx.ModerateLimit))
}

func (r *Router) registerOres() {
	h := &OresHandler{OreService: r.OreService}

	r.Mux.Handle("GET /v1/ores", r.secured(http.HandlerFunc(h.HandleList), "ore.read", httpx.LenientLimit))
	r.Mux.Handle("POST /v1/ores", r.secured(http.HandlerFunc(h.HandleCreate), "ore.create", httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/ores/{id}", r.secured(http.HandlerFunc(h.HandleGet), "ore.read", httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/ores/{id}", r.secured(http.HandlerFunc(h.HandleUpdate), "ore.update", httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/ores/{id}", r.secured(http.HandlerFunc(h.HandleDelete), "ore.delete", httpx.ModerateLimit))
}

func (r *Router) registerStations() {
	h := &StationsHandler{StationService: r.StationService}

	r.Mux.Handle("GET /v1/stations", r.secured(http.HandlerFunc(h.HandleList), "station.read", httpx.LenientLimit))
	r.Mux.Handle("POST /v1/stations", r.secured(http.HandlerFunc(h.HandleCreate), "station.create", httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/stations/{id}", r.secured(http.HandlerFunc(h.HandleGet), "station.read", httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/stations/{id}", r.secured(http.HandlerFunc(h.HandleUpdate), "station.update", httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/stations/{id}", r.secured(http.HandlerFunc(h.HandleDelete), "station.delete", httpx.ModerateLimit))
}

func (r *Router) registerMethods() {
	h := &MethodsHandler{MethodService: r.MethodService}

	r.Mux.Handle("GET /v1/methods", r.secured(http.HandlerFunc(h.HandleList), "method.read", httpx.LenientLimit))
	r.Mux.Handle("POST /v1/methods", r.secured(http.HandlerFunc(h.HandleCreate), "method.create", httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/methods/{id}", r.secured(http.HandlerFunc(h.HandleGet), "method.read", httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/methods/{id}", r.secured(http.HandlerFunc(h.HandleUpdate), "method.update", httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/methods/{id}", r.secured(http.HandlerFunc(h.HandleDelete), "method.delete", httpx.ModerateLimit))
}

func (r *Router) registerMiningSessions() {
	h := &MiningSessionsHandler{SessionService: r.MiningSessionService}

	r.Mux.Handle("GET /v1/mining_sessions",
		r.secured(http.HandlerFunc(h.HandleList), "mining_session.read", httpx.LenientLimit))
	r.Mux.Handle("POST /v1/mining_sessions",
		r.secured(http.HandlerFunc(h.HandleCreate), "mining_session.create", httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/mining_sessions/{id}",
		r.secured(http.HandlerFunc(h.HandleGet), "mining_session.read", httpx.LenientLimit))
	r.Mux.Handle("PATCH /v1/mining_sessions/{id}",
		r.secured(http.HandlerFunc(h.HandleUpdate), "mining_session.update", httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/mining_sessions/{id}",
		r.secured(http.HandlerFunc(h.HandleDelete), "mining_session.delete", httpx.ModerateLimit))

	// Entries live under the session resource and share its scope family.
	r.Mux.Handle("GET /v1/mining_sessions/{id}/entries",
		r.secured(http.HandlerFunc(h.HandleListEntries), "mining_session.read", httpx.LenientLimit))
	r.Mux.Handle("POST /v1/mining_sessions/{id}/entries",
		r.secured(http.HandlerFunc(h.HandleCreateEntry), "mining_session.update", httpx.ModerateLimit))
	r.Mux.Handle("PATCH /v1/mining_sessions/{id}/entries/{entry_id}",
		r.secured(http.HandlerFunc(h.HandleUpdateEntry), "mining_session.update", httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/mining_sessions/{id}/entries/{entry_id}",
		r.secured(http.HandlerFunc(h.HandleDeleteEntry), "mining_session.update", httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	r.Mux.HandleFunc("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.HandleFunc("GET /readyz", ReadyzHandler(r.store))
}
