package http

import (
	"net/http"

	"github.com/screfinery/screfinery/internal/service"
	"github.com/screfinery/screfinery/pkg/httpx"
	"github.com/screfinery/screfinery/pkg/slogx"
)

type UserInfoHandler struct {
	UserService *service.UserService
}

// ServeHTTP handles GET /v1/userinfo: the authenticated caller's own profile.
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		errInvalidCredentials.WriteError(w)
		return
	}

	user, err := h.UserService.Get(ctx, userID)
	if err != nil {
		log.Warn("failed to load user", "user_id", userID, "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, viewUser(user))
}

// DefaultScopesHandler serves GET /v1/default_scopes: the scope strings a new
// account starts with, verbatim from configuration.
func DefaultScopesHandler(defaultScopes []string) http.HandlerFunc {
	if defaultScopes == nil {
		defaultScopes = []string{}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string][]string{
			"default_scopes": defaultScopes,
		})
	}
}
