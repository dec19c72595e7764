package http

import (
	"net/http"

	"github.com/screfinery/screfinery/internal/service"
	"github.com/screfinery/screfinery/pkg/httpx"
	"github.com/screfinery/screfinery/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	User        userView `json:"user"`
}

// ServeHTTP handles POST /v1/login.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}
	if req.Name == "" || req.Password == "" {
		errInvalidCredentials.WriteError(w)
		return
	}

	result, err := h.AuthService.LoginPassword(ctx, req.Name, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   result.ExpiresIn,
		User:        viewUser(result.User),
	})
}

type GoogleLoginHandler struct {
	AuthService *service.AuthService
}

type googleLoginRequest struct {
	IDToken string `json:"id_token"`
}

// ServeHTTP handles POST /v1/login/google.
func (h *GoogleLoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req googleLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}
	if req.IDToken == "" {
		errInvalidCredentials.WriteError(w)
		return
	}

	result, err := h.AuthService.LoginGoogle(ctx, req.IDToken)
	if err != nil {
		log.Info("google login rejected", "err", err)
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   result.ExpiresIn,
		User:        viewUser(result.User),
	})
}
