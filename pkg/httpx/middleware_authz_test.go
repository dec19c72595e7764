package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/screfinery/screfinery/pkg/httpx"
	"github.com/screfinery/screfinery/pkg/scope"
	"github.com/stretchr/testify/require"
)

func requestWithScopes(t *testing.T, scopes ...string) *http.Request {
	t.Helper()

	held, err := scope.ParseSet(scopes)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), httpx.CtxKeyScopes, held)
	return req.WithContext(ctx)
}

func TestRequireScope(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("verbatim scope passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.Chain(okHandler, httpx.RequireScope("user.read")).
			ServeHTTP(rec, requestWithScopes(t, "user.read"))
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("wildcard on the same resource passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.Chain(okHandler, httpx.RequireScope("mining_session.create")).
			ServeHTTP(rec, requestWithScopes(t, "mining_session.*"))
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("wildcard on another resource is denied", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.Chain(okHandler, httpx.RequireScope("station.read")).
			ServeHTTP(rec, requestWithScopes(t, "ore.*"))
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "insufficient_scope")
	})

	t.Run("no scopes in context is denied", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		httpx.Chain(okHandler, httpx.RequireScope("user.read")).ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed route scope panics at setup", func(t *testing.T) {
		require.Panics(t, func() {
			httpx.RequireScope("nodot")
		})
	})
}
