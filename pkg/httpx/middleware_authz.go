package httpx

import (
	"net/http"

	"github.com/screfinery/screfinery/pkg/scope"
)

// RequireScope gates a handler on one concrete "resource.action" scope.
// The caller passes when its held set contains the scope verbatim or the
// "resource.*" wildcard. The scope string is parsed once at route setup;
// a malformed literal is a programming error and panics immediately.
func RequireScope(required string) Middleware {
	want := scope.MustParse(required)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			held := ScopeSetFromCtx(r.Context())

			if !scope.Authorize(held, want) {
				writeScopeError(w, required)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer insufficient_scope.
func writeScopeError(w http.ResponseWriter, required string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+required+`"`)
	WriteJSON(w, http.StatusForbidden, map[string]string{
		"error":             "insufficient_scope",
		"error_description": "the access token does not grant " + required,
	})
}
