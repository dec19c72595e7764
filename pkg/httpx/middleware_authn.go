package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/screfinery/screfinery/pkg/jwtx"
	"github.com/screfinery/screfinery/pkg/scope"
	"github.com/screfinery/screfinery/pkg/slogx"
)

// AuthnMiddleware verifies the bearer token and injects the user ID and the
// parsed scope set into the request context. Held scope strings that fail to
// parse are dropped here so the authorization check stays a pure predicate.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Warn("jwt verify failed", "err", err)
				return
			}

			if err := claims.ValidateExpiry(); err != nil {
				writeBearerError(w, "token expired")
				return
			}

			held := make(scope.Set, len(claims.Scopes))
			for _, s := range claims.Scopes {
				sc, err := scope.Parse(s)
				if err != nil {
					log.Warn("dropping malformed held scope", "scope", s)
					continue
				}
				held[sc] = struct{}{}
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, claims.Subject)
			ctx = context.WithValue(ctx, CtxKeyScopes, held)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
