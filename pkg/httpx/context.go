package httpx

import (
	"context"

	"github.com/screfinery/screfinery/pkg/scope"
)

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyScopes ctxKey = "scopes"
)

// UserIDFromCtx returns the authenticated user's ID, or "" when the request
// was not authenticated.
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// ScopeSetFromCtx returns the caller's held scopes. The set is parsed once by
// the authn middleware; authorization checks never re-parse strings.
func ScopeSetFromCtx(ctx context.Context) scope.Set {
	if v, ok := ctx.Value(CtxKeyScopes).(scope.Set); ok {
		return v
	}
	return nil
}
