package common

import "context"

type contextKey string

const principalContextKey contextKey = "principal"

// Principal represents the token-derived caller.
type Principal struct {
	Email  string         `json:"email"`
	Claims map[string]any `json:"-"`
}

// ContextWithPrincipal stores the authenticated caller into context.
func ContextWithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated caller from context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(Principal)
	return principal, ok
}
