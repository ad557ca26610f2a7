package http

import (
	"context"

	"fleetrental-backend/internal/domain"
)

type contextKey int

const principalKey contextKey = iota

func withPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the authenticated principal stored by the auth
// middleware. The second return is false on unauthenticated routes.
func PrincipalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}
