package authsession

import "context"

// Principal is the authenticated caller attached to a request context by the
// transport layer after token introspection.
type Principal struct {
	UserID      string
	Email       string
	AccessToken string // raw bearer token, needed for revocation on logout
}

type contextKey struct{}

// WithPrincipal attaches the authenticated principal to the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
