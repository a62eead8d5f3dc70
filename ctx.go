package streambase

import "context"

var principalCtxKey = &contextKey{"principal"}
var tokenCtxKey = &contextKey{"token"}

type contextKey struct {
	name string
}

// WithPrincipal sets the Principal in the given context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFromContext finds the principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(Principal)
	return p, ok
}

// WithToken sets the bearer token in the given context so API wrappers can
// authenticate outgoing calls.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey, token)
}

// TokenFromContext extracts the bearer token from the context.
func TokenFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(tokenCtxKey).(string)
	return tok, ok && tok != ""
}
