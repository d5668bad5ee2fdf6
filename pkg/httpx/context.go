package httpx

import (
	"context"

	"github.com/aussiebroadwan/bookly/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID    ctxKey = "user_id"
	CtxKeyClaims    ctxKey = "claims"
	CtxKeyPrincipal ctxKey = "principal"
)

// Principal is the resolved caller: the persisted user behind a valid token,
// reduced to what access checks need.
type Principal struct {
	ID       string
	Email    string
	Role     string
	Verified bool
}

// ContextWithClaims attaches verified session claims to ctx.
func ContextWithClaims(ctx context.Context, c jwtx.SessionClaims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.User.UserID)
	return context.WithValue(ctx, CtxKeyClaims, c)
}

// ClaimsFromContext returns the claims attached by the authentication gate.
func ClaimsFromContext(ctx context.Context) (jwtx.SessionClaims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.SessionClaims)
	return c, ok
}

// ContextWithPrincipal attaches the resolved caller to ctx.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, p.ID)
	return context.WithValue(ctx, CtxKeyPrincipal, p)
}

// PrincipalFromContext returns the caller attached by ResolveIdentity.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(CtxKeyPrincipal).(Principal)
	return p, ok
}
