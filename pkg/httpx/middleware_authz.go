package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/bookly/pkg/jwtx"
	"github.com/aussiebroadwan/bookly/pkg/slogx"
)

var (
	ErrAccountNotVerified      = errors.New("httpx: account not verified")
	ErrInsufficientPermissions = errors.New("httpx: insufficient permissions")

	// ErrUnknownIdentity is returned by resolvers when the token's subject
	// no longer exists.
	ErrUnknownIdentity = errors.New("httpx: unknown identity")
)

// IdentityResolver loads the caller behind verified claims.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, claims jwtx.SessionClaims) (Principal, error)
}

// IdentityResolverFunc adapts a function to IdentityResolver.
type IdentityResolverFunc func(ctx context.Context, claims jwtx.SessionClaims) (Principal, error)

func (f IdentityResolverFunc) ResolveIdentity(ctx context.Context, claims jwtx.SessionClaims) (Principal, error) {
	return f(ctx, claims)
}

// ResolveIdentity loads the principal for the claims placed in the context by
// the gate. Must run after Gate.Middleware.
func ResolveIdentity(resolver IdentityResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			claims, ok := ClaimsFromContext(ctx)
			if !ok {
				WriteError(w, http.StatusUnauthorized, CodeMissingToken, "Missing bearer token")
				return
			}

			p, err := resolver.ResolveIdentity(ctx, claims)
			switch {
			case errors.Is(err, ErrUnknownIdentity):
				WriteError(w, http.StatusUnauthorized, CodeInvalidToken, "Token subject no longer exists")
				return
			case err != nil:
				log.Error("failed to resolve identity", "err", err, "jti", claims.ID)
				WriteError(w, http.StatusInternalServerError, CodeServerError, "Oops! Something went wrong")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(ctx, p)))
		})
	}
}

// Policy is a flat allow-list of roles. Verification is checked first: an
// unverified account is refused whatever its role.
type Policy struct {
	allowed map[string]struct{}
}

// NewPolicy returns a Policy allowing the given roles.
func NewPolicy(roles ...string) Policy {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return Policy{allowed: allowed}
}

// Check reports whether p may proceed.
func (pol Policy) Check(p Principal) error {
	if !p.Verified {
		return ErrAccountNotVerified
	}
	if _, ok := pol.allowed[p.Role]; !ok {
		return ErrInsufficientPermissions
	}
	return nil
}

// RequireRoles refuses callers whose principal fails the policy built from
// roles. Must run after ResolveIdentity.
func RequireRoles(roles ...string) Middleware {
	pol := NewPolicy(roles...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, CodeMissingToken, "Missing bearer token")
				return
			}

			switch err := pol.Check(p); {
			case errors.Is(err, ErrAccountNotVerified):
				WriteError(w, http.StatusForbidden, CodeAccountNotVerified, "Account not verified. Please check your email for verification details")
				return
			case errors.Is(err, ErrInsufficientPermissions):
				WriteError(w, http.StatusForbidden, CodeInsufficientPermissions, "You do not have enough permissions to perform this action")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
