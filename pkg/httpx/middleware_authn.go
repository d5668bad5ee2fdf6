package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/bookly/pkg/jwtx"
	"github.com/aussiebroadwan/bookly/pkg/revoke"
	"github.com/aussiebroadwan/bookly/pkg/slogx"
)

// TokenKind selects which session token a route accepts.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

func (k TokenKind) String() string {
	if k == RefreshToken {
		return "refresh"
	}
	return "access"
}

var (
	ErrMissingBearer         = errors.New("httpx: missing bearer token")
	ErrInvalidToken          = errors.New("httpx: invalid token")
	ErrTokenRevoked          = errors.New("httpx: token revoked")
	ErrAccessTokenRequired   = errors.New("httpx: access token required")
	ErrRefreshTokenRequired  = errors.New("httpx: refresh token required")
	ErrRevocationUnavailable = errors.New("httpx: revocation store unavailable")
)

// TokenDecoder turns a bearer string into verified claims.
type TokenDecoder interface {
	Decode(token string) (jwtx.SessionClaims, error)
}

// RevocationChecker answers whether a jti has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Gate authenticates session tokens: signature and expiry through the
// decoder, then the revocation list, then the token kind.
type Gate struct {
	Codec       TokenDecoder
	Revocations RevocationChecker
	Timeout     time.Duration
}

// NewGate returns a Gate. A non-positive timeout uses revoke.DefaultTimeout.
func NewGate(codec TokenDecoder, revocations RevocationChecker, timeout time.Duration) *Gate {
	if timeout <= 0 {
		timeout = revoke.DefaultTimeout
	}
	return &Gate{Codec: codec, Revocations: revocations, Timeout: timeout}
}

// Authenticate validates the bearer token on r and checks it is of the
// wanted kind. Any failure to reach the revocation list rejects the request.
func (g *Gate) Authenticate(r *http.Request, kind TokenKind) (jwtx.SessionClaims, error) {
	raw, ok := bearerToken(r)
	if !ok {
		return jwtx.SessionClaims{}, ErrMissingBearer
	}

	claims, err := g.Codec.Decode(raw)
	if err != nil {
		return jwtx.SessionClaims{}, errors.Join(ErrInvalidToken, err)
	}

	ctx, cancel := context.WithTimeout(r.Context(), g.Timeout)
	defer cancel()

	revoked, err := g.Revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return jwtx.SessionClaims{}, errors.Join(ErrRevocationUnavailable, err)
	}
	if revoked {
		return jwtx.SessionClaims{}, ErrTokenRevoked
	}

	switch {
	case kind == AccessToken && claims.Refresh:
		return jwtx.SessionClaims{}, ErrAccessTokenRequired
	case kind == RefreshToken && !claims.Refresh:
		return jwtx.SessionClaims{}, ErrRefreshTokenRequired
	}

	return claims, nil
}

// Middleware authenticates every request for kind and injects the claims
// into the request context.
func (g *Gate) Middleware(kind TokenKind) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			claims, err := g.Authenticate(r, kind)
			if err != nil {
				status, code, desc := gateError(err)
				if status >= http.StatusInternalServerError {
					log.Error("authentication unavailable", "err", err)
				} else {
					log.Debug("authentication rejected", "kind", kind.String(), "reason", code)
				}
				if status == http.StatusUnauthorized {
					w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
				}
				WriteError(w, status, code, desc)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

func gateError(err error) (status int, code, desc string) {
	switch {
	case errors.Is(err, ErrMissingBearer):
		return http.StatusUnauthorized, CodeMissingToken, "Missing bearer token"
	case errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized, CodeInvalidToken, "Token is invalid or expired"
	case errors.Is(err, ErrTokenRevoked):
		return http.StatusUnauthorized, CodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, ErrAccessTokenRequired):
		return http.StatusUnauthorized, CodeAccessTokenRequired, "Please provide an access token"
	case errors.Is(err, ErrRefreshTokenRequired):
		return http.StatusUnauthorized, CodeRefreshTokenRequired, "Please provide a refresh token"
	default:
		return http.StatusServiceUnavailable, CodeServerError, "Authentication is temporarily unavailable"
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
