package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionOptions configures a SessionCodec.
type SessionOptions struct {
	// Secret is the server-held HMAC key. Required.
	Secret []byte

	// Algorithm is one of HS256, HS384 or HS512. Defaults to HS256.
	Algorithm string

	// AccessTTL is used when Issue is called without an explicit lifetime.
	AccessTTL time.Duration

	// Issuer, when set, is stamped on every token and required on decode.
	Issuer string

	// Leeway allows small clock skew when validating exp/iat.
	Leeway time.Duration

	// Now overrides the clock. Tests only.
	Now func() time.Time
}

// SessionCodec issues and decodes the access and refresh tokens handed to
// clients. Both kinds share one secret; the refresh flag in the payload tells
// them apart.
type SessionCodec struct {
	secret    []byte
	method    jwt.SigningMethod
	accessTTL time.Duration
	issuer    string
	leeway    time.Duration
	now       func() time.Time
}

// NewSessionCodec validates the options and returns a ready codec.
func NewSessionCodec(opts SessionOptions) (*SessionCodec, error) {
	if len(opts.Secret) == 0 {
		return nil, ErrMissingSecret
	}

	method, err := hmacMethod(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	if opts.AccessTTL <= 0 {
		opts.AccessTTL = DefaultAccessTokenTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &SessionCodec{
		secret:    opts.Secret,
		method:    method,
		accessTTL: opts.AccessTTL,
		issuer:    opts.Issuer,
		leeway:    opts.Leeway,
		now:       opts.Now,
	}, nil
}

// Alg returns the JWS algorithm name the codec signs with.
func (c *SessionCodec) Alg() string { return c.method.Alg() }

// Issue signs a new session token for user. A non-positive ttl falls back to
// the configured access lifetime. Every call gets a fresh jti.
func (c *SessionCodec) Issue(user UserPayload, ttl time.Duration, refresh bool) (string, SessionClaims, error) {
	if ttl <= 0 {
		ttl = c.accessTTL
	}

	now := c.now().UTC()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		User:    user,
		Refresh: refresh,
	}

	token, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", SessionClaims{}, fmt.Errorf("jwtx: sign session token: %w", err)
	}
	return token, claims, nil
}

// Decode verifies the signature, algorithm and expiry of token and returns
// its claims. Every failure wraps ErrInvalidToken.
func (c *SessionCodec) Decode(token string) (SessionClaims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(c.leeway),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(c.issuer))
	}

	var claims SessionClaims
	_, err := jwt.NewParser(parserOpts...).ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, ErrExpired)
		}
		return SessionClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.ID == "" {
		return SessionClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, ErrMissingTokenID)
	}
	if claims.User.Email == "" {
		return SessionClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, ErrInvalidPayload)
	}

	return claims, nil
}

func hmacMethod(alg string) (jwt.SigningMethod, error) {
	switch alg {
	case "", jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
}
