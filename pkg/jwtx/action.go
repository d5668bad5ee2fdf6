package jwtx

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultActionSalt separates action tokens from session tokens when no salt
// is configured.
const DefaultActionSalt = "email-configuration"

// ActionOptions configures an ActionCodec.
type ActionOptions struct {
	// Secret is the same server-held secret used for sessions. Required.
	Secret []byte

	// Salt is mixed into the signing key so action and session tokens can
	// never be swapped for one another.
	Salt string

	// MaxAge bounds how old an action token may be when redeemed.
	MaxAge time.Duration

	// Now overrides the clock. Tests only.
	Now func() time.Time
}

// ActionCodec issues and decodes the tokens embedded in verification and
// password-reset links. The signing key is HMAC-SHA256(secret, salt).
type ActionCodec struct {
	key    []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewActionCodec derives the salted key and returns a ready codec.
func NewActionCodec(opts ActionOptions) (*ActionCodec, error) {
	if len(opts.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	if opts.Salt == "" {
		opts.Salt = DefaultActionSalt
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultActionTokenMaxAge
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &ActionCodec{
		key:    deriveKey(opts.Secret, opts.Salt),
		maxAge: opts.MaxAge,
		now:    opts.Now,
	}, nil
}

// MaxAge returns the configured redemption window.
func (c *ActionCodec) MaxAge() time.Duration { return c.maxAge }

// Issue signs an action token for email scoped to purpose.
func (c *ActionCodec) Issue(email string, purpose ActionPurpose) (string, ActionClaims, error) {
	claims := ActionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(c.now().UTC()),
			ID:       NewJTI(),
		},
		Email:   email,
		Purpose: purpose,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", ActionClaims{}, fmt.Errorf("jwtx: sign action token: %w", err)
	}
	return token, claims, nil
}

// Decode verifies token, checks its age against MaxAge and that it was issued
// for purpose. Every failure wraps ErrInvalidToken.
func (c *ActionCodec) Decode(token string, purpose ActionPurpose) (ActionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)

	var claims ActionClaims
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		return ActionClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.IssuedAt == nil {
		return ActionClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, ErrInvalidPayload)
	}
	if c.now().Sub(claims.IssuedAt.Time) > c.maxAge {
		return ActionClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, ErrExpired)
	}
	if claims.Purpose != purpose {
		return ActionClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, ErrPurposeMismatch)
	}
	if claims.Email == "" {
		return ActionClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, ErrInvalidPayload)
	}
	if claims.ID == "" {
		return ActionClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, ErrMissingTokenID)
	}

	return claims, nil
}

// Remaining returns how long claims stay redeemable after now.
func (c *ActionCodec) Remaining(claims ActionClaims, now time.Time) time.Duration {
	if claims.IssuedAt == nil {
		return 0
	}
	return max(claims.IssuedAt.Add(c.maxAge).Sub(now), 0)
}

func deriveKey(secret []byte, salt string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(salt))
	return mac.Sum(nil)
}
