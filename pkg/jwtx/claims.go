package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default lifetimes. These can be overridden per-service through the codec
// options.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = time.Hour

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 48 * time.Hour

	// DefaultActionTokenMaxAge bounds how long an emailed link stays usable.
	DefaultActionTokenMaxAge = 24 * time.Hour
)

// UserPayload is the subject data carried inside a session token. It holds
// enough to identify the user without a lookup; role is only stamped on
// access tokens.
type UserPayload struct {
	Email  string `json:"email"`
	UserID string `json:"user_uid"`
	Role   string `json:"role,omitempty"`
}

// SessionClaims are the claims of an access or refresh token. The jti is the
// only key used for revocation.
type SessionClaims struct {
	jwt.RegisteredClaims

	User    UserPayload `json:"user"`
	Refresh bool        `json:"refresh"`
}

// TokenID returns the per-issuance identifier (jti).
func (c SessionClaims) TokenID() string { return c.ID }

// Remaining returns how long the token stays valid after now. Zero if it has
// already expired or carries no expiry.
func (c SessionClaims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(c.ExpiresAt.Sub(now), 0)
}

// ActionPurpose scopes an action token to a single flow.
type ActionPurpose string

const (
	PurposeVerifyEmail   ActionPurpose = "verify_email"
	PurposePasswordReset ActionPurpose = "password_reset"
)

// ActionClaims are carried by the short-lived tokens embedded in emailed
// links. They have no exp claim; age is measured from iat.
type ActionClaims struct {
	jwt.RegisteredClaims

	Email   string        `json:"email"`
	Purpose ActionPurpose `json:"purpose"`
}

// TokenID returns the per-issuance identifier (jti).
func (c ActionClaims) TokenID() string { return c.ID }

// NewJTI returns a fresh UUIDv4 for the "jti" claim.
func NewJTI() string {
	return uuid.NewString()
}
