package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when a Hasher has no explicit cost.
const DefaultCost = bcrypt.DefaultCost

// MaxPasswordBytes is the longest password bcrypt will accept.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned when the password exceeds MaxPasswordBytes.
var ErrPasswordTooLong = errors.New("cryptox: password exceeds 72 bytes")

// Hasher produces and checks salted bcrypt hashes. The salt is generated per
// call and embedded in the encoded hash, so nothing else needs storing.
type Hasher struct {
	Cost int
}

// NewHasher returns a Hasher with the given cost, clamped to bcrypt's range.
func NewHasher(cost int) *Hasher {
	switch {
	case cost == 0:
		cost = DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &Hasher{Cost: cost}
}

// HashPassword returns the modular-crypt encoded bcrypt hash of password.
func (h *Hasher) HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the encoded hash. Malformed
// or empty hashes simply don't match.
func (h *Hasher) VerifyPassword(password, encodedHash string) bool {
	if encodedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}

// NeedsRehash reports whether the hash was produced with a different cost
// than the Hasher is configured for.
func (h *Hasher) NeedsRehash(encodedHash string) bool {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return true
	}
	want := h.Cost
	if want == 0 {
		want = DefaultCost
	}
	return cost != want
}
