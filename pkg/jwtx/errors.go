package jwtx

import "errors"

var (
	// ErrInvalidToken is the umbrella error for every decode failure. Callers
	// treat it as "unauthenticated" and should not branch on the cause.
	ErrInvalidToken = errors.New("jwtx: invalid token")

	ErrExpired         = errors.New("jwtx: token expired")
	ErrMissingTokenID  = errors.New("jwtx: missing jti")
	ErrInvalidPayload  = errors.New("jwtx: invalid payload")
	ErrPurposeMismatch = errors.New("jwtx: purpose mismatch")

	ErrMissingSecret        = errors.New("jwtx: signing secret is required")
	ErrUnsupportedAlgorithm = errors.New("jwtx: unsupported signing algorithm")
)
