package httpx

import (
	"encoding/json"
	"net/http"
)

// Error codes written by the middlewares in this package. They match the
// codes of the public API error taxonomy.
const (
	CodeMissingToken            = "missing_token"
	CodeInvalidToken            = "invalid_token"
	CodeTokenRevoked            = "token_revoked"
	CodeAccessTokenRequired     = "access_token_required"
	CodeRefreshTokenRequired    = "refresh_token_required"
	CodeAccountNotVerified      = "account_not_verified"
	CodeInsufficientPermissions = "insufficient_permissions"
	CodeRateLimitExceeded       = "rate_limit_exceeded"
	CodeServerError             = "server_error"
	CodeForbiddenHost           = "invalid_host"
)

// ErrorBody is the JSON error envelope shared by every endpoint.
type ErrorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
	Details     any    `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, status int, code, description string) {
	WriteJSON(w, status, ErrorBody{Error: code, Description: description})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
