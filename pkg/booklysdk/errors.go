package booklysdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/bookly/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeInvalidRequest          = "invalid_request"
	ErrorCodeValidation              = "validation_error"
	ErrorCodeInvalidCredentials      = "invalid_credentials"
	ErrorCodeUserAlreadyExists       = "user_already_exists"
	ErrorCodeUserNotFound            = "user_not_found"
	ErrorCodeInvalidToken            = httpx.CodeInvalidToken
	ErrorCodeTokenRevoked            = httpx.CodeTokenRevoked
	ErrorCodeMissingToken            = httpx.CodeMissingToken
	ErrorCodeAccessTokenRequired     = httpx.CodeAccessTokenRequired
	ErrorCodeRefreshTokenRequired    = httpx.CodeRefreshTokenRequired
	ErrorCodeAccountNotVerified      = httpx.CodeAccountNotVerified
	ErrorCodeInsufficientPermissions = httpx.CodeInsufficientPermissions
	ErrorCodeBookNotFound            = "book_not_found"
	ErrorCodeReviewNotFound          = "review_not_found"
	ErrorCodeTagNotFound             = "tag_not_found"
	ErrorCodeTagAlreadyExists        = "tag_already_exists"
	ErrorCodeForbidden               = "forbidden"
	ErrorCodePasswordMismatch        = "password_mismatch"
	ErrorCodeRateLimitExceeded       = httpx.CodeRateLimitExceeded
	ErrorCodeServerError             = httpx.CodeServerError
)

// ============================================================================
// APIError
// ============================================================================

// APIError is the error envelope returned by every bookly endpoint. It is used
// by the server to write responses and by the client to report them.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine readable error code (e.g. "invalid_credentials")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`

	// Details carries per-field messages for validation errors
	Details map[string]string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on Code so callers can compare against the predefined errors.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	body := httpx.ErrorBody{Error: e.Code, Description: e.Description}
	if len(e.Details) > 0 {
		body.Details = e.Details
	}
	httpx.WriteJSON(w, e.StatusCode, body)
}

// WithDetails returns a copy of e carrying the given field details.
func (e *APIError) WithDetails(details map[string]string) *APIError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithDescription returns a copy of e with a different description.
func (e *APIError) WithDescription(desc string) *APIError {
	cp := *e
	cp.Description = desc
	return &cp
}

// NewAPIError creates a new APIError.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "The request body is malformed",
	}

	ErrValidation = &APIError{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        ErrorCodeValidation,
		Description: "One or more fields failed validation",
	}

	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "Invalid email or password",
	}

	ErrUserAlreadyExists = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeUserAlreadyExists,
		Description: "User with email already exists",
	}

	ErrUserNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeUserNotFound,
		Description: "User not found",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "Token is invalid or expired",
	}

	// ErrInvalidActionToken is returned for bad email verification and
	// password reset links.
	ErrInvalidActionToken = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidToken,
		Description: "Link is invalid, expired or already used",
	}

	ErrTokenRevoked = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTokenRevoked,
		Description: "Token has been revoked",
	}

	ErrMissingToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeMissingToken,
		Description: "Missing bearer token",
	}

	ErrAccessTokenRequired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeAccessTokenRequired,
		Description: "Please provide an access token",
	}

	ErrRefreshTokenRequired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeRefreshTokenRequired,
		Description: "Please provide a refresh token",
	}

	ErrAccountNotVerified = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeAccountNotVerified,
		Description: "Account not verified. Please check your email for verification details",
	}

	ErrInsufficientPermissions = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeInsufficientPermissions,
		Description: "You do not have enough permissions to perform this action",
	}

	ErrBookNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeBookNotFound,
		Description: "Book not found",
	}

	ErrReviewNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeReviewNotFound,
		Description: "Review not found",
	}

	ErrTagNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeTagNotFound,
		Description: "Tag not found",
	}

	ErrTagAlreadyExists = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeTagAlreadyExists,
		Description: "Tag already exists",
	}

	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "You are not allowed to modify this resource",
	}

	ErrPasswordMismatch = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodePasswordMismatch,
		Description: "Passwords do not match",
	}

	ErrRateLimitExceeded = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeRateLimitExceeded,
		Description: "Too many requests, please try again later",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "Oops! Something went wrong",
	}

	ErrServiceUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeServerError,
		Description: "Service is temporarily unavailable",
	}
)

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies that
// are not the error envelope fall back to a generic server_error.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
