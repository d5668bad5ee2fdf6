package booklysdk

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIError_WriteError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	ErrAccountNotVerified.WriteError(rec)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "account_not_verified", body["error"])
	require.NotEmpty(t, body["error_description"])
	require.NotContains(t, body, "details")
}

func TestAPIError_WithDetails(t *testing.T) {
	t.Parallel()

	err := ErrValidation.WithDetails(map[string]string{"email": "must be a valid email address"})
	require.Nil(t, ErrValidation.Details, "predefined error must not be mutated")

	rec := httptest.NewRecorder()
	err.WriteError(rec)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, ErrorCodeValidation, body.Code)
	require.Equal(t, "must be a valid email address", body.Details["email"])
}

func TestAPIError_Is(t *testing.T) {
	t.Parallel()

	got := &APIError{StatusCode: http.StatusUnauthorized, Code: ErrorCodeTokenRevoked}
	require.True(t, errors.Is(got, ErrTokenRevoked))
	require.False(t, errors.Is(got, ErrInvalidToken))

	// Action token failures share the code with session token failures
	require.True(t, errors.Is(ErrInvalidActionToken, ErrInvalidToken))
}

func TestParseErrorResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
	}{
		{"envelope", http.StatusConflict, `{"error":"user_already_exists","error_description":"taken"}`, ErrorCodeUserAlreadyExists},
		{"plain text", http.StatusBadGateway, "upstream down", ErrorCodeServerError},
		{"empty json", http.StatusNotFound, `{}`, ErrorCodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErrorResponse(&http.Response{StatusCode: tt.status}, []byte(tt.body))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.status, apiErr.StatusCode)
			require.Equal(t, tt.wantCode, apiErr.Code)
		})
	}

	require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusOK}, nil))
}
