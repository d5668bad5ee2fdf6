package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/aussiebroadwan/bookly/pkg/booklysdk"
	"github.com/aussiebroadwan/bookly/pkg/httpx"
	"github.com/aussiebroadwan/bookly/pkg/idx"
	"github.com/aussiebroadwan/bookly/pkg/slogx"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

type validatable interface {
	Validate() error
}

// decodeRequest reads a JSON body into dst and validates it. On failure the
// error response has been written and false is returned.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst validatable) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		desc := "Request body must be valid JSON"
		if errors.Is(err, io.EOF) {
			desc = "Request body is required"
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			desc = "Request body is too large"
		}
		booklysdk.ErrInvalidRequest.WithDescription(desc).WriteError(w)
		return false
	}

	if err := dst.Validate(); err != nil {
		details := booklysdk.ValidationDetails(err)
		if details == nil {
			slogx.FromContext(r.Context()).Error("request validation failed unexpectedly", "err", err)
			booklysdk.ErrServerError.WriteError(w)
			return false
		}
		booklysdk.ErrValidation.WithDetails(details).WriteError(w)
		return false
	}

	return true
}

// pathID returns the named path value when it is a well formed id. Anything
// else is answered with notFound.
func pathID(w http.ResponseWriter, r *http.Request, name string, notFound *booklysdk.APIError) (string, bool) {
	id := r.PathValue(name)
	if !idx.Valid(id) {
		notFound.WriteError(w)
		return "", false
	}
	return id, true
}

// caller returns the principal resolved for a protected route.
func caller(w http.ResponseWriter, r *http.Request) (httpx.Principal, bool) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		booklysdk.ErrMissingToken.WriteError(w)
	}
	return p, ok
}
