package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/bookly/internal/bookly/mail"
	"github.com/aussiebroadwan/bookly/internal/bookly/service"
	"github.com/aussiebroadwan/bookly/pkg/booklysdk"
	"github.com/aussiebroadwan/bookly/pkg/revoke"
	"github.com/aussiebroadwan/bookly/pkg/slogx"
)

// serviceErrors maps service sentinels to their API error.
var serviceErrors = []struct {
	err error
	api *booklysdk.APIError
}{
	{service.ErrInvalidCredentials, booklysdk.ErrInvalidCredentials},
	{service.ErrUserAlreadyExists, booklysdk.ErrUserAlreadyExists},
	{service.ErrUserNotFound, booklysdk.ErrUserNotFound},
	{service.ErrInvalidActionToken, booklysdk.ErrInvalidActionToken},
	{service.ErrPasswordMismatch, booklysdk.ErrPasswordMismatch},
	{service.ErrBookNotFound, booklysdk.ErrBookNotFound},
	{service.ErrReviewNotFound, booklysdk.ErrReviewNotFound},
	{service.ErrTagNotFound, booklysdk.ErrTagNotFound},
	{service.ErrTagAlreadyExists, booklysdk.ErrTagAlreadyExists},
	{service.ErrForbidden, booklysdk.ErrForbidden},
	{revoke.ErrUnavailable, booklysdk.ErrServiceUnavailable},
	{mail.ErrQueueFull, booklysdk.ErrServiceUnavailable},
	{mail.ErrStopped, booklysdk.ErrServiceUnavailable},
}

// writeServiceError writes the API error for err. Anything unexpected is
// logged and answered with a generic server_error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			if m.api.StatusCode >= http.StatusInternalServerError {
				slogx.FromContext(r.Context()).Error("dependency unavailable", "err", err)
			}
			m.api.WriteError(w)
			return
		}
	}

	slogx.FromContext(r.Context()).Error("unhandled service error", "err", err, "path", r.URL.Path)
	booklysdk.ErrServerError.WriteError(w)
}
