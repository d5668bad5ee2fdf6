package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/bookly/pkg/booklysdk"
	"github.com/aussiebroadwan/bookly/pkg/httpx"
)

const readyzTimeout = 2 * time.Second

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the database and the revocation store
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	booklysdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	booklysdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	db Pinger,
	revocations Pinger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
		defer cancel()

		checks := &booklysdk.HealthChecks{
			Database:    "ok",
			Revocations: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check database connectivity
		if err := db.Ping(ctx); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// Without the revocation store every authenticated route fails closed
		if err := revocations.Ping(ctx); err != nil {
			checks.Revocations = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := booklysdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
