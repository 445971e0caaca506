package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/store"
	"github.com/aussiebroadwan/qrpay/pkg/httpx"
	"github.com/aussiebroadwan/qrpay/pkg/qrsdk"
	"github.com/aussiebroadwan/qrpay/pkg/slogx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the database and, when configured, the message broker
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	qrsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	qrsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	broker Pinger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := slogx.FromContext(r.Context())
		checks := &qrsdk.HealthChecks{
			Database: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			log.Error("readiness: database ping failed", "err", err)
			checks.Database = "error"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// The broker only carries best-effort broadcasts, so it never fails readiness
		if broker != nil {
			checks.Broker = "ok"
			if err := broker.Ping(r.Context()); err != nil {
				log.Warn("readiness: broker ping failed", "err", err)
				checks.Broker = "error"
				overallStatus = "degraded"
			}
		}

		response := qrsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
