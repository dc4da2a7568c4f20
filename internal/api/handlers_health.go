package api

import (
	"net/http"

	"rateconverter/internal/service"
)

// ReadyResponse represents the readiness response
type ReadyResponse struct {
	Status     string `json:"status" example:"ready"`
	Currencies int    `json:"currencies" example:"30"`
}

// HandleHealthz godoc
// @Summary Health check (liveness)
// @Description Always returns 200 OK if the service is running. Used for liveness probes.
// @Tags health
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("OK"))
	}
}

// HandleReadyz godoc
// @Summary Readiness check
// @Description Returns 200 once the currency list has been loaded from the rates API.
// @Tags health
// @Produce json
// @Success 200 {object} ReadyResponse "Currency list loaded"
// @Failure 503 {object} ErrorResponse "Currency list not loaded"
// @Router /readyz [get]
func HandleReadyz(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := len(svc.Currencies())
		if n == 0 {
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "Currency list not loaded"})
			return
		}
		writeJSON(w, http.StatusOK, ReadyResponse{Status: "ready", Currencies: n})
	}
}
