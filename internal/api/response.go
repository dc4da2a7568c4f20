// Package api implements HTTP handlers for the currency conversion service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"rateconverter/internal/provider"
	"rateconverter/internal/service"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string `json:"error" example:"Error performing the conversion."`
	Reason string `json:"reason,omitempty" example:"transport_failure"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError maps a rate service error to a status code.
// absentMsg is shown when the upstream API gave no usable answer.
func writeServiceError(w http.ResponseWriter, err error, absentMsg string) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidCurrencyCode),
		errors.Is(err, service.ErrUnknownCurrency),
		errors.Is(err, service.ErrInvalidDate):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case service.IsAbsent(err):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: absentMsg, Reason: provider.Outcome(err)})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
	}
}
