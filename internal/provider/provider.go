// Package provider implements the client for the external exchange-rate API.
package provider

import (
	"context"
	"errors"

	"rateconverter/internal/currency"
	"rateconverter/internal/metrics"
)

// ErrTransportFailure covers unreachable hosts, timeouts, canceled requests and non-2xx statuses.
var ErrTransportFailure = errors.New("transport failure")

// ErrMalformedResponse means the API answered but the body lacks the expected shape.
var ErrMalformedResponse = errors.New("malformed response")

// LatestDate is the path segment the API uses for the most recent rates.
const LatestDate = "latest"

// RatesRequest describes a GET {base}/{date}?amount=..&from=..&to=.. call.
type RatesRequest struct {
	Date   string  // LatestDate or YYYY-MM-DD
	Amount float64 // omitted from the query when zero
	From   string
	To     string
}

// RatesProvider defines an interface for fetching currencies and rates from an external source.
type RatesProvider interface {
	GetCurrencies(ctx context.Context) ([]currency.Currency, error)
	GetRates(ctx context.Context, req RatesRequest) (map[string]float64, error)
}

// Outcome maps an error returned by a RatesProvider to a metrics outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrMalformedResponse):
		return metrics.OutcomeMalformedResponse
	default:
		return metrics.OutcomeTransportFailure
	}
}
