package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rateconverter/internal/provider"
)

// DateLayout is the ISO 8601 calendar date format used by the rates API.
const DateLayout = "2006-01-02"

// ErrTransportFailure is returned when the rates API could not be reached or answered non-2xx.
var ErrTransportFailure = provider.ErrTransportFailure

// ErrMalformedResponse is returned when the rates API answered without the expected data.
var ErrMalformedResponse = provider.ErrMalformedResponse

// ErrInvalidAmount indicates the amount is not a positive finite number.
var ErrInvalidAmount = errors.New("amount must be a positive number")

// ErrInvalidCurrencyCode indicates a code is not three ASCII letters.
var ErrInvalidCurrencyCode = errors.New("invalid currency code format")

// ErrUnknownCurrency indicates a well-formed code that is not in the currency list.
var ErrUnknownCurrency = errors.New("unknown currency")

// ErrInvalidDate indicates a date that is not in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// FormatDate renders the UTC calendar date of t.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses an optional YYYY-MM-DD date.
// Empty input and "latest" yield the zero time, which means latest rates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, provider.LatestDate) {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// IsAbsent reports whether err means no usable rate was obtained from the API.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrTransportFailure) || errors.Is(err, ErrMalformedResponse)
}
