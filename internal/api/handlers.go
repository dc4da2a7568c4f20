package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"rateconverter/internal/currency"
	"rateconverter/internal/presenter"
	"rateconverter/internal/provider"
	"rateconverter/internal/service"
)

// ConvertResponse represents the result of a conversion
type ConvertResponse struct {
	Amount  float64 `json:"amount" example:"100"`
	From    string  `json:"from" example:"USD"`
	To      string  `json:"to" example:"EUR"`
	Date    string  `json:"date" example:"latest"`
	Result  float64 `json:"result" example:"92.5"`
	Display string  `json:"display" example:"100 USD = 92.50 EUR"`
}

// RateResponse represents a rate published on a date
type RateResponse struct {
	Date string  `json:"date" example:"2024-03-01"`
	From string  `json:"from" example:"USD"`
	To   string  `json:"to" example:"EUR"`
	Rate float64 `json:"rate" example:"0.9234"`
}

// DeltaResponse represents the day-over-day rate change
type DeltaResponse struct {
	From    string  `json:"from" example:"USD"`
	To      string  `json:"to" example:"EUR"`
	Delta   float64 `json:"delta" example:"-0.005"`
	Display string  `json:"display" example:"Exchange rate change between today and yesterday: -0.0050 EUR"`
}

// HandleListCurrencies godoc
// @Summary List currencies
// @Description Returns the currency list in the order published by the rates API. The list is loaded at startup; if that failed, one load is attempted per request.
// @Tags currencies
// @Produce json
// @Success 200 {array} currency.Currency "Currencies"
// @Failure 502 {object} ErrorResponse "Rates API unavailable or returned bad data"
// @Router /currencies [get]
func HandleListCurrencies(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ensureCurrencies(r.Context(), svc); err != nil {
			writeServiceError(w, err, presenter.CurrenciesErrorMessage)
			return
		}
		writeJSON(w, http.StatusOK, svc.Currencies())
	}
}

// HandleConvert godoc
// @Summary Convert an amount
// @Description Converts amount from one currency to another at the latest rates or at the given date. Converting a currency to itself returns the amount without calling the rates API.
// @Tags rates
// @Produce json
// @Param amount query number true "Positive amount to convert"
// @Param from query string true "Source currency code" minlength(3) maxlength(3)
// @Param to query string true "Target currency code" minlength(3) maxlength(3)
// @Param date query string false "Date in YYYY-MM-DD format, defaults to latest"
// @Success 200 {object} ConvertResponse "Converted amount"
// @Failure 400 {object} ErrorResponse "Invalid amount, currency or date"
// @Failure 502 {object} ErrorResponse "Rates API unavailable or returned bad data"
// @Router /convert [get]
func HandleConvert(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		amount, err := strconv.ParseFloat(strings.TrimSpace(q.Get("amount")), 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: service.ErrInvalidAmount.Error()})
			return
		}
		date, err := service.ParseDate(q.Get("date"))
		if err != nil {
			writeServiceError(w, err, "")
			return
		}
		source, target, err := resolvePair(r.Context(), svc, q.Get("from"), q.Get("to"))
		if err != nil {
			writeServiceError(w, err, presenter.ConversionErrorMessage)
			return
		}

		converted, err := svc.Convert(r.Context(), service.ConversionRequest{
			Amount: amount,
			Source: source,
			Target: target,
			Date:   date,
		})
		if err != nil {
			writeServiceError(w, err, presenter.ConversionErrorMessage)
			return
		}

		dateLabel := provider.LatestDate
		if !date.IsZero() {
			dateLabel = service.FormatDate(date)
		}
		writeJSON(w, http.StatusOK, ConvertResponse{
			Amount:  amount,
			From:    source.Code,
			To:      target.Code,
			Date:    dateLabel,
			Result:  converted,
			Display: presenter.FormatConversion(amount, source, target, converted, nil),
		})
	}
}

// HandleRateOnDate godoc
// @Summary Get the rate on a date
// @Description Returns the rate from one currency to another published on the given date. The rate of a currency to itself is 1.
// @Tags rates
// @Produce json
// @Param date path string true "Date in YYYY-MM-DD format"
// @Param from query string true "Source currency code" minlength(3) maxlength(3)
// @Param to query string true "Target currency code" minlength(3) maxlength(3)
// @Success 200 {object} RateResponse "Rate"
// @Failure 400 {object} ErrorResponse "Invalid currency or date"
// @Failure 502 {object} ErrorResponse "Rates API unavailable or returned bad data"
// @Router /rates/{date} [get]
func HandleRateOnDate(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := service.ParseDate(chi.URLParam(r, "date"))
		if err == nil && date.IsZero() {
			err = service.ErrInvalidDate
		}
		if err != nil {
			writeServiceError(w, err, "")
			return
		}
		source, target, err := resolvePair(r.Context(), svc, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
		if err != nil {
			writeServiceError(w, err, presenter.RateErrorMessage)
			return
		}

		rate, err := svc.RateOnDate(r.Context(), date, source, target)
		if err != nil {
			writeServiceError(w, err, presenter.RateErrorMessage)
			return
		}

		writeJSON(w, http.StatusOK, RateResponse{
			Date: service.FormatDate(date),
			From: source.Code,
			To:   target.Code,
			Rate: rate,
		})
	}
}

// HandleRateDelta godoc
// @Summary Get the day-over-day rate change
// @Description Returns today's rate minus yesterday's rate, where yesterday is 24 hours before now and both are UTC dates.
// @Tags rates
// @Produce json
// @Param from query string true "Source currency code" minlength(3) maxlength(3)
// @Param to query string true "Target currency code" minlength(3) maxlength(3)
// @Success 200 {object} DeltaResponse "Rate change"
// @Failure 400 {object} ErrorResponse "Invalid currency"
// @Failure 502 {object} ErrorResponse "Rates API unavailable or returned bad data"
// @Router /rates/delta [get]
func HandleRateDelta(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source, target, err := resolvePair(r.Context(), svc, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
		if err != nil {
			writeServiceError(w, err, presenter.DeltaErrorMessage)
			return
		}

		delta, err := svc.RateDelta(r.Context(), source, target)
		if err != nil {
			writeServiceError(w, err, presenter.DeltaErrorMessage)
			return
		}

		writeJSON(w, http.StatusOK, DeltaResponse{
			From:    source.Code,
			To:      target.Code,
			Delta:   delta,
			Display: presenter.FormatDelta(target, delta, nil),
		})
	}
}

// ensureCurrencies loads the currency list if the startup load did not succeed.
func ensureCurrencies(ctx context.Context, svc service.RateServiceInterface) error {
	if len(svc.Currencies()) > 0 {
		return nil
	}
	_, err := svc.ListCurrencies(ctx)
	return err
}

func resolvePair(ctx context.Context, svc service.RateServiceInterface, from, to string) (source, target currency.Currency, err error) {
	if !currency.IsValidCode(strings.TrimSpace(from)) || !currency.IsValidCode(strings.TrimSpace(to)) {
		return currency.Currency{}, currency.Currency{}, service.ErrInvalidCurrencyCode
	}
	if err := ensureCurrencies(ctx, svc); err != nil {
		return currency.Currency{}, currency.Currency{}, err
	}
	return service.LookupPair(svc, from, to)
}
