// Package presenter renders rate service results as user-facing text.
package presenter

import (
	"fmt"

	"github.com/shopspring/decimal"

	"rateconverter/internal/currency"
)

// Decimal places used when rendering results.
const (
	AmountPlaces = 2
	DeltaPlaces  = 4
)

// Messages shown instead of a number when no result could be obtained.
const (
	ConversionErrorMessage = "Error performing the conversion."
	DeltaErrorMessage      = "Error calculating the exchange rate difference."
	RateErrorMessage       = "Error fetching the exchange rate."
	CurrenciesErrorMessage = "Error fetching currencies."
)

// FormatAmount renders v with AmountPlaces decimals.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(AmountPlaces)
}

// FormatDeltaValue renders v with DeltaPlaces decimals.
func FormatDeltaValue(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(DeltaPlaces)
}

// FormatCurrency renders the "CODE - Name" label used in currency pickers.
func FormatCurrency(c currency.Currency) string {
	return c.Code + " - " + c.Name
}

// FormatConversion renders a conversion result, e.g. "100 USD = 92.50 EUR".
func FormatConversion(amount float64, source, target currency.Currency, converted float64, err error) string {
	if err != nil {
		return ConversionErrorMessage
	}
	return fmt.Sprintf("%s %s = %s %s",
		decimal.NewFromFloat(amount).String(), source.Code,
		FormatAmount(converted), target.Code)
}

// FormatDelta renders the day-over-day rate change in target units.
func FormatDelta(target currency.Currency, delta float64, err error) string {
	if err != nil {
		return DeltaErrorMessage
	}
	return fmt.Sprintf("Exchange rate change between today and yesterday: %s %s", FormatDeltaValue(delta), target.Code)
}

// FormatRate renders the rate published on date, e.g. "2024-03-01: 1 USD = 0.9234 EUR".
func FormatRate(date string, source, target currency.Currency, rate float64, err error) string {
	if err != nil {
		return RateErrorMessage
	}
	return fmt.Sprintf("%s: 1 %s = %s %s", date, source.Code, FormatDeltaValue(rate), target.Code)
}
