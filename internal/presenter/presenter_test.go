package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rateconverter/internal/currency"
)

var (
	usd = currency.Currency{Code: "USD", Name: "United States Dollar"}
	eur = currency.Currency{Code: "EUR", Name: "Euro"}
)

func TestFormatConversion(t *testing.T) {
	assert.Equal(t, "100 USD = 92.50 EUR", FormatConversion(100, usd, eur, 92.5, nil))
	assert.Equal(t, "12.5 USD = 11.57 EUR", FormatConversion(12.5, usd, eur, 11.5665, nil))
	assert.Equal(t, "1 USD = 1.00 USD", FormatConversion(1, usd, usd, 1, nil))
	assert.Equal(t, ConversionErrorMessage, FormatConversion(100, usd, eur, 0, assert.AnError))
}

func TestFormatDelta(t *testing.T) {
	assert.Equal(t, "Exchange rate change between today and yesterday: -0.0050 EUR", FormatDelta(eur, -0.005, nil))
	assert.Equal(t, "Exchange rate change between today and yesterday: 0.0000 EUR", FormatDelta(eur, 0, nil))
	assert.Equal(t, DeltaErrorMessage, FormatDelta(eur, 0, assert.AnError))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "2024-03-01: 1 USD = 0.9234 EUR", FormatRate("2024-03-01", usd, eur, 0.92341, nil))
	assert.Equal(t, "2024-03-01: 1 EUR = 1.0000 EUR", FormatRate("2024-03-01", eur, eur, 1, nil))
	assert.Equal(t, RateErrorMessage, FormatRate("2024-03-01", usd, eur, 0, assert.AnError))
}

func TestFormatValues(t *testing.T) {
	tests := []struct {
		v          float64
		amount     string
		deltaValue string
	}{
		{0, "0.00", "0.0000"},
		{1.005, "1.01", "1.0050"},
		{0.12345, "0.12", "0.1235"},
		{-2.5, "-2.50", "-2.5000"},
		{1234567.891, "1234567.89", "1234567.8910"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.amount, FormatAmount(tc.v), "amount %v", tc.v)
		assert.Equal(t, tc.deltaValue, FormatDeltaValue(tc.v), "delta %v", tc.v)
	}
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "USD - United States Dollar", FormatCurrency(usd))
}
