package api

import (
	"context"
	"time"

	"rateconverter/internal/currency"
	"rateconverter/internal/service"
)

// mockRateService implements service.RateServiceInterface for testing.
type mockRateService struct {
	currencies         []currency.Currency
	listCurrenciesFunc func(ctx context.Context) ([]currency.Currency, error)
	convertFunc        func(ctx context.Context, req service.ConversionRequest) (float64, error)
	rateOnDateFunc     func(ctx context.Context, date time.Time, source, target currency.Currency) (float64, error)
	rateDeltaFunc      func(ctx context.Context, source, target currency.Currency) (float64, error)
}

func (m *mockRateService) ListCurrencies(ctx context.Context) ([]currency.Currency, error) {
	list, err := m.listCurrenciesFunc(ctx)
	if err == nil {
		m.currencies = list
	}
	return list, err
}

func (m *mockRateService) Currencies() []currency.Currency {
	return m.currencies
}

func (m *mockRateService) Lookup(code string) (currency.Currency, error) {
	c, ok := currency.NewCatalog(m.currencies).Lookup(code)
	if !ok {
		return currency.Currency{}, service.ErrUnknownCurrency
	}
	return c, nil
}

func (m *mockRateService) Convert(ctx context.Context, req service.ConversionRequest) (float64, error) {
	return m.convertFunc(ctx, req)
}

func (m *mockRateService) RateOnDate(ctx context.Context, date time.Time, source, target currency.Currency) (float64, error) {
	return m.rateOnDateFunc(ctx, date, source, target)
}

func (m *mockRateService) RateDelta(ctx context.Context, source, target currency.Currency) (float64, error) {
	return m.rateDeltaFunc(ctx, source, target)
}
