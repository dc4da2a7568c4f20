package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rateconverter/internal/currency"
	"rateconverter/internal/provider"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetCurrencies(ctx context.Context) ([]currency.Currency, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]currency.Currency)
	return list, args.Error(1)
}

func (m *MockProvider) GetRates(ctx context.Context, req provider.RatesRequest) (map[string]float64, error) {
	args := m.Called(ctx, req)
	rates, _ := args.Get(0).(map[string]float64)
	return rates, args.Error(1)
}
