package service

import (
	"fmt"

	"rateconverter/internal/currency"
)

// Lookup resolves a code against the held currency list (case-insensitive).
func (s *RateService) Lookup(code string) (currency.Currency, error) {
	code = currency.NormalizeCode(code)
	if !currency.IsValidCode(code) {
		return currency.Currency{}, ErrInvalidCurrencyCode
	}
	c, ok := s.catalog.Load().Lookup(code)
	if !ok {
		return currency.Currency{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return c, nil
}

// LookupPair resolves both codes of a conversion, reporting the first failure.
func LookupPair(svc RateServiceInterface, from, to string) (source, target currency.Currency, err error) {
	if source, err = svc.Lookup(from); err != nil {
		return currency.Currency{}, currency.Currency{}, err
	}
	if target, err = svc.Lookup(to); err != nil {
		return currency.Currency{}, currency.Currency{}, err
	}
	return source, target, nil
}
