// Package service implements the rate service: currency listing, conversion and rate lookups.
package service

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rateconverter/internal/currency"
	"rateconverter/internal/metrics"
	"rateconverter/internal/provider"
)

// Operation names used in logs and metrics.
const (
	OpListCurrencies = "list_currencies"
	OpConvert        = "convert"
	OpRateOnDate     = "rate_on_date"
	OpRateDelta      = "rate_delta"
)

// RateServiceInterface defines the operations available to presentation layers.
type RateServiceInterface interface {
	ListCurrencies(ctx context.Context) ([]currency.Currency, error)
	Currencies() []currency.Currency
	Lookup(code string) (currency.Currency, error)
	Convert(ctx context.Context, req ConversionRequest) (float64, error)
	RateOnDate(ctx context.Context, date time.Time, source, target currency.Currency) (float64, error)
	RateDelta(ctx context.Context, source, target currency.Currency) (float64, error)
}

// ConversionRequest is an amount to convert between two currencies.
// A zero Date asks for the latest rates.
type ConversionRequest struct {
	Amount float64
	Source currency.Currency
	Target currency.Currency
	Date   time.Time
}

// RateService talks to a RatesProvider and holds the currency list loaded at startup.
type RateService struct {
	provider provider.RatesProvider
	metrics  *metrics.Metrics
	log      *zap.SugaredLogger
	now      func() time.Time
	catalog  atomic.Pointer[currency.Catalog]
}

// Option configures a RateService.
type Option func(*RateService)

// WithClock replaces time.Now, which decides "today" for RateDelta.
func WithClock(now func() time.Time) Option {
	return func(s *RateService) {
		s.now = now
	}
}

// NewRateService creates a new RateService.
func NewRateService(prov provider.RatesProvider, m *metrics.Metrics, logger *zap.SugaredLogger, opts ...Option) *RateService {
	s := &RateService{
		provider: prov,
		metrics:  m,
		log:      logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListCurrencies fetches the currency list and keeps it for Currencies and Lookup.
// On failure it returns an empty list together with the error; the held list is left as is.
func (s *RateService) ListCurrencies(ctx context.Context) ([]currency.Currency, error) {
	list, err := s.provider.GetCurrencies(ctx)
	if err != nil {
		s.fail(OpListCurrencies, err)
		return []currency.Currency{}, err
	}

	catalog := currency.NewCatalog(list)
	s.catalog.Store(catalog)
	s.metrics.ObserveOperation(OpListCurrencies, metrics.OutcomeOK)
	s.log.Debugw("Loaded currencies", "count", catalog.Len())
	return catalog.All(), nil
}

// Currencies returns the held currency list in upstream order.
func (s *RateService) Currencies() []currency.Currency {
	return s.catalog.Load().All()
}

// Convert converts req.Amount from source to target at the latest or requested date.
func (s *RateService) Convert(ctx context.Context, req ConversionRequest) (float64, error) {
	if err := validateAmount(req.Amount); err != nil {
		s.metrics.ObserveOperation(OpConvert, metrics.OutcomeInvalidInput)
		return 0, err
	}
	from, to, err := normalizePair(req.Source, req.Target)
	if err != nil {
		s.metrics.ObserveOperation(OpConvert, metrics.OutcomeInvalidInput)
		return 0, err
	}

	if from == to {
		s.metrics.ObserveOperation(OpConvert, metrics.OutcomeIdentity)
		return req.Amount, nil
	}

	date := provider.LatestDate
	if !req.Date.IsZero() {
		date = FormatDate(req.Date)
	}

	converted, err := s.fetchRate(ctx, provider.RatesRequest{
		Date:   date,
		Amount: req.Amount,
		From:   from,
		To:     to,
	})
	if err != nil {
		s.fail(OpConvert, err, "amount", req.Amount, "from", from, "to", to, "date", date)
		return 0, err
	}

	s.metrics.ObserveOperation(OpConvert, metrics.OutcomeOK)
	return converted, nil
}

// RateOnDate returns the source->target rate published for date.
func (s *RateService) RateOnDate(ctx context.Context, date time.Time, source, target currency.Currency) (float64, error) {
	from, to, err := normalizePair(source, target)
	if err != nil {
		s.metrics.ObserveOperation(OpRateOnDate, metrics.OutcomeInvalidInput)
		return 0, err
	}
	if from == to {
		s.metrics.ObserveOperation(OpRateOnDate, metrics.OutcomeIdentity)
		return 1, nil
	}

	rate, err := s.rateOn(ctx, date, from, to)
	if err != nil {
		s.fail(OpRateOnDate, err, "date", FormatDate(date), "from", from, "to", to)
		return 0, err
	}

	s.metrics.ObserveOperation(OpRateOnDate, metrics.OutcomeOK)
	return rate, nil
}

// RateDelta returns today's rate minus yesterday's rate for source->target.
// Yesterday is now minus 24 hours, both taken as UTC calendar dates.
// The two lookups run concurrently and both must succeed.
func (s *RateService) RateDelta(ctx context.Context, source, target currency.Currency) (float64, error) {
	from, to, err := normalizePair(source, target)
	if err != nil {
		s.metrics.ObserveOperation(OpRateDelta, metrics.OutcomeInvalidInput)
		return 0, err
	}
	if from == to {
		s.metrics.ObserveOperation(OpRateDelta, metrics.OutcomeIdentity)
		return 0, nil
	}

	now := s.now()
	today := now.UTC()
	yesterday := now.Add(-24 * time.Hour).UTC()

	var rateToday, rateYesterday float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rateToday, err = s.rateOn(gctx, today, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		rateYesterday, err = s.rateOn(gctx, yesterday, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		s.fail(OpRateDelta, err,
			"from", from,
			"to", to,
			"today", FormatDate(today),
			"yesterday", FormatDate(yesterday))
		return 0, err
	}

	s.metrics.ObserveOperation(OpRateDelta, metrics.OutcomeOK)
	return rateToday - rateYesterday, nil
}

// rateOn fetches a dated rate without logging; callers report failures once.
func (s *RateService) rateOn(ctx context.Context, date time.Time, from, to string) (float64, error) {
	return s.fetchRate(ctx, provider.RatesRequest{
		Date: FormatDate(date),
		From: from,
		To:   to,
	})
}

func (s *RateService) fetchRate(ctx context.Context, req provider.RatesRequest) (float64, error) {
	rates, err := s.provider.GetRates(ctx, req)
	if err != nil {
		return 0, err
	}
	v, ok := rates[req.To]
	if !ok {
		return 0, fmt.Errorf("%w: no rate for %s on %s", ErrMalformedResponse, req.To, req.Date)
	}
	return v, nil
}

// fail records a failed operation: one log entry and one metric.
func (s *RateService) fail(op string, err error, keysAndValues ...any) {
	s.metrics.ObserveOperation(op, provider.Outcome(err))
	s.log.Errorw("Rate service operation failed", append([]any{"operation", op, "error", err}, keysAndValues...)...)
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func normalizePair(source, target currency.Currency) (from, to string, err error) {
	from, to = currency.NormalizeCode(source.Code), currency.NormalizeCode(target.Code)
	if !currency.IsValidCode(from) || !currency.IsValidCode(to) {
		return "", "", ErrInvalidCurrencyCode
	}
	return from, to, nil
}
