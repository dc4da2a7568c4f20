package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rateconverter/internal/currency"
	"rateconverter/internal/metrics"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFrankfurterProvider_GetCurrencies(t *testing.T) {
	t.Run("keeps response key order", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/currencies", r.URL.Path)
			_, _ = w.Write([]byte(`{"USD":"United States Dollar","EUR":"Euro"}`))
		})

		p := NewFrankfurterProvider(srv.URL, 5*time.Second, nil)
		list, err := p.GetCurrencies(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []currency.Currency{
			{Code: "USD", Name: "United States Dollar"},
			{Code: "EUR", Name: "Euro"},
		}, list)
	})

	t.Run("order is not alphabetical", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ZAR":"South African Rand","AUD":"Australian Dollar","MXN":"Mexican Peso"}`))
		})

		list, err := NewFrankfurterProvider(srv.URL, time.Second, nil).GetCurrencies(context.Background())

		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "ZAR", list[0].Code)
		assert.Equal(t, "AUD", list[1].Code)
		assert.Equal(t, "MXN", list[2].Code)
	})

	t.Run("empty object yields empty list", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})

		list, err := NewFrankfurterProvider(srv.URL, time.Second, nil).GetCurrencies(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	malformed := map[string]string{
		"not json":          `<html>oops</html>`,
		"array":             `["USD","EUR"]`,
		"non-string name":   `{"USD":1}`,
		"null name":         `{"USD":null}`,
		"truncated":         `{"USD":"United States Dollar"`,
		"trailing document": `{"USD":"United States Dollar"} {}`,
	}
	for name, body := range malformed {
		t.Run("malformed: "+name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := NewFrankfurterProvider(srv.URL, time.Second, nil).GetCurrencies(context.Background())

			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.NotErrorIs(t, err, ErrTransportFailure)
		})
	}

	t.Run("non-2xx is a transport failure", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusServiceUnavailable)
		})

		_, err := NewFrankfurterProvider(srv.URL, time.Second, nil).GetCurrencies(context.Background())

		assert.ErrorIs(t, err, ErrTransportFailure)
		assert.Contains(t, err.Error(), "503")
	})
}

func TestFrankfurterProvider_GetRates(t *testing.T) {
	t.Run("latest with amount", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/latest", r.URL.Path)
			assert.Equal(t, "100", r.URL.Query().Get("amount"))
			assert.Equal(t, "USD", r.URL.Query().Get("from"))
			assert.Equal(t, "EUR", r.URL.Query().Get("to"))
			_, _ = w.Write([]byte(`{"amount":100,"base":"USD","date":"2024-03-01","rates":{"EUR":92.5}}`))
		})

		rates, err := NewFrankfurterProvider(srv.URL, time.Second, nil).GetRates(context.Background(), RatesRequest{
			Amount: 100, From: "USD", To: "EUR",
		})

		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"EUR": 92.5}, rates)
	})

	t.Run("dated without amount", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/2024-03-01", r.URL.Path)
			assert.False(t, r.URL.Query().Has("amount"))
			_, _ = w.Write([]byte(`{"rates":{"EUR":0.925}}`))
		})

		rates, err := NewFrankfurterProvider(srv.URL+"/", time.Second, nil).GetRates(context.Background(), RatesRequest{
			Date: "2024-03-01", From: "USD", To: "EUR",
		})

		require.NoError(t, err)
		assert.InDelta(t, 0.925, rates["EUR"], 1e-12)
	})

	t.Run("missing rates key is malformed", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"message":"not found"}`))
		})

		_, err := NewFrankfurterProvider(srv.URL, time.Second, nil).GetRates(context.Background(), RatesRequest{From: "USD", To: "EUR"})

		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("null rate is malformed", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"amount":1,"base":"USD","date":"2024-03-01","rates":{"EUR":null}}`))
		})

		rates, err := NewFrankfurterProvider(srv.URL, time.Second, nil).GetRates(context.Background(), RatesRequest{From: "USD", To: "EUR"})

		assert.ErrorIs(t, err, ErrMalformedResponse)
		assert.Nil(t, rates)
	})

	t.Run("zero rate is kept", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"rates":{"EUR":0}}`))
		})

		rates, err := NewFrankfurterProvider(srv.URL, time.Second, nil).GetRates(context.Background(), RatesRequest{From: "USD", To: "EUR"})

		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"EUR": 0}, rates)
	})

	t.Run("oversized body is malformed", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"rates":{"EUR":0.925}}`))
			_, _ = w.Write([]byte(strings.Repeat(" ", maxBodyBytes)))
		})

		_, err := NewFrankfurterProvider(srv.URL, time.Second, nil).GetRates(context.Background(), RatesRequest{From: "USD", To: "EUR"})

		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("non-2xx body is truncated in the error", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(strings.Repeat("x", 4*maxErrorBodyBytes)))
		})

		_, err := NewFrankfurterProvider(srv.URL, time.Second, nil).GetRates(context.Background(), RatesRequest{From: "USD", To: "EUR"})

		require.ErrorIs(t, err, ErrTransportFailure)
		assert.Less(t, len(err.Error()), 2*maxErrorBodyBytes)
	})

	t.Run("invalid json is malformed", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"rates":`))
		})

		_, err := NewFrankfurterProvider(srv.URL, time.Second, nil).GetRates(context.Background(), RatesRequest{From: "USD", To: "EUR"})

		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("timeout is a transport failure", func(t *testing.T) {
		release := make(chan struct{})
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		defer close(release)

		_, err := NewFrankfurterProvider(srv.URL, 50*time.Millisecond, nil).GetRates(context.Background(), RatesRequest{From: "USD", To: "EUR"})

		assert.ErrorIs(t, err, ErrTransportFailure)
	})

	t.Run("unreachable host is a transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		_, err := NewFrankfurterProvider(addr, time.Second, nil).GetRates(context.Background(), RatesRequest{From: "USD", To: "EUR"})

		assert.ErrorIs(t, err, ErrTransportFailure)
	})

	t.Run("canceled context is a transport failure", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"rates":{"EUR":1}}`))
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewFrankfurterProvider(srv.URL, time.Second, nil).GetRates(ctx, RatesRequest{From: "USD", To: "EUR"})

		assert.ErrorIs(t, err, ErrTransportFailure)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFrankfurterProvider_RecordsMetrics(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/currencies" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`{"rates":{"EUR":1}}`))
	})
	m := metrics.New()
	p := NewFrankfurterProvider(srv.URL, time.Second, m)

	_, _ = p.GetRates(context.Background(), RatesRequest{From: "USD", To: "EUR"})
	_, _ = p.GetCurrencies(context.Background())

	body := scrape(t, m)
	assert.Contains(t, body, `rateconverter_upstream_requests_total{endpoint="rates",outcome="ok"} 1`)
	assert.Contains(t, body, `rateconverter_upstream_requests_total{endpoint="currencies",outcome="malformed_response"} 1`)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, metrics.OutcomeOK, Outcome(nil))
	assert.Equal(t, metrics.OutcomeMalformedResponse, Outcome(ErrMalformedResponse))
	assert.Equal(t, metrics.OutcomeTransportFailure, Outcome(ErrTransportFailure))
	assert.Equal(t, metrics.OutcomeTransportFailure, Outcome(assert.AnError))
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}
