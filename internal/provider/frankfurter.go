package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rateconverter/internal/currency"
	"rateconverter/internal/metrics"
)

var _ RatesProvider = (*FrankfurterProvider)(nil)

// DefaultFrankfurterURL is used when no base URL is configured.
const DefaultFrankfurterURL = "https://api.frankfurter.app"

// maxBodyBytes caps how much of a response is read. Larger 2xx bodies are malformed.
const maxBodyBytes = 1 << 20

// maxErrorBodyBytes caps how much of a non-2xx body ends up in the error message.
const maxErrorBodyBytes = 512

const (
	endpointCurrencies = "currencies"
	endpointRates      = "rates"
)

// FrankfurterProvider fetches currencies and rates from the Frankfurter API.
type FrankfurterProvider struct {
	baseURL string
	client  *http.Client
	metrics *metrics.Metrics
}

// NewFrankfurterProvider creates a new FrankfurterProvider.
// Every request is bounded by timeout; a non-positive timeout disables the limit.
func NewFrankfurterProvider(baseURL string, timeout time.Duration, m *metrics.Metrics) *FrankfurterProvider {
	if baseURL == "" {
		baseURL = DefaultFrankfurterURL
	}
	if timeout < 0 {
		timeout = 0
	}
	return &FrankfurterProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		metrics: m,
	}
}

type frankfurterResponse struct {
	Amount float64             `json:"amount"`
	Base   string              `json:"base"`
	Date   string              `json:"date"`
	Rates  map[string]*float64 `json:"rates"`
}

// GetCurrencies retrieves the code -> name listing, preserving the order of the JSON object.
func (p *FrankfurterProvider) GetCurrencies(ctx context.Context) (list []currency.Currency, err error) {
	defer p.observe(endpointCurrencies, time.Now(), &err)

	body, err := p.get(ctx, p.baseURL+"/currencies")
	if err != nil {
		return nil, err
	}

	list, err = decodeCurrencies(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode frankfurter currencies: %w", ErrMalformedResponse, err)
	}
	return list, nil
}

// GetRates retrieves the rates object for the requested date and pair.
func (p *FrankfurterProvider) GetRates(ctx context.Context, r RatesRequest) (rates map[string]float64, err error) {
	defer p.observe(endpointRates, time.Now(), &err)

	body, err := p.get(ctx, p.ratesURL(r))
	if err != nil {
		return nil, err
	}

	var result frankfurterResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: decode frankfurter rates: %w", ErrMalformedResponse, err)
	}
	if result.Rates == nil {
		return nil, fmt.Errorf("%w: no rates in frankfurter response", ErrMalformedResponse)
	}

	rates = make(map[string]float64, len(result.Rates))
	for code, v := range result.Rates {
		if v == nil {
			return nil, fmt.Errorf("%w: null rate for %s in frankfurter response", ErrMalformedResponse, code)
		}
		rates[code] = *v
	}
	return rates, nil
}

// ratesURL forms the API URL for a rates request.
func (p *FrankfurterProvider) ratesURL(r RatesRequest) string {
	date := r.Date
	if date == "" {
		date = LatestDate
	}
	q := url.Values{}
	if r.Amount != 0 {
		q.Set("amount", strconv.FormatFloat(r.Amount, 'f', -1, 64))
	}
	q.Set("from", r.From)
	q.Set("to", r.To)
	return fmt.Sprintf("%s/%s?%s", p.baseURL, url.PathEscape(date), q.Encode())
}

// get performs the request and returns the full body of a 2xx response.
func (p *FrankfurterProvider) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: frankfurter request creation failed: %w", ErrTransportFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: frankfurter request failed: %w", ErrTransportFailure, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read frankfurter response: %w", ErrTransportFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBodyBytes {
			body = body[:maxErrorBodyBytes]
		}
		return nil, fmt.Errorf("%w: frankfurter API returned status %d: %s", ErrTransportFailure, resp.StatusCode, string(body))
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: frankfurter response exceeds %d bytes", ErrMalformedResponse, maxBodyBytes)
	}
	return body, nil
}

func (p *FrankfurterProvider) observe(endpoint string, start time.Time, err *error) {
	p.metrics.ObserveUpstream(endpoint, Outcome(*err), time.Since(start))
}

// decodeCurrencies reads a JSON object of code -> display name.
// A Go map would lose the key order, so the object is walked token by token.
func decodeCurrencies(body []byte) ([]currency.Currency, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	list := make([]currency.Currency, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		code, _ := tok.(string)

		var name *string
		if err := dec.Decode(&name); err != nil {
			return nil, fmt.Errorf("name for %q: %w", code, err)
		}
		if name == nil {
			return nil, fmt.Errorf("null name for %q", code)
		}
		list = append(list, currency.Currency{Code: code, Name: *name})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after currencies object")
	}
	return list, nil
}
