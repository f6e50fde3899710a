package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/i474232898/environmental-data-aggregation/internal/climate"
)

const defaultWorldBankURL = "https://climateknowledgeportal.worldbank.org/api/v2/country"

// WorldBankProvider implements climate.CountryContextSource with the World Bank
// Climate Knowledge Portal country series. The payloads are passed through as-is.
type WorldBankProvider struct {
	name        string
	baseURL     string
	countryCode string
	client      *http.Client
	circuit     *gobreaker.CircuitBreaker
	pacer       *Pacer
}

// NewWorldBankProvider creates a provider for an ISO 3166 alpha-3 country code.
func NewWorldBankProvider(client *http.Client, baseURL, countryCode string, pacer *Pacer) *WorldBankProvider {
	if baseURL == "" {
		baseURL = defaultWorldBankURL
	}
	return &WorldBankProvider{
		name:        "worldbank",
		baseURL:     baseURL,
		countryCode: countryCode,
		client:      client,
		circuit:     newCircuitBreaker("worldbank"),
		pacer:       pacer,
	}
}

func (p *WorldBankProvider) Name() string {
	return p.name
}

// FetchCountryContext fetches the precipitation and temperature series. A series
// that fails is left out; an error is returned only when both fail.
func (p *WorldBankProvider) FetchCountryContext(ctx context.Context) (map[string]any, error) {
	if p.countryCode == "" {
		return nil, fmt.Errorf("%w: worldbank country code is not configured", climate.ErrProviderUnavailable)
	}

	series := []struct {
		key      string
		variable string
	}{
		{key: "precipitation", variable: "prcp"},
		{key: "temperature", variable: "tas"},
	}

	data := make(map[string]any, len(series))
	var errs []error
	for _, s := range series {
		v, err := p.fetchSeries(ctx, s.variable)
		if err != nil {
			log.Printf("WARN: worldbank %s series unavailable: %v", s.key, err)
			errs = append(errs, err)
			continue
		}
		data[s.key] = v
	}

	if len(data) == 0 {
		return nil, errors.Join(errs...)
	}
	return data, nil
}

func (p *WorldBankProvider) fetchSeries(ctx context.Context, variable string) (any, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/%s/%s/data.json", p.baseURL, p.countryCode, variable)
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, p.pacer, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode %s %s: %v", climate.ErrProviderUnavailable, p.name, variable, err)
	}
	return payload, nil
}
