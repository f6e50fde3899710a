package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/environmental-data-aggregation/internal/climate"
)

const (
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	defaultArchiveURL  = "https://archive-api.open-meteo.com/v1/archive"
)

var (
	currentVariables = []string{
		"temperature_2m", "relative_humidity_2m", "apparent_temperature", "precipitation",
		"weather_code", "cloud_cover", "pressure_msl", "surface_pressure",
		"wind_speed_10m", "wind_direction_10m",
	}
	forecastDailyVariables = []string{
		"temperature_2m_max", "temperature_2m_min", "precipitation_sum",
	}
	historicalMetrics = []climate.Metric{
		climate.MetricTempMax,
		climate.MetricTempMin,
		climate.MetricTempMean,
		climate.MetricPrecipitation,
		climate.MetricWindSpeedMax,
		climate.MetricEvapotranspiration,
		climate.MetricSurfacePressure,
	}
)

// OpenMeteoConfig configures the Open-Meteo endpoints. Empty URLs use the public API.
type OpenMeteoConfig struct {
	ForecastURL  string
	ArchiveURL   string
	HistoryYears int
	Pacer        *Pacer
}

// OpenMeteoProvider implements climate.WeatherSource with the Open-Meteo
// forecast and historical archive APIs. Wind speeds are requested in m/s.
type OpenMeteoProvider struct {
	name         string
	forecastURL  string
	archiveURL   string
	historyYears int
	client       *http.Client
	circuit      *gobreaker.CircuitBreaker
	pacer        *Pacer
	now          func() time.Time
}

func NewOpenMeteoProvider(client *http.Client, cfg OpenMeteoConfig) *OpenMeteoProvider {
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = defaultForecastURL
	}
	if cfg.ArchiveURL == "" {
		cfg.ArchiveURL = defaultArchiveURL
	}
	if cfg.HistoryYears <= 0 {
		cfg.HistoryYears = 5
	}

	return &OpenMeteoProvider{
		name:         "openmeteo",
		forecastURL:  cfg.ForecastURL,
		archiveURL:   cfg.ArchiveURL,
		historyYears: cfg.HistoryYears,
		client:       client,
		circuit:      newCircuitBreaker("openmeteo"),
		pacer:        cfg.Pacer,
		now:          time.Now,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoCurrent struct {
	Time                string   `json:"time"`
	Temperature         *float64 `json:"temperature_2m"`
	RelativeHumidity    *float64 `json:"relative_humidity_2m"`
	ApparentTemperature *float64 `json:"apparent_temperature"`
	Precipitation       *float64 `json:"precipitation"`
	WeatherCode         *int     `json:"weather_code"`
	CloudCover          *float64 `json:"cloud_cover"`
	PressureMSL         *float64 `json:"pressure_msl"`
	SurfacePressure     *float64 `json:"surface_pressure"`
	WindSpeed           *float64 `json:"wind_speed_10m"`
	WindDirection       *float64 `json:"wind_direction_10m"`
}

type openMeteoForecastDaily struct {
	Time          []string   `json:"time"`
	TempMax       []*float64 `json:"temperature_2m_max"`
	TempMin       []*float64 `json:"temperature_2m_min"`
	Precipitation []*float64 `json:"precipitation_sum"`
}

// FetchCurrent retrieves the current conditions and the short daily forecast.
func (p *OpenMeteoProvider) FetchCurrent(ctx context.Context, loc climate.Location) (*climate.CurrentWeather, error) {
	buildRequest := func() (*http.Request, error) {
		values := p.baseValues(loc)
		values.Set("current", strings.Join(currentVariables, ","))
		values.Set("daily", strings.Join(forecastDailyVariables, ","))

		u := fmt.Sprintf("%s?%s", p.forecastURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, p.pacer, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current *openMeteoCurrent       `json:"current"`
		Daily   *openMeteoForecastDaily `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode %s current payload: %v", climate.ErrProviderUnavailable, p.name, err)
	}

	weather := &climate.CurrentWeather{}
	if c := payload.Current; c != nil {
		weather.Current = &climate.Conditions{
			Time:                c.Time,
			Temperature:         c.Temperature,
			ApparentTemperature: c.ApparentTemperature,
			Humidity:            c.RelativeHumidity,
			Precipitation:       c.Precipitation,
			WindSpeed:           c.WindSpeed,
			WindDirection:       c.WindDirection,
			PressureMSL:         c.PressureMSL,
			SurfacePressure:     c.SurfacePressure,
			CloudCover:          c.CloudCover,
			WeatherCode:         c.WeatherCode,
		}
	}
	if d := payload.Daily; d != nil {
		weather.Daily = &climate.DailyForecast{
			Time:          d.Time,
			TempMax:       d.TempMax,
			TempMin:       d.TempMin,
			Precipitation: d.Precipitation,
		}
	}

	return weather, nil
}

// FetchHistorical retrieves the daily archive for the configured number of years,
// ending two days ago since the archive lags behind real time.
func (p *OpenMeteoProvider) FetchHistorical(ctx context.Context, loc climate.Location) (*climate.HistoricalDaily, error) {
	end := p.now().UTC().AddDate(0, 0, -2)
	start := end.AddDate(0, 0, -p.historyYears*365)

	metrics := make([]string, len(historicalMetrics))
	for i, m := range historicalMetrics {
		metrics[i] = string(m)
	}

	buildRequest := func() (*http.Request, error) {
		values := p.baseValues(loc)
		values.Set("start_date", start.Format(climate.DateLayout))
		values.Set("end_date", end.Format(climate.DateLayout))
		values.Set("daily", strings.Join(metrics, ","))

		u := fmt.Sprintf("%s?%s", p.archiveURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, p.pacer, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Daily map[string]json.RawMessage `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode %s archive payload: %v", climate.ErrProviderUnavailable, p.name, err)
	}
	if len(payload.Daily) == 0 {
		return nil, nil
	}

	return decodeDailyColumns(payload.Daily)
}

func (p *OpenMeteoProvider) baseValues(loc climate.Location) url.Values {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
	values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
	values.Set("wind_speed_unit", "ms")
	values.Set("timezone", "auto")
	return values
}

// decodeDailyColumns splits an Open-Meteo "daily" object into the date axis and
// one column per known metric. Unknown variables are ignored.
func decodeDailyColumns(daily map[string]json.RawMessage) (*climate.HistoricalDaily, error) {
	out := &climate.HistoricalDaily{Columns: make(map[climate.Metric][]*float64)}

	rawTime, ok := daily["time"]
	if !ok {
		return nil, fmt.Errorf("%w: daily payload has no time axis", climate.ErrProviderUnavailable)
	}
	if err := json.Unmarshal(rawTime, &out.Time); err != nil {
		return nil, fmt.Errorf("%w: decode time axis: %v", climate.ErrProviderUnavailable, err)
	}

	for _, m := range historicalMetrics {
		raw, ok := daily[string(m)]
		if !ok {
			continue
		}
		var col []*float64
		if err := json.Unmarshal(raw, &col); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", climate.ErrProviderUnavailable, m, err)
		}
		out.Columns[m] = col
	}

	return out, nil
}
