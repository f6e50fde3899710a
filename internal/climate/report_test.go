package climate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/environmental-data-aggregation/internal/common"
)

var damascus = Location{Name: "Damascus", Latitude: 33.5138, Longitude: 36.2765, Population: 2079000}

func TestWeatherDescription(t *testing.T) {
	require.Equal(t, "Clear sky", WeatherDescription(0))
	require.Equal(t, "Thunderstorm", WeatherDescription(95))
	require.Equal(t, "Unknown (code: 42)", WeatherDescription(42))
}

// TestBuildLocationReportEmptyPayloads verifies that a location without any
// usable payload still yields its identity fields and nothing else.
func TestBuildLocationReportEmptyPayloads(t *testing.T) {
	inputs := []struct {
		name    string
		current *CurrentWeather
		table   *Table
	}{
		{name: "nil payloads"},
		{name: "empty payloads", current: &CurrentWeather{Current: &Conditions{}, Daily: &DailyForecast{}}, table: mustTable(t, nil, nil)},
	}

	for _, in := range inputs {
		t.Run(in.name, func(t *testing.T) {
			got := BuildLocationReport(damascus, in.current, in.table)
			require.Equal(t, LocationReport{
				Name:        "Damascus",
				Coordinates: Coordinates{Latitude: 33.5138, Longitude: 36.2765},
				Population:  2079000,
			}, got)
		})
	}
}

func TestBuildLocationReportCurrent(t *testing.T) {
	current := &CurrentWeather{
		Current: &Conditions{
			Temperature: common.Ptr(24.5),
			WindSpeed:   common.Ptr(3.2),
			WeatherCode: common.Ptr(2),
		},
		Daily: &DailyForecast{
			Time:          []string{"2024-05-01", "2024-05-02"},
			TempMax:       vals(30, 31),
			TempMin:       vals(15, 16),
			Precipitation: vals(0, 1.5),
		},
	}

	got := BuildLocationReport(damascus, current, nil)
	require.NotNil(t, got.CurrentConditions)
	require.Equal(t, "Partly cloudy", got.CurrentConditions.WeatherDescription)
	require.InDelta(t, 24.5, *got.CurrentConditions.TemperatureC, 1e-9)
	require.Nil(t, got.CurrentConditions.HumidityPercent)

	require.NotNil(t, got.AirQuality)
	require.Equal(t, AirQualityPoor, got.AirQuality.Category)

	require.NotNil(t, got.Forecast)
	require.InDelta(t, 31.0, *got.Forecast.TomorrowMaxTempC, 1e-9)
	require.InDelta(t, 16.0, *got.Forecast.TomorrowMinTempC, 1e-9)
	require.InDelta(t, 1.5, *got.Forecast.TomorrowPrecipitationMM, 1e-9)

	require.Nil(t, got.ClimateTrends)
	require.Nil(t, got.DroughtRisk)
	require.Nil(t, got.HistoricalSummary)
}

func TestBuildLocationReportForecastWithoutTomorrow(t *testing.T) {
	current := &CurrentWeather{Daily: &DailyForecast{Time: []string{"2024-05-01"}, TempMax: vals(30)}}

	got := BuildLocationReport(damascus, current, nil)
	require.Nil(t, got.Forecast)
	require.Nil(t, got.CurrentConditions)
	require.Nil(t, got.AirQuality)
}

func TestBuildLocationReportHistorical(t *testing.T) {
	table := mustTable(t, days("2021-01-01", "2021-01-02"), map[Metric][]*float64{
		MetricTempMax:      vals(20, 22),
		MetricTempMin:      vals(8, 9),
		MetricWindSpeedMax: vals(7.25, 12.5),
	})

	got := BuildLocationReport(damascus, nil, table)
	require.Nil(t, got.ClimateTrends)
	require.Nil(t, got.DroughtRisk)
	require.NotNil(t, got.HistoricalSummary)

	h := got.HistoricalSummary
	require.Equal(t, "2021-01-01", h.PeriodStart)
	require.Equal(t, "2021-01-02", h.PeriodEnd)
	require.InDelta(t, 21.0, *h.AvgMaxTempC, 1e-9)
	require.InDelta(t, 8.5, *h.AvgMinTempC, 1e-9)
	require.InDelta(t, 12.5, *h.MaxWindSpeedMS, 1e-9)
	require.Nil(t, h.TotalPrecipitationMM)
	require.Nil(t, h.AvgSurfacePressureHPa)
}
