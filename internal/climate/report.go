package climate

import (
	"fmt"
	"log"

	"github.com/i474232898/environmental-data-aggregation/internal/common"
)

var weatherCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// WeatherDescription converts a WMO weather code to text.
func WeatherDescription(code int) string {
	if d, ok := weatherCodes[code]; ok {
		return d
	}
	return fmt.Sprintf("Unknown (code: %d)", code)
}

// BuildLocationReport assembles the report of one location from its raw payloads.
// Either payload may be nil; every block that cannot be derived is left nil.
func BuildLocationReport(loc Location, current *CurrentWeather, historical *Table) LocationReport {
	report := LocationReport{
		Name:        loc.Name,
		Coordinates: Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude},
		Population:  loc.Population,
	}

	if current != nil {
		if c := current.Current; !c.isEmpty() {
			report.CurrentConditions = buildCurrentConditions(c)
			report.AirQuality = EstimateAirQuality(c)
		}
		report.Forecast = buildForecastSummary(current.Daily)
	}

	if historical != nil && historical.Len() > 0 {
		if trend := AnalyzeTrend(historical); !trend.IsEmpty() {
			report.ClimateTrends = &trend
		}

		drought, err := AssessDrought(historical)
		if err != nil {
			log.Printf("DEBUG: drought assessment unavailable for %s: %v", loc.Name, err)
		} else {
			report.DroughtRisk = drought
		}

		report.HistoricalSummary = buildHistoricalSummary(historical)
	}

	return report
}

func buildCurrentConditions(c *Conditions) *CurrentConditionsReport {
	// The provider omits the code on some stations; 0 is clear sky.
	code := 0
	if c.WeatherCode != nil {
		code = *c.WeatherCode
	}

	return &CurrentConditionsReport{
		TemperatureC:       c.Temperature,
		FeelsLikeC:         c.ApparentTemperature,
		HumidityPercent:    c.Humidity,
		PrecipitationMM:    c.Precipitation,
		WindSpeedMS:        c.WindSpeed,
		WindDirectionDeg:   c.WindDirection,
		PressureMSLHPa:     c.PressureMSL,
		PressureSurfaceHPa: c.SurfacePressure,
		CloudCoverPercent:  c.CloudCover,
		WeatherDescription: WeatherDescription(code),
	}
}

func buildForecastSummary(d *DailyForecast) *ForecastSummary {
	if d == nil {
		return nil
	}

	summary := &ForecastSummary{
		TomorrowMaxTempC:        tomorrow(d.TempMax),
		TomorrowMinTempC:        tomorrow(d.TempMin),
		TomorrowPrecipitationMM: tomorrow(d.Precipitation),
	}
	if summary.TomorrowMaxTempC == nil && summary.TomorrowMinTempC == nil && summary.TomorrowPrecipitationMM == nil {
		return nil
	}
	return summary
}

func tomorrow(values []*float64) *float64 {
	if len(values) < 2 {
		return nil
	}
	return values[1]
}

func buildHistoricalSummary(t *Table) *HistoricalSummary {
	summary := &HistoricalSummary{
		PeriodStart: t.Start().Format(DateLayout),
		PeriodEnd:   t.End().Format(DateLayout),
	}

	if v, err := t.Mean(MetricTempMax); err == nil {
		summary.AvgMaxTempC = common.RoundPtr(v, 2)
	}
	if v, err := t.Mean(MetricTempMin); err == nil {
		summary.AvgMinTempC = common.RoundPtr(v, 2)
	}
	if v, err := t.Sum(MetricPrecipitation); err == nil {
		summary.TotalPrecipitationMM = common.RoundPtr(v, 2)
	}
	if v, err := t.Max(MetricWindSpeedMax); err == nil {
		summary.MaxWindSpeedMS = common.RoundPtr(v, 2)
	}
	if v, err := t.Mean(MetricSurfacePressure); err == nil {
		summary.AvgSurfacePressureHPa = common.RoundPtr(v, 2)
	}

	return summary
}
