package climate

import "time"

// Metric names follow the Open-Meteo daily variable names.
type Metric string

const (
	MetricTempMax            Metric = "temperature_2m_max"
	MetricTempMin            Metric = "temperature_2m_min"
	MetricTempMean           Metric = "temperature_2m_mean"
	MetricPrecipitation      Metric = "precipitation_sum"
	MetricWindSpeedMax       Metric = "wind_speed_10m_max"
	MetricSurfacePressure    Metric = "surface_pressure_mean"
	MetricEvapotranspiration Metric = "et0_fao_evapotranspiration"
)

// Location is one analyzed geographic point. Defined at startup, never mutated.
type Location struct {
	Name       string  `json:"name" yaml:"name" validate:"required"`
	Latitude   float64 `json:"latitude" yaml:"lat" validate:"gte=-90,lte=90"`
	Longitude  float64 `json:"longitude" yaml:"lon" validate:"gte=-180,lte=180"`
	Population int     `json:"population" yaml:"population" validate:"gte=0"`
}

// Conditions is an instantaneous snapshot from the current-weather provider.
// Nil fields were not reported by the provider.
type Conditions struct {
	Time                string
	Temperature         *float64
	ApparentTemperature *float64
	Humidity            *float64
	Precipitation       *float64
	WindSpeed           *float64
	WindDirection       *float64
	PressureMSL         *float64
	SurfacePressure     *float64
	CloudCover          *float64
	WeatherCode         *int
}

func (c *Conditions) isEmpty() bool {
	return c == nil || (c.Temperature == nil &&
		c.ApparentTemperature == nil &&
		c.Humidity == nil &&
		c.Precipitation == nil &&
		c.WindSpeed == nil &&
		c.WindDirection == nil &&
		c.PressureMSL == nil &&
		c.SurfacePressure == nil &&
		c.CloudCover == nil &&
		c.WeatherCode == nil)
}

// DailyForecast holds the short forecast returned alongside current conditions.
// Index 0 is today, index 1 is tomorrow.
type DailyForecast struct {
	Time          []string
	TempMax       []*float64
	TempMin       []*float64
	Precipitation []*float64
}

// CurrentWeather is the raw current-conditions payload for one location.
type CurrentWeather struct {
	Current *Conditions
	Daily   *DailyForecast
}

// HistoricalDaily is the raw multi-year daily payload: a shared date axis and
// one column per metric aligned by position.
type HistoricalDaily struct {
	Time    []string
	Columns map[Metric][]*float64
}

// CurrentConditionsReport is the current snapshot as it appears in a LocationReport.
type CurrentConditionsReport struct {
	TemperatureC       *float64 `json:"temperature_celsius,omitempty"`
	FeelsLikeC         *float64 `json:"feels_like_celsius,omitempty"`
	HumidityPercent    *float64 `json:"humidity_percent,omitempty"`
	PrecipitationMM    *float64 `json:"precipitation_mm,omitempty"`
	WindSpeedMS        *float64 `json:"wind_speed_m_s,omitempty"`
	WindDirectionDeg   *float64 `json:"wind_direction_degrees,omitempty"`
	PressureMSLHPa     *float64 `json:"pressure_msl_hpa,omitempty"`
	PressureSurfaceHPa *float64 `json:"pressure_surface_hpa,omitempty"`
	CloudCoverPercent  *float64 `json:"cloud_cover_percent,omitempty"`
	WeatherDescription string   `json:"weather_description,omitempty"`
}

// ForecastSummary is the next-day slice of the daily forecast.
type ForecastSummary struct {
	TomorrowMaxTempC        *float64 `json:"tomorrow_max_temp_c,omitempty"`
	TomorrowMinTempC        *float64 `json:"tomorrow_min_temp_c,omitempty"`
	TomorrowPrecipitationMM *float64 `json:"tomorrow_precipitation_mm,omitempty"`
}

// HistoricalSummary describes the historical table used for the analysis.
type HistoricalSummary struct {
	PeriodStart           string   `json:"period_start"`
	PeriodEnd             string   `json:"period_end"`
	AvgMaxTempC           *float64 `json:"avg_max_temp_c,omitempty"`
	AvgMinTempC           *float64 `json:"avg_min_temp_c,omitempty"`
	TotalPrecipitationMM  *float64 `json:"total_precipitation_mm,omitempty"`
	MaxWindSpeedMS        *float64 `json:"max_wind_speed_m_s,omitempty"`
	AvgSurfacePressureHPa *float64 `json:"avg_surface_pressure_hpa,omitempty"`
}

// Coordinates is the JSON shape of a location position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationReport is assembled once per location and never mutated afterwards.
type LocationReport struct {
	Name              string                   `json:"name"`
	Coordinates       Coordinates              `json:"coordinates"`
	Population        int                      `json:"population"`
	CurrentConditions *CurrentConditionsReport `json:"current_conditions,omitempty"`
	Forecast          *ForecastSummary         `json:"daily_forecast_summary,omitempty"`
	ClimateTrends     *ClimateTrend            `json:"climate_trends,omitempty"`
	AirQuality        *AirQualityEstimate      `json:"air_quality,omitempty"`
	DroughtRisk       *DroughtAssessment       `json:"drought_risk,omitempty"`
	HistoricalSummary *HistoricalSummary       `json:"historical_summary,omitempty"`
}

// Location returns the identity fields of the report.
func (r LocationReport) Location() Location {
	return Location{
		Name:       r.Name,
		Latitude:   r.Coordinates.Latitude,
		Longitude:  r.Coordinates.Longitude,
		Population: r.Population,
	}
}

// ClimateContext is the static national climate description carried in the report.
type ClimateContext struct {
	Classification        string   `json:"classification" yaml:"classification"`
	MainClimateChallenges []string `json:"main_climate_challenges" yaml:"main_climate_challenges"`
	KeyWaterBasins        []string `json:"key_water_basins" yaml:"key_water_basins"`
}

// CountryLevel merges the opaque provider payload verbatim with the static context.
type CountryLevel struct {
	WorldBankClimateData map[string]any `json:"world_bank_climate_data"`
	ClimateContext       ClimateContext `json:"climate_context"`
}

// Metadata describes one pipeline run.
type Metadata struct {
	RunID            string    `json:"run_id"`
	Country          string    `json:"country"`
	ReportDate       time.Time `json:"report_date"`
	DataSources      []string  `json:"data_sources"`
	CitiesAnalyzed   int       `json:"cities_analyzed"`
	Interrupted      bool      `json:"interrupted,omitempty"`
	SkippedLocations []string  `json:"skipped_locations,omitempty"`
}

// Report is the single aggregate artifact produced by a run.
type Report struct {
	Metadata     Metadata                  `json:"metadata"`
	CountryLevel CountryLevel              `json:"country_level"`
	Cities       map[string]LocationReport `json:"cities"`
	Summary      CountrySummary            `json:"summary"`
}
