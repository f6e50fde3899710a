package climate

// AirQualityCategory is the qualitative tier of the estimate.
type AirQualityCategory string

const (
	AirQualityPoor     AirQualityCategory = "Poor (Low dispersion)"
	AirQualityModerate AirQualityCategory = "Moderate"
	AirQualityGood     AirQualityCategory = "Good (Good dispersion)"
)

const (
	standardPressureHPa = 1013.0

	// Wind speed tiers in m/s. Lower bounds are inclusive.
	moderateDispersionWind = 5.0
	goodDispersionWind     = 10.0

	// PoorAirQualityScore is the lowest score considered poor air quality.
	PoorAirQualityScore = 76
)

// AirQualityFactors records the conditions at estimation time. Only the wind
// speed influences the score; the other factors are descriptive.
type AirQualityFactors struct {
	WindSpeedMS       float64 `json:"wind_speed_m_s"`
	HumidityPercent   float64 `json:"humidity_percent"`
	CloudCoverPercent float64 `json:"cloud_cover_percent"`
	PressureMSLHPa    float64 `json:"pressure_msl_hpa"`
}

// AirQualityEstimate is a weather-based proxy, not a measured air quality index.
type AirQualityEstimate struct {
	Estimated            bool               `json:"estimated"`
	Method               string             `json:"method"`
	Factors              AirQualityFactors  `json:"factors"`
	Score                int                `json:"estimated_aqi"`
	Category             AirQualityCategory `json:"category"`
	HealthRecommendation string             `json:"health_recommendation"`
}

// EstimateAirQuality derives an air quality estimate from pollutant dispersion:
// low wind keeps pollutants in place.
func EstimateAirQuality(c *Conditions) *AirQualityEstimate {
	if c == nil {
		return nil
	}

	factors := AirQualityFactors{
		WindSpeedMS:       valueOr(c.WindSpeed, 0),
		HumidityPercent:   valueOr(c.Humidity, 0),
		CloudCoverPercent: valueOr(c.CloudCover, 0),
		PressureMSLHPa:    valueOr(c.PressureMSL, standardPressureHPa),
	}

	var (
		category AirQualityCategory
		score    int
	)
	switch wind := factors.WindSpeedMS; {
	case wind < moderateDispersionWind:
		category, score = AirQualityPoor, 100
	case wind < goodDispersionWind:
		category, score = AirQualityModerate, 70
	default:
		category, score = AirQualityGood, 40
	}

	return &AirQualityEstimate{
		Estimated:            true,
		Method:               "Weather-based estimation",
		Factors:              factors,
		Score:                score,
		Category:             category,
		HealthRecommendation: HealthRecommendation(score),
	}
}

// HealthRecommendation maps an estimated score to advice for the public.
func HealthRecommendation(score int) string {
	switch {
	case score <= 50:
		return "Air quality is good. Outdoor activities are safe."
	case score <= 75:
		return "Moderate air quality. Sensitive individuals should limit prolonged outdoor exertion."
	default:
		return "Poor air quality. Everyone should limit prolonged outdoor exertion."
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
