package climate

import (
	"fmt"
	"time"

	"github.com/i474232898/environmental-data-aggregation/internal/common"
)

// CountrySummary is derived from completed location reports only.
type CountrySummary struct {
	TotalLocationsAnalyzed int       `json:"total_cities_analyzed"`
	DataCollectionDate     time.Time `json:"data_collection_date"`
	KeyFindings            []string  `json:"key_findings"`
	Recommendations        []string  `json:"recommendations"`
}

var recommendations = []string{
	"Implement water conservation and efficient irrigation systems",
	"Develop drought-resistant agricultural practices",
	"Monitor air quality in major urban centers",
	"Enhance early warning systems for extreme weather events",
	"Invest in renewable energy to reduce pollution",
}

// Recommendations returns the fixed policy recommendations of every summary.
func Recommendations() []string {
	out := make([]string, len(recommendations))
	copy(out, recommendations)
	return out
}

// Summarize rolls the location reports up into country-level findings. A finding
// is emitted only when at least one location produced the underlying field. An
// error means a report carries a value no analyzer can produce.
func Summarize(reports []LocationReport, collectedAt time.Time) (CountrySummary, error) {
	summary := CountrySummary{
		TotalLocationsAnalyzed: len(reports),
		DataCollectionDate:     collectedAt,
		KeyFindings:            []string{},
		Recommendations:        Recommendations(),
	}

	var (
		assessed, highRisk int
		estimated, poorAir int
		trends             []float64
	)
	for _, r := range reports {
		if r.DroughtRisk != nil {
			level, err := r.DroughtRisk.Risk.Level()
			if err != nil {
				return CountrySummary{}, fmt.Errorf("summarize %s: %w", r.Name, err)
			}
			assessed++
			if level >= 2 {
				highRisk++
			}
		}
		if r.ClimateTrends != nil && r.ClimateTrends.TemperatureTrendC != nil {
			trends = append(trends, *r.ClimateTrends.TemperatureTrendC)
		}
		if r.AirQuality != nil {
			estimated++
			if r.AirQuality.Score >= PoorAirQualityScore {
				poorAir++
			}
		}
	}

	if assessed > 0 {
		summary.KeyFindings = append(summary.KeyFindings,
			fmt.Sprintf("%d/%d cities at high/very high drought risk", highRisk, assessed))
	}

	if len(trends) > 0 {
		var sum float64
		for _, t := range trends {
			sum += t
		}
		avg := common.Round(sum/float64(len(trends)), 2)
		verb := "change"
		if avg > 0 {
			verb = "increase"
		}
		summary.KeyFindings = append(summary.KeyFindings,
			fmt.Sprintf("Average temperature %s of %.2f°C over analysis period", verb, avg))
	}

	if estimated > 0 {
		summary.KeyFindings = append(summary.KeyFindings,
			fmt.Sprintf("%d/%d cities with poor air quality conditions", poorAir, estimated))
	}

	return summary, nil
}
