package climate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/environmental-data-aggregation/internal/common"
)

func withRisk(name string, risk DroughtRisk) LocationReport {
	return LocationReport{Name: name, DroughtRisk: &DroughtAssessment{Risk: risk}}
}

func TestSummarizeDroughtFraction(t *testing.T) {
	reports := []LocationReport{
		withRisk("A", DroughtRiskVeryHigh),
		withRisk("B", DroughtRiskHigh),
		withRisk("C", DroughtRiskHigh),
		withRisk("D", DroughtRiskModerate),
		withRisk("E", DroughtRiskModerate),
	}

	summary, err := Summarize(reports, time.Now())
	require.NoError(t, err)
	require.Equal(t, 5, summary.TotalLocationsAnalyzed)
	require.Equal(t, []string{"3/5 cities at high/very high drought risk"}, summary.KeyFindings)
}

func TestSummarizeTemperatureAndAirQuality(t *testing.T) {
	reports := []LocationReport{
		{
			Name:          "A",
			ClimateTrends: &ClimateTrend{TemperatureTrendC: common.Ptr(1.0)},
			AirQuality:    &AirQualityEstimate{Score: 100},
		},
		{
			Name:          "B",
			ClimateTrends: &ClimateTrend{TemperatureTrendC: common.Ptr(2.0)},
			AirQuality:    &AirQualityEstimate{Score: 70},
		},
		{Name: "C"},
	}

	summary, err := Summarize(reports, time.Now())
	require.NoError(t, err)
	require.Equal(t, []string{
		"Average temperature increase of 1.50°C over analysis period",
		"1/2 cities with poor air quality conditions",
	}, summary.KeyFindings)
}

func TestSummarizeNegativeTrendIsChange(t *testing.T) {
	reports := []LocationReport{
		{Name: "A", ClimateTrends: &ClimateTrend{TemperatureTrendC: common.Ptr(-0.5)}},
	}

	summary, err := Summarize(reports, time.Now())
	require.NoError(t, err)
	require.Equal(t, []string{"Average temperature change of -0.50°C over analysis period"}, summary.KeyFindings)
}

func TestSummarizeWholeDegreeTrendKeepsTwoDecimals(t *testing.T) {
	reports := []LocationReport{
		{Name: "A", ClimateTrends: &ClimateTrend{TemperatureTrendC: common.Ptr(2.0)}},
	}

	summary, err := Summarize(reports, time.Now())
	require.NoError(t, err)
	require.Equal(t, []string{"Average temperature increase of 2.00°C over analysis period"}, summary.KeyFindings)
}

// TestSummarizeOmitsUnavailableFindings verifies that no finding is derived
// from zero contributing locations.
func TestSummarizeOmitsUnavailableFindings(t *testing.T) {
	summary, err := Summarize([]LocationReport{{Name: "A"}, {Name: "B"}}, time.Now())
	require.NoError(t, err)
	require.Empty(t, summary.KeyFindings)
	require.Len(t, summary.Recommendations, 5)

	summary, err = Summarize(nil, time.Now())
	require.NoError(t, err)
	require.Equal(t, 0, summary.TotalLocationsAnalyzed)
	require.Empty(t, summary.KeyFindings)
	require.Equal(t, Recommendations(), summary.Recommendations)
}

func TestSummarizeRejectsUnknownRisk(t *testing.T) {
	_, err := Summarize([]LocationReport{withRisk("A", DroughtRisk("Extreme"))}, time.Now())
	require.Error(t, err)
}
