package climate

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClassifyAnnualPrecipitation(t *testing.T) {
	tests := []struct {
		mm    float64
		risk  DroughtRisk
		class AridityClass
	}{
		{mm: 0, risk: DroughtRiskVeryHigh, class: AridityArid},
		{mm: 299.99, risk: DroughtRiskVeryHigh, class: AridityArid},
		{mm: 300, risk: DroughtRiskHigh, class: AriditySemiArid},
		{mm: 599.99, risk: DroughtRiskHigh, class: AriditySemiArid},
		{mm: 600, risk: DroughtRiskModerate, class: AriditySubHumid},
		{mm: 3652.8, risk: DroughtRiskModerate, class: AriditySubHumid},
	}

	for _, tc := range tests {
		risk, class := ClassifyAnnualPrecipitation(tc.mm)
		require.Equal(t, tc.risk, risk, "mm=%v", tc.mm)
		require.Equal(t, tc.class, class, "mm=%v", tc.mm)
	}
}

// TestDroughtRiskMonotonic verifies that more precipitation never raises the risk.
func TestDroughtRiskMonotonic(t *testing.T) {
	prev := 4
	for mm := 0.0; mm <= 1200; mm += 5 {
		risk, _ := ClassifyAnnualPrecipitation(mm)
		level, err := risk.Level()
		require.NoError(t, err)
		require.LessOrEqual(t, level, prev, "risk increased at %v mm", mm)
		prev = level
	}
}

func TestAssessDroughtSeasons(t *testing.T) {
	table := mustTable(t, days("2021-01-10", "2021-01-20", "2021-07-10", "2022-01-10"), map[Metric][]*float64{
		MetricPrecipitation: vals(20, 40, 5, 30),
	})

	got, err := AssessDrought(table)
	require.NoError(t, err)
	require.Equal(t, []int{7}, got.DrySeasonMonths)
	require.Equal(t, []int{1}, got.WetSeasonMonths)
	// (30 + 5) * 30.44
	require.InDelta(t, 1065.4, got.AnnualPrecipitationMM, 1e-9)
	require.Equal(t, DroughtRiskModerate, got.Risk)
	require.Equal(t, AriditySubHumid, got.Classification)
}

func TestAssessDroughtVeryHigh(t *testing.T) {
	table := mustTable(t, days("2021-01-01", "2021-06-01"), map[Metric][]*float64{
		MetricPrecipitation: vals(2, 0),
	})

	got, err := AssessDrought(table)
	require.NoError(t, err)
	require.Equal(t, DroughtRiskVeryHigh, got.Risk)
	require.Equal(t, []int{1, 6}, got.DrySeasonMonths)
	require.Empty(t, got.WetSeasonMonths)
}

func TestAssessDroughtMissingPrecipitation(t *testing.T) {
	table := mustTable(t, days("2021-01-01"), map[Metric][]*float64{
		MetricTempMean: vals(12),
	})

	_, err := AssessDrought(table)
	require.ErrorIs(t, err, ErrMissingMetric)

	_, err = AssessDrought(nil)
	require.ErrorIs(t, err, ErrMissingMetric)
}

func TestDroughtRiskLevelUnknown(t *testing.T) {
	_, err := DroughtRisk("Extreme").Level()
	require.Error(t, err)
}

// monthlyTable builds one day per month in 2021 with the given daily precipitation.
func monthlyTable(t *testing.T, perMonth []float64) *Table {
	t.Helper()
	dates := make([]time.Time, len(perMonth))
	for i := range perMonth {
		dates[i] = time.Date(2021, time.Month(i+1), 15, 0, 0, 0, 0, time.UTC)
	}
	return mustTable(t, dates, map[Metric][]*float64{
		MetricPrecipitation: vals(perMonth...),
	})
}

// TestAssessDroughtDrierTableNeverLowersRisk scales every monthly mean down
// step by step and checks the assessed risk never falls.
func TestAssessDroughtDrierTableNeverLowersRisk(t *testing.T) {
	base := []float64{3, 2.5, 2, 1, 0.5, 0, 0, 0, 0.5, 1.5, 2, 2}

	prevLevel := 0
	prevAnnual := math.Inf(1)
	seen := map[DroughtRisk]bool{}
	for step := 40; step >= 0; step-- {
		factor := float64(step) / 20
		scaled := make([]float64, len(base))
		for i, v := range base {
			scaled[i] = v * factor
		}

		got, err := AssessDrought(monthlyTable(t, scaled))
		require.NoError(t, err)
		level, err := got.Risk.Level()
		require.NoError(t, err)

		require.GreaterOrEqual(t, level, prevLevel, "risk fell at factor %v", factor)
		require.LessOrEqual(t, got.AnnualPrecipitationMM, prevAnnual, "annual rose at factor %v", factor)
		prevLevel, prevAnnual = level, got.AnnualPrecipitationMM
		seen[got.Risk] = true
	}
	require.Len(t, seen, 3)
}

func TestAssessDroughtThresholdBoundaries(t *testing.T) {
	perMonth := func(annual float64) []float64 {
		out := make([]float64, 12)
		for i := range out {
			out[i] = annual / 12 / averageDaysPerMonth
		}
		return out
	}

	tests := []struct {
		name   string
		values []float64
		annual float64
		risk   DroughtRisk
		class  AridityClass
	}{
		{name: "just below semi-arid", values: []float64{299.99 / averageDaysPerMonth}, annual: 299.99, risk: DroughtRiskVeryHigh, class: AridityArid},
		{name: "semi-arid single month", values: []float64{300 / averageDaysPerMonth}, annual: 300, risk: DroughtRiskHigh, class: AriditySemiArid},
		{name: "semi-arid twelve months", values: perMonth(300), annual: 300, risk: DroughtRiskHigh, class: AriditySemiArid},
		{name: "sub-humid single month", values: []float64{600 / averageDaysPerMonth}, annual: 600, risk: DroughtRiskModerate, class: AriditySubHumid},
		{name: "sub-humid twelve months", values: perMonth(600), annual: 600, risk: DroughtRiskModerate, class: AriditySubHumid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AssessDrought(monthlyTable(t, tc.values))
			require.NoError(t, err)
			require.InDelta(t, tc.annual, got.AnnualPrecipitationMM, 1e-9)
			require.Equal(t, tc.risk, got.Risk)
			require.Equal(t, tc.class, got.Classification)
		})
	}
}
