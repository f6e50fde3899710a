package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/environmental-data-aggregation/internal/climate"
	"github.com/i474232898/environmental-data-aggregation/internal/common"
)

func TestEncodeBlockNilIsNull(t *testing.T) {
	data, err := encodeBlock[climate.ClimateTrend](nil)
	require.NoError(t, err)
	require.Nil(t, data)

	decoded, err := decodeBlock[climate.ClimateTrend](data)
	require.NoError(t, err)
	require.Nil(t, decoded)
}

func TestEncodeRowKeepsBlocks(t *testing.T) {
	r := climate.LocationReport{
		Name:          "Homs",
		ClimateTrends: &climate.ClimateTrend{TemperatureTrendC: common.Ptr(0.42)},
		DroughtRisk:   &climate.DroughtAssessment{Risk: climate.DroughtRiskHigh, AnnualPrecipitationMM: 410.5},
	}

	row, err := encodeRow(r)
	require.NoError(t, err)
	require.Nil(t, row.current)
	require.Nil(t, row.airQuality)

	trend, err := decodeBlock[climate.ClimateTrend](row.trends)
	require.NoError(t, err)
	require.InDelta(t, 0.42, *trend.TemperatureTrendC, 1e-9)

	drought, err := decodeBlock[climate.DroughtAssessment](row.drought)
	require.NoError(t, err)
	require.Equal(t, climate.DroughtRiskHigh, drought.Risk)
}

// TestPostgresStoreRoundTrip runs against a live server when POSTGRES_TEST_DSN is set.
func TestPostgresStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	report := &climate.Report{
		Metadata: climate.Metadata{RunID: "run-pg", ReportDate: time.Now().UTC()},
		Cities: map[string]climate.LocationReport{
			"Tartus": {
				Name:        "Tartus",
				Coordinates: climate.Coordinates{Latitude: 34.89, Longitude: 35.89},
				Population:  797000,
				DroughtRisk: &climate.DroughtAssessment{Risk: climate.DroughtRiskModerate},
			},
		},
	}
	require.NoError(t, s.SaveReport(ctx, report))
	require.NoError(t, s.SaveReport(ctx, report))

	rows, err := s.ListLocations(ctx)
	require.NoError(t, err)

	var found bool
	for _, snap := range rows {
		if snap.Report.Name == "Tartus" {
			found = true
			require.Equal(t, "run-pg", snap.RunID)
			require.Equal(t, 797000, snap.Report.Population)
			require.NotNil(t, snap.Report.DroughtRisk)
			require.Nil(t, snap.Report.AirQuality)
		}
	}
	require.True(t, found)
}
