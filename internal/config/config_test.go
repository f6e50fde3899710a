package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeLocations(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "locations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LOCATIONS_FILE", "")
	t.Setenv("HISTORY_YEARS", "")
	t.Setenv("FETCH_INTERVAL", "")
	t.Setenv("REPORT_OUTPUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Syria", cfg.Country)
	require.Equal(t, "SYR", cfg.CountryCode)
	require.Len(t, cfg.Locations, 14)
	require.Equal(t, 5, cfg.HistoryYears)
	require.Equal(t, time.Hour, cfg.FetchInterval)
	require.Equal(t, "environmental_data_report.json", cfg.ReportOutput)
	require.NotEmpty(t, cfg.ClimateContext.KeyWaterBasins)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LOCATIONS_FILE", "")
	t.Setenv("HISTORY_YEARS", "3")
	t.Setenv("FETCH_INTERVAL", "30m")
	t.Setenv("PROVIDER_CALL_DELAY", "0s")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_BUCKET", "reports")
	t.Setenv("S3_PREFIX", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.HistoryYears)
	require.Equal(t, 30*time.Minute, cfg.FetchInterval)
	require.Zero(t, cfg.CallDelay)
	require.True(t, cfg.S3.Enabled())
	require.Equal(t, "reports", cfg.S3.Prefix)
}

func TestLoadInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad duration", env: map[string]string{"HTTP_TIMEOUT": "soon"}},
		{name: "short history", env: map[string]string{"HISTORY_YEARS": "1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("LOCATIONS_FILE", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadLocationsFile(t *testing.T) {
	t.Setenv("HISTORY_YEARS", "")
	t.Setenv("LOCATIONS_FILE", writeLocations(t, `
country: Jordan
country_code: JOR
climate_context:
  classification: Arid
locations:
  - {name: Amman, lat: 31.95, lon: 35.93, population: 4000000}
  - {name: Aqaba, lat: 29.53, lon: 35.01, population: 188000}
`))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Jordan", cfg.Country)
	require.Equal(t, "JOR", cfg.CountryCode)
	require.Equal(t, "Arid", cfg.ClimateContext.Classification)
	require.Len(t, cfg.Locations, 2)
	require.Equal(t, "Aqaba", cfg.Locations[1].Name)
	require.InDelta(t, 29.53, cfg.Locations[1].Latitude, 1e-9)
}

func TestLoadLocationsFileValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "duplicate names", body: "locations:\n  - {name: Homs, lat: 34.7, lon: 36.7}\n  - {name: Homs, lat: 34.7, lon: 36.7}\n"},
		{name: "blank name", body: "locations:\n  - {name: ' ', lat: 34.7, lon: 36.7}\n"},
		{name: "latitude out of range", body: "locations:\n  - {name: Homs, lat: 134.7, lon: 36.7}\n"},
		{name: "empty list", body: "locations: []\n"},
		{name: "malformed", body: "locations: [\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HISTORY_YEARS", "")
			t.Setenv("LOCATIONS_FILE", writeLocations(t, tc.body))
			if _, err := Load(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
