package config

import "github.com/i474232898/environmental-data-aggregation/internal/climate"

func defaultConfig() *AppConfig {
	return &AppConfig{
		Country:     "Syria",
		CountryCode: "SYR",
		DataSources: []string{"Open-Meteo", "World Bank Climate API"},
		ClimateContext: climate.ClimateContext{
			Classification: "Mostly semi-arid to arid",
			MainClimateChallenges: []string{
				"Water scarcity and declining groundwater levels",
				"Increasing drought frequency and severity",
				"Rising temperatures and heat waves",
				"Rainfall pattern changes affecting agriculture",
				"Air quality concerns in urban areas",
			},
			KeyWaterBasins: []string{
				"Euphrates River Basin",
				"Orontes River Basin",
				"Yarmouk River Basin",
				"Barada and Awaj Basin",
				"Coastal Basin",
			},
		},
		Locations: []climate.Location{
			{Name: "Damascus", Latitude: 33.51, Longitude: 36.29, Population: 2103000},
			{Name: "Aleppo", Latitude: 36.20, Longitude: 37.16, Population: 4118000},
			{Name: "Idlib", Latitude: 35.933, Longitude: 36.633, Population: 1172000},
			{Name: "Rif Dimashq", Latitude: 33.5, Longitude: 37.3833, Population: 3372000},
			{Name: "Homs", Latitude: 34.73, Longitude: 36.72, Population: 1790000},
			{Name: "Hama", Latitude: 35.13, Longitude: 36.76, Population: 2147000},
			{Name: "Daraa", Latitude: 32.6264, Longitude: 36.1033, Population: 966000},
			{Name: "Latakia", Latitude: 35.53, Longitude: 35.79, Population: 1346000},
			{Name: "Deir ez-Zor", Latitude: 35.34, Longitude: 40.14, Population: 1267000},
			{Name: "Quneitra", Latitude: 33.0776, Longitude: 35.8934, Population: 124000},
			{Name: "Raqqa", Latitude: 35.95, Longitude: 39.01, Population: 940000},
			{Name: "Al-Hasakah", Latitude: 36.5079, Longitude: 40.7463, Population: 1865000},
			{Name: "Tartus", Latitude: 34.89, Longitude: 35.89, Population: 1172000},
			{Name: "As-Suwayda", Latitude: 32.709, Longitude: 36.5695, Population: 540000},
		},
	}
}
