package climate

import "context"

// WeatherSource abstracts the retrieval of the raw per-location payloads
// (e.g. Open-Meteo forecast and archive). Implementations wrap transport and
// upstream failures in ErrProviderUnavailable.
type WeatherSource interface {
	FetchCurrent(ctx context.Context, loc Location) (*CurrentWeather, error)
	FetchHistorical(ctx context.Context, loc Location) (*HistoricalDaily, error)
}

// CountryContextSource retrieves the country-level payload once per run. The
// payload is opaque and merged verbatim into the report.
type CountryContextSource interface {
	FetchCountryContext(ctx context.Context) (map[string]any, error)
}

// ReportSink is the contract every report destination (file, database, object
// storage, in-memory history) satisfies.
type ReportSink interface {
	SaveReport(ctx context.Context, report *Report) error
}
