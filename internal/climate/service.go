package climate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Options describes the country the service reports on.
type Options struct {
	Country        string
	DataSources    []string
	ClimateContext ClimateContext
}

// Service runs the analysis pipeline over a fixed list of locations.
type Service struct {
	source  WeatherSource
	country CountryContextSource
	opts    Options
	now     func() time.Time
}

// NewService creates a new Service. country may be nil when no country-level
// payload is wanted.
func NewService(source WeatherSource, country CountryContextSource, opts Options) *Service {
	return &Service{
		source:  source,
		country: country,
		opts:    opts,
		now:     time.Now,
	}
}

// Run processes the locations strictly in order and assembles the report. A
// location that fails is logged and skipped. When ctx is cancelled the loop
// stops and the report holds the locations completed so far. Only a failure to
// assemble the summary is returned as an error.
func (s *Service) Run(ctx context.Context, locations []Location) (*Report, error) {
	runID := uuid.NewString()
	started := s.now().UTC()
	log.Printf("INFO: run %s started for %d locations", runID, len(locations))

	countryLevel := CountryLevel{
		WorldBankClimateData: s.fetchCountryContext(ctx),
		ClimateContext:       s.opts.ClimateContext,
	}

	var (
		completed   []LocationReport
		skipped     []string
		interrupted bool
	)
	cities := make(map[string]LocationReport, len(locations))

	for i, loc := range locations {
		if err := ctx.Err(); err != nil {
			log.Printf("WARN: %v; stopping before %s, keeping %d completed locations", ErrInterrupted, loc.Name, len(completed))
			interrupted = true
			break
		}

		log.Printf("INFO: processing %s (%d/%d)", loc.Name, i+1, len(locations))
		report, err := s.ProcessLocation(ctx, loc)
		if err != nil {
			if errors.Is(err, ErrInterrupted) {
				log.Printf("WARN: %v; keeping %d completed locations", err, len(completed))
				interrupted = true
				break
			}
			log.Printf("ERROR: %v", err)
			skipped = append(skipped, loc.Name)
			continue
		}

		cities[loc.Name] = report
		completed = append(completed, report)
		log.Printf("INFO: completed %s", loc.Name)
	}

	summary, err := Summarize(completed, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("assemble summary: %w", err)
	}

	return &Report{
		Metadata: Metadata{
			RunID:            runID,
			Country:          s.opts.Country,
			ReportDate:       started,
			DataSources:      s.opts.DataSources,
			CitiesAnalyzed:   len(cities),
			Interrupted:      interrupted,
			SkippedLocations: skipped,
		},
		CountryLevel: countryLevel,
		Cities:       cities,
		Summary:      summary,
	}, nil
}

// ProcessLocation fetches the payloads of one location and builds its report.
// Provider failures and a malformed historical series degrade to missing blocks;
// any other fetch error, or a panic in a collaborator, is returned wrapped in
// ErrLocationProcessingFailed.
func (s *Service) ProcessLocation(ctx context.Context, loc Location) (report LocationReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: panic: %v", ErrLocationProcessingFailed, loc.Name, r)
		}
	}()

	current, err := s.source.FetchCurrent(ctx, loc)
	if err = s.degrade(ctx, loc, "current weather", err); err != nil {
		return LocationReport{}, err
	}

	raw, err := s.source.FetchHistorical(ctx, loc)
	if err = s.degrade(ctx, loc, "historical weather", err); err != nil {
		return LocationReport{}, err
	}

	var table *Table
	if raw != nil {
		table, err = NewTableFromDaily(raw)
		if err != nil {
			log.Printf("WARN: unusable historical series for %s, omitting derived blocks: %v", loc.Name, err)
			table = nil
		}
	}

	return BuildLocationReport(loc, current, table), nil
}

// degrade classifies a fetch error: nil when the payload may simply be treated
// as missing, ErrInterrupted on cancellation, ErrLocationProcessingFailed otherwise.
func (s *Service) degrade(ctx context.Context, loc Location, what string, err error) error {
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %s during %s: %v", ErrInterrupted, loc.Name, what, ctx.Err())
	case errors.Is(err, ErrProviderUnavailable):
		log.Printf("WARN: no %s data for %s: %v", what, loc.Name, err)
		return nil
	default:
		return fmt.Errorf("%w: %s: %s: %v", ErrLocationProcessingFailed, loc.Name, what, err)
	}
}

func (s *Service) fetchCountryContext(ctx context.Context) map[string]any {
	if s.country == nil {
		return map[string]any{}
	}
	data, err := s.country.FetchCountryContext(ctx)
	if err != nil {
		log.Printf("WARN: country climate data unavailable: %v", err)
		return map[string]any{}
	}
	if data == nil {
		return map[string]any{}
	}
	return data
}
