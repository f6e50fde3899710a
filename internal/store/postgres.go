package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/i474232898/environmental-data-aggregation/internal/climate"
)

// PostgresStore keeps the latest environmental log row per location, one JSONB
// column per derived block.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn, pings the server and creates the schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS environmental_log (
			id                 BIGSERIAL PRIMARY KEY,
			city_name          TEXT             UNIQUE NOT NULL,
			lat                DOUBLE PRECISION NOT NULL,
			lon                DOUBLE PRECISION NOT NULL,
			population_ref     BIGINT,
			current_conditions JSONB,
			forecast_summary   JSONB,
			climate_trends     JSONB,
			air_quality        JSONB,
			drought_risk       JSONB,
			historical_summary JSONB,
			run_id             TEXT             NOT NULL,
			last_updated_at    TIMESTAMPTZ      NOT NULL,
			created_at         TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
			updated_at         TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

// SaveReport upserts every location of the report in one transaction.
func (s *PostgresStore) SaveReport(ctx context.Context, report *climate.Report) error {
	if report == nil || len(report.Cities) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for name, r := range report.Cities {
		row, err := encodeRow(r)
		if err != nil {
			return fmt.Errorf("postgres: encode %s: %w", name, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO environmental_log (
				city_name, lat, lon, population_ref,
				current_conditions, forecast_summary, climate_trends,
				air_quality, drought_risk, historical_summary,
				run_id, last_updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (city_name) DO UPDATE SET
				lat = EXCLUDED.lat,
				lon = EXCLUDED.lon,
				population_ref = EXCLUDED.population_ref,
				current_conditions = EXCLUDED.current_conditions,
				forecast_summary = EXCLUDED.forecast_summary,
				climate_trends = EXCLUDED.climate_trends,
				air_quality = EXCLUDED.air_quality,
				drought_risk = EXCLUDED.drought_risk,
				historical_summary = EXCLUDED.historical_summary,
				run_id = EXCLUDED.run_id,
				last_updated_at = EXCLUDED.last_updated_at,
				updated_at = NOW()
		`,
			name, r.Coordinates.Latitude, r.Coordinates.Longitude, int64(r.Population),
			row.current, row.forecast, row.trends,
			row.airQuality, row.drought, row.historical,
			report.Metadata.RunID, report.Metadata.ReportDate,
		)
		if err != nil {
			return fmt.Errorf("postgres: upsert %s: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// ListLocations returns the last stored snapshot of every location, ordered by name.
func (s *PostgresStore) ListLocations(ctx context.Context) ([]LocationSnapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT city_name, lat, lon, population_ref,
		       current_conditions, forecast_summary, climate_trends,
		       air_quality, drought_risk, historical_summary,
		       run_id, last_updated_at
		FROM environmental_log
		ORDER BY city_name
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list: %w", err)
	}
	defer rows.Close()

	var out []LocationSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

type encodedRow struct {
	current, forecast, trends, airQuality, drought, historical []byte
}

func encodeRow(r climate.LocationReport) (encodedRow, error) {
	var (
		row encodedRow
		err error
	)
	if row.current, err = encodeBlock(r.CurrentConditions); err != nil {
		return row, err
	}
	if row.forecast, err = encodeBlock(r.Forecast); err != nil {
		return row, err
	}
	if row.trends, err = encodeBlock(r.ClimateTrends); err != nil {
		return row, err
	}
	if row.airQuality, err = encodeBlock(r.AirQuality); err != nil {
		return row, err
	}
	if row.drought, err = encodeBlock(r.DroughtRisk); err != nil {
		return row, err
	}
	if row.historical, err = encodeBlock(r.HistoricalSummary); err != nil {
		return row, err
	}
	return row, nil
}

func scanSnapshot(rows pgx.Rows) (LocationSnapshot, error) {
	var (
		snap       LocationSnapshot
		population *int64
		row        encodedRow
		err        error
	)
	r := &snap.Report
	if err := rows.Scan(
		&r.Name, &r.Coordinates.Latitude, &r.Coordinates.Longitude, &population,
		&row.current, &row.forecast, &row.trends,
		&row.airQuality, &row.drought, &row.historical,
		&snap.RunID, &snap.Timestamp,
	); err != nil {
		return snap, fmt.Errorf("postgres: scan: %w", err)
	}
	if population != nil {
		r.Population = int(*population)
	}

	if r.CurrentConditions, err = decodeBlock[climate.CurrentConditionsReport](row.current); err != nil {
		return snap, err
	}
	if r.Forecast, err = decodeBlock[climate.ForecastSummary](row.forecast); err != nil {
		return snap, err
	}
	if r.ClimateTrends, err = decodeBlock[climate.ClimateTrend](row.trends); err != nil {
		return snap, err
	}
	if r.AirQuality, err = decodeBlock[climate.AirQualityEstimate](row.airQuality); err != nil {
		return snap, err
	}
	if r.DroughtRisk, err = decodeBlock[climate.DroughtAssessment](row.drought); err != nil {
		return snap, err
	}
	if r.HistoricalSummary, err = decodeBlock[climate.HistoricalSummary](row.historical); err != nil {
		return snap, err
	}
	return snap, nil
}

// encodeBlock marshals an optional block; an absent block is stored as NULL.
func encodeBlock[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func decodeBlock[T any](data []byte) (*T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("postgres: decode block: %w", err)
	}
	return &v, nil
}
