package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/environmental-data-aggregation/internal/climate"
)

var validate = validator.New()

// AppConfig holds every runtime setting of the aggregator.
type AppConfig struct {
	// Country-level description and the fixed location list.
	Country        string                 `yaml:"country" validate:"required"`
	CountryCode    string                 `yaml:"country_code" validate:"required,len=3"`
	DataSources    []string               `yaml:"data_sources"`
	ClimateContext climate.ClimateContext `yaml:"climate_context"`
	Locations      []climate.Location     `yaml:"locations" validate:"required,min=1,unique=Name,dive"`

	// Provider settings.
	HTTPTimeout  time.Duration `yaml:"-"`
	CallDelay    time.Duration `yaml:"-"` // pause between consecutive provider calls
	HistoryYears int           `yaml:"-" validate:"gte=2"`
	ForecastURL  string        `yaml:"-"`
	ArchiveURL   string        `yaml:"-"`
	WorldBankURL string        `yaml:"-"`

	// FetchInterval controls how often the whole report is rebuilt when serving.
	FetchInterval time.Duration `yaml:"-"`

	// In-memory report history retention.
	StoreMaxHistory int           `yaml:"-"` // max number of snapshots per location (0 = unlimited)
	StoreMaxAge     time.Duration `yaml:"-"` // max age of snapshots (0 = unlimited)

	ReportOutput string `yaml:"-"`
	Port         string `yaml:"-"`

	// Optional infrastructure; empty values disable the component.
	PostgresDSN string        `yaml:"-"`
	ValkeyAddr  string        `yaml:"-"`
	CacheTTL    time.Duration `yaml:"-"`
	S3          S3Config      `yaml:"-"`
}

// S3Config points at an S3-compatible bucket receiving exported reports.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
}

// Enabled reports whether report upload is configured.
func (s S3Config) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

// Load reads configuration from environment with sensible defaults. The country
// and locations come from LOCATIONS_FILE when set, else from the built-in list.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := defaultConfig()

	if path := os.Getenv("LOCATIONS_FILE"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.CallDelay, err = getenvDuration("PROVIDER_CALL_DELAY", "500ms"); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "1h"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "168h"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", "1h"); err != nil {
		return nil, err
	}

	cfg.HistoryYears = getenvInt("HISTORY_YEARS", 5)
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 168) // a week of hourly runs
	cfg.ForecastURL = os.Getenv("OPENMETEO_FORECAST_URL")
	cfg.ArchiveURL = os.Getenv("OPENMETEO_ARCHIVE_URL")
	cfg.WorldBankURL = os.Getenv("WORLDBANK_CLIMATE_URL")
	cfg.ReportOutput = getenvDefault("REPORT_OUTPUT", "environmental_data_report.json")
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	cfg.ValkeyAddr = os.Getenv("VALKEY_ADDR")
	cfg.S3 = S3Config{
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Bucket:    os.Getenv("S3_BUCKET"),
		Region:    os.Getenv("S3_REGION"),
		Prefix:    getenvDefault("S3_PREFIX", "reports"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the location list and the numeric settings.
func (c *AppConfig) Validate() error {
	for i, loc := range c.Locations {
		if strings.TrimSpace(loc.Name) == "" {
			return fmt.Errorf("location %d has an empty name", i)
		}
	}
	return validate.Struct(c)
}

func hydrateFromFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read locations file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse locations file: %w", err)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
