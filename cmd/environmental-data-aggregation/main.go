package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/environmental-data-aggregation/internal/api/http"
	"github.com/i474232898/environmental-data-aggregation/internal/climate"
	"github.com/i474232898/environmental-data-aggregation/internal/climate/providers"
	"github.com/i474232898/environmental-data-aggregation/internal/config"
	"github.com/i474232898/environmental-data-aggregation/internal/export"
	"github.com/i474232898/environmental-data-aggregation/internal/scheduler"
	"github.com/i474232898/environmental-data-aggregation/internal/store"
)

func main() {
	once := flag.Bool("once", false, "build a single report, write it to REPORT_OUTPUT and exit")
	flag.Parse()

	// run returns only after its deferred cleanup has happened.
	if err := run(*once); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}

func run(once bool) error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client and pacing for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	pacer := providers.NewPacer(cfg.CallDelay)

	weatherSource := providers.NewOpenMeteoProvider(httpClient, providers.OpenMeteoConfig{
		ForecastURL:  cfg.ForecastURL,
		ArchiveURL:   cfg.ArchiveURL,
		HistoryYears: cfg.HistoryYears,
		Pacer:        pacer,
	})
	countrySource := providers.NewWorldBankProvider(httpClient, cfg.WorldBankURL, cfg.CountryCode, pacer)

	service := climate.NewService(weatherSource, countrySource, climate.Options{
		Country:        cfg.Country,
		DataSources:    cfg.DataSources,
		ClimateContext: cfg.ClimateContext,
	})

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	fileWriter := export.NewFileWriter(cfg.ReportOutput)

	// Destinations whose failure does not fail a run.
	optional := export.NewFanout(export.NamedSink{Name: "memory", Sink: memStore})

	var archive httpapi.LocationArchive
	if cfg.PostgresDSN != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Printf("WARN: environmental log disabled: %v", err)
		} else {
			defer pg.Close()
			optional.Add("postgres", pg)
			archive = pg
		}
	}

	if cfg.S3.Enabled() {
		uploader, err := export.NewObjectUploader(cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix)
		if err != nil {
			log.Printf("WARN: report upload disabled: %v", err)
		} else {
			optional.Add("s3", uploader)
		}
	}

	if once {
		if err := runOnce(ctx, service, cfg.Locations, fileWriter, optional); err != nil {
			return err
		}
		fmt.Printf("Report saved to %s\n", fileWriter.Path())
		return nil
	}

	// Report cache, Valkey when configured.
	var cache store.Cache = store.NewMemoryCache()
	if cfg.ValkeyAddr != "" {
		client, err := store.NewValkeyClient(ctx, cfg.ValkeyAddr)
		if err != nil {
			log.Printf("WARN: valkey unavailable, using in-memory cache: %v", err)
		} else {
			defer client.Close()
			cache = store.NewValkeyCache(client, "environmental")
		}
	}

	sinks := export.NewFanout(
		export.NamedSink{Name: "file", Sink: fileWriter},
		export.NamedSink{Name: "optional", Sink: optional},
		export.NamedSink{Name: "cache", Sink: httpapi.NewCacheInvalidator(cache)},
	)

	// Scheduler that periodically rebuilds the report.
	sched := scheduler.New(cfg.Locations, cfg.FetchInterval, cfg.FetchInterval, service, sinks)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "environmental-data-aggregation",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   "environmental-data-aggregation",
			"country":   cfg.Country,
			"locations": len(cfg.Locations),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, memStore, archive, cache, cfg.CacheTTL)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	return nil
}

// runOnce builds one report and writes it to the report file, then hands it to
// the optional sinks. Only a failed run or a failed file write is an error. An
// interrupted run still saves the partial report.
func runOnce(ctx context.Context, runner scheduler.Runner, locations []climate.Location, file, optional climate.ReportSink) error {
	report, err := runner.Run(ctx, locations)
	if err != nil {
		return fmt.Errorf("report run failed: %w", err)
	}
	if report.Metadata.Interrupted {
		log.Printf("WARN: run %s interrupted after %d locations", report.Metadata.RunID, report.Metadata.CitiesAnalyzed)
	}

	// The run context may already be cancelled; saving uses a fresh one.
	saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := file.SaveReport(saveCtx, report); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}
	if err := optional.SaveReport(saveCtx, report); err != nil {
		log.Printf("WARN: report %s not saved to every destination: %v", report.Metadata.RunID, err)
	}

	log.Printf("INFO: analyzed %d locations, %d skipped", report.Metadata.CitiesAnalyzed, len(report.Metadata.SkippedLocations))
	for _, finding := range report.Summary.KeyFindings {
		log.Printf("INFO: %s", finding)
	}
	return nil
}
