package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/environmental-data-aggregation/internal/climate"
	"github.com/i474232898/environmental-data-aggregation/internal/store"
)

// EnvReportCacheKey is the cache key of the serialized latest report.
const EnvReportCacheKey = "env-report"

var validate = validator.New()

// ReportReader is the read side of the report store.
type ReportReader interface {
	Latest() (*climate.Report, error)
	GetLatest(name string) (store.LocationSnapshot, error)
	GetRange(name string, from, to time.Time) ([]store.LocationSnapshot, error)
}

// LocationArchive holds the last persisted snapshot of every location. It
// answers reads while no report has been built since startup.
type LocationArchive interface {
	ListLocations(ctx context.Context) ([]store.LocationSnapshot, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. archive and cache
// may be nil.
func RegisterRoutes(app *fiber.App, reports ReportReader, archive LocationArchive, cache store.Cache, cacheTTL time.Duration) {
	v1 := app.Group("/api/v1")

	v1.Get("/env-report", func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		if cache != nil {
			body, ok, err := cache.Get(ctx, EnvReportCacheKey)
			if err != nil {
				log.Printf("WARN: env-report cache read failed: %v", err)
			} else if ok {
				c.Set("X-Cache", "HIT")
				c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
				return c.Send(body)
			}
		}

		report, err := reports.Latest()
		if errors.Is(err, store.ErrNotFound) && archive != nil {
			report, err = restoreReport(ctx, archive)
		}
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no environmental report generated yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load environmental report")
		}

		body, err := json.Marshal(report)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to encode environmental report")
		}
		if cache != nil {
			if err := cache.Set(ctx, EnvReportCacheKey, body, cacheTTL); err != nil {
				log.Printf("WARN: env-report cache write failed: %v", err)
			}
		}

		c.Set("X-Cache", "MISS")
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.Send(body)
	})

	v1.Get("/locations/:name", func(c *fiber.Ctx) error {
		q, err := parseLocationParam(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := reports.GetLatest(q.Name)
		if errors.Is(err, store.ErrNotFound) && archive != nil {
			snapshot, err = findArchived(c.UserContext(), archive, q.Name)
		}
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no report for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch location report")
		}

		return c.JSON(snapshot)
	})

	v1.Get("/locations/:name/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := reports.GetRange(req.Location.Name, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no report history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch report history")
		}

		return c.JSON(fiber.Map{
			"location":  req.Location.Name,
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})
}

// restoreReport rebuilds the city data and summary of a report from the
// archived snapshots. Country-level data is not persisted and stays empty.
func restoreReport(ctx context.Context, archive LocationArchive) (*climate.Report, error) {
	snaps, err := archive.ListLocations(ctx)
	if err != nil {
		log.Printf("ERROR: reading location archive: %v", err)
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, store.ErrNotFound
	}

	report := &climate.Report{
		CountryLevel: climate.CountryLevel{WorldBankClimateData: map[string]any{}},
		Cities:       make(map[string]climate.LocationReport, len(snaps)),
	}
	completed := make([]climate.LocationReport, 0, len(snaps))
	for _, snap := range snaps {
		report.Cities[snap.Report.Name] = snap.Report
		completed = append(completed, snap.Report)
		if snap.Timestamp.After(report.Metadata.ReportDate) {
			report.Metadata.ReportDate = snap.Timestamp
			report.Metadata.RunID = snap.RunID
		}
	}
	report.Metadata.CitiesAnalyzed = len(report.Cities)

	summary, err := climate.Summarize(completed, report.Metadata.ReportDate)
	if err != nil {
		return nil, err
	}
	report.Summary = summary
	return report, nil
}

func findArchived(ctx context.Context, archive LocationArchive, name string) (store.LocationSnapshot, error) {
	snaps, err := archive.ListLocations(ctx)
	if err != nil {
		log.Printf("ERROR: reading location archive: %v", err)
		return store.LocationSnapshot{}, err
	}
	for _, snap := range snaps {
		if snap.Report.Name == name {
			return snap, nil
		}
	}
	return store.LocationSnapshot{}, store.ErrNotFound
}

// CacheInvalidator drops the cached env-report whenever a new report is saved.
type CacheInvalidator struct {
	cache store.Cache
}

func NewCacheInvalidator(cache store.Cache) *CacheInvalidator {
	return &CacheInvalidator{cache: cache}
}

func (i *CacheInvalidator) SaveReport(ctx context.Context, _ *climate.Report) error {
	if i.cache == nil {
		return nil
	}
	return i.cache.Delete(ctx, EnvReportCacheKey)
}

// locationParam identifies a location by name.
type locationParam struct {
	Name string `validate:"required"`
}

func parseLocationParam(c *fiber.Ctx) (locationParam, error) {
	var q locationParam

	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return q, errors.New("invalid location name")
	}
	q.Name = name

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// historyQuery holds parameters for the history endpoint.
type historyQuery struct {
	Location locationParam
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	loc, err := parseLocationParam(c)
	if err != nil {
		return err
	}
	h.Location = loc

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
