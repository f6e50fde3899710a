package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/environmental-data-aggregation/internal/climate"
)

// Runner produces one report per call.
type Runner interface {
	Run(ctx context.Context, locations []climate.Location) (*climate.Report, error)
}

// Scheduler periodically rebuilds the report for the configured locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	sink      climate.ReportSink
	locations []climate.Location
	interval  time.Duration
	timeout   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Scheduler. timeout bounds a single run; zero means no bound.
func New(locations []climate.Location, interval, timeout time.Duration, runner Runner, sink climate.ReportSink) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: s,
		runner:    runner,
		sink:      sink,
		locations: locations,
		interval:  interval,
		timeout:   timeout,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start schedules the periodic job, runs it once immediately and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Println("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce builds one report and hands it to the sink.
func (s *Scheduler) RunOnce() {
	log.Println("scheduler: running report job")

	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	report, err := s.runner.Run(ctx, s.locations)
	if err != nil {
		log.Printf("scheduler: report job failed: %v", err)
		return
	}
	if err := s.sink.SaveReport(context.Background(), report); err != nil {
		log.Printf("scheduler: saving report %s: %v", report.Metadata.RunID, err)
	}
	log.Printf("scheduler: completed report job (%d locations)", report.Metadata.CitiesAnalyzed)
}

// Stop cancels a running job and stops the scheduler.
func (s *Scheduler) Stop() {
	s.cancel()
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
