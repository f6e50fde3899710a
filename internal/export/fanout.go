package export

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/i474232898/environmental-data-aggregation/internal/climate"
)

// NamedSink labels a sink for logging.
type NamedSink struct {
	Name string
	Sink climate.ReportSink
}

// Fanout saves a report to every sink. A failing sink does not prevent the
// others from receiving the report; all failures are returned joined.
type Fanout struct {
	sinks []NamedSink
}

func NewFanout(sinks ...NamedSink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Add(name string, sink climate.ReportSink) {
	f.sinks = append(f.sinks, NamedSink{Name: name, Sink: sink})
}

func (f *Fanout) SaveReport(ctx context.Context, report *climate.Report) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Sink.SaveReport(ctx, report); err != nil {
			log.Printf("ERROR: saving report %s to %s: %v", report.Metadata.RunID, s.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		log.Printf("INFO: report %s saved to %s", report.Metadata.RunID, s.Name)
	}
	return errors.Join(errs...)
}
