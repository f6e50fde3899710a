package climate

import "errors"

var (
	// ErrProviderUnavailable is returned by weather sources when the upstream provider
	// could not be reached or answered with an error. The dependent fields are omitted.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrMissingMetric is returned when a metric was never supplied to a Table.
	ErrMissingMetric = errors.New("missing metric")

	// ErrLocationProcessingFailed marks a location that was skipped from the report.
	ErrLocationProcessingFailed = errors.New("location processing failed")

	// ErrInterrupted is recorded when the location loop was stopped by cancellation.
	ErrInterrupted = errors.New("interrupted by user")

	ErrMisalignedColumn = errors.New("metric column does not match date axis")
	ErrDuplicateDate    = errors.New("duplicate date in series")
)
