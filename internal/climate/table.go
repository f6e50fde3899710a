package climate

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DateLayout is the calendar-day format used by the daily providers.
const DateLayout = "2006-01-02"

// DailyRecord is one calendar day of sparse metric values.
type DailyRecord struct {
	Date   time.Time
	values map[Metric]float64
}

// Value returns the metric value for the day and whether it was reported.
func (r DailyRecord) Value(m Metric) (float64, bool) {
	v, ok := r.values[m]
	return v, ok
}

// Point is one dated value of a single metric.
type Point struct {
	Date  time.Time
	Value float64
}

// Group holds the values of one calendar unit (a year or a month).
type Group struct {
	Key    int
	Values []float64
}

// Sum adds up the group's values.
func (g Group) Sum() float64 {
	var s float64
	for _, v := range g.Values {
		s += v
	}
	return s
}

// Mean returns the arithmetic mean of the values, or 0 for an empty group.
func (g Group) Mean() float64 {
	if len(g.Values) == 0 {
		return 0
	}
	return g.Sum() / float64(len(g.Values))
}

// Table is the chronological series of daily records for one location.
// Records are sorted by date ascending and dates are unique.
type Table struct {
	records []DailyRecord
	metrics map[Metric]struct{}
}

// NewTable builds a Table from a shared date axis and per-metric columns aligned
// with it by position. Nil entries are days the provider did not report. A column
// without a single reported value is treated as never supplied.
func NewTable(dates []time.Time, columns map[Metric][]*float64) (*Table, error) {
	for m, col := range columns {
		if len(col) != len(dates) {
			return nil, fmt.Errorf("%w: %s has %d values for %d dates", ErrMisalignedColumn, m, len(col), len(dates))
		}
	}

	metrics := make(map[Metric]struct{})
	records := make([]DailyRecord, len(dates))
	for i, d := range dates {
		rec := DailyRecord{
			Date:   time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
			values: make(map[Metric]float64, len(columns)),
		}
		for m, col := range columns {
			if col[i] == nil || math.IsNaN(*col[i]) {
				continue
			}
			rec.values[m] = *col[i]
			metrics[m] = struct{}{}
		}
		records[i] = rec
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	for i := 1; i < len(records); i++ {
		if records[i].Date.Equal(records[i-1].Date) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDate, records[i].Date.Format(DateLayout))
		}
	}

	return &Table{records: records, metrics: metrics}, nil
}

// NewTableFromDaily parses the date axis of a raw daily payload and builds a Table.
func NewTableFromDaily(h *HistoricalDaily) (*Table, error) {
	dates := make([]time.Time, len(h.Time))
	for i, s := range h.Time {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", s, err)
		}
		dates[i] = d
	}
	return NewTable(dates, h.Columns)
}

// Len returns the number of days in the table.
func (t *Table) Len() int {
	return len(t.records)
}

// Start returns the first date, or the zero time for an empty table.
func (t *Table) Start() time.Time {
	if len(t.records) == 0 {
		return time.Time{}
	}
	return t.records[0].Date
}

// End returns the last date, or the zero time for an empty table.
func (t *Table) End() time.Time {
	if len(t.records) == 0 {
		return time.Time{}
	}
	return t.records[len(t.records)-1].Date
}

// Has reports whether the metric was supplied with at least one value.
func (t *Table) Has(m Metric) bool {
	_, ok := t.metrics[m]
	return ok
}

// Metric returns the reported values of m in date order.
func (t *Table) Metric(m Metric) ([]Point, error) {
	if !t.Has(m) {
		return nil, fmt.Errorf("%w: %s", ErrMissingMetric, m)
	}
	points := make([]Point, 0, len(t.records))
	for _, r := range t.records {
		if v, ok := r.values[m]; ok {
			points = append(points, Point{Date: r.Date, Value: v})
		}
	}
	return points, nil
}

// GroupByYear groups the values of m by the calendar year of each record.
func (t *Table) GroupByYear(m Metric) ([]Group, error) {
	return t.groupBy(m, func(d time.Time) int { return d.Year() })
}

// GroupByMonth groups the values of m by calendar month (1-12) across all years.
func (t *Table) GroupByMonth(m Metric) ([]Group, error) {
	return t.groupBy(m, func(d time.Time) int { return int(d.Month()) })
}

func (t *Table) groupBy(m Metric, key func(time.Time) int) ([]Group, error) {
	points, err := t.Metric(m)
	if err != nil {
		return nil, err
	}

	idx := make(map[int]int)
	var groups []Group
	for _, p := range points {
		k := key(p.Date)
		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Values = append(groups[i].Values, p.Value)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups, nil
}

// Sum adds up the reported values of m. Days without a value are ignored.
func (t *Table) Sum(m Metric) (float64, error) {
	points, err := t.Metric(m)
	if err != nil {
		return 0, err
	}
	var s float64
	for _, p := range points {
		s += p.Value
	}
	return s, nil
}

// Mean averages the reported values of m.
func (t *Table) Mean(m Metric) (float64, error) {
	s, err := t.Sum(m)
	if err != nil {
		return 0, err
	}
	points, _ := t.Metric(m)
	return s / float64(len(points)), nil
}

// Max returns the largest reported value of m.
func (t *Table) Max(m Metric) (float64, error) {
	points, err := t.Metric(m)
	if err != nil {
		return 0, err
	}
	peak := points[0].Value
	for _, p := range points[1:] {
		if p.Value > peak {
			peak = p.Value
		}
	}
	return peak, nil
}
