package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/i474232898/environmental-data-aggregation/internal/climate"
)

var (
	// ErrNotFound is returned when no report data is available.
	ErrNotFound = errors.New("no report data")
)

// LocationSnapshot is one location report captured by a run.
type LocationSnapshot struct {
	RunID     string                 `json:"run_id"`
	Timestamp time.Time              `json:"timestamp"`
	Report    climate.LocationReport `json:"report"`
}

// SnapshotHistory holds a time-ordered list of snapshots for a location.
type SnapshotHistory struct {
	Snapshots []LocationSnapshot
}

// MemoryStore is a concurrency-safe in-memory history of generated reports.
type MemoryStore struct {
	mu sync.RWMutex

	latest *climate.Report

	// key: location name, value: history
	data map[string]*SnapshotHistory

	// retention configuration
	maxHistory int           // max number of snapshots per location
	maxAge     time.Duration // optional max age for snapshots

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*SnapshotHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveReport records the report as the latest one and appends every location
// report to its history, enforcing retention.
func (s *MemoryStore) SaveReport(_ context.Context, report *climate.Report) error {
	if report == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = report
	for name, r := range report.Cities {
		history, ok := s.data[name]
		if !ok {
			history = &SnapshotHistory{}
			s.data[name] = history
		}
		history.Snapshots = append(history.Snapshots, LocationSnapshot{
			RunID:     report.Metadata.RunID,
			Timestamp: report.Metadata.ReportDate,
			Report:    r,
		})
		s.enforceRetention(history)
	}
	return nil
}

func (s *MemoryStore) enforceRetention(history *SnapshotHistory) {
	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Snapshots) > s.maxHistory {
		over := len(history.Snapshots) - s.maxHistory
		history.Snapshots = history.Snapshots[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Snapshots); i++ {
			if !history.Snapshots[i].Timestamp.Before(cutoff) {
				break
			}
		}
		history.Snapshots = history.Snapshots[i:]
	}
}

// Latest returns the most recent full report.
func (s *MemoryStore) Latest() (*climate.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, ErrNotFound
	}
	return s.latest, nil
}

// GetLatest returns the most recent snapshot for a location.
func (s *MemoryStore) GetLatest(name string) (LocationSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[name]
	if !ok || len(history.Snapshots) == 0 {
		return LocationSnapshot{}, ErrNotFound
	}
	return history.Snapshots[len(history.Snapshots)-1], nil
}

// GetRange returns all snapshots for a location between from and to (inclusive).
func (s *MemoryStore) GetRange(name string, from, to time.Time) ([]LocationSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[name]
	if !ok || len(history.Snapshots) == 0 {
		return nil, ErrNotFound
	}

	var result []LocationSnapshot
	for _, snap := range history.Snapshots {
		if !snap.Timestamp.Before(from) && !snap.Timestamp.After(to) {
			result = append(result, snap)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
