package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/carpay/collect/internal/sequence"
)

// MemoryStore keeps all data in RWMutex-guarded maps, with an optional
// JSON snapshot directory so a local stub survives restarts.
type MemoryStore struct {
	mu          sync.RWMutex
	enrollments map[string]sequence.Enrollment
	events      map[string][]sequence.TimelineEvent
	dataDir     string
}

// NewMemoryStore creates a memory store. If dataDir is non-empty, existing
// snapshots are loaded and every write rewrites them.
func NewMemoryStore(dataDir string) (*MemoryStore, error) {
	s := &MemoryStore{
		enrollments: make(map[string]sequence.Enrollment),
		events:      make(map[string][]sequence.TimelineEvent),
		dataDir:     dataDir,
	}
	if dataDir != "" {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
		s.loadFromDisk()
	}
	return s, nil
}

func (s *MemoryStore) ListEnrollments(ctx context.Context, status sequence.EnrollmentStatus) ([]sequence.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []sequence.Enrollment
	for _, e := range s.enrollments {
		if e.Status == status {
			result = append(result, e)
		}
	}
	// RFC 3339 UTC strings order lexicographically; newest first
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *MemoryStore) GetEnrollment(ctx context.Context, id string) (*sequence.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.enrollments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (s *MemoryStore) PutEnrollment(ctx context.Context, e sequence.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enrollments[e.ID] = e
	return s.snapshot()
}

func (s *MemoryStore) AppendEvent(ctx context.Context, ev sequence.TimelineEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[ev.EnrollmentID] = append(s.events[ev.EnrollmentID], ev)
	return s.snapshot()
}

func (s *MemoryStore) Timeline(ctx context.Context, enrollmentID string) ([]sequence.TimelineEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]sequence.TimelineEvent, len(s.events[enrollmentID]))
	copy(events, s.events[enrollmentID])
	sort.Slice(events, func(i, j int) bool {
		return events[i].OccurredAt < events[j].OccurredAt
	})
	return events, nil
}

// snapshot writes the full state to the data dir. Caller holds the lock.
func (s *MemoryStore) snapshot() error {
	if s.dataDir == "" {
		return nil
	}
	if err := s.saveToFile("enrollments.json", s.enrollments); err != nil {
		return err
	}
	return s.saveToFile("events.json", s.events)
}

func (s *MemoryStore) saveToFile(name string, data interface{}) error {
	file, err := os.Create(filepath.Join(s.dataDir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// loadFromDisk restores snapshots. Missing or corrupt files are not fatal;
// the stub just starts empty.
func (s *MemoryStore) loadFromDisk() {
	if data, err := os.ReadFile(filepath.Join(s.dataDir, "enrollments.json")); err == nil {
		json.Unmarshal(data, &s.enrollments)
	}
	if data, err := os.ReadFile(filepath.Join(s.dataDir, "events.json")); err == nil {
		json.Unmarshal(data, &s.events)
	}
}
