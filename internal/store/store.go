// Package store provides the persistence layer behind the stub Carpay
// Collect backend. Enrollments and timeline events are server-owned here;
// timeline events are append-only and never mutated once written.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/carpay/collect/internal/config"
	"github.com/carpay/collect/internal/sequence"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when an enrollment id does not exist.
var ErrNotFound = errors.New("enrollment not found")

// Store is the persistence interface the API handlers depend on.
type Store interface {
	// ListEnrollments returns enrollments in the given status, newest first.
	ListEnrollments(ctx context.Context, status sequence.EnrollmentStatus) ([]sequence.Enrollment, error)
	// GetEnrollment returns one enrollment or ErrNotFound.
	GetEnrollment(ctx context.Context, id string) (*sequence.Enrollment, error)
	// PutEnrollment inserts or replaces an enrollment.
	PutEnrollment(ctx context.Context, e sequence.Enrollment) error
	// AppendEvent appends one timeline event to its enrollment's history.
	AppendEvent(ctx context.Context, ev sequence.TimelineEvent) error
	// Timeline returns an enrollment's events ordered by occurrence time.
	Timeline(ctx context.Context, enrollmentID string) ([]sequence.TimelineEvent, error)
}

// New creates a Store from configuration: "memory" (default) or "redis".
func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(cfg.DataDir)
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		return NewRedisStore(redis.NewClient(opts)), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
