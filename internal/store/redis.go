package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/carpay/collect/internal/sequence"
	"github.com/redis/go-redis/v9"
)

const (
	enrollmentKeyPrefix = "carpay:enrollment:"
	enrollmentIndexKey  = "carpay:enrollments"
	timelineKeyPrefix   = "carpay:timeline:"
)

// RedisStore persists enrollments as JSON values and timelines as lists.
// Used when several stub instances need to share one dataset.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) ListEnrollments(ctx context.Context, status sequence.EnrollmentStatus) ([]sequence.Enrollment, error) {
	ids, err := s.client.SMembers(ctx, enrollmentIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("reading enrollment index: %w", err)
	}

	var result []sequence.Enrollment
	for _, id := range ids {
		data, err := s.client.Get(ctx, enrollmentKeyPrefix+id).Result()
		if err == redis.Nil {
			// Index entry without a value; skip rather than fail the list
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading enrollment %s: %w", id, err)
		}
		var e sequence.Enrollment
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, fmt.Errorf("decoding enrollment %s: %w", id, err)
		}
		if e.Status == status {
			result = append(result, e)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *RedisStore) GetEnrollment(ctx context.Context, id string) (*sequence.Enrollment, error) {
	data, err := s.client.Get(ctx, enrollmentKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading enrollment %s: %w", id, err)
	}

	var e sequence.Enrollment
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return nil, fmt.Errorf("decoding enrollment %s: %w", id, err)
	}
	return &e, nil
}

func (s *RedisStore) PutEnrollment(ctx context.Context, e sequence.Enrollment) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding enrollment %s: %w", e.ID, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, enrollmentKeyPrefix+e.ID, data, 0)
	pipe.SAdd(ctx, enrollmentIndexKey, e.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing enrollment %s: %w", e.ID, err)
	}
	return nil
}

func (s *RedisStore) AppendEvent(ctx context.Context, ev sequence.TimelineEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event %s: %w", ev.ID, err)
	}
	if err := s.client.RPush(ctx, timelineKeyPrefix+ev.EnrollmentID, data).Err(); err != nil {
		return fmt.Errorf("appending event %s: %w", ev.ID, err)
	}
	return nil
}

func (s *RedisStore) Timeline(ctx context.Context, enrollmentID string) ([]sequence.TimelineEvent, error) {
	items, err := s.client.LRange(ctx, timelineKeyPrefix+enrollmentID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading timeline %s: %w", enrollmentID, err)
	}

	events := make([]sequence.TimelineEvent, 0, len(items))
	for _, item := range items {
		var ev sequence.TimelineEvent
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			return nil, fmt.Errorf("decoding timeline event: %w", err)
		}
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].OccurredAt < events[j].OccurredAt
	})
	return events, nil
}
