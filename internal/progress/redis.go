package progress

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/tryon-service/internal/domain"
)

const redisKeyPrefix = "tryon:progress:"

// RedisStore shares progress entries across instances. Entries expire after
// the configured TTL so stalled tasks do not accumulate.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Record overwrites the entry for the task id.
func (s *RedisStore) Record(ctx context.Context, entry domain.ProgressEntry) error {
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+entry.TaskID, payload, s.ttl).Err()
}

// Get returns the last-recorded entry or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, taskID string) (*domain.ProgressEntry, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+taskID).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var entry domain.ProgressEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
