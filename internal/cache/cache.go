package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps JSON snapshots of catalog list responses.
type Store interface {
	Load(ctx context.Context, key string, dst any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

type redisStore struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisStore(redisClient *redis.Client, ttl time.Duration) Store {
	return &redisStore{
		redisClient: redisClient,
		keyPrefix:   "zse:snapshot:",
		ttl:         ttl,
	}
}

func (s *redisStore) Load(ctx context.Context, key string, dst any) (bool, error) {
	val, err := s.redisClient.Get(ctx, s.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get snapshot %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}

	return true, nil
}

func (s *redisStore) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", key, err)
	}

	if err := s.redisClient.Set(ctx, s.keyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot %s: %w", key, err)
	}
	return nil
}

type noopStore struct{}

// NewNoopStore returns a store that never hits, used when redis is disabled.
func NewNoopStore() Store {
	return noopStore{}
}

func (noopStore) Load(context.Context, string, any) (bool, error) {
	return false, nil
}

func (noopStore) Save(context.Context, string, any) error {
	return nil
}
