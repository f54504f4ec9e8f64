package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/noah-isme/academy-admin/pkg/errors"
)

// RedisSessionStore keeps one visitor's local values in Redis under session:<visitor>:<key>.
// Every write refreshes the TTL so idle sessions expire on their own.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSessionStore constructs a store scoped to visitorID.
func NewRedisSessionStore(client *redis.Client, visitorID string, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, prefix: SessionKeyPrefix(visitorID), ttl: ttl}
}

// SessionKeyPrefix is the Redis namespace of a visitor.
func SessionKeyPrefix(visitorID string) string {
	return "session:" + visitorID + ":"
}

// Get returns the stored value or appErrors.ErrStoreMiss.
func (s *RedisSessionStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", appErrors.ErrStoreMiss
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key.
func (s *RedisSessionStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
func (s *RedisSessionStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = s.prefix + key
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis delete session keys: %w", err)
	}
	return nil
}

// MemorySessionStore is the in-process store used when Redis is disabled.
type MemorySessionStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySessionStore constructs an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{values: make(map[string]string)}
}

// Get returns the stored value or appErrors.ErrStoreMiss.
func (s *MemorySessionStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return "", appErrors.ErrStoreMiss
	}
	return value, nil
}

// Set stores value under key.
func (s *MemorySessionStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes keys.
func (s *MemorySessionStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}
