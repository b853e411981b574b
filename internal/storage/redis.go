package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of Redis. Values are stored as JSON
// with an optional TTL (0 means no expiry).
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStore creates a Redis-backed best-effort store.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Load reads and decodes the value under key into dst. Missing keys,
// backend errors, and malformed payloads all yield false; dst is only
// meaningful when Load returns true.
func (s *RedisStore) Load(ctx context.Context, key string, dst any) bool {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WarnContext(ctx, "storage load failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.WarnContext(ctx, "storage value malformed, using default",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false
	}

	return true
}

// Save encodes v and writes it under key. Failures are logged and swallowed.
func (s *RedisStore) Save(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.WarnContext(ctx, "storage value not serializable",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "storage save failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
