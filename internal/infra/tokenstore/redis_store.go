package tokenstore

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "storefront:token:"

// RedisStore shares the token between processes through Redis.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

var _ service.TokenStore = (*RedisStore)(nil)

// NewRedisStore stores the token under key. A zero ttl keeps it until cleared.
func NewRedisStore(client *redis.Client, key string, ttl time.Duration, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		key:    redisKeyPrefix + key,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "redis get token failed")
	}

	return token, nil
}

func (s *RedisStore) Save(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set token failed")
	}

	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return errors.Wrap(err, "redis delete token failed")
	}

	return nil
}

func (s *RedisStore) Close() error {
	s.logger.Debug("Closing redis token store")

	return errors.WithStack(s.client.Close())
}
