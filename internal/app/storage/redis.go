package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "shortener:links"

type redisBackend struct {
	rdb *redis.Client
	key string
}

type RedisOption func(*redisBackend)

func WithRedisKey(key string) RedisOption {
	return func(s *redisBackend) {
		if k := strings.TrimSpace(key); k != "" {
			s.key = k
		}
	}
}

// NewRedisBackend keeps the record as one string value. SET replaces it in
// a single command. Close closes rdb.
func NewRedisBackend(rdb *redis.Client, opts ...RedisOption) Backend {
	s := &redisBackend{
		rdb: rdb,
		key: defaultRedisKey,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *redisBackend) Read(ctx context.Context) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRecordNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	return data, nil
}

func (s *redisBackend) Replace(ctx context.Context, data []byte) error {
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}

	return nil
}

func (s *redisBackend) Close() error {
	return s.rdb.Close()
}
