package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisStore keeps the set as a redis list, oldest id first.
type RedisStore struct {
	client *redis.Client
	key    string
}

func OpenRedis(ctx context.Context, opts RedisOptions, logger *slog.Logger) (*RedisStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	logger.Debug("redis store connected", slog.String("addr", opts.Addr), slog.String("key", opts.Key))

	return &RedisStore{client: rdb, key: opts.Key}, nil
}

func (s *RedisStore) Load(ctx context.Context) (NotifiedSet, error) {
	ids, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", s.key, err)
	}

	set := make(NotifiedSet, 0, len(ids))
	for _, id := range ids {
		set = set.Add(id)
	}
	return set, nil
}

// Save replaces the list with set atomically.
func (s *RedisStore) Save(ctx context.Context, set NotifiedSet) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(set) > 0 {
			values := make([]any, len(set))
			for i, id := range set {
				values[i] = id
			}
			pipe.RPush(ctx, s.key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
