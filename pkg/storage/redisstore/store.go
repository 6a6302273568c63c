// Package redisstore keeps the last snapshot as one JSON value in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"metalwatch/config"
	"metalwatch/internal/metals"
	"metalwatch/pkg/storage"

	"github.com/redis/go-redis/v9"
)

const backend = "redis"

type Store struct {
	client *redis.Client
	key    string
}

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func NewStore(client *redis.Client, key string) *Store {
	return &Store{client: client, key: key}
}

func (s *Store) Load(ctx context.Context) (metals.Snapshot, bool, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return metals.Snapshot{}, false, nil
	}
	if err != nil {
		return metals.Snapshot{}, false, &storage.StoreError{Backend: backend, Op: "load", Err: err}
	}

	snap, err := storage.DecodeSnapshot(data)
	if err != nil {
		return metals.Snapshot{}, false, &storage.StoreError{Backend: backend, Op: "load", Err: fmt.Errorf("key %s: %w", s.key, err)}
	}
	return snap, true, nil
}

// Save replaces the value with a single SET, without expiry.
func (s *Store) Save(ctx context.Context, snap metals.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return &storage.StoreError{Backend: backend, Op: "save", Err: err}
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return &storage.StoreError{Backend: backend, Op: "save", Err: err}
	}
	return nil
}
