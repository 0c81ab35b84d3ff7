package redis

import (
	"context"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/superbill/pos-api/pkg/global"
)

func NewClient() *redisclient.Client {
	return redisclient.NewClient(&redisclient.Options{
		Addr:     global.GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
		Password: global.GetEnvOrDefault("REDIS_PASSWORD", ""),
		DB:       0,
		Protocol: 2,
	})
}

// Store wraps the Redis client behind the three session-scoped concerns this
// service keeps in Redis: the vendor identity cell, per-session carts and
// one-shot billing snapshots.
type Store struct {
	client *redisclient.Client
}

func NewStore(client *redisclient.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
