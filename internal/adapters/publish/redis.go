package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/analysis"
)

const (
	DefaultRedisKey = "rssi:latest"
	DefaultRedisTTL = 30 * time.Second
)

// RedisPublisher keeps the latest summary under a single key. The key expires
// when publications stop, so readers can tell a stalled engine from a live one.
type RedisPublisher struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisPublisher creates a publisher for the server at addr.
func NewRedisPublisher(addr, key string, ttl time.Duration) *RedisPublisher {
	if key == "" {
		key = DefaultRedisKey
	}
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisPublisher{
		client: redis.NewClient(&redis.Options{
			Addr:        addr,
			DialTimeout: 2 * time.Second,
			MaxRetries:  1,
		}),
		key: key,
		ttl: ttl,
	}
}

func (p *RedisPublisher) Name() string { return "redis" }

// Ping checks the server is reachable.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Publish overwrites the key with s.
func (p *RedisPublisher) Publish(ctx context.Context, s analysis.Summary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := p.client.Set(ctx, p.key, data, p.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", p.key, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
