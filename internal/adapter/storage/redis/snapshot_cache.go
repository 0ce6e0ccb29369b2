package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// SnapshotCache implements ports.SnapshotCache using Redis. Snapshots are
// stored as JSON blobs and replaced wholesale on repopulation.
type SnapshotCache struct {
	client *goredis.Client
	prefix string
}

// NewSnapshotCache creates a new Redis-backed snapshot cache.
func NewSnapshotCache(client *goredis.Client) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		prefix: "product:detail:",
	}
}

// Get retrieves a cached snapshot. Returns nil, nil if the key does not exist.
func (c *SnapshotCache) Get(ctx context.Context, key string) (*domain.ProductSnapshot, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis snapshot get: %w", err)
	}

	var snap domain.ProductSnapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return nil, fmt.Errorf("redis snapshot decode: %w", err)
	}
	return &snap, nil
}

// Set stores a snapshot with the freshness TTL.
func (c *SnapshotCache) Set(ctx context.Context, key string, snap *domain.ProductSnapshot, ttl time.Duration) error {
	val, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis snapshot encode: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis snapshot set: %w", err)
	}
	return nil
}
